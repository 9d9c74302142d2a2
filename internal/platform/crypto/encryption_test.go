package crypto

import (
	"bytes"
	"testing"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	svc, err := New("local-device-passphrase")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !svc.Configured() {
		t.Fatal("service should be configured with a passphrase")
	}

	plain := []byte(`{"role":"employee"}`)
	sealed, err := svc.Encrypt(plain)
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	if bytes.Equal(sealed, plain) {
		t.Fatal("ciphertext should differ from plaintext")
	}

	opened, err := svc.Decrypt(sealed)
	if err != nil {
		t.Fatalf("decrypt failed: %v", err)
	}
	if !bytes.Equal(opened, plain) {
		t.Fatalf("round trip mismatch: %q", opened)
	}
}

func TestDeriveKeyDeterministic(t *testing.T) {
	a, err := deriveKey("same-passphrase")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := deriveKey("same-passphrase")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatal("derivation must be deterministic for a fixed passphrase")
	}

	c, err := deriveKey("other-passphrase")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bytes.Equal(a, c) {
		t.Fatal("different passphrases must derive different keys")
	}
}

func TestUnconfiguredPassThrough(t *testing.T) {
	svc, err := New("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.Configured() {
		t.Fatal("empty passphrase should leave service unconfigured")
	}

	plain := []byte("plain")
	sealed, err := svc.Encrypt(plain)
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	if !bytes.Equal(sealed, plain) {
		t.Fatal("unconfigured service must pass data through")
	}
}

func TestDecryptShortCiphertext(t *testing.T) {
	svc, err := New("key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Decrypt([]byte{0x01}); err == nil {
		t.Fatal("expected error for truncated ciphertext")
	}
}
