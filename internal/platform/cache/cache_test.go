package cache

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"hrdash/internal/platform/crypto"
)

func newStore(t *testing.T, passphrase string) *Store {
	t.Helper()
	svc, err := crypto.New(passphrase)
	if err != nil {
		t.Fatalf("crypto setup failed: %v", err)
	}
	store, err := New(t.TempDir(), svc)
	if err != nil {
		t.Fatalf("cache setup failed: %v", err)
	}
	return store
}

func TestPutGetRoundTrip(t *testing.T) {
	store := newStore(t, "")

	if err := store.Put("session", []byte(`{"role":"hr"}`)); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	value, ok, err := store.Get("session")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !ok {
		t.Fatal("expected entry to exist")
	}
	if !bytes.Equal(value, []byte(`{"role":"hr"}`)) {
		t.Fatalf("unexpected value: %q", value)
	}
}

func TestGetMissingKey(t *testing.T) {
	store := newStore(t, "")

	_, ok, err := store.Get("absent")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("missing key must report !ok, not an error")
	}
}

func TestNamespacedKeysDoNotCollide(t *testing.T) {
	store := newStore(t, "")

	if err := store.Put("profile/EMP-1/employee", []byte("a")); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if err := store.Put("profile/EMP-1/manager", []byte("b")); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	value, _, err := store.Get("profile/EMP-1/employee")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(value) != "a" {
		t.Fatalf("role-namespaced entries collided: %q", value)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	store := newStore(t, "")

	if err := store.Put("session", []byte("x")); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if err := store.Delete("session"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := store.Delete("session"); err != nil {
		t.Fatalf("second delete must be a no-op: %v", err)
	}
	if _, ok, _ := store.Get("session"); ok {
		t.Fatal("entry should be gone")
	}
}

func TestValuesEncryptedAtRest(t *testing.T) {
	svc, err := crypto.New("device-passphrase")
	if err != nil {
		t.Fatalf("crypto setup failed: %v", err)
	}
	dir := t.TempDir()
	store, err := New(dir, svc)
	if err != nil {
		t.Fatalf("cache setup failed: %v", err)
	}

	secret := []byte("bank-account-42")
	if err := store.Put("profile/EMP-1/employee", secret); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir failed: %v", err)
	}
	for _, entry := range entries {
		raw, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			t.Fatalf("read file failed: %v", err)
		}
		if bytes.Contains(raw, secret) {
			t.Fatal("plaintext leaked to disk")
		}
	}

	value, _, err := store.Get("profile/EMP-1/employee")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !bytes.Equal(value, secret) {
		t.Fatalf("round trip mismatch: %q", value)
	}
}
