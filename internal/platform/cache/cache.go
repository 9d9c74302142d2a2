// Package cache is the device-local persisted key-value store. It is the
// fast-read source of truth for the session, completion flags, cached
// profile records and the action store blob. Entries survive restarts but
// are never shared across devices.
package cache

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"hrdash/internal/platform/crypto"
)

// ErrPersist marks a failed cache write. Local-first guarantees depend on
// cache writes succeeding, so callers treat this as fatal to the operation.
var ErrPersist = errors.New("device cache write failed")

type Store struct {
	dir    string
	crypto *crypto.Service
}

func New(dir string, cryptoSvc *crypto.Service) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create cache dir %s: %w", dir, err)
	}
	return &Store{dir: dir, crypto: cryptoSvc}, nil
}

func (s *Store) Get(key string) ([]byte, bool, error) {
	raw, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read cache entry %s: %w", key, err)
	}
	plain, err := s.crypto.Decrypt(raw)
	if err != nil {
		return nil, false, fmt.Errorf("decrypt cache entry %s: %w", key, err)
	}
	return plain, true, nil
}

// Put writes atomically: the entry is staged to a temp file and renamed so
// a crash mid-write never leaves a torn value behind.
func (s *Store) Put(key string, value []byte) error {
	sealed, err := s.crypto.Encrypt(value)
	if err != nil {
		return fmt.Errorf("%w: encrypt %s: %v", ErrPersist, key, err)
	}

	target := s.path(key)
	tmp, err := os.CreateTemp(s.dir, ".put-*")
	if err != nil {
		return fmt.Errorf("%w: stage %s: %v", ErrPersist, key, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(sealed); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: write %s: %v", ErrPersist, key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: close %s: %v", ErrPersist, key, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: commit %s: %v", ErrPersist, key, err)
	}
	return nil
}

func (s *Store) Delete(key string) error {
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete cache entry %s: %w", key, err)
	}
	return nil
}

// path flattens namespaced keys ("profile/subj/role") into one escaped
// filename per entry.
func (s *Store) path(key string) string {
	escaped := url.PathEscape(strings.ReplaceAll(key, "/", "::"))
	return filepath.Join(s.dir, escaped+".bin")
}
