package session

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/AlexZinkM/otc-desk/internal/crypto"
)

// SealedBackend encrypts values at rest with a passphrase-derived key.
// Values that cannot be opened read as ErrNotFound.
//
// Key derivation is expensive, so the last sealed record seen per key is
// remembered with its plaintext. A Get whose stored bytes match that record
// skips the derivation.
type SealedBackend struct {
	inner      Backend
	passphrase []byte
	params     crypto.SealParams
	logger     *slog.Logger

	open func(sealed, passphrase []byte) ([]byte, error)

	mu     sync.Mutex
	opened map[string]openedRecord
}

type openedRecord struct {
	sealed []byte
	plain  []byte
}

// NewSealedBackend wraps inner. The passphrase is copied; callers should
// zero their own slice.
func NewSealedBackend(inner Backend, passphrase []byte, params crypto.SealParams, logger *slog.Logger) *SealedBackend {
	if logger == nil {
		logger = slog.Default()
	}
	return &SealedBackend{
		inner:      inner,
		passphrase: append([]byte(nil), passphrase...),
		params:     params,
		logger:     logger,
		open:       crypto.Open,
		opened:     make(map[string]openedRecord),
	}
}

func (s *SealedBackend) Get(key string) ([]byte, error) {
	sealed, err := s.inner.Get(key)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.opened[key]; ok && bytes.Equal(rec.sealed, sealed) {
		return bytes.Clone(rec.plain), nil
	}

	plain, err := s.open(sealed, s.passphrase)
	if err != nil {
		delete(s.opened, key)
		if errors.Is(err, crypto.ErrInvalidPassphrase) {
			s.logger.Warn("sealed session cannot be opened with this passphrase", "key", key)
		} else {
			s.logger.Warn("sealed session is unreadable", "key", key, "error", err)
		}
		return nil, ErrNotFound
	}
	s.opened[key] = openedRecord{sealed: bytes.Clone(sealed), plain: bytes.Clone(plain)}
	return plain, nil
}

func (s *SealedBackend) Set(key string, value []byte) error {
	sealed, err := crypto.Seal(value, s.passphrase, s.params)
	if err != nil {
		return fmt.Errorf("failed to seal value: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.inner.Set(key, sealed); err != nil {
		delete(s.opened, key)
		return err
	}
	s.opened[key] = openedRecord{sealed: sealed, plain: bytes.Clone(value)}
	return nil
}

func (s *SealedBackend) Delete(key string) error {
	s.mu.Lock()
	delete(s.opened, key)
	s.mu.Unlock()
	return s.inner.Delete(key)
}

// Wipe zeroes the passphrase and every cached plaintext held by the backend
func (s *SealedBackend) Wipe() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.passphrase)
	for key, rec := range s.opened {
		clear(rec.plain)
		delete(s.opened, key)
	}
}
