// Package session keeps the single persisted wallet session of the desk.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/AlexZinkM/otc-desk/internal/model"
)

// Key is the fixed namespace the session record lives under
const Key = "zkclear.wallet.session"

// ErrNotFound is returned by backends for missing keys
var ErrNotFound = errors.New("session: not found")

// Backend is a key-value persistence backend
type Backend interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

// Store persists one WalletSession. A Store without a backend holds nothing:
// Load reports no session and Save/Clear do nothing.
type Store struct {
	backend Backend
	logger  *slog.Logger
}

// NewStore creates a session store over backend (may be nil)
func NewStore(backend Backend, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{backend: backend, logger: logger}
}

// Save replaces the stored session
func (s *Store) Save(sess model.WalletSession) error {
	if s == nil || s.backend == nil {
		return nil
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.backend.Set(Key, data); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Load returns the stored session. Missing, unreadable and malformed
// records all read as no session.
func (s *Store) Load() (model.WalletSession, bool) {
	if s == nil || s.backend == nil {
		return model.WalletSession{}, false
	}
	data, err := s.backend.Get(Key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn("session load failed", "error", err)
		}
		return model.WalletSession{}, false
	}

	var sess model.WalletSession
	if err := json.Unmarshal(data, &sess); err != nil {
		s.logger.Warn("stored session is malformed", "error", err)
		return model.WalletSession{}, false
	}
	return sess, true
}

// Clear removes the stored session
func (s *Store) Clear() error {
	if s == nil || s.backend == nil {
		return nil
	}
	if err := s.backend.Delete(Key); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
