// Package auth implements the wallet challenge-response login and role gating.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/AlexZinkM/otc-desk/internal/client"
	"github.com/AlexZinkM/otc-desk/internal/model"
)

var (
	// ErrUnsupportedRole is returned when the backend reports a role the desk does not know
	ErrUnsupportedRole = errors.New("unsupported role from backend")
	// ErrSuperseded is returned when a logout or newer attempt overtook an in-flight one
	ErrSuperseded = errors.New("auth attempt superseded")
)

// State is the login state of the desk
type State int

const (
	StateAnonymous State = iota
	StateVerifying
	StateAuthenticated
	StateError
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateVerifying:
		return "verifying"
	case StateAuthenticated:
		return "authenticated"
	case StateError:
		return "error"
	}
	return "unknown"
}

// Backend is the part of the backend API the login flow needs
type Backend interface {
	RequestNonce(ctx context.Context, address string) (*model.NonceResponse, error)
	VerifySignature(ctx context.Context, address, signature string) (*model.VerifyResponse, error)
	Me(ctx context.Context, accessToken string) (*model.MeResponse, error)
}

// SessionStore is the persisted session slot
type SessionStore interface {
	Save(model.WalletSession) error
	Load() (model.WalletSession, bool)
	Clear() error
}

// Login describes the authenticated wallet
type Login struct {
	WalletAddress string
	Role          model.Role
	Panels        model.RolePanels
	ExpiresAt     int64
}

// Snapshot is a point-in-time copy of the flow state
type Snapshot struct {
	State State
	Login *Login
	Err   error
}

// Flow drives nonce -> sign -> verify and session restore. Every attempt
// takes a generation number; results of an attempt overtaken by Logout or a
// newer attempt are dropped.
type Flow struct {
	backend Backend
	store   SessionStore
	now     func() time.Time
	logger  *slog.Logger

	mu    sync.Mutex
	gen   uint64
	state State
	login *Login
	err   error
}

// FlowOption configures a Flow
type FlowOption func(*Flow)

// WithNow overrides the clock used for expiry checks
func WithNow(now func() time.Time) FlowOption {
	return func(f *Flow) { f.now = now }
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) FlowOption {
	return func(f *Flow) { f.logger = l }
}

// NewFlow creates a login flow in the Anonymous state
func NewFlow(backend Backend, store SessionStore, opts ...FlowOption) *Flow {
	f := &Flow{
		backend: backend,
		store:   store,
		now:     time.Now,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Snapshot returns the current state
func (f *Flow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap := Snapshot{State: f.state, Err: f.err}
	if f.login != nil {
		l := *f.login
		snap.Login = &l
	}
	return snap
}

// Restore revalidates the stored session. It returns (nil, nil) when there
// is nothing to restore. Expired sessions are cleared without a network call.
func (f *Flow) Restore(ctx context.Context) (*Login, error) {
	sess, ok := f.store.Load()
	if !ok {
		f.reset()
		return nil, nil
	}
	if sess.Expired(f.now()) {
		f.logger.Info("stored session expired", "wallet", sess.WalletAddress, "expires_at", sess.ExpiresAt)
		if err := f.clearAndReset(); err != nil {
			return nil, err
		}
		return nil, nil
	}

	gen := f.begin()
	me, err := f.backend.Me(ctx, sess.AccessToken)
	if err != nil {
		// a refused token is dead; a transport failure says nothing about it
		_, rejected := client.AsRejection(err)
		return nil, f.fail(gen, rejected, fmt.Errorf("restore session: %w", err))
	}

	role, ok := NormalizeRole(me.Role)
	if !ok {
		return nil, f.fail(gen, true, fmt.Errorf("%w: %q", ErrUnsupportedRole, me.Role))
	}

	refreshed := model.WalletSession{
		AccessToken:   sess.AccessToken,
		WalletAddress: sess.WalletAddress,
		Role:          role,
		ExpiresAt:     sess.ExpiresAt,
	}
	if me.WalletAddress != "" {
		refreshed.WalletAddress = me.WalletAddress
	}
	return f.succeed(gen, refreshed)
}

// Verify logs address in by signing the backend challenge with signer.
// Any previous session is dropped when the attempt starts.
func (f *Flow) Verify(ctx context.Context, address string, signer Signer) (*Login, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, errors.New("wallet address is required")
	}
	if signer == nil {
		return nil, errors.New("wallet signer is required")
	}

	gen := f.begin()
	if err := f.store.Clear(); err != nil {
		return nil, f.fail(gen, false, err)
	}

	nonce, err := f.backend.RequestNonce(ctx, address)
	if err != nil {
		return nil, f.fail(gen, false, err)
	}

	signature, err := signer.SignMessage(ctx, nonce.Message)
	if err != nil {
		if !errors.Is(err, ErrSignatureDeclined) {
			err = fmt.Errorf("sign challenge: %w", err)
		}
		return nil, f.fail(gen, false, err)
	}

	verified, err := f.backend.VerifySignature(ctx, address, signature)
	if err != nil {
		return nil, f.fail(gen, false, err)
	}

	role, ok := NormalizeRole(verified.Role)
	if !ok {
		return nil, f.fail(gen, false, fmt.Errorf("%w: %q", ErrUnsupportedRole, verified.Role))
	}

	sess := model.WalletSession{
		AccessToken:   verified.AccessToken,
		WalletAddress: verified.WalletAddress,
		Role:          role,
		ExpiresAt:     verified.ExpiresAt,
	}
	if sess.WalletAddress == "" {
		sess.WalletAddress = address
	}
	return f.succeed(gen, sess)
}

// Logout clears the session from any state and drops in-flight attempts
func (f *Flow) Logout() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gen++
	f.state = StateAnonymous
	f.login = nil
	f.err = nil
	if err := f.store.Clear(); err != nil {
		return err
	}
	return nil
}

// EnsureAddress logs out when the authenticated wallet differs from the
// connected one. It reports whether a logout happened.
func (f *Flow) EnsureAddress(address string) (bool, error) {
	f.mu.Lock()
	stale := f.state == StateAuthenticated && f.login != nil &&
		!strings.EqualFold(f.login.WalletAddress, strings.TrimSpace(address))
	f.mu.Unlock()
	if !stale {
		return false, nil
	}
	f.logger.Info("connected wallet changed, dropping session", "wallet", address)
	return true, f.Logout()
}

func (f *Flow) begin() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gen++
	f.state = StateVerifying
	f.login = nil
	f.err = nil
	return f.gen
}

func (f *Flow) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = StateAnonymous
	f.login = nil
	f.err = nil
}

func (f *Flow) clearAndReset() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gen++
	f.state = StateAnonymous
	f.login = nil
	f.err = nil
	return f.store.Clear()
}

// fail moves to Error when gen is still current, optionally clearing the
// stored session first.
func (f *Flow) fail(gen uint64, clearSession bool, err error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.gen {
		return ErrSuperseded
	}
	if clearSession {
		if cerr := f.store.Clear(); cerr != nil {
			f.logger.Error("failed to clear session", "error", cerr)
		}
	}
	f.state = StateError
	f.login = nil
	f.err = err
	f.logger.Warn("wallet auth failed", "error", err)
	return err
}

func (f *Flow) succeed(gen uint64, sess model.WalletSession) (*Login, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.gen {
		return nil, ErrSuperseded
	}
	if err := f.store.Save(sess); err != nil {
		f.state = StateError
		f.err = err
		return nil, err
	}
	login := &Login{
		WalletAddress: sess.WalletAddress,
		Role:          sess.Role,
		Panels:        PanelsFor(sess.Role),
		ExpiresAt:     sess.ExpiresAt,
	}
	f.state = StateAuthenticated
	f.login = login
	f.err = nil
	f.logger.Info("wallet authenticated", "wallet", sess.WalletAddress, "role", sess.Role)
	out := *login
	return &out, nil
}
