// Package desk submits paired OTC intents to the orchestration backend and
// hands admitted proof jobs to the tracker.
package desk

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/AlexZinkM/otc-desk/internal/model"
)

var (
	// ErrNoSession is returned when no live wallet session is stored
	ErrNoSession = errors.New("wallet session required for dealer submission")
	// ErrCooldown is returned when a submission arrives inside the cooldown window
	ErrCooldown = errors.New("submission cooldown in effect")
)

// Orchestrator starts an OTC orchestration on the backend
type Orchestrator interface {
	StartOrchestration(ctx context.Context, accessToken string, req model.OrchestrationRequest) (*model.OrchestrationResult, error)
}

// SessionStore is the stored wallet session the submitter authenticates with
type SessionStore interface {
	Load() (model.WalletSession, bool)
	Clear() error
}

// Party is one side of an orchestration
type Party struct {
	Intent         model.BuiltIntent
	CounterpartyID string
	Country        string
	WalletAddress  string
}

func (p Party) subject() model.Subject {
	return model.Subject{Counterparty: model.Counterparty{
		CounterpartyID: p.CounterpartyID,
		Country:        optional(p.Country),
		WalletAddress:  optional(p.WalletAddress),
	}}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Submitter sends session-authenticated orchestration requests
type Submitter struct {
	backend Orchestrator
	store   SessionStore
	limiter *rate.Limiter
	now     func() time.Time
	logger  *slog.Logger
}

// SubmitterOption configures a Submitter
type SubmitterOption func(*Submitter)

// WithCooldown allows one submission per window. Zero disables it.
func WithCooldown(window time.Duration) SubmitterOption {
	return func(s *Submitter) {
		if window > 0 {
			s.limiter = rate.NewLimiter(rate.Every(window), 1)
		}
	}
}

// WithSubmitterClock overrides the clock used for session expiry
func WithSubmitterClock(now func() time.Time) SubmitterOption {
	return func(s *Submitter) { s.now = now }
}

// WithSubmitterLogger sets the logger
func WithSubmitterLogger(l *slog.Logger) SubmitterOption {
	return func(s *Submitter) { s.logger = l }
}

// NewSubmitter creates a submitter
func NewSubmitter(backend Orchestrator, store SessionStore, opts ...SubmitterOption) *Submitter {
	s := &Submitter{
		backend: backend,
		store:   store,
		now:     time.Now,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit sends both parties as one orchestration with proof type settlement.
// An accepted result is returned untouched; a refused one comes back as a
// *client.RejectionError carrying the result.
func (s *Submitter) Submit(ctx context.Context, a, b Party) (*model.OrchestrationResult, error) {
	sess, ok := s.store.Load()
	if !ok {
		return nil, ErrNoSession
	}
	if sess.Expired(s.now()) {
		if err := s.store.Clear(); err != nil {
			s.logger.Warn("failed to clear expired session", "error", err)
		}
		return nil, ErrNoSession
	}
	if s.limiter != nil && !s.limiter.Allow() {
		return nil, ErrCooldown
	}

	req := model.OrchestrationRequest{
		Intents:   []model.BuiltIntent{a.Intent, b.Intent},
		Subjects:  []model.Subject{a.subject(), b.subject()},
		ProofType: model.ProofTypeSettlement,
	}
	result, err := s.backend.StartOrchestration(ctx, sess.AccessToken, req)
	if err != nil {
		return nil, fmt.Errorf("submit orchestration: %w", err)
	}

	s.logger.Info("orchestration accepted",
		"workflow_run_id", result.WorkflowRunID,
		"counterparties", []string{a.CounterpartyID, b.CounterpartyID})
	return result, nil
}
