package desk

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/AlexZinkM/otc-desk/internal/client"
	"github.com/AlexZinkM/otc-desk/internal/model"
	"github.com/AlexZinkM/otc-desk/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Unix(1_800_000_000, 0)

type fakeOrchestrator struct {
	mu     sync.Mutex
	calls  int
	token  string
	req    model.OrchestrationRequest
	result *model.OrchestrationResult
	err    error
}

func (f *fakeOrchestrator) StartOrchestration(_ context.Context, token string, req model.OrchestrationRequest) (*model.OrchestrationResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.token = token
	f.req = req
	return f.result, f.err
}

func liveStore(t *testing.T) *session.Store {
	t.Helper()
	store := session.NewStore(session.NewMemoryBackend(), nil)
	require.NoError(t, store.Save(model.WalletSession{
		AccessToken:   "tok-1",
		WalletAddress: "0xabc",
		Role:          model.RoleDealer,
		ExpiresAt:     now.Add(time.Hour).Unix(),
	}))
	return store
}

func parties() (Party, Party) {
	a := Party{
		Intent:         model.BuiltIntent{EncryptedPayload: "p-a", Nonce: "n-a"},
		CounterpartyID: "A",
		Country:        "US",
	}
	b := Party{
		Intent:         model.BuiltIntent{EncryptedPayload: "p-b", Nonce: "n-b"},
		CounterpartyID: "B",
		WalletAddress:  "0xbbb",
	}
	return a, b
}

func clock() SubmitterOption { return WithSubmitterClock(func() time.Time { return now }) }

func TestSubmitWithoutSessionMakesNoCall(t *testing.T) {
	orch := &fakeOrchestrator{}
	s := NewSubmitter(orch, session.NewStore(session.NewMemoryBackend(), nil), clock())

	a, b := parties()
	_, err := s.Submit(context.Background(), a, b)
	require.ErrorIs(t, err, ErrNoSession)
	assert.Zero(t, orch.calls)
}

func TestSubmitWithExpiredSessionClearsAndMakesNoCall(t *testing.T) {
	store := session.NewStore(session.NewMemoryBackend(), nil)
	require.NoError(t, store.Save(model.WalletSession{AccessToken: "old", ExpiresAt: now.Unix()}))
	orch := &fakeOrchestrator{}
	s := NewSubmitter(orch, store, clock())

	a, b := parties()
	_, err := s.Submit(context.Background(), a, b)
	require.ErrorIs(t, err, ErrNoSession)
	assert.Zero(t, orch.calls)

	_, ok := store.Load()
	assert.False(t, ok)
}

func TestSubmitBuildsSettlementRequest(t *testing.T) {
	want := &model.OrchestrationResult{Accepted: true, WorkflowRunID: "run-1"}
	orch := &fakeOrchestrator{result: want}
	s := NewSubmitter(orch, liveStore(t), clock())

	a, b := parties()
	got, err := s.Submit(context.Background(), a, b)
	require.NoError(t, err)
	assert.Same(t, want, got)

	assert.Equal(t, "tok-1", orch.token)
	assert.Equal(t, model.ProofTypeSettlement, orch.req.ProofType)
	require.Len(t, orch.req.Intents, 2)
	assert.Equal(t, "p-a", orch.req.Intents[0].EncryptedPayload)
	assert.Equal(t, "p-b", orch.req.Intents[1].EncryptedPayload)

	require.Len(t, orch.req.Subjects, 2)
	left := orch.req.Subjects[0].Counterparty
	assert.Equal(t, "A", left.CounterpartyID)
	require.NotNil(t, left.Country)
	assert.Equal(t, "US", *left.Country)
	assert.Nil(t, left.WalletAddress)

	right := orch.req.Subjects[1].Counterparty
	assert.Equal(t, "B", right.CounterpartyID)
	assert.Nil(t, right.Country)
	require.NotNil(t, right.WalletAddress)
	assert.Equal(t, "0xbbb", *right.WalletAddress)
}

func TestSubmitWrapsBackendErrors(t *testing.T) {
	orch := &fakeOrchestrator{err: &client.RejectionError{Code: "POLICY_BLOCKED", Reason: "sanctioned"}}
	s := NewSubmitter(orch, liveStore(t), clock())

	a, b := parties()
	_, err := s.Submit(context.Background(), a, b)
	require.Error(t, err)
	re, ok := client.AsRejection(err)
	require.True(t, ok)
	assert.Equal(t, "POLICY_BLOCKED", re.Code)

	orch.err = &client.TransportError{Op: "orchestration", Err: errors.New("connection refused")}
	_, err = s.Submit(context.Background(), a, b)
	assert.True(t, client.IsTransportError(err))
}

func TestSubmitCooldown(t *testing.T) {
	orch := &fakeOrchestrator{result: &model.OrchestrationResult{Accepted: true}}
	s := NewSubmitter(orch, liveStore(t), clock(), WithCooldown(time.Hour))

	a, b := parties()
	_, err := s.Submit(context.Background(), a, b)
	require.NoError(t, err)

	_, err = s.Submit(context.Background(), a, b)
	require.ErrorIs(t, err, ErrCooldown)
	assert.Equal(t, 1, orch.calls)
}

func TestSubmitWithoutCooldown(t *testing.T) {
	orch := &fakeOrchestrator{result: &model.OrchestrationResult{Accepted: true}}
	s := NewSubmitter(orch, liveStore(t), clock(), WithCooldown(0))

	a, b := parties()
	for i := 0; i < 3; i++ {
		_, err := s.Submit(context.Background(), a, b)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, orch.calls)
}
