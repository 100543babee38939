package desk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/AlexZinkM/otc-desk/internal/client"
	"github.com/AlexZinkM/otc-desk/internal/crypto"
	"github.com/AlexZinkM/otc-desk/internal/model"
	"github.com/AlexZinkM/otc-desk/internal/tracker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func order(counterparty string, side model.Side) model.PartyOrder {
	return model.PartyOrder{
		Intent: model.PlainIntent{
			Side:               side,
			AssetPair:          "ETH/USDC",
			Amount:             "100000",
			LimitPrice:         "2800",
			SettlementCurrency: "USDC",
			CounterpartyID:     counterparty,
		},
		Country: "US",
	}
}

func intentKey() []byte {
	key := make([]byte, crypto.IntentKeyLen)
	for i := range key {
		key[i] = byte(i)
	}
	return key
}

// settlementBackend accepts one orchestration and reports its proof job as
// QUEUED on the first poll and PUBLISHED afterwards
func settlementBackend(t *testing.T, polls *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v1/orchestrations/otc":
			assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
			var req model.OrchestrationRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Len(t, req.Intents, 2)
			assert.Equal(t, model.ProofTypeSettlement, req.ProofType)
			for _, in := range req.Intents {
				assert.NoError(t, crypto.VerifyIntent(in))
			}
			if assert.Len(t, req.Subjects, 2) {
				assert.Equal(t, "A", req.Subjects[0].Counterparty.CounterpartyID)
				assert.Equal(t, "B", req.Subjects[1].Counterparty.CounterpartyID)
			}
			_ = json.NewEncoder(w).Encode(model.OrchestrationResult{
				Accepted:      true,
				WorkflowRunID: "run-1",
				PolicyVersion: "v3",
				IntentSubmissions: []model.IntentSubmission{
					{Accepted: true, WorkflowRunID: "run-1", IntentIDs: []string{"i-1"}},
					{Accepted: true, WorkflowRunID: "run-1", IntentIDs: []string{"i-2"}},
				},
				ComplianceResults: []model.ComplianceResult{
					{SubjectID: "A", Passed: true, Decision: "ALLOW"},
					{SubjectID: "B", Passed: true, Decision: "ALLOW"},
				},
				ProofJob: &model.ProofJobAdmission{Accepted: true, JobID: "job-1", WorkflowRunID: "run-1"},
			})
		case r.Method == http.MethodGet && r.URL.Path == "/v1/proof-jobs/run/run-1":
			status := model.ProofStatusQueued
			transitions := []model.Transition{{ToStatus: model.ProofStatusQueued, TransitionedAt: 5}}
			if polls.Add(1) > 1 {
				status = model.ProofStatusPublished
				transitions = append(transitions,
					model.Transition{ToStatus: model.ProofStatusPublished, TransitionedAt: 40},
					model.Transition{ToStatus: model.ProofStatusProving, TransitionedAt: 20})
			}
			_ = json.NewEncoder(w).Encode(model.ProofJobsByRunResponse{
				Found:         true,
				WorkflowRunID: "run-1",
				Jobs: []model.ProofJob{{
					JobID:         "job-1",
					WorkflowRunID: "run-1",
					Status:        status,
					Transitions:   transitions,
				}},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error_code":"NOT_FOUND","reason":"no route"}`))
		}
	}))
}

func TestDeskSubmitTracksProofToPublished(t *testing.T) {
	var polls atomic.Int32
	srv := settlementBackend(t, &polls)
	defer srv.Close()

	backend := client.NewBackend(srv.URL, srv.Client())
	store := liveStore(t)
	tk := tracker.New(backend, tracker.WithInterval(10*time.Millisecond), tracker.WithSessions(store))
	d := New(crypto.NewIntentBuilder(intentKey()), NewSubmitter(backend, store, clock()), tk, nil)

	resp, err := d.Submit(context.Background(), context.Background(), model.SubmitRequest{
		Left:  order("A", model.SideBuy),
		Right: order("B", model.SideSell),
	})
	require.NoError(t, err)
	assert.True(t, resp.ProofTracking)
	assert.Equal(t, "2/2 intents accepted", resp.IntakeSummary)
	assert.Empty(t, resp.RejectionReason)
	assert.Equal(t, "run-1", resp.Result.WorkflowRunID)

	select {
	case <-tk.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("tracker did not reach a terminal status")
	}

	view := tk.View()
	assert.Equal(t, model.ProofStatusPublished, view.Status())
	assert.Equal(t, "job-1", view.JobID)
	require.Len(t, view.Timeline, 3)
	assert.Equal(t, []int64{5, 20, 40}, []int64{
		view.Timeline[0].TransitionedAt, view.Timeline[1].TransitionedAt, view.Timeline[2].TransitionedAt,
	})
	assert.Equal(t, int32(2), polls.Load())

	compliance, err := d.Compliance()
	require.NoError(t, err)
	assert.Equal(t, "2/2 parties passed", compliance.Summary)
	assert.Equal(t, "v3", compliance.PolicyVersion)
	assert.Len(t, compliance.Results, 2)
}

type stubTracker struct {
	activated []*model.OrchestrationResult
	resets    int
}

func (s *stubTracker) Activate(_ context.Context, r *model.OrchestrationResult) bool {
	s.activated = append(s.activated, r)
	return r.ProofTrackingRequested()
}

func (s *stubTracker) Reset() { s.resets++ }

func TestDeskRefusedOrchestrationKeepsResult(t *testing.T) {
	code := "COMPLIANCE_BLOCKED"
	refused := &model.OrchestrationResult{
		Accepted:      false,
		WorkflowRunID: "run-2",
		ComplianceResults: []model.ComplianceResult{
			{SubjectID: "A", Passed: true},
			{SubjectID: "B", Passed: false},
		},
		ErrorCode: &code,
		Reason:    "counterparty B failed screening",
	}
	orch := &fakeOrchestrator{err: &client.RejectionError{
		Op: "orchestration", Code: code, Reason: refused.Reason, Result: refused,
	}}
	tk := &stubTracker{}
	d := New(crypto.NewIntentBuilder(intentKey()), NewSubmitter(orch, liveStore(t), clock()), tk, nil)

	resp, err := d.Submit(context.Background(), context.Background(), model.SubmitRequest{
		Left:  order("A", model.SideBuy),
		Right: order("B", model.SideSell),
	})
	require.NoError(t, err)
	assert.False(t, resp.ProofTracking)
	assert.Equal(t, "[COMPLIANCE_BLOCKED] counterparty B failed screening", resp.RejectionReason)
	assert.Same(t, refused, resp.Result)
	require.Len(t, tk.activated, 1)

	compliance, err := d.Compliance()
	require.NoError(t, err)
	assert.Equal(t, "1/2 parties passed", compliance.Summary)
}

func TestDeskInvalidIntentStopsBeforeSubmit(t *testing.T) {
	orch := &fakeOrchestrator{}
	tk := &stubTracker{}
	d := New(crypto.NewIntentBuilder(intentKey()), NewSubmitter(orch, liveStore(t), clock()), tk, nil)

	bad := order("B", model.SideSell)
	bad.Intent.Amount = "-1"
	_, err := d.Submit(context.Background(), context.Background(), model.SubmitRequest{
		Left:  order("A", model.SideBuy),
		Right: bad,
	})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "right intent:"))
	assert.Zero(t, orch.calls)
	assert.Empty(t, tk.activated)
	assert.Equal(t, 1, tk.resets)

	_, err = d.Compliance()
	assert.ErrorIs(t, err, ErrNoResult)
}

func TestDeskMalformedKeyIsConfigError(t *testing.T) {
	orch := &fakeOrchestrator{}
	d := New(crypto.NewIntentBuilder([]byte("short")), NewSubmitter(orch, liveStore(t), clock()), &stubTracker{}, nil)

	_, err := d.Submit(context.Background(), context.Background(), model.SubmitRequest{
		Left:  order("A", model.SideBuy),
		Right: order("B", model.SideSell),
	})
	require.Error(t, err)
	assert.True(t, crypto.IsConfigError(err))
	assert.Zero(t, orch.calls)
}

func TestSummaries(t *testing.T) {
	assert.Empty(t, IntakeSummary(nil))
	assert.Empty(t, ComplianceSummary(&model.OrchestrationResult{}))
	assert.Equal(t, "1/2 intents accepted", IntakeSummary(&model.OrchestrationResult{
		IntentSubmissions: []model.IntentSubmission{{Accepted: true}, {Accepted: false}},
	}))
}
