package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AlexZinkM/otc-desk/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBackend(t *testing.T, handler http.HandlerFunc) *Backend {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewBackend(srv.URL+"/", srv.Client())
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestRequestNonce(t *testing.T) {
	b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/auth/wallet/nonce", r.URL.Path)
		var req model.NonceRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "0xabc", req.WalletAddress)
		writeJSON(w, http.StatusOK, map[string]any{
			"accepted": true, "wallet_address": "0xabc", "nonce": "n-1",
			"message": "sign me", "expires_at": 100, "reason": "",
		})
	})

	resp, err := b.RequestNonce(context.Background(), "0xabc")
	require.NoError(t, err)
	assert.Equal(t, "sign me", resp.Message)
	assert.Equal(t, int64(100), resp.ExpiresAt)
}

func TestVerifyRejectedPrefersStructuredReason(t *testing.T) {
	b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"accepted": false, "error_code": "BAD_SIGNATURE", "reason": "signature does not match wallet",
		})
	})

	_, err := b.VerifySignature(context.Background(), "0xabc", "0xsig")
	re, ok := AsRejection(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, "BAD_SIGNATURE", re.Code)
	assert.Equal(t, "signature does not match wallet", re.Reason)
	assert.Equal(t, http.StatusUnauthorized, re.StatusCode)
	assert.Equal(t, "[BAD_SIGNATURE] signature does not match wallet", err.Error())
}

func TestVerifyUnacceptedOn200(t *testing.T) {
	b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"accepted": false, "reason": ""})
	})

	_, err := b.VerifySignature(context.Background(), "0xabc", "0xsig")
	re, ok := AsRejection(err)
	require.True(t, ok)
	assert.Equal(t, "wallet verification failed", re.Reason)
}

func TestMeSendsBearer(t *testing.T) {
	b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{
			"authenticated": true, "wallet_address": "0xabc", "role": "ops", "reason": "",
		})
	})

	me, err := b.Me(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "ops", me.Role)
}

func TestNonJSONFailureIsTransportError(t *testing.T) {
	b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	})

	_, err := b.StartOrchestration(context.Background(), "tok", model.OrchestrationRequest{})
	require.Error(t, err)
	assert.True(t, IsTransportError(err))
	_, isRejection := AsRejection(err)
	assert.False(t, isRejection)
	assert.Contains(t, err.Error(), "502")
}

func TestStructuredFailureWithoutReasonFallsBackToStatus(t *testing.T) {
	b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error_code": "INTERNAL"})
	})

	_, err := b.StartOrchestration(context.Background(), "tok", model.OrchestrationRequest{})
	re, ok := AsRejection(err)
	require.True(t, ok)
	assert.Equal(t, "INTERNAL", re.Code)
	assert.Contains(t, re.Reason, "500")
}

func TestNonJSONSuccessIsTransportError(t *testing.T) {
	b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	_, err := b.ProofJobsByRun(context.Background(), "", "run-1")
	assert.True(t, IsTransportError(err))
}

func TestStartOrchestrationUnacceptedCarriesResult(t *testing.T) {
	b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"accepted":        false,
			"workflow_run_id": "run-9",
			"error_code":      "COMPLIANCE_FAILED",
			"reason":          "sanctions hit",
			"compliance_results": []map[string]any{
				{"subject_id": "A", "passed": true, "decision": "allow"},
				{"subject_id": "B", "passed": false, "decision": "deny", "reason_code": "SANCTIONS"},
			},
			"intent_submissions": []any{},
		})
	})

	_, err := b.StartOrchestration(context.Background(), "tok", model.OrchestrationRequest{})
	re, ok := AsRejection(err)
	require.True(t, ok)
	assert.Equal(t, "COMPLIANCE_FAILED", re.Code)
	require.NotNil(t, re.Result)
	assert.Equal(t, "run-9", re.Result.WorkflowRunID)
	assert.Equal(t, 1, re.Result.PassedCompliance())
}

func TestProofJobsByRunOptionalAuth(t *testing.T) {
	var authHeaders []string
	b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/proof-jobs/run/run-1", r.URL.Path)
		authHeaders = append(authHeaders, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{
			"found": true, "workflow_run_id": "run-1", "reason": "",
			"jobs": []map[string]any{{"job_id": "job-1", "status": "QUEUED", "transitions": []any{}}},
		})
	})

	resp, err := b.ProofJobsByRun(context.Background(), "", "run-1")
	require.NoError(t, err)
	require.Len(t, resp.Jobs, 1)
	assert.Equal(t, model.ProofStatusQueued, resp.Jobs[0].Status)

	_, err = b.ProofJobsByRun(context.Background(), "tok", "run-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"", "Bearer tok"}, authHeaders)

	_, err = b.ProofJobsByRun(context.Background(), "", " ")
	assert.Error(t, err)
}

func TestUnreachableBackendIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewBackend(url, nil).RequestNonce(context.Background(), "0xabc")
	assert.True(t, IsTransportError(err))
}
