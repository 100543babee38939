package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/AlexZinkM/otc-desk/internal/common"
	"github.com/AlexZinkM/otc-desk/internal/model"
)

const (
	defaultTimeout = 15 * time.Second
	maxBodyBytes   = 4 << 20
)

// Backend is a client for the settlement desk backend API
type Backend struct {
	baseURL string
	client  *http.Client
}

// NewBackend creates a new backend client. A nil httpClient gets a default
// client with a 15s timeout.
func NewBackend(baseURL string, httpClient *http.Client) *Backend {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Backend{
		baseURL: common.TrimBaseURL(baseURL),
		client:  httpClient,
	}
}

// apiError is the structured error part every backend body may carry
type apiError struct {
	ErrorCode *string `json:"error_code"`
	Reason    string  `json:"reason"`
}

// RequestNonce requests a one-time challenge message for address
func (c *Backend) RequestNonce(ctx context.Context, address string) (*model.NonceResponse, error) {
	const op = "wallet nonce"
	var resp model.NonceResponse
	status, err := c.do(ctx, op, http.MethodPost, "/v1/auth/wallet/nonce", "", model.NonceRequest{WalletAddress: address}, &resp)
	if err != nil {
		return nil, err
	}
	if !resp.Accepted {
		return nil, reject(op, status, resp.ErrorCode, resp.Reason, "failed to request wallet nonce")
	}
	return &resp, nil
}

// VerifySignature exchanges a signed challenge for an access token
func (c *Backend) VerifySignature(ctx context.Context, address, signature string) (*model.VerifyResponse, error) {
	const op = "wallet verify"
	var resp model.VerifyResponse
	req := model.VerifyRequest{WalletAddress: address, Signature: signature}
	status, err := c.do(ctx, op, http.MethodPost, "/v1/auth/wallet/verify", "", req, &resp)
	if err != nil {
		return nil, err
	}
	if !resp.Accepted {
		return nil, reject(op, status, resp.ErrorCode, resp.Reason, "wallet verification failed")
	}
	return &resp, nil
}

// Me revalidates an access token
func (c *Backend) Me(ctx context.Context, accessToken string) (*model.MeResponse, error) {
	const op = "wallet me"
	var resp model.MeResponse
	status, err := c.do(ctx, op, http.MethodGet, "/v1/auth/wallet/me", accessToken, nil, &resp)
	if err != nil {
		return nil, err
	}
	if !resp.Authenticated {
		return nil, reject(op, status, resp.ErrorCode, resp.Reason, "wallet session is not authenticated")
	}
	return &resp, nil
}

// StartOrchestration submits both intents as one atomic request. A refused
// orchestration returns a RejectionError carrying the full result.
func (c *Backend) StartOrchestration(ctx context.Context, accessToken string, req model.OrchestrationRequest) (*model.OrchestrationResult, error) {
	const op = "orchestration"
	var resp model.OrchestrationResult
	status, err := c.do(ctx, op, http.MethodPost, "/v1/orchestrations/otc", accessToken, req, &resp)
	if err != nil {
		return nil, err
	}
	if !resp.Accepted {
		re := reject(op, status, resp.ErrorCode, resp.Reason, "compliance gate blocked orchestration")
		re.Result = &resp
		return nil, re
	}
	return &resp, nil
}

// ProofJobsByRun fetches the proof jobs of a workflow run. accessToken is optional.
func (c *Backend) ProofJobsByRun(ctx context.Context, accessToken, workflowRunID string) (*model.ProofJobsByRunResponse, error) {
	const op = "proof-jobs"
	if strings.TrimSpace(workflowRunID) == "" {
		return nil, errors.New("workflow run id is required")
	}
	var resp model.ProofJobsByRunResponse
	path := "/v1/proof-jobs/run/" + url.PathEscape(workflowRunID)
	if _, err := c.do(ctx, op, http.MethodGet, path, accessToken, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// do performs one JSON request. Non-2xx bodies with structured error fields
// become RejectionErrors; anything unparseable is a TransportError.
func (c *Backend) do(ctx context.Context, op, method, path, accessToken string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("%s: failed to marshal request: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to create request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, &TransportError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr apiError
		if err := json.Unmarshal(raw, &apiErr); err != nil {
			snippet := strings.TrimSpace(string(raw))
			if snippet == "" {
				snippet = "empty response"
			}
			return resp.StatusCode, &TransportError{
				Op:         op,
				StatusCode: resp.StatusCode,
				Err:        fmt.Errorf("%s failed (%d): %s", op, resp.StatusCode, truncate(snippet, 200)),
			}
		}
		return resp.StatusCode, reject(op, resp.StatusCode, apiErr.ErrorCode, apiErr.Reason,
			fmt.Sprintf("%s failed (%d %s)", op, resp.StatusCode, http.StatusText(resp.StatusCode)))
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return resp.StatusCode, &TransportError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s endpoint returned non-JSON response: %w", op, err),
		}
	}
	return resp.StatusCode, nil
}

func reject(op string, status int, code *string, reason, fallback string) *RejectionError {
	if strings.TrimSpace(reason) == "" {
		reason = fallback
	}
	return &RejectionError{Op: op, StatusCode: status, Code: deref(code), Reason: reason}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
