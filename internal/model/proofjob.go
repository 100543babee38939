package model

// ProofStatus is a proof job pipeline status
type ProofStatus string

const (
	ProofStatusQueued     ProofStatus = "QUEUED"
	ProofStatusProving    ProofStatus = "PROVING"
	ProofStatusPublishing ProofStatus = "PUBLISHING"
	ProofStatusPublished  ProofStatus = "PUBLISHED"
	ProofStatusFailed     ProofStatus = "FAILED"
)

// Terminal reports whether no further transitions are expected
func (s ProofStatus) Terminal() bool {
	return s == ProofStatusPublished || s == ProofStatusFailed
}

// Transition is one proof job status change. TransitionedAt is in unix seconds.
type Transition struct {
	FromStatus     *ProofStatus `json:"from_status,omitempty"`
	ToStatus       ProofStatus  `json:"to_status"`
	TransitionedAt int64        `json:"transitioned_at"`
	ErrorCode      *string      `json:"error_code,omitempty"`
}

// ProofJob is the client-side snapshot of a backend proof job
type ProofJob struct {
	JobID            string       `json:"job_id"`
	WorkflowRunID    string       `json:"workflow_run_id"`
	PolicyVersion    string       `json:"policy_version"`
	ProofType        string       `json:"proof_type"`
	Status           ProofStatus  `json:"status"`
	AttemptCount     int          `json:"attempt_count"`
	RetryCount       int          `json:"retry_count"`
	RetryScheduled   bool         `json:"retry_scheduled"`
	QueueLatencyMs   *int64       `json:"queue_latency_ms,omitempty"`
	ProveDurationMs  *int64       `json:"prove_duration_ms,omitempty"`
	Transitions      []Transition `json:"transitions"`
	LastErrorCode    *string      `json:"last_error_code,omitempty"`
	LastErrorMessage *string      `json:"last_error_message,omitempty"`
}

// ProofJobsByRunResponse represents response for GET /v1/proof-jobs/run/{id}
type ProofJobsByRunResponse struct {
	Found         bool       `json:"found"`
	WorkflowRunID string     `json:"workflow_run_id"`
	Jobs          []ProofJob `json:"jobs"`
	ErrorCode     *string    `json:"error_code,omitempty"`
	Reason        string     `json:"reason"`
}
