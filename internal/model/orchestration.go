package model

// ProofTypeSettlement is the proof type requested for OTC orchestrations
const ProofTypeSettlement = "settlement"

// Counterparty identifies one party of an orchestration
type Counterparty struct {
	CounterpartyID string  `json:"counterparty_id"`
	Country        *string `json:"country"`
	WalletAddress  *string `json:"wallet_address"`
}

// Subject wraps the counterparty metadata of one intent
type Subject struct {
	Counterparty Counterparty `json:"counterparty"`
}

// OrchestrationRequest represents request for POST /v1/orchestrations/otc
type OrchestrationRequest struct {
	Intents   []BuiltIntent `json:"intents"`
	Subjects  []Subject     `json:"subjects"`
	ProofType string        `json:"proof_type"`
}

// IntentSubmission is the intake outcome of one intent
type IntentSubmission struct {
	Accepted         bool     `json:"accepted"`
	WorkflowRunID    string   `json:"workflow_run_id"`
	IntentIDs        []string `json:"intent_ids"`
	CommitmentHashes []string `json:"commitment_hashes"`
	ErrorCode        *string  `json:"error_code,omitempty"`
	Reason           string   `json:"reason"`
}

// ComplianceResult is the compliance outcome of one party
type ComplianceResult struct {
	SubjectID  string  `json:"subject_id"`
	Passed     bool    `json:"passed"`
	Decision   string  `json:"decision"`
	ReasonCode *string `json:"reason_code,omitempty"`
}

// ProofJobAdmission is the proof pipeline admission record
type ProofJobAdmission struct {
	Accepted      bool    `json:"accepted"`
	Idempotent    bool    `json:"idempotent"`
	Replayed      bool    `json:"replayed"`
	JobID         string  `json:"job_id"`
	WorkflowRunID string  `json:"workflow_run_id"`
	PolicyVersion string  `json:"policy_version"`
	ProofType     string  `json:"proof_type"`
	ErrorCode     *string `json:"error_code,omitempty"`
	Reason        string  `json:"reason"`
}

// OrchestrationResult represents response for POST /v1/orchestrations/otc
type OrchestrationResult struct {
	Accepted          bool               `json:"accepted"`
	WorkflowRunID     string             `json:"workflow_run_id"`
	PolicyVersion     string             `json:"policy_version"`
	PolicyHash        string             `json:"policy_hash"`
	AttestationID     string             `json:"attestation_id"`
	AttestationHash   string             `json:"attestation_hash"`
	IntentSubmissions []IntentSubmission `json:"intent_submissions"`
	ComplianceResults []ComplianceResult `json:"compliance_results"`
	ProofJob          *ProofJobAdmission `json:"proof_job,omitempty"`
	ErrorCode         *string            `json:"error_code,omitempty"`
	Reason            string             `json:"reason"`
}

// ProofTrackingRequested reports whether the backend admitted a proof job
func (r *OrchestrationResult) ProofTrackingRequested() bool {
	return r != nil && r.WorkflowRunID != "" && r.ProofJob != nil && r.ProofJob.Accepted
}

// AcceptedIntents counts accepted intent submissions
func (r *OrchestrationResult) AcceptedIntents() int {
	n := 0
	for _, s := range r.IntentSubmissions {
		if s.Accepted {
			n++
		}
	}
	return n
}

// PassedCompliance counts parties that passed compliance
func (r *OrchestrationResult) PassedCompliance() int {
	n := 0
	for _, c := range r.ComplianceResults {
		if c.Passed {
			n++
		}
	}
	return n
}
