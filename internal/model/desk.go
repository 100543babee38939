package model

// LoginRequest represents request for POST /auth/login
type LoginRequest struct {
	WalletAddress string `json:"wallet_address,omitempty"`
}

// SessionResponse represents response for GET /auth/session and POST /auth/login
type SessionResponse struct {
	State         string      `json:"state"`
	WalletAddress string      `json:"wallet_address,omitempty"`
	Role          Role        `json:"role,omitempty"`
	Panels        *RolePanels `json:"panels,omitempty"`
	ExpiresAt     int64       `json:"expires_at,omitempty"`
	Error         string      `json:"error,omitempty"`
}

// WalletResponse represents response for GET /wallet
type WalletResponse struct {
	Kind    string `json:"kind"`
	Address string `json:"address"`
	QR      string `json:"QR"` // base64 PNG
}

// PartyOrder is one side of a desk submission: the plain intent plus the
// counterparty metadata that travels next to the encrypted payload
type PartyOrder struct {
	Intent        PlainIntent `json:"intent"`
	Country       string      `json:"country,omitempty"`
	WalletAddress string      `json:"wallet_address,omitempty"`
}

// SubmitRequest represents request for POST /desk/intents
type SubmitRequest struct {
	Left  PartyOrder `json:"left"`
	Right PartyOrder `json:"right"`
}

// SubmitResponse represents response for POST /desk/intents
type SubmitResponse struct {
	Result          *OrchestrationResult `json:"result"`
	IntakeSummary   string               `json:"intake_summary"`
	ProofTracking   bool                 `json:"proof_tracking"`
	RejectionReason string               `json:"rejection_reason,omitempty"`
}

// ComplianceResponse represents response for GET /desk/compliance
type ComplianceResponse struct {
	WorkflowRunID   string             `json:"workflow_run_id,omitempty"`
	PolicyVersion   string             `json:"policy_version,omitempty"`
	PolicyHash      string             `json:"policy_hash,omitempty"`
	AttestationID   string             `json:"attestation_id,omitempty"`
	AttestationHash string             `json:"attestation_hash,omitempty"`
	Summary         string             `json:"summary"`
	Results         []ComplianceResult `json:"results"`
}
