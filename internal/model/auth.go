package model

// NonceRequest represents request for POST /v1/auth/wallet/nonce
type NonceRequest struct {
	WalletAddress string `json:"wallet_address"`
}

// NonceResponse represents response for POST /v1/auth/wallet/nonce
type NonceResponse struct {
	Accepted      bool    `json:"accepted"`
	WalletAddress string  `json:"wallet_address"`
	Nonce         string  `json:"nonce"`
	Message       string  `json:"message"`
	ExpiresAt     int64   `json:"expires_at"`
	ErrorCode     *string `json:"error_code,omitempty"`
	Reason        string  `json:"reason"`
}

// VerifyRequest represents request for POST /v1/auth/wallet/verify
type VerifyRequest struct {
	WalletAddress string `json:"wallet_address"`
	Signature     string `json:"signature"`
}

// VerifyResponse represents response for POST /v1/auth/wallet/verify
type VerifyResponse struct {
	Accepted      bool    `json:"accepted"`
	AccessToken   string  `json:"access_token"`
	TokenType     string  `json:"token_type"`
	ExpiresAt     int64   `json:"expires_at"`
	WalletAddress string  `json:"wallet_address"`
	Role          string  `json:"role"`
	ErrorCode     *string `json:"error_code,omitempty"`
	Reason        string  `json:"reason"`
}

// MeResponse represents response for GET /v1/auth/wallet/me
type MeResponse struct {
	Authenticated bool    `json:"authenticated"`
	WalletAddress string  `json:"wallet_address"`
	Role          string  `json:"role"`
	ErrorCode     *string `json:"error_code,omitempty"`
	Reason        string  `json:"reason"`
}
