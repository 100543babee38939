package model

// Side is the trade direction of an intent
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// PlainIntent is the user-entered trade intent. It never leaves the client
// in this form. Field order is the canonical serialization order.
type PlainIntent struct {
	Side               Side   `json:"side"`
	AssetPair          string `json:"asset_pair"`
	Amount             string `json:"amount"`
	LimitPrice         string `json:"limit_price"`
	SettlementCurrency string `json:"settlement_currency"`
	CounterpartyID     string `json:"counterparty_id"`
}

// BuiltIntent is the encrypted and signed representation of a PlainIntent
type BuiltIntent struct {
	EncryptedPayload string `json:"encrypted_payload"` // base64(nonce || AES-GCM ciphertext)
	Signature        string `json:"signature"`         // hex ed25519 over payload:nonce:timestamp
	SignerPublicKey  string `json:"signer_public_key"` // hex
	Nonce            string `json:"nonce"`
	Timestamp        int64  `json:"timestamp"`
}
