package crypto

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/AlexZinkM/otc-desk/internal/common"
	"github.com/AlexZinkM/otc-desk/internal/model"

	"github.com/google/uuid"
)

// IntentKeyLen is the size of the pre-shared AES-256 intent key
const IntentKeyLen = 32

// IntentBuilder turns plain intents into encrypted, signed BuiltIntents.
// Every Build generates a fresh ed25519 key pair that is discarded afterwards.
type IntentBuilder struct {
	key  []byte
	rand io.Reader
	now  func() time.Time
	newNonce func() string
}

// BuilderOption configures an IntentBuilder
type BuilderOption func(*IntentBuilder)

// WithClock overrides the timestamp source
func WithClock(now func() time.Time) BuilderOption {
	return func(b *IntentBuilder) { b.now = now }
}

// WithRand overrides the randomness source for keys and AEAD nonces
func WithRand(r io.Reader) BuilderOption {
	return func(b *IntentBuilder) { b.rand = r }
}

// NewIntentBuilder creates a builder for the given pre-shared key.
// The key length is checked on every Build.
func NewIntentBuilder(key []byte, opts ...BuilderOption) *IntentBuilder {
	b := &IntentBuilder{
		key:      append([]byte(nil), key...),
		rand:     rand.Reader,
		now:      time.Now,
		newNonce: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// ParseIntentKey decodes a hex intent key (optional 0x prefix)
func ParseIntentKey(keyHex string) ([]byte, error) {
	key, err := common.DecodeHex(keyHex)
	if err != nil {
		return nil, &ConfigError{Message: fmt.Sprintf("intent key is not valid hex: %v", err)}
	}
	if len(key) != IntentKeyLen {
		return nil, &ConfigError{Message: fmt.Sprintf("intent key must be %d bytes, got %d", IntentKeyLen, len(key))}
	}
	return key, nil
}

// Build encrypts and signs a plain intent
func (b *IntentBuilder) Build(ctx context.Context, in model.PlainIntent) (*model.BuiltIntent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(b.key) != IntentKeyLen {
		return nil, &ConfigError{Message: fmt.Sprintf("intent key must be %d bytes, got %d", IntentKeyLen, len(b.key))}
	}
	if err := ValidateIntent(in); err != nil {
		return nil, err
	}

	plaintext, err := CanonicalIntent(in)
	if err != nil {
		return nil, err
	}
	defer clear(plaintext)

	pub, priv, err := ed25519.GenerateKey(b.rand)
	if err != nil {
		return nil, fmt.Errorf("failed to generate signing key: %w", err)
	}
	defer clear(priv)

	encryptedPayload, err := b.encrypt(plaintext)
	if err != nil {
		return nil, err
	}

	nonce := b.newNonce()
	timestamp := b.now().Unix()
	signature := ed25519.Sign(priv, SigningMessage(encryptedPayload, nonce, timestamp))

	return &model.BuiltIntent{
		EncryptedPayload: encryptedPayload,
		Signature:        hex.EncodeToString(signature),
		SignerPublicKey:  hex.EncodeToString(pub),
		Nonce:            nonce,
		Timestamp:        timestamp,
	}, nil
}

// encrypt returns base64(nonce || AES-GCM ciphertext)
func (b *IntentBuilder) encrypt(plaintext []byte) (string, error) {
	aesGCM, err := newGCM(b.key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aesGCM.NonceSize())
	if _, err := io.ReadFull(b.rand, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	out := aesGCM.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(out), nil
}

// CanonicalIntent serializes the intent with a stable field order.
// HTML characters are written as-is.
func CanonicalIntent(in model.PlainIntent) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(in); err != nil {
		return nil, fmt.Errorf("failed to marshal intent: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// SigningMessage is the exact byte string covered by an intent signature
func SigningMessage(encryptedPayload, nonce string, timestamp int64) []byte {
	return []byte(encryptedPayload + ":" + nonce + ":" + strconv.FormatInt(timestamp, 10))
}

// ValidateIntent checks the user-entered fields of a plain intent
func ValidateIntent(in model.PlainIntent) error {
	if in.Side != model.SideBuy && in.Side != model.SideSell {
		return &ValidationError{Field: "side", Message: fmt.Sprintf("must be buy or sell, got %q", in.Side)}
	}
	required := []struct{ field, value string }{
		{"asset_pair", in.AssetPair},
		{"settlement_currency", in.SettlementCurrency},
		{"counterparty_id", in.CounterpartyID},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &ValidationError{Field: r.field, Message: "is required"}
		}
	}
	if !common.IsPositiveDecimal(in.Amount) {
		return &ValidationError{Field: "amount", Message: "must be a positive decimal"}
	}
	if !common.IsPositiveDecimal(in.LimitPrice) {
		return &ValidationError{Field: "limit_price", Message: "must be a positive decimal"}
	}
	return nil
}
