package crypto

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/AlexZinkM/otc-desk/internal/model"
)

// ErrBadSignature is returned when an intent signature does not verify
var ErrBadSignature = errors.New("intent signature does not verify")

// VerifyIntent checks the detached signature of a built intent the same way
// the intent gateway does.
func VerifyIntent(in model.BuiltIntent) error {
	pub, err := hex.DecodeString(in.SignerPublicKey)
	if err != nil {
		return fmt.Errorf("invalid public key hex: %w", err)
	}
	if len(pub) != ed25519.PublicKeySize {
		return fmt.Errorf("invalid public key size %d", len(pub))
	}
	sig, err := hex.DecodeString(in.Signature)
	if err != nil {
		return fmt.Errorf("invalid signature hex: %w", err)
	}
	if !ed25519.Verify(ed25519.PublicKey(pub), SigningMessage(in.EncryptedPayload, in.Nonce, in.Timestamp), sig) {
		return ErrBadSignature
	}
	return nil
}

// OpenPayload decrypts an encrypted intent payload with the pre-shared key
func OpenPayload(key []byte, encryptedPayload string) ([]byte, error) {
	if len(key) != IntentKeyLen {
		return nil, &ConfigError{Message: fmt.Sprintf("intent key must be %d bytes, got %d", IntentKeyLen, len(key))}
	}
	raw, err := base64.StdEncoding.DecodeString(encryptedPayload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode payload: %w", err)
	}

	aesGCM, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(raw) < aesGCM.NonceSize() {
		return nil, errors.New("payload shorter than nonce")
	}

	nonce, ciphertext := raw[:aesGCM.NonceSize()], raw[aesGCM.NonceSize():]
	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt payload: %w", err)
	}
	return plaintext, nil
}
