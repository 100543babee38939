package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/crypto/scrypt"
)

const (
	saltLen      = 32
	nonceLen     = 12
	scryptKeyLen = 32
)

// SealParams are the scrypt cost parameters of a sealed record.
type SealParams struct {
	N int `json:"n"`
	R int `json:"r"`
	P int `json:"p"`
}

// DefaultSealParams: N=2^18 (~256MB RAM, 0.5-2s). Local records are opened
// once per process start so the cost is paid rarely.
var DefaultSealParams = SealParams{N: 1 << 18, R: 8, P: 1}

// SealedRecord is the at-rest form of a sealed value
type SealedRecord struct {
	Params     SealParams `json:"params"`
	Salt       string     `json:"salt"`
	Nonce      string     `json:"nonce"`
	CipherText string     `json:"cipherText"`
}

// Seal encrypts plaintext under a key derived from passphrase and returns
// the JSON encoded SealedRecord.
// passphrase must be []byte for security (caller should zero it after use)
func Seal(plaintext, passphrase []byte, params SealParams) ([]byte, error) {
	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	nonce := make([]byte, nonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	aesGCM, err := deriveGCM(passphrase, salt, params)
	if err != nil {
		return nil, err
	}

	ciphertext := aesGCM.Seal(nil, nonce, plaintext, nil)

	record := SealedRecord{
		Params:     params,
		Salt:       base64.StdEncoding.EncodeToString(salt),
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
		CipherText: base64.StdEncoding.EncodeToString(ciphertext),
	}
	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sealed record: %w", err)
	}
	return data, nil
}

// Open decrypts a record produced by Seal. A wrong passphrase or a tampered
// record returns ErrInvalidPassphrase.
func Open(sealed, passphrase []byte) ([]byte, error) {
	var record SealedRecord
	if err := json.Unmarshal(sealed, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sealed record: %w", err)
	}

	salt, err := base64.StdEncoding.DecodeString(record.Salt)
	if err != nil {
		return nil, fmt.Errorf("failed to decode salt: %w", err)
	}

	nonce, err := base64.StdEncoding.DecodeString(record.Nonce)
	if err != nil {
		return nil, fmt.Errorf("failed to decode nonce: %w", err)
	}
	if len(nonce) != nonceLen {
		return nil, fmt.Errorf("invalid nonce length %d", len(nonce))
	}

	ciphertext, err := base64.StdEncoding.DecodeString(record.CipherText)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext: %w", err)
	}

	aesGCM, err := deriveGCM(passphrase, salt, record.Params)
	if err != nil {
		return nil, err
	}

	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrInvalidPassphrase
	}
	return plaintext, nil
}

func deriveGCM(passphrase, salt []byte, params SealParams) (cipher.AEAD, error) {
	key, err := scrypt.Key(passphrase, salt, params.N, params.R, params.P, scryptKeyLen)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	defer clear(key)

	return newGCM(key)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aesGCM, nil
}
