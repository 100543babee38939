package wallet

import (
	"context"
	"fmt"
	"sync"

	"github.com/AlexZinkM/otc-desk/internal/auth"

	"github.com/gagliardetto/solana-go"
)

// Solana signs raw message bytes with an ed25519 Solana key
type Solana struct {
	mu  sync.Mutex
	key solana.PrivateKey
	pub solana.PublicKey
}

// NewSolanaFromBase58 parses a base58 private key (64 bytes, as exported by
// Solana wallets)
func NewSolanaFromBase58(privateKey string) (*Solana, error) {
	key, err := solana.PrivateKeyFromBase58(privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse solana private key: %w", err)
	}
	if len(key) != 64 {
		return nil, fmt.Errorf("solana private key must be 64 bytes, got %d", len(key))
	}
	return &Solana{key: key, pub: key.PublicKey()}, nil
}

func (s *Solana) Kind() string { return KindSolana }

// Address is the base58 public key
func (s *Solana) Address() string { return s.pub.String() }

// SignMessage returns the base58 ed25519 signature of message
func (s *Solana) SignMessage(ctx context.Context, message string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.key) == 0 {
		return "", auth.ErrSignatureDeclined
	}

	sig, err := s.key.Sign([]byte(message))
	if err != nil {
		return "", fmt.Errorf("failed to sign message: %w", err)
	}
	return sig.String(), nil
}

// Lock zeroes the private key; later signatures are declined
func (s *Solana) Lock() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.key)
	s.key = nil
}
