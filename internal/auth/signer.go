package auth

import (
	"context"
	"errors"
)

// ErrSignatureDeclined is returned by signers when the wallet owner refuses
// to sign or no key is available. It is a user-facing, retryable outcome.
var ErrSignatureDeclined = errors.New("signature request declined")

// Signer is the wallet's signing capability: sign this exact message with
// key material the desk never sees.
type Signer interface {
	SignMessage(ctx context.Context, message string) (string, error)
}

// SignerFunc adapts a function to Signer
type SignerFunc func(ctx context.Context, message string) (string, error)

func (f SignerFunc) SignMessage(ctx context.Context, message string) (string, error) {
	return f(ctx, message)
}
