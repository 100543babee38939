// Package wallet provides the signing wallets the desk authenticates with.
package wallet

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/AlexZinkM/otc-desk/internal/auth"
)

const (
	KindEthereum = "ethereum"
	KindSolana   = "solana"
)

// Wallet signs wallet-auth challenges for one address
type Wallet interface {
	auth.Signer
	Kind() string
	Address() string
}

// Config selects and unlocks a wallet
type Config struct {
	Kind         string
	KeystorePath string
	SolanaKey    string
	// Passphrase is asked for only when a keystore has to be decrypted
	Passphrase func() ([]byte, error)
}

// Open loads the configured wallet. A kind without key material yields an
// unavailable wallet that declines every signature.
func Open(cfg Config) (Wallet, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Kind)) {
	case "", KindEthereum:
		if cfg.KeystorePath == "" {
			return Unavailable{kind: KindEthereum}, nil
		}
		if cfg.Passphrase == nil {
			return nil, fmt.Errorf("keystore %s needs a passphrase", cfg.KeystorePath)
		}
		pass, err := cfg.Passphrase()
		if err != nil {
			return nil, fmt.Errorf("failed to read keystore passphrase: %w", err)
		}
		defer clear(pass)
		return LoadEthereumKeystore(cfg.KeystorePath, pass)
	case KindSolana:
		if cfg.SolanaKey == "" {
			return Unavailable{kind: KindSolana}, nil
		}
		return NewSolanaFromBase58(cfg.SolanaKey)
	default:
		return nil, fmt.Errorf("unsupported wallet kind %q", cfg.Kind)
	}
}

// Unavailable is a wallet without key material
type Unavailable struct {
	kind string
}

func (u Unavailable) Kind() string    { return u.kind }
func (u Unavailable) Address() string { return "" }

func (u Unavailable) SignMessage(context.Context, string) (string, error) {
	return "", auth.ErrSignatureDeclined
}

// Confirming asks on a terminal before every signature. Anything but "y" or
// "yes" declines. A line that was read before the current prompt answers an
// abandoned prompt and is skipped.
type Confirming struct {
	Wallet
	sem     chan struct{}
	in      *bufio.Reader
	out     io.Writer
	answers chan answer
	reading bool // guarded by sem
}

type answer struct {
	line string
	err  error
	at   time.Time
}

// Confirm wraps w with an interactive confirmation
func Confirm(w Wallet, in io.Reader, out io.Writer) *Confirming {
	return &Confirming{
		Wallet:  w,
		sem:     make(chan struct{}, 1),
		in:      bufio.NewReader(in),
		out:     out,
		answers: make(chan answer, 1),
	}
}

func (c *Confirming) SignMessage(ctx context.Context, message string) (string, error) {
	select {
	case c.sem <- struct{}{}:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	defer func() { <-c.sem }()

	fmt.Fprintf(c.out, "Sign in as %s with message:\n%s\nSign? [y/N]: ", c.Address(), message)
	prompted := time.Now()

	for {
		if !c.reading {
			c.reading = true
			go c.readLine()
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case a := <-c.answers:
			c.reading = false
			if a.err != nil && a.line == "" {
				return "", auth.ErrSignatureDeclined
			}
			if a.at.Before(prompted) {
				continue
			}
			switch strings.ToLower(strings.TrimSpace(a.line)) {
			case "y", "yes":
				return c.Wallet.SignMessage(ctx, message)
			default:
				return "", auth.ErrSignatureDeclined
			}
		}
	}
}

func (c *Confirming) readLine() {
	line, err := c.in.ReadString('\n')
	c.answers <- answer{line: line, err: err, at: time.Now()}
}
