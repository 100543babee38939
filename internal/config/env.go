package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/AlexZinkM/otc-desk/internal/common"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/term"
)

// DemoIntentKeyHex is the development pre-shared intent key. Never use it
// against a production backend.
const DemoIntentKeyHex = "00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff"

// Config contains all configuration parameters for the application.
// Note: passphrases are never read from the environment, see PromptForPassphrase
type Config struct {
	Port               string `envconfig:"PORT" default:"8090"`
	BackendURL         string `envconfig:"BACKEND_URL" default:"http://127.0.0.1:8080"`
	IntentKeyHex       string `envconfig:"INTENT_ENCRYPTION_KEY_HEX" default:"00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff"`
	SessionDBPath      string `envconfig:"SESSION_DB_PATH" default:"desk-session.db"`
	SessionSealed      bool   `envconfig:"SESSION_SEALED" default:"false"`
	ProofPollInterval  int    `envconfig:"PROOF_POLL_INTERVAL_SECONDS" default:"3"`
	HTTPTimeout        int    `envconfig:"HTTP_TIMEOUT_SECONDS" default:"15"`
	SubmitCooldown     int    `envconfig:"SUBMIT_COOLDOWN_SECONDS" default:"0"`
	WalletKind         string `envconfig:"WALLET_KIND" default:"ethereum"`
	WalletKeystorePath string `envconfig:"WALLET_KEYSTORE_PATH"`
	WalletSolanaKey    string `envconfig:"WALLET_SOLANA_KEY"`
	WalletConfirmSign  bool   `envconfig:"WALLET_CONFIRM_SIGNING" default:"false"`
	LogLevel           string `envconfig:"LOG_LEVEL" default:"info"`
}

// cfg is the global configuration instance
var cfg *Config

// Init loads configuration from environment variables.
func Init() error {
	c := &Config{}
	if err := envconfig.Process("", c); err != nil {
		return fmt.Errorf("failed to process config: %w", err)
	}
	if err := c.validate(); err != nil {
		return err
	}
	cfg = c
	return nil
}

func (c *Config) validate() error {
	switch strings.ToLower(c.WalletKind) {
	case "ethereum", "solana":
	default:
		return fmt.Errorf("WALLET_KIND must be ethereum or solana, got %q", c.WalletKind)
	}
	if c.ProofPollInterval <= 0 {
		return errors.New("PROOF_POLL_INTERVAL_SECONDS must be positive")
	}
	if c.HTTPTimeout <= 0 {
		return errors.New("HTTP_TIMEOUT_SECONDS must be positive")
	}
	if c.SubmitCooldown < 0 {
		return errors.New("SUBMIT_COOLDOWN_SECONDS cannot be negative")
	}
	return nil
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}

// GetPort returns port from configuration
func GetPort() string {
	return Get().Port
}

// GetBackendURL returns the backend base URL without trailing slashes
func GetBackendURL() string {
	return common.TrimBaseURL(Get().BackendURL)
}

// GetIntentKeyHex returns the hex pre-shared intent key
func GetIntentKeyHex() string {
	return Get().IntentKeyHex
}

// UsesDemoIntentKey reports whether the development key is configured
func UsesDemoIntentKey() bool {
	return strings.EqualFold(strings.TrimPrefix(Get().IntentKeyHex, "0x"), DemoIntentKeyHex)
}

// GetSessionDBPath returns path to the session bbolt file
func GetSessionDBPath() string {
	return Get().SessionDBPath
}

// GetSessionSealed reports whether the session is sealed at rest
func GetSessionSealed() bool {
	return Get().SessionSealed
}

// GetProofPollInterval returns the proof tracker interval
func GetProofPollInterval() time.Duration {
	return time.Duration(Get().ProofPollInterval) * time.Second
}

// GetHTTPTimeout returns the backend client timeout
func GetHTTPTimeout() time.Duration {
	return time.Duration(Get().HTTPTimeout) * time.Second
}

// GetSubmitCooldown returns the submit cooldown, zero when disabled
func GetSubmitCooldown() time.Duration {
	return time.Duration(Get().SubmitCooldown) * time.Second
}

// GetWalletKind returns ethereum or solana
func GetWalletKind() string {
	return strings.ToLower(Get().WalletKind)
}

// GetWalletKeystorePath returns path to the go-ethereum keystore file
func GetWalletKeystorePath() string {
	return Get().WalletKeystorePath
}

// GetWalletSolanaKey returns the base58 Solana private key
func GetWalletSolanaKey() string {
	return Get().WalletSolanaKey
}

// GetWalletConfirmSigning reports whether every signature is confirmed on the terminal
func GetWalletConfirmSigning() bool {
	return Get().WalletConfirmSign
}

// GetLogLevel returns the slog level, info for unknown values
func GetLogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(Get().LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// PromptForPassphrase prompts the user for a passphrase in the terminal.
// The passphrase is read without echoing (hidden input).
// Caller must zero the returned slice after use.
func PromptForPassphrase(label string) ([]byte, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, errors.New("stdin is not a terminal: run the app interactively to enter passphrase")
	}
	fmt.Fprintf(os.Stderr, "Enter %s: ", label)
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return nil, fmt.Errorf("failed to read passphrase: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("passphrase cannot be empty")
	}
	return raw, nil
}
