// Prints the wallet session stored by otcdesk. Sealed records are opened with
// a prompted passphrase. The access token is masked unless -show-token is set.
// Usage: go run ./cmd/inspect_session [-db desk-session.db] [-show-token]
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/AlexZinkM/otc-desk/internal/config"
	"github.com/AlexZinkM/otc-desk/internal/crypto"
	"github.com/AlexZinkM/otc-desk/internal/model"
	"github.com/AlexZinkM/otc-desk/internal/session"
)

type report struct {
	Sealed        bool       `json:"sealed"`
	WalletAddress string     `json:"walletAddress"`
	Role          model.Role `json:"role"`
	AccessToken   string     `json:"accessToken"`
	ExpiresAt     string     `json:"expiresAt"`
	Expired       bool       `json:"expired"`
}

func main() {
	os.Exit(run())
}

func run() int {
	if err := config.Init(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	dbPath := flag.String("db", config.GetSessionDBPath(), "session bbolt file")
	showToken := flag.Bool("show-token", false, "print the access token in full")
	flag.Parse()

	db, err := session.OpenBolt(*dbPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer db.Close()

	raw, err := db.Get(session.Key)
	if errors.Is(err, session.ErrNotFound) {
		fmt.Fprintln(os.Stderr, "no session stored")
		return 2
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	sealed := isSealed(raw)
	if sealed {
		pass, err := config.PromptForPassphrase("session passphrase")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		raw, err = crypto.Open(raw, pass)
		clear(pass)
		if err != nil {
			fmt.Fprintln(os.Stderr, "open failed:", err)
			return 1
		}
	}

	var sess model.WalletSession
	if err := json.Unmarshal(raw, &sess); err != nil {
		fmt.Fprintln(os.Stderr, "malformed session record:", err)
		return 1
	}

	token := sess.AccessToken
	if !*showToken {
		token = mask(token)
	}
	out := report{
		Sealed:        sealed,
		WalletAddress: sess.WalletAddress,
		Role:          sess.Role,
		AccessToken:   token,
		ExpiresAt:     time.Unix(sess.ExpiresAt, 0).UTC().Format(time.RFC3339),
		Expired:       sess.Expired(time.Now()),
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func isSealed(raw []byte) bool {
	var rec crypto.SealedRecord
	return json.Unmarshal(raw, &rec) == nil && rec.CipherText != "" && rec.Salt != ""
}

func mask(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
