package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AlexZinkM/otc-desk/internal/api"
	"github.com/AlexZinkM/otc-desk/internal/auth"
	"github.com/AlexZinkM/otc-desk/internal/client"
	"github.com/AlexZinkM/otc-desk/internal/config"
	"github.com/AlexZinkM/otc-desk/internal/crypto"
	"github.com/AlexZinkM/otc-desk/internal/desk"
	"github.com/AlexZinkM/otc-desk/internal/handler"
	"github.com/AlexZinkM/otc-desk/internal/session"
	"github.com/AlexZinkM/otc-desk/internal/tracker"
	"github.com/AlexZinkM/otc-desk/internal/wallet"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := config.Init(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: config.GetLogLevel()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger); err != nil {
		logger.Error("otcdesk stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	key, err := crypto.ParseIntentKey(config.GetIntentKeyHex())
	if err != nil {
		return err
	}
	if config.UsesDemoIntentKey() {
		logger.Warn("using the development intent key, set INTENT_ENCRYPTION_KEY_HEX for real desks")
	}

	store, closeStore, err := openSessionStore(logger)
	if err != nil {
		return err
	}
	defer closeStore()

	backend := client.NewBackend(config.GetBackendURL(), &http.Client{Timeout: config.GetHTTPTimeout()})

	w, lock, err := openWallet()
	if err != nil {
		return err
	}
	defer lock()
	logger.Info("wallet loaded", "kind", w.Kind(), "address", w.Address())

	flow := auth.NewFlow(backend, store, auth.WithLogger(logger))
	login, err := flow.Restore(ctx)
	switch {
	case err != nil:
		logger.Warn("stored session not restored", "error", err)
	case login != nil:
		logger.Info("session restored", "wallet", login.WalletAddress, "role", login.Role)
	}
	if w.Address() != "" {
		if _, err := flow.EnsureAddress(w.Address()); err != nil {
			logger.Warn("failed to drop session of another wallet", "error", err)
		}
	}

	tk := tracker.New(backend,
		tracker.WithInterval(config.GetProofPollInterval()),
		tracker.WithSessions(store),
		tracker.WithLogger(logger),
	)
	defer tk.Cancel()

	submitter := desk.NewSubmitter(backend, store,
		desk.WithCooldown(config.GetSubmitCooldown()),
		desk.WithSubmitterLogger(logger),
	)
	d := desk.New(crypto.NewIntentBuilder(key), submitter, tk, logger)

	router := api.SetupRouter(
		handler.NewAuthHandler(flow, w, logger),
		handler.NewDeskHandler(ctx, d, tk),
	)

	srv := &http.Server{
		Addr:              "127.0.0.1:" + config.GetPort(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("otcdesk listening", "addr", srv.Addr, "backend", config.GetBackendURL())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("otcdesk stopped")
	return nil
}

// openSessionStore opens the bbolt session file, sealed with a prompted
// passphrase when SESSION_SEALED is set
func openSessionStore(logger *slog.Logger) (*session.Store, func(), error) {
	db, err := session.OpenBolt(config.GetSessionDBPath())
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close session db", "error", err)
		}
	}

	if !config.GetSessionSealed() {
		return session.NewStore(db, logger), closeDB, nil
	}

	pass, err := config.PromptForPassphrase("session passphrase")
	if err != nil {
		closeDB()
		return nil, nil, err
	}
	sealed := session.NewSealedBackend(db, pass, crypto.DefaultSealParams, logger)
	clear(pass)

	return session.NewStore(sealed, logger), func() {
		sealed.Wipe()
		closeDB()
	}, nil
}

type locker interface {
	Lock()
}

// openWallet loads the configured wallet; the returned func drops its key
func openWallet() (wallet.Wallet, func(), error) {
	w, err := wallet.Open(wallet.Config{
		Kind:         config.GetWalletKind(),
		KeystorePath: config.GetWalletKeystorePath(),
		SolanaKey:    config.GetWalletSolanaKey(),
		Passphrase: func() ([]byte, error) {
			return config.PromptForPassphrase("wallet keystore passphrase")
		},
	})
	if err != nil {
		return nil, nil, err
	}

	lock := func() {}
	if l, ok := w.(locker); ok {
		lock = l.Lock
	}
	if config.GetWalletConfirmSigning() {
		w = wallet.Confirm(w, os.Stdin, os.Stderr)
	}
	return w, lock, nil
}
