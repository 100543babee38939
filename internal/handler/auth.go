package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/AlexZinkM/otc-desk/internal/auth"
	"github.com/AlexZinkM/otc-desk/internal/model"
	"github.com/AlexZinkM/otc-desk/internal/wallet"
)

// AuthFlow is the wallet login state machine
type AuthFlow interface {
	Snapshot() auth.Snapshot
	Verify(ctx context.Context, address string, signer auth.Signer) (*auth.Login, error)
	Logout() error
}

// AuthHandler serves the wallet login endpoints
type AuthHandler struct {
	flow   AuthFlow
	wallet wallet.Wallet
	now    func() time.Time
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(flow AuthFlow, w wallet.Wallet, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{flow: flow, wallet: w, now: time.Now, logger: logger}
}

// Login handles POST /auth/login
// @Summary      Sign in with the configured wallet
// @Description  Requests a nonce, signs it with the local wallet and exchanges the signature for a desk session
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      model.LoginRequest  false  "Expected wallet address"
// @Success      200      {object}  model.SessionResponse
// @Failure      403      {object}  model.ErrorResponse
// @Failure      422      {object}  model.ErrorResponse
// @Failure      502      {object}  model.ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	address := h.wallet.Address()
	if address == "" {
		writeError(w, http.StatusForbidden, "SIGNATURE_DECLINED", "no wallet key configured")
		return
	}
	if req.WalletAddress != "" && !strings.EqualFold(req.WalletAddress, address) {
		writeError(w, http.StatusBadRequest, "WALLET_MISMATCH", "configured wallet is "+address)
		return
	}

	if _, err := h.flow.Verify(r.Context(), address, h.wallet); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse(h.flow.Snapshot()))
}

// Session handles GET /auth/session
// @Summary      Current desk session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  model.SessionResponse
// @Router       /auth/session [get]
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse(h.flow.Snapshot()))
}

// Logout handles POST /auth/logout
// @Summary      Sign out
// @Tags         auth
// @Produce      json
// @Success      200  {object}  model.SessionResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	if err := h.flow.Logout(); err != nil {
		h.logger.Error("failed to clear session", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse(h.flow.Snapshot()))
}

// Wallet handles GET /wallet
// @Summary      Configured wallet
// @Description  Returns the wallet kind, address and a base64 PNG QR code of the address
// @Tags         auth
// @Produce      json
// @Success      200  {object}  model.WalletResponse
// @Failure      404  {object}  model.ErrorResponse
// @Router       /wallet [get]
func (h *AuthHandler) Wallet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	address := h.wallet.Address()
	if address == "" {
		writeError(w, http.StatusNotFound, "NO_WALLET", "no wallet key configured")
		return
	}
	qr, err := wallet.QRCode(address)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, model.WalletResponse{Kind: h.wallet.Kind(), Address: address, QR: qr})
}

// Gate lets a request through only for an unexpired session whose role may
// open panel
func (h *AuthHandler) Gate(panel model.Panel, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := h.flow.Snapshot()
		if snap.State != auth.StateAuthenticated || snap.Login == nil {
			writeError(w, http.StatusUnauthorized, "NO_SESSION", "wallet session required")
			return
		}
		if h.now().Unix() >= snap.Login.ExpiresAt {
			if err := h.flow.Logout(); err != nil {
				h.logger.Error("failed to clear expired session", "error", err)
			}
			writeError(w, http.StatusUnauthorized, "SESSION_EXPIRED", "wallet session expired")
			return
		}
		if !auth.CanAccessPanel(snap.Login.Role, panel) {
			writeError(w, http.StatusForbidden, "FORBIDDEN_PANEL",
				"role "+string(snap.Login.Role)+" cannot open the "+string(panel)+" panel")
			return
		}
		next(w, r)
	}
}

func sessionResponse(snap auth.Snapshot) model.SessionResponse {
	resp := model.SessionResponse{State: snap.State.String()}
	if snap.Err != nil {
		resp.Error = snap.Err.Error()
	}
	if snap.Login != nil {
		panels := snap.Login.Panels
		resp.WalletAddress = snap.Login.WalletAddress
		resp.Role = snap.Login.Role
		resp.Panels = &panels
		resp.ExpiresAt = snap.Login.ExpiresAt
	}
	return resp
}
