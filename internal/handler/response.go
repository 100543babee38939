package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/AlexZinkM/otc-desk/internal/auth"
	"github.com/AlexZinkM/otc-desk/internal/client"
	"github.com/AlexZinkM/otc-desk/internal/crypto"
	"github.com/AlexZinkM/otc-desk/internal/desk"
	"github.com/AlexZinkM/otc-desk/internal/model"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, model.ErrorResponse{Error: message, Code: code})
}

func methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed, should be "+allowed)
}

// errorStatus maps domain errors to an HTTP status and error code
func errorStatus(err error) (int, string) {
	var validation *crypto.ValidationError
	switch {
	case errors.Is(err, desk.ErrNoSession):
		return http.StatusUnauthorized, "NO_SESSION"
	case errors.Is(err, desk.ErrCooldown):
		return http.StatusTooManyRequests, "COOLDOWN"
	case errors.Is(err, desk.ErrNoResult):
		return http.StatusNotFound, "NO_RESULT"
	case errors.Is(err, auth.ErrSignatureDeclined):
		return http.StatusForbidden, "SIGNATURE_DECLINED"
	case errors.Is(err, auth.ErrUnsupportedRole):
		return http.StatusForbidden, "UNSUPPORTED_ROLE"
	case errors.Is(err, auth.ErrSuperseded):
		return http.StatusConflict, "SUPERSEDED"
	case errors.As(err, &validation):
		return http.StatusBadRequest, "INVALID_INTENT"
	case crypto.IsConfigError(err):
		return http.StatusInternalServerError, "CONFIG_ERROR"
	case client.IsTransportError(err):
		return http.StatusBadGateway, "BACKEND_UNAVAILABLE"
	}
	if re, ok := client.AsRejection(err); ok {
		if re.Code != "" {
			return http.StatusUnprocessableEntity, re.Code
		}
		return http.StatusUnprocessableEntity, "REJECTED"
	}
	return http.StatusInternalServerError, "INTERNAL"
}

func writeDomainError(w http.ResponseWriter, err error) {
	status, code := errorStatus(err)
	writeError(w, status, code, err.Error())
}
