package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/AlexZinkM/otc-desk/internal/model"
	"github.com/AlexZinkM/otc-desk/internal/tracker"
)

// DeskService builds, submits and remembers orchestrations
type DeskService interface {
	Submit(ctx, trackCtx context.Context, req model.SubmitRequest) (*model.SubmitResponse, error)
	Compliance() (*model.ComplianceResponse, error)
}

// ProofTracker exposes the tracked proof job
type ProofTracker interface {
	View() tracker.View
	Cancel()
}

// DeskHandler serves the dealer, compliance and ops panels
type DeskHandler struct {
	desk    DeskService
	tracker ProofTracker
	// trackCtx outlives single requests; proof tracking stops with it
	trackCtx context.Context
}

// NewDeskHandler creates a new DeskHandler
func NewDeskHandler(trackCtx context.Context, d DeskService, t ProofTracker) *DeskHandler {
	return &DeskHandler{desk: d, tracker: t, trackCtx: trackCtx}
}

// SubmitIntents handles POST /desk/intents
// @Summary      Submit a matched pair of intents
// @Description  Encrypts and signs both plain intents, submits them as one settlement orchestration and starts proof tracking
// @Tags         dealer
// @Accept       json
// @Produce      json
// @Param        request  body      model.SubmitRequest  true  "Both parties of the trade"
// @Success      200      {object}  model.SubmitResponse
// @Failure      400      {object}  model.ErrorResponse
// @Failure      401      {object}  model.ErrorResponse
// @Failure      403      {object}  model.ErrorResponse
// @Failure      422      {object}  model.ErrorResponse
// @Failure      429      {object}  model.ErrorResponse
// @Failure      502      {object}  model.ErrorResponse
// @Router       /desk/intents [post]
func (h *DeskHandler) SubmitIntents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var req model.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	resp, err := h.desk.Submit(r.Context(), h.trackCtx, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Compliance handles GET /desk/compliance
// @Summary      Compliance outcome of the last orchestration
// @Tags         compliance
// @Produce      json
// @Success      200  {object}  model.ComplianceResponse
// @Failure      404  {object}  model.ErrorResponse
// @Router       /desk/compliance [get]
func (h *DeskHandler) Compliance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	resp, err := h.desk.Compliance()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Proof handles GET and DELETE /desk/proof
// @Summary      Proof job tracker
// @Description  GET returns the live tracker view, DELETE stops tracking and returns the last view
// @Tags         ops
// @Produce      json
// @Success      200  {object}  tracker.View
// @Router       /desk/proof [get]
// @Router       /desk/proof [delete]
func (h *DeskHandler) Proof(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
	case http.MethodDelete:
		h.tracker.Cancel()
	default:
		methodNotAllowed(w, "GET, DELETE")
		return
	}
	writeJSON(w, http.StatusOK, h.tracker.View())
}
