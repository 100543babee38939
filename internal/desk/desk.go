package desk

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/AlexZinkM/otc-desk/internal/client"
	"github.com/AlexZinkM/otc-desk/internal/model"
)

// IntentBuilder encrypts and signs a plain intent
type IntentBuilder interface {
	Build(ctx context.Context, in model.PlainIntent) (*model.BuiltIntent, error)
}

// ProofTracker follows the proof job an orchestration admitted
type ProofTracker interface {
	Activate(ctx context.Context, result *model.OrchestrationResult) bool
	Reset()
}

// Desk runs the dealer flow: build both intents, submit, start proof tracking
type Desk struct {
	builder   IntentBuilder
	submitter *Submitter
	tracker   ProofTracker
	logger    *slog.Logger

	mu   sync.Mutex
	last *model.OrchestrationResult
}

// New creates a desk
func New(builder IntentBuilder, submitter *Submitter, tracker ProofTracker, logger *slog.Logger) *Desk {
	if logger == nil {
		logger = slog.Default()
	}
	return &Desk{
		builder:   builder,
		submitter: submitter,
		tracker:   tracker,
		logger:    logger,
	}
}

// Submit builds and submits one matched pair of orders. trackCtx is the
// context the proof tracking loop runs under; it outlives the request.
//
// A refusal by the compliance gate is not an error: the response carries the
// result and the rejection reason.
func (d *Desk) Submit(ctx, trackCtx context.Context, req model.SubmitRequest) (*model.SubmitResponse, error) {
	d.mu.Lock()
	d.last = nil
	d.mu.Unlock()
	d.tracker.Reset()

	left, err := d.party(ctx, req.Left)
	if err != nil {
		return nil, fmt.Errorf("left intent: %w", err)
	}
	right, err := d.party(ctx, req.Right)
	if err != nil {
		return nil, fmt.Errorf("right intent: %w", err)
	}

	result, err := d.submitter.Submit(ctx, left, right)
	resp := &model.SubmitResponse{}
	if err != nil {
		rejection, ok := client.AsRejection(err)
		if !ok || rejection.Result == nil {
			return nil, err
		}
		result = rejection.Result
		resp.RejectionReason = rejection.Error()
		d.logger.Warn("orchestration refused", "workflow_run_id", result.WorkflowRunID, "reason", resp.RejectionReason)
	}

	d.mu.Lock()
	d.last = result
	d.mu.Unlock()

	resp.Result = result
	resp.IntakeSummary = IntakeSummary(result)
	resp.ProofTracking = d.tracker.Activate(trackCtx, result)
	return resp, nil
}

func (d *Desk) party(ctx context.Context, order model.PartyOrder) (Party, error) {
	built, err := d.builder.Build(ctx, order.Intent)
	if err != nil {
		return Party{}, err
	}
	return Party{
		Intent:         *built,
		CounterpartyID: order.Intent.CounterpartyID,
		Country:        order.Country,
		WalletAddress:  order.WalletAddress,
	}, nil
}

// ErrNoResult is returned when nothing was submitted yet
var ErrNoResult = errors.New("no orchestration submitted yet")

// Compliance returns the compliance view of the last submission
func (d *Desk) Compliance() (*model.ComplianceResponse, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.last == nil {
		return nil, ErrNoResult
	}
	r := d.last
	return &model.ComplianceResponse{
		WorkflowRunID:   r.WorkflowRunID,
		PolicyVersion:   r.PolicyVersion,
		PolicyHash:      r.PolicyHash,
		AttestationID:   r.AttestationID,
		AttestationHash: r.AttestationHash,
		Summary:         ComplianceSummary(r),
		Results:         append([]model.ComplianceResult(nil), r.ComplianceResults...),
	}, nil
}

// IntakeSummary renders "accepted/total intents accepted"
func IntakeSummary(r *model.OrchestrationResult) string {
	if r == nil {
		return ""
	}
	return fmt.Sprintf("%d/%d intents accepted", r.AcceptedIntents(), len(r.IntentSubmissions))
}

// ComplianceSummary renders "passed/total parties passed"
func ComplianceSummary(r *model.OrchestrationResult) string {
	if r == nil || len(r.ComplianceResults) == 0 {
		return ""
	}
	return fmt.Sprintf("%d/%d parties passed", r.PassedCompliance(), len(r.ComplianceResults))
}
