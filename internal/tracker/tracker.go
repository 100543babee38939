// Package tracker follows the proof job of a workflow run until it reaches a
// terminal status.
package tracker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/AlexZinkM/otc-desk/internal/model"
)

// DefaultInterval is the pause between two polls
const DefaultInterval = 3 * time.Second

// Fetcher loads the proof jobs of a workflow run
type Fetcher interface {
	ProofJobsByRun(ctx context.Context, accessToken, workflowRunID string) (*model.ProofJobsByRunResponse, error)
}

// SessionLoader supplies the optional bearer token
type SessionLoader interface {
	Load() (model.WalletSession, bool)
}

// View is the live picture of the tracked run
type View struct {
	WorkflowRunID string             `json:"workflow_run_id,omitempty"`
	JobID         string             `json:"job_id,omitempty"`
	Started       bool               `json:"started"`
	Loading       bool               `json:"loading"`
	Done          bool               `json:"done"`
	Job           *model.ProofJob    `json:"job,omitempty"`
	Timeline      []model.Transition `json:"timeline"`
	JobCount      int                `json:"job_count"`
	Polls         int                `json:"polls"`
	Error         string             `json:"error,omitempty"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// Status is the job status, QUEUED until the first job shows up
func (v View) Status() model.ProofStatus {
	if v.Job != nil {
		return v.Job.Status
	}
	return model.ProofStatusQueued
}

// Tracker polls one workflow run at a time. Starting a new run stops the
// previous loop; results of a stopped loop are discarded.
type Tracker struct {
	fetcher  Fetcher
	sessions SessionLoader
	interval time.Duration
	logger   *slog.Logger
	onUpdate func(View)

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	done   chan struct{}
	view   View
}

// Option configures a Tracker
type Option func(*Tracker)

// WithInterval overrides DefaultInterval
func WithInterval(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.interval = d
		}
	}
}

// WithSessions attaches the session whose token is sent with each poll
func WithSessions(s SessionLoader) Option {
	return func(t *Tracker) { t.sessions = s }
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) { t.logger = l }
}

// WithOnUpdate registers a hook called with every applied change. It runs
// under the tracker lock and must not call back into the Tracker.
func WithOnUpdate(fn func(View)) Option {
	return func(t *Tracker) { t.onUpdate = fn }
}

// New creates an idle tracker
func New(fetcher Fetcher, opts ...Option) *Tracker {
	t := &Tracker{
		fetcher:  fetcher,
		interval: DefaultInterval,
		logger:   slog.Default(),
		done:     closedChan(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Activate starts tracking when the orchestration admitted a proof job and
// resets the tracker to "not started" otherwise.
func (t *Tracker) Activate(ctx context.Context, result *model.OrchestrationResult) bool {
	if !result.ProofTrackingRequested() {
		t.Reset()
		return false
	}
	t.start(ctx, result.WorkflowRunID, result.ProofJob.JobID)
	return true
}

// Start tracks workflowRunID until a terminal status, Cancel, or ctx ends
func (t *Tracker) Start(ctx context.Context, workflowRunID string) {
	t.start(ctx, workflowRunID, "")
}

func (t *Tracker) start(ctx context.Context, workflowRunID, jobID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
	t.gen++
	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	t.cancel = cancel
	t.done = done
	t.view = View{WorkflowRunID: workflowRunID, JobID: jobID, Started: true}
	t.notifyLocked()

	t.logger.Info("proof tracking started", "workflow_run_id", workflowRunID, "job_id", jobID)
	go t.run(loopCtx, t.gen, workflowRunID, done)
}

// Cancel stops the current loop. The view keeps its last applied state.
func (t *Tracker) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

// Reset stops the current loop and forgets the view
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
	t.view = View{}
}

// View returns a copy of the current view
func (t *Tracker) View() View {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.view
}

// Done is closed when the current loop has exited
func (t *Tracker) Done() <-chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done
}

func (t *Tracker) stopLocked() {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	// bump the generation so in-flight results are dropped
	t.gen++
	t.view.Loading = false
}

func (t *Tracker) run(ctx context.Context, gen uint64, workflowRunID string, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		if t.poll(ctx, gen, workflowRunID) {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// poll fetches once and applies the result. It reports whether the loop
// must stop: terminal status observed or the activation is no longer current.
func (t *Tracker) poll(ctx context.Context, gen uint64, workflowRunID string) bool {
	if !t.apply(ctx, gen, func(v *View) { v.Loading = true }) {
		return true
	}

	token := ""
	if t.sessions != nil {
		if sess, ok := t.sessions.Load(); ok {
			token = sess.AccessToken
		}
	}

	resp, err := t.fetcher.ProofJobsByRun(ctx, token, workflowRunID)

	terminal := false
	applied := t.apply(ctx, gen, func(v *View) {
		v.Loading = false
		v.Polls++
		v.UpdatedAt = time.Now()
		if err != nil {
			v.Error = err.Error()
			return
		}
		v.Error = ""
		v.JobCount = len(resp.Jobs)
		if len(resp.Jobs) == 0 {
			v.Job = nil
			v.Timeline = nil
			return
		}
		job := resp.Jobs[0]
		v.Job = &job
		v.Timeline = SortedTimeline(job.Transitions)
		if job.Status.Terminal() {
			v.Done = true
			terminal = true
		}
	})
	if !applied {
		t.settle(gen)
		return true
	}

	switch {
	case err != nil:
		t.logger.Warn("proof job fetch failed", "workflow_run_id", workflowRunID, "error", err)
	case len(resp.Jobs) > 1:
		t.logger.Warn("multiple proof jobs for one run, showing the first",
			"workflow_run_id", workflowRunID, "jobs", len(resp.Jobs))
	}
	if terminal {
		t.logger.Info("proof job reached terminal status",
			"workflow_run_id", workflowRunID, "status", resp.Jobs[0].Status)
	}
	return terminal
}

// apply runs fn on the view when gen is still the current activation and
// ctx has not ended
func (t *Tracker) apply(ctx context.Context, gen uint64, fn func(*View)) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.gen || ctx.Err() != nil {
		return false
	}
	fn(&t.view)
	t.notifyLocked()
	return true
}

// settle clears the loading flag of an activation whose context ended
// mid-fetch. The view otherwise keeps its last applied result.
func (t *Tracker) settle(gen uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.gen || !t.view.Loading {
		return
	}
	t.view.Loading = false
	t.notifyLocked()
}

func (t *Tracker) notifyLocked() {
	if t.onUpdate != nil {
		v := t.view
		v.Timeline = append([]model.Transition(nil), t.view.Timeline...)
		t.onUpdate(v)
	}
}

func closedChan() chan struct{} {
	c := make(chan struct{})
	close(c)
	return c
}
