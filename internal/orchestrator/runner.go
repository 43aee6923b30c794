package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/idlab-discover/modelmaster-cli/internal/results"
	"github.com/idlab-discover/modelmaster-cli/internal/service"
	"github.com/idlab-discover/modelmaster-cli/internal/upload"
)

// Processor performs the remote evaluation of one run.
type Processor interface {
	Process(ctx context.Context, req service.ProcessRequest) (*service.ProcessResponse, error)
}

// ChangeFunc observes every state the runner enters.
type ChangeFunc func(State)

// Options configures a Runner.
type Options struct {
	// Timeout bounds one processing request; 0 disables it.
	Timeout time.Duration
	// OnChange is called after each transition, outside the runner's lock.
	OnChange ChangeFunc
	// NewRunID overrides run ID generation.
	NewRunID func() string
}

// Runner is the single owner of the selected file and the run state.
type Runner struct {
	proc Processor
	opts Options

	mu    sync.Mutex
	gate  upload.Gate
	state State
}

// NewRunner returns a Runner in Idle.
func NewRunner(p Processor, opts Options) *Runner {
	if opts.NewRunID == nil {
		opts.NewRunID = uuid.NewString
	}
	return &Runner{proc: p, opts: opts, state: Idle{}}
}

// State returns the current state.
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// File returns the selected file, or nil.
func (r *Runner) File() *upload.RawFile {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gate.Selected()
}

// SelectFile passes f through the upload gate. An accepted file resets the run
// to Idle; a rejected one changes nothing. Selecting while Processing is
// rejected with ErrRunInProgress.
func (r *Runner) SelectFile(f upload.RawFile) (upload.RawFile, error) {
	r.mu.Lock()
	next, err := FileSelected(r.state)
	if err != nil {
		r.mu.Unlock()
		return upload.RawFile{}, err
	}
	accepted, err := r.gate.Accept(f)
	if err != nil {
		r.mu.Unlock()
		return upload.RawFile{}, err
	}
	changed := r.state.Phase() != PhaseIdle
	r.state = next
	r.mu.Unlock()

	logf("", "selected %s (%d bytes)", accepted.Name, accepted.Size)
	if changed {
		r.notify(next)
	}
	return accepted, nil
}

// Submit starts a run and blocks until it resolves. Guard violations return a
// UserError (or ErrRunInProgress) and make no request. Otherwise the returned
// state is Complete or Failed and the error is nil; a remote failure lives in
// the Failed state.
func (r *Runner) Submit(ctx context.Context, targetVariable string, task results.TaskType) (State, error) {
	r.mu.Lock()
	req := Request{File: r.gate.Selected(), TargetVariable: targetVariable, Task: task}
	prev := r.state
	next, err := Submit(r.state, req, r.opts.NewRunID())
	r.state = next
	r.mu.Unlock()

	if err != nil {
		if next.Phase() != prev.Phase() {
			r.notify(next)
		}
		return next, err
	}

	p := next.(Processing)
	r.notify(p)
	logf(p.RunID, "submit file=%s target=%s task=%s", p.FileName, p.TargetVariable, p.Task)

	final := r.await(ctx, p, *req.File)

	r.mu.Lock()
	cur, ok := r.state.(Processing)
	if !ok || cur.RunID != p.RunID {
		r.mu.Unlock()
		logf(p.RunID, "stale completion ignored")
		return r.State(), nil
	}
	r.state = final
	r.mu.Unlock()

	switch s := final.(type) {
	case Complete:
		logf(p.RunID, "complete (%d results)", len(s.Results))
	case Failed:
		logf(p.RunID, "failed: %s", s.Message)
	}
	r.notify(final)
	return final, nil
}

func (r *Runner) await(ctx context.Context, p Processing, f upload.RawFile) State {
	if r.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.Timeout)
		defer cancel()
	}

	resp, err := r.proc.Process(ctx, service.ProcessRequest{
		File:           f,
		TargetVariable: p.TargetVariable,
		Task:           p.Task,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && r.opts.Timeout > 0 {
			return Failed{RunID: p.RunID, Message: fmt.Sprintf("request timed out after %s", r.opts.Timeout), Err: err}
		}
		return Fail(p, err)
	}
	return Succeed(p, resp)
}

func (r *Runner) notify(s State) {
	if r.opts.OnChange != nil {
		r.opts.OnChange(s)
	}
}
