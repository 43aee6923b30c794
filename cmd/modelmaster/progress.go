package cmd

import (
	"fmt"
	"io"

	"github.com/idlab-discover/modelmaster-cli/internal/orchestrator"
	"github.com/idlab-discover/modelmaster-cli/internal/ui"
)

// runProgress shows the steps of a compare run. A nil runProgress (quiet
// mode) still runs every step, it just draws nothing.
type runProgress struct {
	wf    *ui.Workflow
	train int
	rank  int
}

func newRunProgress(w io.Writer) *runProgress {
	wf := ui.NewWorkflow(w)
	return &runProgress{
		wf:    wf,
		train: wf.AddTask("Training models"),
		rank:  wf.AddTask("Ranking results"),
	}
}

// observe mirrors the runner's states on the training step. It is the
// runner's OnChange hook.
func (p *runProgress) observe(s orchestrator.State) {
	if p == nil {
		return
	}
	switch st := s.(type) {
	case orchestrator.Processing:
		p.wf.Start()
		p.wf.Set(p.train, ui.TaskRunning, st.Message)
	case orchestrator.Complete:
		p.wf.Set(p.train, ui.TaskDone, fmt.Sprintf("%d model(s)", len(st.Results)))
	case orchestrator.Failed:
		p.wf.Set(p.train, ui.TaskFailed, st.Message)
		p.wf.SkipRemaining("run failed")
	}
}

// onChange returns the hook for orchestrator.Options, nil when quiet.
func (p *runProgress) onChange() orchestrator.ChangeFunc {
	if p == nil {
		return nil
	}
	return p.observe
}

// ranking runs fn as the ranking step.
func (p *runProgress) ranking(fn func() (string, error)) error {
	if p == nil {
		_, err := fn()
		return err
	}
	return p.wf.RunTask(p.rank, "", fn)
}

// skipRanking marks the ranking step as skipped.
func (p *runProgress) skipRanking(reason string) {
	if p != nil {
		p.wf.Set(p.rank, ui.TaskSkipped, reason)
	}
}

// stop draws the final state of every step.
func (p *runProgress) stop() {
	if p != nil {
		p.wf.Stop()
	}
}
