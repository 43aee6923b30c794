package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// TaskStatus is the progress of one workflow step
type TaskStatus int

const (
	TaskPending TaskStatus = iota
	TaskRunning
	TaskDone
	TaskFailed
	TaskSkipped
)

// Task is one step of a Workflow. Note is the progress message while the task
// runs and its outcome once it has finished.
type Task struct {
	Name   string
	Status TaskStatus
	Note   string
}

type taskLook struct {
	icon string
	name styleWrapper
	note styleWrapper
}

func lookOf(s TaskStatus, frame string) taskLook {
	switch s {
	case TaskRunning:
		return taskLook{Secondary.Render(frame), StepRunning, Secondary}
	case TaskDone:
		return taskLook{GetCheckMark(), StepComplete, Dim}
	case TaskFailed:
		return taskLook{GetCrossMark(), StepFailed, Error}
	case TaskSkipped:
		return taskLook{Warning.Render("⊘"), StepSkipped, Warning}
	}
	return taskLook{Muted.Render("○"), StepPending, Dim}
}

// Workflow redraws a fixed list of steps in place and animates the running
// one. All methods are safe for concurrent use.
type Workflow struct {
	writer io.Writer

	mu    sync.Mutex
	tasks []Task
	frame string
	drawn int
	anim  *animator
}

// NewWorkflow returns an empty workflow that draws on w.
func NewWorkflow(w io.Writer) *Workflow {
	return &Workflow{writer: w, frame: spinnerFrames[0]}
}

// AddTask appends a pending step and returns its index.
func (wf *Workflow) AddTask(name string) int {
	wf.mu.Lock()
	defer wf.mu.Unlock()
	wf.tasks = append(wf.tasks, Task{Name: name})
	return len(wf.tasks) - 1
}

// Set moves step idx to status. Unknown indexes are ignored.
func (wf *Workflow) Set(idx int, status TaskStatus, note string) {
	wf.mu.Lock()
	defer wf.mu.Unlock()
	if idx < 0 || idx >= len(wf.tasks) {
		return
	}
	wf.tasks[idx].Status = status
	wf.tasks[idx].Note = note
}

// RunTask marks step idx running while fn executes, then done with fn's note
// or failed with its error.
func (wf *Workflow) RunTask(idx int, note string, fn func() (string, error)) error {
	wf.Set(idx, TaskRunning, note)
	outcome, err := fn()
	if err != nil {
		wf.Set(idx, TaskFailed, err.Error())
		return err
	}
	wf.Set(idx, TaskDone, outcome)
	return nil
}

// SkipRemaining marks every pending step as skipped.
func (wf *Workflow) SkipRemaining(reason string) {
	wf.mu.Lock()
	defer wf.mu.Unlock()
	for i := range wf.tasks {
		if wf.tasks[i].Status == TaskPending {
			wf.tasks[i].Status = TaskSkipped
			wf.tasks[i].Note = reason
		}
	}
}

// Start begins redrawing. Starting twice does nothing.
func (wf *Workflow) Start() {
	wf.mu.Lock()
	defer wf.mu.Unlock()
	if wf.anim != nil {
		return
	}
	wf.draw(false)
	wf.anim = animate(func(frame string) {
		wf.mu.Lock()
		defer wf.mu.Unlock()
		wf.frame = frame
		wf.draw(false)
	})
}

// Stop halts the animation and draws the final state. A workflow that was
// never started draws nothing.
func (wf *Workflow) Stop() {
	wf.mu.Lock()
	a := wf.anim
	wf.anim = nil
	wf.mu.Unlock()
	if a == nil {
		return
	}
	a.halt()

	wf.mu.Lock()
	defer wf.mu.Unlock()
	wf.draw(true)
}

// draw replaces the previous frame. The caller holds wf.mu.
func (wf *Workflow) draw(final bool) {
	var b strings.Builder
	b.WriteString(strings.Repeat("\033[A\033[K", wf.drawn))
	for _, t := range wf.tasks {
		b.WriteString(wf.line(t, final))
		b.WriteString("\n")
	}
	wf.drawn = len(wf.tasks)
	fmt.Fprint(wf.writer, b.String())
}

func (wf *Workflow) line(t Task, final bool) string {
	status := t.Status
	if final && status == TaskRunning {
		status = TaskPending
	}
	look := lookOf(status, wf.frame)
	line := look.icon + " " + look.name.Render(t.Name)

	switch {
	case t.Note == "" || status == TaskPending:
	case status == TaskRunning:
		line += " " + look.note.Render(t.Note)
	default:
		line += " " + look.note.Render("→ "+t.Note)
	}
	return line
}
