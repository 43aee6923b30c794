package orchestrator

import (
	"errors"
	"strings"

	"github.com/idlab-discover/modelmaster-cli/internal/apperr"
	"github.com/idlab-discover/modelmaster-cli/internal/results"
	"github.com/idlab-discover/modelmaster-cli/internal/service"
	"github.com/idlab-discover/modelmaster-cli/internal/upload"
)

var (
	// ErrNoFile is the guard error of a submit without a selected file.
	ErrNoFile = apperr.Titled("No file selected", "Please upload a CSV file first.")
	// ErrBlankTarget is the guard error of a submit with a blank target variable.
	ErrBlankTarget = apperr.Titled("Target variable required", "Please specify the target variable for prediction.")
	// ErrRunInProgress rejects a submit or file change while Processing.
	ErrRunInProgress = errors.New("a run is already in progress")
)

// Request is the input of a submit.
type Request struct {
	File           *upload.RawFile
	TargetVariable string
	Task           results.TaskType
}

// Submit applies the submit transition. A guard violation returns Idle and a
// UserError, and a Processing state is returned unchanged with
// ErrRunInProgress. On success the returned Processing carries no data of any
// earlier run. The target variable is sent trimmed, matching the trimmed
// column names of the parsed header.
func Submit(s State, req Request, runID string) (State, error) {
	if _, busy := s.(Processing); busy {
		return s, ErrRunInProgress
	}
	if req.File == nil {
		return Idle{}, ErrNoFile
	}
	target := strings.TrimSpace(req.TargetVariable)
	if target == "" {
		return Idle{}, ErrBlankTarget
	}
	return Processing{
		RunID:          runID,
		Message:        DefaultProcessingMessage,
		FileName:       req.File.Name,
		TargetVariable: target,
		Task:           req.Task,
	}, nil
}

// Succeed moves p to Complete, keeping only the fields of p.Task. Echoed
// target variable and class distribution replace the local ones.
func Succeed(p Processing, resp *service.ProcessResponse) State {
	c := Complete{
		RunID:          p.RunID,
		Task:           p.Task,
		TargetVariable: p.TargetVariable,
	}
	if resp == nil {
		return c
	}
	c.Results = results.Normalize(p.Task, resp.Results)
	if t := strings.TrimSpace(resp.TargetVariable); t != "" {
		c.TargetVariable = t
	}
	if p.Task == results.Classification {
		c.ClassDistribution = resp.ClassDistribution
	}
	return c
}

// Fail moves p to Failed. The service's own message is preferred.
func Fail(p Processing, err error) State {
	msg := DefaultFailureMessage
	var re *service.RemoteError
	switch {
	case errors.As(err, &re) && strings.TrimSpace(re.Message) != "":
		msg = re.Message
	case err != nil && strings.TrimSpace(err.Error()) != "":
		msg = err.Error()
	}
	return Failed{RunID: p.RunID, Message: msg, Err: err}
}

// FileSelected is the transition taken when a new file is accepted: any state
// other than Processing resets to Idle.
func FileSelected(s State) (State, error) {
	if _, busy := s.(Processing); busy {
		return s, ErrRunInProgress
	}
	return Idle{}, nil
}
