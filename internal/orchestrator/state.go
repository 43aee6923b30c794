// Package orchestrator owns the lifecycle of one analysis run:
// Idle → Processing → Complete | Failed.
//
// States are immutable values; every transition returns a new State and the
// previous one is discarded whole, so a new run can never show results of an
// earlier one.
package orchestrator

import (
	"github.com/idlab-discover/modelmaster-cli/internal/results"
)

// Phase names the active state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseProcessing
	PhaseComplete
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseProcessing:
		return "processing"
	case PhaseComplete:
		return "complete"
	case PhaseError:
		return "error"
	default:
		return "idle"
	}
}

// State is one of Idle, Processing, Complete or Failed.
type State interface {
	Phase() Phase
	isState()
}

// Idle holds nothing.
type Idle struct{}

// Processing is an in-flight run.
type Processing struct {
	RunID          string
	Message        string
	FileName       string
	TargetVariable string
	Task           results.TaskType
}

// Complete is a finished run. TargetVariable and ClassDistribution are the
// values echoed by the service.
type Complete struct {
	RunID             string
	Task              results.TaskType
	Results           []results.ModelResult
	TargetVariable    string
	ClassDistribution *results.ClassDistribution
}

// Failed is a run that ended in an error. Message is user-facing.
type Failed struct {
	RunID   string
	Message string
	Err     error
}

func (Idle) Phase() Phase       { return PhaseIdle }
func (Processing) Phase() Phase { return PhaseProcessing }
func (Complete) Phase() Phase   { return PhaseComplete }
func (Failed) Phase() Phase     { return PhaseError }

func (Idle) isState()       {}
func (Processing) isState() {}
func (Complete) isState()   {}
func (Failed) isState()     {}

// DefaultProcessingMessage is shown while a run is in flight.
const DefaultProcessingMessage = "Processing your dataset..."

// DefaultFailureMessage is used when a failure carries no text.
const DefaultFailureMessage = "There was an error processing your dataset. Please try again."
