package orchestrator

import (
	"context"

	"github.com/conn-castle/expofast/internal/plan"
)

// Policy decides what a step failure does to the run.
type Policy string

const (
	// PolicyFatal aborts the run on failure.
	PolicyFatal Policy = "fatal"
	// PolicyOptional records a warning and continues.
	PolicyOptional Policy = "optional"
)

// Kind classifies the side effect an action performs.
type Kind string

const (
	KindExternalCommand Kind = "external-command"
	KindFileWrite       Kind = "file-write"
	KindFileMerge       Kind = "file-merge"
)

// Phase groups steps; phases run in declared order.
type Phase string

const (
	PhaseCreating   Phase = "creating"
	PhaseFeatures   Phase = "features"
	PhaseFinalizing Phase = "finalizing"
)

// Action is one side effect inside a step. Retry, when set, is the command
// line a user can run by hand to redo the action.
type Action struct {
	Name  string
	Kind  Kind
	Retry string
	// Do performs the action. report holds the results of the steps that
	// finished before this one.
	Do func(ctx context.Context, report RunReport) error
}

// Step is one unit of orchestrated work, usually one feature.
type Step struct {
	Name    string
	Feature plan.Flag
	Policy  Policy
	Phase   Phase
	Actions []Action
}

// Kind returns the kind of the step's leading action.
func (s Step) Kind() Kind {
	if len(s.Actions) == 0 {
		return ""
	}
	return s.Actions[0].Kind
}

// Fatal reports whether a failure of s aborts the run.
func (s Step) Fatal() bool {
	return s.Policy == PolicyFatal
}

// Observer receives progress notifications. Implementations must not block.
type Observer interface {
	StepStarted(step Step)
	StepFinished(result StepResult)
}

type nopObserver struct{}

func (nopObserver) StepStarted(Step)         {}
func (nopObserver) StepFinished(StepResult) {}
