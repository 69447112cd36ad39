package orchestrator

import (
	"fmt"
	"slices"
	"time"

	"github.com/conn-castle/expofast/internal/messages"
	"github.com/conn-castle/expofast/internal/plan"
	"github.com/conn-castle/expofast/internal/warnings"
)

// State is the lifecycle position of a run.
type State string

const (
	StateNotStarted   State = "not-started"
	StateCreating     State = "creating"
	StateAborted      State = "aborted"
	StateFeatureSteps State = "feature-steps"
	StateFinalizing   State = "finalizing"
	StateDone         State = "done"
	StateCancelled    State = "cancelled"
)

// transitions lists the legal next states. advanceTo follows the last entry,
// so the forward edge stays last.
var transitions = map[State][]State{
	StateNotStarted:   {StateCreating},
	StateCreating:     {StateCancelled, StateAborted, StateFeatureSteps},
	StateFeatureSteps: {StateCancelled, StateFinalizing},
	StateFinalizing:   {StateCancelled, StateDone},
}

var phaseStates = map[Phase]State{
	PhaseCreating:   StateCreating,
	PhaseFeatures:   StateFeatureSteps,
	PhaseFinalizing: StateFinalizing,
}

// Outcome is what actually happened to a step.
type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeWarned    Outcome = "warned"
	OutcomeFailed    Outcome = "failed"
	// OutcomeSkipped marks a step that never started because the run was cancelled.
	OutcomeSkipped Outcome = "skipped"
)

// StepResult records one executed step.
type StepResult struct {
	Step     string
	Feature  plan.Flag
	Phase    Phase
	Kind     Kind
	Policy   Policy
	Outcome  Outcome
	Err      error
	Retry    []string
	Duration time.Duration
}

// RunReport is the outcome of a run. Finalization and the summary read it
// instead of the requested plan.
type RunReport struct {
	State    State
	Results  []StepResult
	Warnings []warnings.Warning
	// CleanedUp is true when a fatal failure removed the partial project directory.
	CleanedUp bool

	cancelErr error
}

// Fatal reports whether the run aborted.
func (r RunReport) Fatal() bool {
	return r.State == StateAborted
}

// Cancelled reports whether the context was cancelled before every step ran.
func (r RunReport) Cancelled() bool {
	return r.State == StateCancelled
}

// Skipped returns the names of the steps that never started.
func (r RunReport) Skipped() []string {
	var out []string
	for _, res := range r.Results {
		if res.Outcome == OutcomeSkipped {
			out = append(out, res.Step)
		}
	}
	return out
}

// Err returns the fatal step's error or the cancellation error. It is nil for
// a run that reached StateDone.
func (r RunReport) Err() error {
	if r.Cancelled() {
		return r.cancelErr
	}
	if !r.Fatal() {
		return nil
	}
	for _, res := range r.Results {
		if res.Outcome == OutcomeFailed {
			return res.Err
		}
	}
	return nil
}

// Result returns the result of the named step.
func (r RunReport) Result(step string) (StepResult, bool) {
	for _, res := range r.Results {
		if res.Step == step {
			return res, true
		}
	}
	return StepResult{}, false
}

// FeaturePresent reports whether every step of feature f ran and succeeded.
// A feature with no executed steps is not present.
func (r RunReport) FeaturePresent(f plan.Flag) bool {
	found := false
	for _, res := range r.Results {
		if res.Feature != f {
			continue
		}
		if res.Outcome != OutcomeSucceeded {
			return false
		}
		found = true
	}
	return found
}

// FailedFeatures returns features with at least one unsuccessful step, in run order.
func (r RunReport) FailedFeatures() []plan.Flag {
	var out []plan.Flag
	for _, res := range r.Results {
		if res.Feature == "" || res.Outcome == OutcomeSucceeded {
			continue
		}
		if !slices.Contains(out, res.Feature) {
			out = append(out, res.Feature)
		}
	}
	return out
}

// transition moves the run to next and panics on an undeclared edge.
func (r *RunReport) transition(next State) {
	if !slices.Contains(transitions[r.State], next) {
		panic(fmt.Sprintf(messages.OrchestratorIllegalTransitionFmt, r.State, next))
	}
	r.State = next
}

// advanceTo walks the linear path towards target. Phases without steps are
// still entered so every successful run passes through the same states.
func (r *RunReport) advanceTo(target State) {
	for r.State != target {
		next := transitions[r.State]
		if len(next) == 0 {
			panic(fmt.Sprintf(messages.OrchestratorIllegalTransitionFmt, r.State, target))
		}
		r.transition(next[len(next)-1])
	}
}
