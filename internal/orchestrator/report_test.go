package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/conn-castle/expofast/internal/plan"
)

func TestTransitions(t *testing.T) {
	r := RunReport{State: StateNotStarted}
	r.transition(StateCreating)
	r.transition(StateFeatureSteps)
	r.transition(StateFinalizing)
	r.transition(StateDone)
	assert.Equal(t, StateDone, r.State)

	assert.Panics(t, func() { (&RunReport{State: StateNotStarted}).transition(StateDone) })
	assert.Panics(t, func() { (&RunReport{State: StateFeatureSteps}).transition(StateAborted) })
	assert.Panics(t, func() { (&RunReport{State: StateAborted}).transition(StateCreating) })
	assert.Panics(t, func() { (&RunReport{State: StateDone}).transition(StateCancelled) })

	for _, from := range []State{StateCreating, StateFeatureSteps, StateFinalizing} {
		r := RunReport{State: from}
		r.transition(StateCancelled)
		assert.True(t, r.Cancelled(), from)
	}
}

func TestAdvanceToSkipsEmptyPhases(t *testing.T) {
	r := RunReport{State: StateCreating}
	r.advanceTo(StateFinalizing)
	assert.Equal(t, StateFinalizing, r.State)
	r.advanceTo(StateFinalizing)
	assert.Equal(t, StateFinalizing, r.State)
	assert.Panics(t, func() { r.advanceTo(StateCreating) })
}

func TestFeaturePresentRequiresEveryStep(t *testing.T) {
	r := RunReport{Results: []StepResult{
		{Step: "create", Outcome: OutcomeSucceeded},
		{Step: "router", Feature: plan.FlagRouter, Outcome: OutcomeSucceeded},
		{Step: "router-extra", Feature: plan.FlagRouter, Outcome: OutcomeWarned},
		{Step: "styling", Feature: plan.FlagStyling, Outcome: OutcomeSucceeded},
	}}
	assert.False(t, r.FeaturePresent(plan.FlagRouter))
	assert.True(t, r.FeaturePresent(plan.FlagStyling))
	assert.False(t, r.FeaturePresent(plan.FlagTabs))
	assert.Equal(t, []plan.Flag{plan.FlagRouter}, r.FailedFeatures())
	assert.NoError(t, r.Err())

	_, ok := r.Result("missing")
	assert.False(t, ok)
}
