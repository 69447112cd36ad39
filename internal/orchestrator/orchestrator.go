// Package orchestrator turns a resolved Plan into an ordered list of steps,
// runs them, and reports what actually happened.
//
// Runs are strictly sequential. The create step is fatal; every feature and
// finalization step is optional and only downgrades the run to a warning.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/conn-castle/expofast/internal/compose"
	"github.com/conn-castle/expofast/internal/messages"
	"github.com/conn-castle/expofast/internal/plan"
	"github.com/conn-castle/expofast/internal/registry"
	"github.com/conn-castle/expofast/internal/runner"
	"github.com/conn-castle/expofast/internal/warnings"
)

// CommandRunner runs one external command line.
type CommandRunner interface {
	Run(ctx context.Context, command string, dir string, silent bool) runner.Result
}

// FileComposer creates and merges project files.
type FileComposer interface {
	Exists(path string) bool
	EnsureDir(path string) error
	WriteNew(path string, content []byte) error
	Remove(path string) (bool, error)
	MergeJSON(path string, mutate func(*compose.Document) error) (bool, error)
	MergeText(path string, marker string, inject func(string) string) (bool, error)
}

// Deps are the collaborators a run needs.
type Deps struct {
	Runner   CommandRunner
	Composer FileComposer
	Log      logrus.FieldLogger
	Observer Observer
	// RemoveAll deletes the partial project after a fatal failure. Nil means os.RemoveAll.
	RemoveAll func(path string) error
	// KeepFailed leaves the partial project in place after a fatal failure.
	KeepFailed bool
	// Stream shows command output instead of capturing it.
	Stream bool
}

// Orchestrator builds and runs the steps for one Plan.
type Orchestrator struct {
	plan     plan.Plan
	versions registry.VersionMap
	deps     Deps
}

// New returns an Orchestrator for p. It fails when a required collaborator is missing.
func New(p plan.Plan, versions registry.VersionMap, deps Deps) (*Orchestrator, error) {
	if deps.Runner == nil {
		return nil, errors.New(messages.OrchestratorRunnerRequired)
	}
	if deps.Composer == nil {
		return nil, errors.New(messages.OrchestratorComposerRequired)
	}
	if deps.Log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		deps.Log = discard
	}
	if deps.Observer == nil {
		deps.Observer = nopObserver{}
	}
	if deps.RemoveAll == nil {
		deps.RemoveAll = os.RemoveAll
	}
	// Built-in pins fill gaps; a caller's entry for the same package wins.
	merged := registry.VersionMap{}
	for name, version := range PinnedVersions() {
		merged[name] = version
	}
	for name, version := range versions {
		merged[name] = version
	}
	versions = merged
	return &Orchestrator{plan: p, versions: versions, deps: deps}, nil
}

// Run executes steps in order and returns the report. It never returns an
// error; a fatal failure is reported through RunReport.Fatal and RunReport.Err.
// Once ctx is done no further step starts: the rest are recorded as skipped
// and the run ends in StateCancelled. The project directory is left in place.
func (o *Orchestrator) Run(ctx context.Context, steps []Step) RunReport {
	if ctx == nil {
		ctx = context.Background()
	}
	report := RunReport{State: StateNotStarted}
	report.transition(StateCreating)
	report.Warnings = append(report.Warnings, o.versionWarnings()...)

	for i, step := range steps {
		if ctx.Err() != nil {
			o.cancel(ctx, &report, steps[i:])
			return report
		}
		report.advanceTo(phaseStates[step.Phase])

		result := o.runStep(ctx, step, report)
		report.Results = append(report.Results, result)
		o.deps.Observer.StepFinished(result)

		if result.Outcome == OutcomeSucceeded {
			continue
		}
		if step.Fatal() {
			o.abort(&report, step)
			return report
		}
		report.Warnings = append(report.Warnings, warnings.StepFailed(step.Name, result.Err, result.Retry))
	}

	if ctx.Err() != nil {
		o.cancel(ctx, &report, nil)
		return report
	}
	report.advanceTo(StateDone)
	return report
}

func (o *Orchestrator) cancel(ctx context.Context, report *RunReport, rest []Step) {
	report.transition(StateCancelled)
	for _, step := range rest {
		report.Results = append(report.Results, StepResult{
			Step:    step.Name,
			Feature: step.Feature,
			Phase:   step.Phase,
			Kind:    step.Kind(),
			Policy:  step.Policy,
			Outcome: OutcomeSkipped,
		})
	}
	report.cancelErr = fmt.Errorf(messages.OrchestratorCancelledFmt, o.plan.ProjectName(), context.Cause(ctx))
	o.deps.Log.WithField("skipped", len(rest)).Warn(messages.OrchestratorCancelledLog)
}

func (o *Orchestrator) runStep(ctx context.Context, step Step, report RunReport) StepResult {
	log := o.deps.Log.WithFields(logrus.Fields{"step": step.Name, "feature": step.Feature, "phase": step.Phase})
	log.Debug(messages.OrchestratorStepStartLog)
	o.deps.Observer.StepStarted(step)

	start := time.Now()
	result := StepResult{
		Step:    step.Name,
		Feature: step.Feature,
		Phase:   step.Phase,
		Kind:    step.Kind(),
		Policy:  step.Policy,
	}

	var errs []error
	for _, action := range step.Actions {
		err := action.Do(ctx, report)
		if err == nil {
			continue
		}
		log.WithFields(logrus.Fields{"action": action.Name, "kind": action.Kind}).WithError(err).Warn(messages.OrchestratorActionFailedLog)
		errs = append(errs, err)
		if action.Retry != "" {
			result.Retry = append(result.Retry, action.Retry)
		}
		if step.Fatal() {
			break
		}
	}

	result.Duration = time.Since(start)
	result.Err = errors.Join(errs...)
	switch {
	case result.Err == nil:
		result.Outcome = OutcomeSucceeded
	case step.Fatal():
		result.Outcome = OutcomeFailed
		result.Err = &CreationError{Project: o.plan.ProjectName(), Err: result.Err}
	default:
		result.Outcome = OutcomeWarned
	}
	log.WithFields(logrus.Fields{"outcome": result.Outcome, "duration": result.Duration}).Debug(messages.OrchestratorStepFinishedLog)
	return result
}

func (o *Orchestrator) abort(report *RunReport, step Step) {
	report.transition(StateAborted)
	log := o.deps.Log.WithField("step", step.Name)
	log.Error(messages.OrchestratorAbortedLog)

	dir := o.plan.Dir()
	if o.deps.KeepFailed {
		log.WithField("path", dir).Info(messages.OrchestratorCleanupSkippedLog)
		return
	}
	if err := o.deps.RemoveAll(dir); err != nil {
		report.Warnings = append(report.Warnings, warnings.CleanupFailed(dir, err))
		return
	}
	report.CleanedUp = true
	log.WithField("path", dir).Debug(messages.OrchestratorCleanupLog)
}

// versionWarnings reports styling packages that will install at the "latest" tag.
func (o *Orchestrator) versionWarnings() []warnings.Warning {
	if !o.plan.Enabled(plan.FlagStyling) {
		return nil
	}
	var unresolved []string
	for _, name := range StylingPackages {
		if !o.versions.Resolved(name) {
			unresolved = append(unresolved, name)
		}
	}
	if len(unresolved) == 0 {
		return nil
	}
	return []warnings.Warning{warnings.VersionUnresolved(unresolved)}
}
