package messages

// Orchestration messages.
const (
	OrchestratorIllegalTransitionFmt = "illegal run state transition %s -> %s"
	OrchestratorCreationFailedFmt    = "failed to create project %s: %v"
	OrchestratorCreateMissingDirFmt  = "generator reported success but %s was not created"
	OrchestratorCommandFailedFmt     = "%s failed: %s"
	OrchestratorRunnerRequired       = "command runner is required"
	OrchestratorComposerRequired     = "file composer is required"
	OrchestratorStepStartLog         = "step started"
	OrchestratorStepFinishedLog      = "step finished"
	OrchestratorActionFailedLog      = "action failed"
	OrchestratorAbortedLog           = "fatal step failed; aborting run"
	OrchestratorCleanupLog           = "removed partially created project"
	OrchestratorCleanupSkippedLog    = "keeping partially created project"
	OrchestratorCancelledFmt         = "creating %s was interrupted: %w"
	OrchestratorCancelledLog         = "run cancelled; remaining steps skipped"
)
