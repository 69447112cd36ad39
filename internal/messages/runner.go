package messages

// Command runner diagnostics.
const (
	RunnerEmptyCommand   = "command is empty"
	RunnerTimedOutFmt    = "command timed out after %s: %s"
	RunnerCanceledFmt    = "command canceled: %s"
	RunnerExitFmt        = "command exited with code %d: %s"
	RunnerStartFailedFmt = "command failed to start: %s: %v"
	RunnerFailedFmt      = "command failed: %s: %v"
	RunnerOutputFmt      = "%s\n%s"
	RunnerStartLog       = "running command"
	RunnerFinishedLog    = "command finished"
)
