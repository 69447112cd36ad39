package messages

// Warning messages.
const (
	WarningsStepFailedFmt        = "step %s did not complete; the project was created without it"
	WarningsStepFailedFix        = "apply the step by hand inside the project directory"
	WarningsStepFailedRetryFmt   = "run inside the project directory: %s"
	WarningsVersionUnresolved    = "registry lookup failed; installed the latest tag instead of a pinned version"
	WarningsVersionUnresolvedFix = "check network access to the npm registry and pin versions in package.json"
	WarningsCleanupFailed        = "failed to remove the partially created project directory"
	WarningsCleanupFailedFixFmt  = "remove %s by hand before retrying"
	WarningsNoiseModeInvalidFmt  = "invalid noise_mode %q; expected %q or %q"
	WarningsNoiseModeInvalidFix  = "set noise_mode in the config file to a supported value"
)
