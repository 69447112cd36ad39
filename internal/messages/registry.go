package messages

// Registry lookup messages. Lookup failures are only logged, never surfaced.
const (
	RegistryCreateRequestErrFmt  = "create registry request for %s: %w"
	RegistryFetchErrFmt          = "fetch latest %s: %w"
	RegistryFetchStatusFmt       = "fetch latest %s: unexpected status %s"
	RegistryDecodeErrFmt         = "decode latest %s: %w"
	RegistryMissingVersionFmt    = "latest %s: response missing version"
	RegistryInvalidVersionFmt    = "latest %s: invalid version %q: %w"
	RegistryRetryBudgetExhausted = "retry budget exhausted"
	RegistryFallbackLog          = "version lookup failed; using fallback"
	RegistryResolvedLog          = "resolved latest version"
)
