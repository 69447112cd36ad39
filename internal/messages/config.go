package messages

// Config messages for loading and validating the user config file.
const (
	ConfigFailedReadFmt        = "failed to read config %s: %w"
	ConfigInvalidConfigFmt     = "invalid config %s: %w"
	ConfigUnrecognizedKeysFmt  = "%s: unrecognized keys: %v"
	ConfigValidationGuidance   = "(see the config section of the README for supported keys)"
	ConfigHomeDirFailedFmt     = "failed to resolve home directory: %w"
	ConfigPackageManagerFmt    = "%s: package_manager %q must be one of %s"
	ConfigLanguageFmt          = "%s: language %q must be typescript or javascript"
	ConfigRegistryURLFmt       = "%s: registry_url %q must be an absolute http(s) URL"
	ConfigTimeoutPositiveFmt   = "%s: %s must be greater than zero"
	ConfigLogLevelFmt          = "%s: log_level %q is not a valid level"
	ConfigNoiseModeFmt         = "%s: noise_mode %q must be default or reduce"
	ConfigPinnedVersionFmt     = "%s: versions.%s %q is not a valid version"
	ConfigDurationFmt          = "invalid duration %q: %w"
	ConfigLoadedLog            = "loaded config"
	ConfigMissingUsingDefaults = "config file not found; using defaults"
)
