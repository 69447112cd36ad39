package messages

// Plan resolution messages.
const (
	ResolveWorkDirRequired              = "working directory is required"
	ResolveSystemRequired               = "resolve system is required"
	ResolveStatTargetFailedFmt          = "failed to check %s: %w"
	ValidationErrorFmt                  = "invalid %s %q: %s"
	ValidationNameEmpty                 = "name cannot be empty"
	ValidationNameTooLong               = "name can no longer contain more than 214 characters"
	ValidationNameLeadingPeriod         = "name cannot start with a period"
	ValidationNameLeadingUnderscore     = "name cannot start with an underscore"
	ValidationNameSurroundingSpaces     = "name cannot contain leading or trailing spaces"
	ValidationNameUppercase             = "name can no longer contain capital letters"
	ValidationNameSpecialCharacters     = "name can only contain URL-friendly characters"
	ValidationNameBlocklistedFmt        = "%s is not a valid package name"
	ValidationNameCoreModuleFmt         = "%s is a core module name"
	ValidationNameDirectoryExists       = "a directory with this name already exists"
	ValidationUnsupportedPackageManager = "unsupported package manager (expected npm, pnpm, or yarn)"
	ValidationUnsupportedLanguage       = "unsupported language (expected typescript or javascript)"
)
