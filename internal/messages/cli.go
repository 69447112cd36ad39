package messages

// CLI messages for the root command, version output and run summary.
const (
	RootUse          = "expofast"
	RootShort        = "Scaffold an Expo project with router, styling and build profiles"
	RootLong         = "expofast asks a few questions, creates an Expo project with create-expo-app, and configures the features you picked."
	RootVerboseFlag  = "Show command output and debug logs"
	RootConfigFlag   = "Path to the config file (default $EXPOFAST_CONFIG or ~/.config/expofast/config.toml)"
	VersionCommitFmt = "commit %s"
	VersionBuildFmt  = "built %s"
	VersionFullFmt   = "%s (%s)"
	VersionTemplate  = "{{.Version}}\n"

	CreateBanner            = "expofast: fast Expo project setup"
	CreateResolvingVersions = "Resolving package versions..."
	CreateVersionLineFmt    = "  - %s: %s"
	CreateGetwdFailedFmt    = "failed to get working directory: %w"
	CreateLockReleaseLog    = "failed to release project lock"
	CreateFailedFmt         = "Could not create %s."
	CreateCleanedUpFmt      = "Removed the partially created %s directory."
	CreateKeptFmt           = "Left the partially created project in %s."
	CreateCancelledFmt      = "Interrupted. The project in %s is incomplete."
	CreateSkippedFmt        = "Not run: %s"

	StepCreateLabel        = "Creating Expo project"
	StepRouterLabel        = "Setting up Expo Router"
	StepTabsLabel          = "Adding tab navigation"
	StepStylingLabel       = "Configuring NativeWind"
	StepBuildProfilesLabel = "Configuring EAS Build"
	StepAppConfigLabel     = "Updating app.json"
	StepReadmeLabel        = "Writing README.md"
	StepStartedFmt         = "%s %s..."
	StepWarnedFmt          = "%s %s had issues"

	SummaryReady         = "Your Expo project is ready!"
	SummaryIncludes      = "Project includes:"
	SummaryItemFmt       = "  + %s"
	SummaryRouterTabs    = "Expo Router with Tabs"
	SummaryRouter        = "Expo Router"
	SummaryStyling       = "NativeWind (Tailwind CSS)"
	SummaryBuildProfiles = "EAS Build"
	SummaryIncomplete    = "Not finished (see warnings above):"
	SummaryNextSteps     = "Next steps:"
	SummaryNumberedFmt   = "  %d. %s"
	SummaryEASTitle      = "To build with EAS:"
	SummaryEASLogin      = "eas login"
	SummaryEASBuild      = "eas build --profile development --platform android"
	SummaryReadme        = "Check README.md for details."
	SummaryWarningsTitle = "Warnings:"
)
