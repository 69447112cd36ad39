package messages

// Interactive prompt messages.
const (
	PromptRequiresTerminal      = "expofast requires an interactive terminal"
	PromptProjectNameTitle      = "What is your project named?"
	PromptPackageManagerTitle   = "Which package manager do you want to use?"
	PromptLanguageTitle         = "Which language do you want to use?"
	PromptRouterTitle           = "Use Expo Router for navigation?"
	PromptTabsTitle             = "Add tab navigation?"
	PromptStylingTitle          = "Use NativeWind (Tailwind CSS) for styling?"
	PromptBuildProfilesTitle    = "Configure EAS Build profiles?"
	PromptConfirmTitleFmt       = "Create %s with %s?"
	PromptFirstStepEscapePrompt = "Exit without creating a project?"
	PromptExitWithoutChanges    = "Exited without creating a project."
	PromptUnknownOptionFmt      = "unknown option %q for %s"
)
