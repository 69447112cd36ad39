// Package pkgmgr describes the JavaScript package managers expofast can drive.
package pkgmgr

import (
	"strings"
)

// Name identifies a supported package manager.
type Name string

// Supported package managers.
const (
	NPM  Name = "npm"
	PNPM Name = "pnpm"
	Yarn Name = "yarn"
)

// Baseline is used when no explicit choice or detectable hint exists.
const Baseline = NPM

// UserAgentEnv is the variable package managers export to scripts they run.
const UserAgentEnv = "npm_config_user_agent"

// Verb names a command template inside a CommandSet.
type Verb string

// CommandSet verbs.
const (
	VerbInstall    Verb = "install"
	VerbInstallDev Verb = "installDev"
	VerbCreate     Verb = "create"
	VerbGlobal     Verb = "global"
)

// CommandSet maps verbs to literal command templates for one package manager.
type CommandSet struct {
	Install    string
	InstallDev string
	Create     string
	Global     string
}

// Template returns the literal template bound to verb.
func (c CommandSet) Template(verb Verb) (string, bool) {
	switch verb {
	case VerbInstall:
		return c.Install, true
	case VerbInstallDev:
		return c.InstallDev, true
	case VerbCreate:
		return c.Create, true
	case VerbGlobal:
		return c.Global, true
	default:
		return "", false
	}
}

// Command renders verb followed by args as a single command line.
// Unknown verbs render an empty string.
func (c CommandSet) Command(verb Verb, args ...string) string {
	tmpl, ok := c.Template(verb)
	if !ok {
		return ""
	}
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, tmpl)
	for _, arg := range args {
		if strings.TrimSpace(arg) == "" {
			continue
		}
		parts = append(parts, arg)
	}
	return strings.Join(parts, " ")
}

// commandSets is the static template table. It is only read through Commands,
// which returns CommandSet values, so callers cannot mutate it.
var commandSets = map[Name]CommandSet{
	NPM: {
		Install:    "npm install",
		InstallDev: "npm install --save-dev",
		Create:     "npx create-expo-app",
		Global:     "npm install -g",
	},
	PNPM: {
		Install:    "pnpm add",
		InstallDev: "pnpm add -D",
		Create:     "pnpm create expo-app",
		Global:     "pnpm add -g",
	},
	Yarn: {
		Install:    "yarn add",
		InstallDev: "yarn add -D",
		Create:     "yarn create expo-app",
		Global:     "yarn global add",
	},
}

// supportedOrder is the presentation order used by prompts.
var supportedOrder = []Name{PNPM, NPM, Yarn}

// Commands returns the CommandSet for name.
func Commands(name Name) (CommandSet, bool) {
	set, ok := commandSets[name]
	return set, ok
}

// Supported returns the supported package managers in prompt order.
func Supported() []Name {
	out := make([]Name, len(supportedOrder))
	copy(out, supportedOrder)
	return out
}

// Parse normalizes raw into a supported Name.
func Parse(raw string) (Name, bool) {
	name := Name(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := commandSets[name]; !ok {
		return "", false
	}
	return name, true
}

// detectMarkers are matched against the user agent in this order.
var detectMarkers = []Name{PNPM, Yarn}

// Detect picks a package manager from a user-agent hint such as
// "pnpm/9.1.0 npm/? node/v20.11.0 darwin arm64".
// Exactly one marker must match; no match or several matches yield Baseline.
func Detect(userAgent string) Name {
	var matched []Name
	for _, marker := range detectMarkers {
		if strings.Contains(userAgent, string(marker)) {
			matched = append(matched, marker)
		}
	}
	if len(matched) != 1 {
		return Baseline
	}
	return matched[0]
}

// InstallAllCommand returns the command that installs a project's declared dependencies.
func InstallAllCommand(name Name) string {
	return string(name) + " install"
}

// StartCommand returns the command that starts the Expo dev server.
func StartCommand(name Name) string {
	return string(name) + " start"
}
