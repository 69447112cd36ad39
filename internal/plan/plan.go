// Package plan turns raw user answers into an immutable, fully resolved Plan.
package plan

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/conn-castle/expofast/internal/messages"
	"github.com/conn-castle/expofast/internal/pkgmgr"
)

// Language selects between the typed and plain source variants.
type Language string

// Supported languages.
const (
	TypeScript Language = "typescript"
	JavaScript Language = "javascript"
)

// DefaultLanguage is used when no language was chosen.
const DefaultLanguage = TypeScript

// ParseLanguage normalizes raw into a supported Language.
func ParseLanguage(raw string) (Language, bool) {
	switch Language(strings.ToLower(strings.TrimSpace(raw))) {
	case TypeScript:
		return TypeScript, true
	case JavaScript:
		return JavaScript, true
	default:
		return "", false
	}
}

// Typed reports whether l is the typed variant.
func (l Language) Typed() bool {
	return l == TypeScript
}

// Label returns the display name of l.
func (l Language) Label() string {
	if l.Typed() {
		return "TypeScript"
	}
	return "JavaScript"
}

// Answers holds raw, unvalidated answers as returned by the prompt layer.
type Answers struct {
	ProjectName    string
	PackageManager string
	Language       string
	Flags          map[Flag]bool
}

// Hints carries environment facts that only influence defaults.
type Hints struct {
	// WorkDir is the directory the project is created in.
	WorkDir string
	// UserAgent is the value of npm_config_user_agent, if any.
	UserAgent string
}

// System abstracts the filesystem checks needed during resolution.
type System interface {
	Lstat(name string) (os.FileInfo, error)
}

// RealSystem implements System using the OS filesystem.
type RealSystem struct{}

// Lstat returns a FileInfo describing the named file without following symlinks.
func (RealSystem) Lstat(name string) (os.FileInfo, error) {
	return os.Lstat(name)
}

// Plan is the resolved configuration for one run. The zero value is not usable;
// obtain a Plan from Resolve. All accessors return copies.
type Plan struct {
	projectName    string
	packageManager pkgmgr.Name
	commands       pkgmgr.CommandSet
	language       Language
	flags          map[Flag]bool
	workDir        string
}

// ProjectName returns the validated project name.
func (p Plan) ProjectName() string { return p.projectName }

// PackageManager returns the chosen package manager.
func (p Plan) PackageManager() pkgmgr.Name { return p.packageManager }

// Commands returns the CommandSet bound to the package manager.
func (p Plan) Commands() pkgmgr.CommandSet { return p.commands }

// Language returns the chosen source language.
func (p Plan) Language() Language { return p.language }

// WorkDir returns the directory the project is created in.
func (p Plan) WorkDir() string { return p.workDir }

// Dir returns the absolute project directory.
func (p Plan) Dir() string { return filepath.Join(p.workDir, p.projectName) }

// Scheme returns the deep-link scheme derived from the project name.
func (p Plan) Scheme() string { return Scheme(p.projectName) }

// Enabled reports the effective value of f.
func (p Plan) Enabled(f Flag) bool { return p.flags[f] }

// EnabledFlags returns the enabled flags in declared order.
func (p Plan) EnabledFlags() []Flag {
	var out []Flag
	for _, f := range Flags() {
		if p.flags[f] {
			out = append(out, f)
		}
	}
	return out
}

// Resolve validates raw answers and produces a Plan. Validation failures are
// returned as *ValidationError before anything touches the filesystem beyond a stat.
func Resolve(raw Answers, hints Hints, sys System) (Plan, error) {
	if strings.TrimSpace(hints.WorkDir) == "" {
		return Plan{}, errors.New(messages.ResolveWorkDirRequired)
	}
	if sys == nil {
		return Plan{}, errors.New(messages.ResolveSystemRequired)
	}

	if err := ValidateName(raw.ProjectName); err != nil {
		return Plan{}, err
	}
	if err := checkTargetFree(sys, hints.WorkDir, raw.ProjectName); err != nil {
		return Plan{}, err
	}

	manager := pkgmgr.Detect(hints.UserAgent)
	if strings.TrimSpace(raw.PackageManager) != "" {
		parsed, ok := pkgmgr.Parse(raw.PackageManager)
		if !ok {
			return Plan{}, &ValidationError{Field: FieldPackageManager, Value: raw.PackageManager, Reason: messages.ValidationUnsupportedPackageManager}
		}
		manager = parsed
	}
	commands, _ := pkgmgr.Commands(manager)

	language := DefaultLanguage
	if strings.TrimSpace(raw.Language) != "" {
		parsed, ok := ParseLanguage(raw.Language)
		if !ok {
			return Plan{}, &ValidationError{Field: FieldLanguage, Value: raw.Language, Reason: messages.ValidationUnsupportedLanguage}
		}
		language = parsed
	}

	return Plan{
		projectName:    raw.ProjectName,
		packageManager: manager,
		commands:       commands,
		language:       language,
		flags:          resolveFlags(raw.Flags),
		workDir:        hints.WorkDir,
	}, nil
}

// CheckName validates name and reports whether it is free under workDir.
// Prompts use it to reject a name before the remaining questions are asked.
func CheckName(sys System, workDir string, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	return checkTargetFree(sys, workDir, name)
}

func checkTargetFree(sys System, workDir string, name string) error {
	target := filepath.Join(workDir, name)
	_, err := sys.Lstat(target)
	if err == nil {
		return nameError(name, messages.ValidationNameDirectoryExists)
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf(messages.ResolveStatTargetFailedFmt, target, err)
	}
	return nil
}
