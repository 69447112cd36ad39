// Package prompt collects raw project answers interactively.
//
// The flow asks one question per form. Esc steps back to the previous
// question, Ctrl+C cancels, and the tabs question is only asked when the
// router is enabled.
package prompt

import (
	"errors"
	"fmt"
	"maps"

	"github.com/conn-castle/expofast/internal/messages"
	"github.com/conn-castle/expofast/internal/pkgmgr"
	"github.com/conn-castle/expofast/internal/plan"
)

var (
	// ErrBack is returned by a UI when the user asks for the previous question.
	ErrBack = errors.New("prompt back requested")
	// ErrCancelled is returned when the user exits without finishing.
	ErrCancelled = errors.New("prompt cancelled")
)

// DefaultProjectName pre-fills the project name question.
const DefaultProjectName = "my-expo-app"

// Defaults pre-fill the questions.
type Defaults struct {
	ProjectName    string
	PackageManager pkgmgr.Name
	Language       plan.Language
	Flags          map[plan.Flag]bool
	// CheckName rejects a project name inline. Nil accepts anything.
	CheckName func(string) error
}

// NewDefaults returns defaults with every feature enabled.
func NewDefaults(manager pkgmgr.Name, language plan.Language) Defaults {
	flags := make(map[plan.Flag]bool)
	for _, f := range plan.Flags() {
		flags[f] = true
	}
	if manager == "" {
		manager = pkgmgr.Baseline
	}
	if language == "" {
		language = plan.DefaultLanguage
	}
	return Defaults{
		ProjectName:    DefaultProjectName,
		PackageManager: manager,
		Language:       language,
		Flags:          flags,
	}
}

type question int

const (
	questionName question = iota
	questionPackageManager
	questionLanguage
	questionRouter
	questionTabs
	questionStyling
	questionBuildProfiles
	questionConfirm
	questionDone
)

var flagQuestions = map[question]struct {
	flag  plan.Flag
	title string
}{
	questionRouter:        {plan.FlagRouter, messages.PromptRouterTitle},
	questionTabs:          {plan.FlagTabs, messages.PromptTabsTitle},
	questionStyling:       {plan.FlagStyling, messages.PromptStylingTitle},
	questionBuildProfiles: {plan.FlagBuildProfiles, messages.PromptBuildProfilesTitle},
}

// Collect runs the question flow and returns the raw answers. It returns
// ErrCancelled when the user exits; any other error comes from the UI.
func Collect(ui UI, defaults Defaults) (plan.Answers, error) {
	answers := plan.Answers{
		ProjectName:    defaults.ProjectName,
		PackageManager: string(defaults.PackageManager),
		Language:       string(defaults.Language),
		Flags:          maps.Clone(defaults.Flags),
	}
	if answers.Flags == nil {
		answers.Flags = map[plan.Flag]bool{}
	}

	var history []question
	q := questionName
	for q != questionDone {
		if q == questionTabs && !answers.Flags[plan.FlagRouter] {
			q++
			continue
		}

		snapshot := cloneAnswers(answers)
		err := ask(ui, q, &answers, defaults)
		if err == nil {
			history = append(history, q)
			q++
			continue
		}
		if !errors.Is(err, ErrBack) {
			return plan.Answers{}, err
		}

		answers = snapshot
		if len(history) == 0 {
			exit, confirmErr := confirmExitOnFirstQuestion(ui)
			if confirmErr != nil {
				return plan.Answers{}, confirmErr
			}
			if exit {
				return plan.Answers{}, ErrCancelled
			}
			continue
		}
		q = history[len(history)-1]
		history = history[:len(history)-1]
	}
	return answers, nil
}

func ask(ui UI, q question, answers *plan.Answers, defaults Defaults) error {
	switch q {
	case questionName:
		return ui.Input(messages.PromptProjectNameTitle, &answers.ProjectName, defaults.CheckName)
	case questionPackageManager:
		return ui.Select(messages.PromptPackageManagerTitle, managerOptions(), &answers.PackageManager)
	case questionLanguage:
		return askLanguage(ui, answers)
	case questionConfirm:
		return askConfirm(ui, answers)
	}
	fq := flagQuestions[q]
	value := answers.Flags[fq.flag]
	if err := ui.Confirm(fq.title, &value); err != nil {
		return err
	}
	answers.Flags[fq.flag] = value
	return nil
}

func askLanguage(ui UI, answers *plan.Answers) error {
	current := plan.DefaultLanguage
	if parsed, ok := plan.ParseLanguage(answers.Language); ok {
		current = parsed
	}
	label := current.Label()
	if err := ui.Select(messages.PromptLanguageTitle, languageLabels(), &label); err != nil {
		return err
	}
	for _, lang := range []plan.Language{plan.TypeScript, plan.JavaScript} {
		if lang.Label() == label {
			answers.Language = string(lang)
			return nil
		}
	}
	return fmt.Errorf(messages.PromptUnknownOptionFmt, label, messages.PromptLanguageTitle)
}

func askConfirm(ui UI, answers *plan.Answers) error {
	proceed := true
	title := fmt.Sprintf(messages.PromptConfirmTitleFmt, answers.ProjectName, answers.PackageManager)
	if err := ui.Confirm(title, &proceed); err != nil {
		return err
	}
	if !proceed {
		return ErrCancelled
	}
	return nil
}

func confirmExitOnFirstQuestion(ui UI) (bool, error) {
	exit := true
	if err := ui.Confirm(messages.PromptFirstStepEscapePrompt, &exit); err != nil {
		if errors.Is(err, ErrBack) {
			return false, nil
		}
		return false, err
	}
	return exit, nil
}

func managerOptions() []string {
	names := pkgmgr.Supported()
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, string(n))
	}
	return out
}

func languageLabels() []string {
	return []string{plan.TypeScript.Label(), plan.JavaScript.Label()}
}

func cloneAnswers(a plan.Answers) plan.Answers {
	a.Flags = maps.Clone(a.Flags)
	return a
}
