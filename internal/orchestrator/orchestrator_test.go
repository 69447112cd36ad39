package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/expofast/internal/compose"
	"github.com/conn-castle/expofast/internal/plan"
	"github.com/conn-castle/expofast/internal/registry"
	"github.com/conn-castle/expofast/internal/runner"
	"github.com/conn-castle/expofast/internal/warnings"
)

// fakeRunner records commands. A create command scaffolds a blank project
// unless it matches a failure prefix.
type fakeRunner struct {
	workDir  string
	project  string
	failOn   []string
	commands []string
	silent   []bool
	// onRun is called after each command is recorded.
	onRun func(command string)
}

func (r *fakeRunner) Run(_ context.Context, command string, dir string, silent bool) runner.Result {
	r.commands = append(r.commands, command)
	r.silent = append(r.silent, silent)
	if r.onRun != nil {
		r.onRun(command)
	}
	for _, prefix := range r.failOn {
		if strings.HasPrefix(command, prefix) {
			return runner.Result{Output: "command exited with code 1: " + command, ExitCode: 1}
		}
	}
	if strings.Contains(command, "--template blank") {
		project := filepath.Join(dir, r.project)
		if err := os.MkdirAll(project, 0o755); err != nil {
			return runner.Result{Output: err.Error()}
		}
		_ = os.WriteFile(filepath.Join(project, "app.json"), []byte(`{"expo":{"name":"`+r.project+`","slug":"`+r.project+`"}}`), 0o644)
		_ = os.WriteFile(filepath.Join(project, "babel.config.js"), []byte("module.exports = {};\n"), 0o644)
		_ = os.WriteFile(filepath.Join(project, "App.js"), []byte("export default function App() {}\n"), 0o644)
	}
	return runner.Result{OK: true}
}

type recordingObserver struct {
	started  []string
	finished []StepResult
}

func (o *recordingObserver) StepStarted(step Step)          { o.started = append(o.started, step.Name) }
func (o *recordingObserver) StepFinished(result StepResult) { o.finished = append(o.finished, result) }

type harness struct {
	plan     plan.Plan
	runner   *fakeRunner
	observer *recordingObserver
	orch     *Orchestrator
}

func newHarness(t *testing.T, answers plan.Answers, versions registry.VersionMap, mutate ...func(*Deps)) *harness {
	t.Helper()
	workDir := t.TempDir()
	p, err := plan.Resolve(answers, plan.Hints{WorkDir: workDir}, plan.RealSystem{})
	require.NoError(t, err)

	h := &harness{
		plan:     p,
		runner:   &fakeRunner{workDir: workDir, project: answers.ProjectName},
		observer: &recordingObserver{},
	}
	deps := Deps{Runner: h.runner, Composer: compose.New(nil, nil), Observer: h.observer}
	for _, m := range mutate {
		m(&deps)
	}
	h.orch, err = New(p, versions, deps)
	require.NoError(t, err)
	return h
}

func fullAnswers(pm string, language string) plan.Answers {
	return plan.Answers{
		ProjectName:    "my-app",
		PackageManager: pm,
		Language:       language,
		Flags: map[plan.Flag]bool{
			plan.FlagRouter:        true,
			plan.FlagTabs:          true,
			plan.FlagStyling:       true,
			plan.FlagBuildProfiles: true,
		},
	}
}

func resolvedVersions() registry.VersionMap {
	return registry.VersionMap{
		"nativewind":                     "4.1.23",
		"react-native-reanimated":        "3.16.1",
		"react-native-safe-area-context": "4.12.0",
	}
}

func (h *harness) read(t *testing.T, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(h.plan.Dir(), filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func stepNames(steps []Step) []string {
	out := make([]string, 0, len(steps))
	for _, s := range steps {
		out = append(out, s.Name)
	}
	return out
}

func TestNewRequiresCollaborators(t *testing.T) {
	_, err := New(plan.Plan{}, nil, Deps{Composer: compose.New(nil, nil)})
	assert.Error(t, err)
	_, err = New(plan.Plan{}, nil, Deps{Runner: &fakeRunner{}})
	assert.Error(t, err)
}

func TestStepsAllFeaturesInDeclaredOrder(t *testing.T) {
	h := newHarness(t, fullAnswers("pnpm", "typescript"), resolvedVersions())
	steps := h.orch.Steps()

	assert.Equal(t, []string{"create", "router", "tabs", "styling", "buildProfiles", "app-config", "readme"}, stepNames(steps))

	var features []Step
	for _, s := range steps {
		if s.Phase == PhaseFeatures {
			features = append(features, s)
		}
	}
	require.Len(t, features, 4)
	for _, s := range features {
		assert.Equal(t, PolicyOptional, s.Policy)
		assert.Equal(t, plan.Flag(s.Name), s.Feature)
	}
	assert.True(t, strings.HasPrefix(h.plan.Commands().Install, "pnpm"))

	assert.Equal(t, PolicyFatal, steps[0].Policy)
	assert.Equal(t, KindExternalCommand, steps[0].Kind())
	assert.Equal(t, KindFileWrite, steps[2].Kind())
	assert.Equal(t, KindFileWrite, steps[4].Kind())
	assert.Equal(t, KindFileMerge, steps[5].Kind())
}

func TestStepsWithoutFeatures(t *testing.T) {
	h := newHarness(t, plan.Answers{ProjectName: "bare", PackageManager: "npm", Language: "javascript"}, nil)
	assert.Equal(t, []string{"create", "app-config", "readme"}, stepNames(h.orch.Steps()))
	assert.Empty(t, Step{}.Kind())
}

func TestRunFullPlanTypeScript(t *testing.T) {
	h := newHarness(t, fullAnswers("pnpm", "typescript"), resolvedVersions())
	report := h.orch.Run(context.Background(), h.orch.Steps())

	require.False(t, report.Fatal())
	assert.NoError(t, report.Err())
	assert.Equal(t, StateDone, report.State)
	assert.Empty(t, report.Warnings)
	for _, res := range report.Results {
		assert.Equal(t, OutcomeSucceeded, res.Outcome, res.Step)
	}

	assert.Equal(t, []string{
		"pnpm create expo-app my-app --template blank",
		"pnpm add expo-router react-native-safe-area-context react-native-screens expo-linking expo-constants expo-status-bar",
		"pnpm add nativewind@4.1.23 react-native-reanimated@3.16.1 react-native-safe-area-context@4.12.0",
		"pnpm add -D tailwindcss@3.4.17",
	}, h.runner.commands)
	for _, silent := range h.runner.silent {
		assert.True(t, silent)
	}

	for _, rel := range []string{
		"tsconfig.json", "app/_layout.tsx", "app/(tabs)/_layout.tsx", "app/(tabs)/index.tsx",
		"app/(tabs)/explore.tsx", "tailwind.config.js", "global.css", "metro.config.js",
		"nativewind-env.d.ts", "eas.json", "README.md",
	} {
		assert.FileExists(t, filepath.Join(h.plan.Dir(), filepath.FromSlash(rel)))
	}
	assert.NoFileExists(t, filepath.Join(h.plan.Dir(), "App.js"))
	assert.NoFileExists(t, filepath.Join(h.plan.Dir(), "app", "index.tsx"))

	assert.True(t, strings.HasPrefix(h.read(t, "app/_layout.tsx"), "import '../global.css';\n"))
	assert.Contains(t, h.read(t, "babel.config.js"), "nativewind/babel")
	assert.Contains(t, h.read(t, "tsconfig.json"), `"nativewind-env.d.ts"`)

	var app struct {
		Expo struct {
			Name    string            `json:"name"`
			Plugins []string          `json:"plugins"`
			Web     map[string]string `json:"web"`
			Scheme  string            `json:"scheme"`
		} `json:"expo"`
	}
	require.NoError(t, json.Unmarshal([]byte(h.read(t, "app.json")), &app))
	assert.Equal(t, "my-app", app.Expo.Name)
	assert.Equal(t, []string{"expo-router"}, app.Expo.Plugins)
	assert.Equal(t, "metro", app.Expo.Web["bundler"])
	assert.Equal(t, "myapp", app.Expo.Scheme)

	readme := h.read(t, "README.md")
	assert.Contains(t, readme, "Expo Router with Tabs")
	assert.Contains(t, readme, "NativeWind")

	assert.Equal(t, stepNames(h.orch.Steps()), h.observer.started)
	assert.Len(t, h.observer.finished, 7)
}

func TestRunJavaScriptWithoutTabs(t *testing.T) {
	answers := plan.Answers{
		ProjectName:    "js-app",
		PackageManager: "yarn",
		Language:       "javascript",
		Flags:          map[plan.Flag]bool{plan.FlagRouter: true, plan.FlagStyling: true},
	}
	h := newHarness(t, answers, resolvedVersions())
	report := h.orch.Run(context.Background(), h.orch.Steps())

	require.Equal(t, StateDone, report.State)
	assert.FileExists(t, filepath.Join(h.plan.Dir(), "app", "index.js"))
	assert.NoFileExists(t, filepath.Join(h.plan.Dir(), "tsconfig.json"))
	assert.NoFileExists(t, filepath.Join(h.plan.Dir(), "nativewind-env.d.ts"))
	assert.True(t, strings.HasPrefix(h.read(t, "app/_layout.js"), "import '../global.css';\n"))
	assert.Equal(t, "yarn create expo-app js-app --template blank", h.runner.commands[0])
}

func TestRunCreationFailureAbortsAndCleansUp(t *testing.T) {
	h := newHarness(t, fullAnswers("npm", "typescript"), resolvedVersions())
	h.runner.failOn = []string{"npx create-expo-app"}
	require.NoError(t, os.MkdirAll(h.plan.Dir(), 0o755))

	report := h.orch.Run(context.Background(), h.orch.Steps())

	assert.True(t, report.Fatal())
	assert.Equal(t, StateAborted, report.State)
	require.Len(t, report.Results, 1)
	assert.Equal(t, OutcomeFailed, report.Results[0].Outcome)
	assert.Equal(t, []string{"npx create-expo-app my-app --template blank"}, h.runner.commands)
	assert.Equal(t, []string{"npx create-expo-app my-app --template blank"}, report.Results[0].Retry)

	var creation *CreationError
	require.ErrorAs(t, report.Err(), &creation)
	var command *CommandError
	require.ErrorAs(t, report.Err(), &command)
	assert.Equal(t, 1, command.Result.ExitCode)

	assert.True(t, report.CleanedUp)
	assert.NoDirExists(t, h.plan.Dir())
	assert.Equal(t, []string{"create"}, h.observer.started)
}

func TestRunCreationFailureKeepsDirWhenConfigured(t *testing.T) {
	h := newHarness(t, fullAnswers("npm", "javascript"), nil, func(d *Deps) { d.KeepFailed = true })
	h.runner.failOn = []string{"npx"}
	require.NoError(t, os.MkdirAll(h.plan.Dir(), 0o755))

	report := h.orch.Run(context.Background(), h.orch.Steps())
	assert.True(t, report.Fatal())
	assert.False(t, report.CleanedUp)
	assert.DirExists(t, h.plan.Dir())
}

func TestRunCleanupFailureIsReported(t *testing.T) {
	h := newHarness(t, fullAnswers("npm", "javascript"), nil, func(d *Deps) {
		d.RemoveAll = func(string) error { return errors.New("busy") }
	})
	h.runner.failOn = []string{"npx"}

	report := h.orch.Run(context.Background(), h.orch.Steps())
	assert.False(t, report.CleanedUp)
	require.NotEmpty(t, report.Warnings)
	last := report.Warnings[len(report.Warnings)-1]
	assert.Equal(t, warnings.CodeCleanupFailed, last.Code)
}

func TestRunMissingProjectDirAfterCreateIsFatal(t *testing.T) {
	h := newHarness(t, fullAnswers("pnpm", "typescript"), resolvedVersions())
	h.runner.project = "somewhere-else"

	report := h.orch.Run(context.Background(), h.orch.Steps())
	assert.True(t, report.Fatal())
	assert.Contains(t, report.Err().Error(), "was not created")
}

func TestRunOptionalFailureContinues(t *testing.T) {
	h := newHarness(t, fullAnswers("pnpm", "typescript"), resolvedVersions())
	h.runner.failOn = []string{"pnpm add expo-router"}

	report := h.orch.Run(context.Background(), h.orch.Steps())

	require.False(t, report.Fatal())
	assert.Equal(t, StateDone, report.State)
	router, ok := report.Result("router")
	require.True(t, ok)
	assert.Equal(t, OutcomeWarned, router.Outcome)
	assert.Equal(t, []string{"pnpm add expo-router react-native-safe-area-context react-native-screens expo-linking expo-constants expo-status-bar"}, router.Retry)

	// Later actions of the failed step still ran.
	assert.FileExists(t, filepath.Join(h.plan.Dir(), "app", "_layout.tsx"))
	assert.NoFileExists(t, filepath.Join(h.plan.Dir(), "App.js"))

	for _, name := range []string{"tabs", "styling", "buildProfiles", "app-config", "readme"} {
		res, ok := report.Result(name)
		require.True(t, ok, name)
		assert.Equal(t, OutcomeSucceeded, res.Outcome, name)
	}

	assert.False(t, report.FeaturePresent(plan.FlagRouter))
	assert.True(t, report.FeaturePresent(plan.FlagTabs))
	assert.Equal(t, []plan.Flag{plan.FlagRouter}, report.FailedFeatures())

	require.Len(t, report.Warnings, 1)
	assert.Equal(t, warnings.CodeStepFailed, report.Warnings[0].Code)
	assert.Equal(t, "router", report.Warnings[0].Subject)

	assert.NotContains(t, h.read(t, "app.json"), "expo-router")
	readme := h.read(t, "README.md")
	assert.Contains(t, readme, "**Navigation**: None")
	assert.Contains(t, readme, "Unfinished setup")
	assert.Contains(t, readme, "**router**")
}

func TestRunUnresolvedVersionsWarn(t *testing.T) {
	h := newHarness(t, fullAnswers("npm", "javascript"), registry.VersionMap{"nativewind": "4.1.23"})
	report := h.orch.Run(context.Background(), h.orch.Steps())

	require.NotEmpty(t, report.Warnings)
	assert.Equal(t, warnings.CodeVersionUnresolved, report.Warnings[0].Code)
	assert.Equal(t, "react-native-reanimated, react-native-safe-area-context", report.Warnings[0].Subject)
	assert.Contains(t, h.runner.commands, "npm install nativewind@4.1.23 react-native-reanimated@latest react-native-safe-area-context@latest")
}

func TestRunTailwindPinOverride(t *testing.T) {
	versions := resolvedVersions()
	versions[TailwindPackage] = "3.4.10"
	h := newHarness(t, fullAnswers("npm", "javascript"), versions)
	h.orch.Run(context.Background(), h.orch.Steps())

	assert.Contains(t, h.runner.commands, "npm install --save-dev tailwindcss@3.4.10")
	assert.NotContains(t, h.runner.commands, "npm install --save-dev tailwindcss@3.4.17")
}

func TestRunCancelledStopsStartingSteps(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := newHarness(t, fullAnswers("pnpm", "typescript"), resolvedVersions())
	h.runner.onRun = func(command string) {
		if strings.HasPrefix(command, "pnpm add expo-router") {
			cancel()
		}
	}

	report := h.orch.Run(ctx, h.orch.Steps())

	assert.Equal(t, StateCancelled, report.State)
	assert.True(t, report.Cancelled())
	assert.False(t, report.Fatal())
	assert.False(t, report.CleanedUp)
	require.Error(t, report.Err())
	assert.ErrorIs(t, report.Err(), context.Canceled)
	assert.Contains(t, report.Err().Error(), "my-app")

	assert.Len(t, h.runner.commands, 2)
	for _, cmd := range h.runner.commands {
		assert.NotContains(t, cmd, "nativewind")
		assert.NotContains(t, cmd, "tailwindcss")
	}
	assert.Equal(t, []string{"tabs", "styling", "buildProfiles", "app-config", "readme"}, report.Skipped())
	assert.NotContains(t, h.observer.started, "styling")
	assert.NoFileExists(t, filepath.Join(h.plan.Dir(), "README.md"))
	assert.DirExists(t, h.plan.Dir())
	assert.False(t, report.FeaturePresent(plan.FlagTabs))
	assert.Contains(t, report.FailedFeatures(), plan.FlagStyling)
}

func TestRunCancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	h := newHarness(t, plan.Answers{ProjectName: "bare", PackageManager: "npm"}, nil)

	report := h.orch.Run(ctx, h.orch.Steps())

	assert.True(t, report.Cancelled())
	assert.Empty(t, h.runner.commands)
	assert.Equal(t, []string{"create", "app-config", "readme"}, report.Skipped())
}

func TestRunStreamsWhenConfigured(t *testing.T) {
	h := newHarness(t, plan.Answers{ProjectName: "bare", PackageManager: "npm"}, nil, func(d *Deps) { d.Stream = true })
	h.orch.Run(context.Background(), h.orch.Steps())
	require.NotEmpty(t, h.runner.silent)
	assert.False(t, h.runner.silent[0])
}

func TestRunFatalStepOutsideCreatingPanics(t *testing.T) {
	h := newHarness(t, plan.Answers{ProjectName: "bare", PackageManager: "npm"}, nil)
	steps := []Step{{
		Name:   "late",
		Policy: PolicyFatal,
		Phase:  PhaseFinalizing,
		Actions: []Action{{Name: "x", Kind: KindFileWrite, Do: func(context.Context, RunReport) error {
			return errors.New("nope")
		}}},
	}}
	assert.Panics(t, func() { h.orch.Run(context.Background(), steps) })
}

func TestRunOutOfOrderPhasesPanics(t *testing.T) {
	h := newHarness(t, plan.Answers{ProjectName: "bare", PackageManager: "npm"}, nil)
	ok := func(context.Context, RunReport) error { return nil }
	steps := []Step{
		{Name: "readme", Policy: PolicyOptional, Phase: PhaseFinalizing, Actions: []Action{{Do: ok}}},
		{Name: "create", Policy: PolicyFatal, Phase: PhaseCreating, Actions: []Action{{Do: ok}}},
	}
	assert.Panics(t, func() { h.orch.Run(context.Background(), steps) })
}

func TestLookupPackagesAndPins(t *testing.T) {
	h := newHarness(t, fullAnswers("npm", "typescript"), nil)
	assert.Equal(t, StylingPackages, LookupPackages(h.plan))
	assert.Equal(t, map[string]string{"tailwindcss": "3.4.17"}, PinnedVersions())

	bare := newHarness(t, plan.Answers{ProjectName: "bare", PackageManager: "npm"}, nil)
	assert.Empty(t, LookupPackages(bare.plan))
}
