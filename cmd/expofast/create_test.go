package main

// Tests in this file mutate package-level seams (getwd, getenv, isInteractive,
// newUI, newCommandRunner, notifyContext, lockAcquire). Do not use t.Parallel(); each test restores them
// via t.Cleanup().

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/expofast/internal/config"
	"github.com/conn-castle/expofast/internal/lock"
	"github.com/conn-castle/expofast/internal/orchestrator"
	"github.com/conn-castle/expofast/internal/pkgmgr"
	"github.com/conn-castle/expofast/internal/plan"
	"github.com/conn-castle/expofast/internal/prompt"
	"github.com/conn-castle/expofast/internal/runner"
)

const pinnedConfig = `
[versions]
nativewind = "4.1.23"
react-native-reanimated = "3.16.1"
react-native-safe-area-context = "4.12.0"
`

// scaffoldRunner fakes the package manager. The create command writes a blank
// project; commands matching failOn exit non-zero. onRun sees every command.
type scaffoldRunner struct {
	failOn   []string
	commands []string
	onRun    func(command string)
}

func (r *scaffoldRunner) Run(_ context.Context, command string, dir string, _ bool) runner.Result {
	r.commands = append(r.commands, command)
	if r.onRun != nil {
		r.onRun(command)
	}
	for _, prefix := range r.failOn {
		if strings.HasPrefix(command, prefix) {
			return runner.Result{Output: "boom", ExitCode: 1}
		}
	}
	if strings.Contains(command, "--template blank") {
		fields := strings.Fields(command)
		name := ""
		for i, f := range fields {
			if f == "--template" && i > 0 {
				name = fields[i-1]
			}
		}
		project := filepath.Join(dir, name)
		if err := os.MkdirAll(project, 0o755); err != nil {
			return runner.Result{Output: err.Error(), ExitCode: 1}
		}
		_ = os.WriteFile(filepath.Join(project, "app.json"), []byte(`{"expo":{"name":"`+name+`"}}`), 0o644)
		_ = os.WriteFile(filepath.Join(project, "babel.config.js"), []byte("module.exports = {};\n"), 0o644)
	}
	return runner.Result{OK: true}
}

type createEnv struct {
	workDir    string
	configPath string
	ui         *prompt.MockUI
	runner     *scaffoldRunner
	env        map[string]string
}

func newCreateEnv(t *testing.T, configBody string) *createEnv {
	t.Helper()
	env := &createEnv{
		workDir: t.TempDir(),
		ui:      &prompt.MockUI{},
		runner:  &scaffoldRunner{},
		env:     map[string]string{},
	}
	env.configPath = filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(env.configPath, []byte(configBody), 0o644))

	origGetwd, origGetenv, origInteractive := getwd, getenv, isInteractive
	origUI, origRunner := newUI, newCommandRunner
	origNotify, origAcquire := notifyContext, lockAcquire
	t.Cleanup(func() {
		getwd, getenv, isInteractive = origGetwd, origGetenv, origInteractive
		newUI, newCommandRunner = origUI, origRunner
		notifyContext, lockAcquire = origNotify, origAcquire
	})
	getwd = func() (string, error) { return env.workDir, nil }
	getenv = func(key string) string { return env.env[key] }
	isInteractive = func() bool { return true }
	newUI = func() prompt.UI { return env.ui }
	newCommandRunner = func(time.Duration, logrus.FieldLogger) orchestrator.CommandRunner { return env.runner }
	return env
}

func (e *createEnv) execute(args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	full := append([]string{"expofast", "--config", e.configPath}, args...)
	err := execute(full, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestCreateRequiresTerminal(t *testing.T) {
	env := newCreateEnv(t, "")
	isInteractive = func() bool { return false }

	_, _, err := env.execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interactive terminal")
	assert.Empty(t, env.runner.commands)
}

func TestCreateCancelledAtFirstQuestion(t *testing.T) {
	env := newCreateEnv(t, "")
	env.ui.InputFunc = func(string, *string, func(string) error) error { return prompt.ErrCancelled }

	stdout, _, err := env.execute()
	require.NoError(t, err)
	assert.Contains(t, stdout, "Exited without creating a project.")
	assert.Empty(t, env.runner.commands)
	entries, err := os.ReadDir(env.workDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCreateDeclinedConfirmation(t *testing.T) {
	env := newCreateEnv(t, "")
	env.ui.ConfirmFunc = func(title string, value *bool) error {
		if strings.HasPrefix(title, "Create ") {
			*value = false
		}
		return nil
	}

	stdout, _, err := env.execute()
	require.NoError(t, err)
	assert.Contains(t, stdout, "Exited without creating a project.")
	assert.Empty(t, env.runner.commands)
}

func TestCreateInvalidConfig(t *testing.T) {
	env := newCreateEnv(t, "unknown_key = true\n")

	_, _, err := env.execute()
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrConfigValidation)
}

func TestCreateAllFeatures(t *testing.T) {
	env := newCreateEnv(t, pinnedConfig)
	env.env[pkgmgr.UserAgentEnv] = "pnpm/9.0.0 npm/? node/v20.0.0"

	stdout, stderr, err := env.execute()
	require.NoError(t, err, stderr)

	project := filepath.Join(env.workDir, "my-expo-app")
	for _, rel := range []string{"app/_layout.tsx", "tailwind.config.js", "global.css", "eas.json", "README.md", "tsconfig.json"} {
		assert.FileExists(t, filepath.Join(project, filepath.FromSlash(rel)))
	}
	require.NotEmpty(t, env.runner.commands)
	assert.True(t, strings.HasPrefix(env.runner.commands[0], "pnpm create expo-app my-expo-app"), env.runner.commands[0])
	assert.Contains(t, strings.Join(env.runner.commands, "\n"), "nativewind@4.1.23")

	assert.Contains(t, stdout, "Resolving package versions...")
	assert.Contains(t, stdout, "tailwindcss: 3.4.17")
	assert.Contains(t, stdout, "Your Expo project is ready!")
	assert.Contains(t, stdout, "Expo Router with Tabs")
	assert.Contains(t, stdout, "NativeWind (Tailwind CSS)")
	assert.Contains(t, stdout, "pnpm install")
	assert.Contains(t, stdout, "eas login")
	assert.NotContains(t, stderr, "WARNING")

	assert.NoFileExists(t, lock.Path(env.workDir, "my-expo-app"))
}

func TestCreateOptionalFailureStillSucceeds(t *testing.T) {
	env := newCreateEnv(t, pinnedConfig)
	env.runner.failOn = []string{"npm install expo-router"}

	stdout, stderr, err := env.execute()
	require.NoError(t, err)
	assert.Contains(t, stderr, "WARNING STEP_FAILED")
	assert.Contains(t, stdout, "Not finished")
	assert.NotContains(t, stdout, "Expo Router with Tabs")
	assert.NotContains(t, stdout, "  + Expo Router\n")
	assert.Contains(t, stdout, "NativeWind (Tailwind CSS)")
}

func TestCreateFatalFailureRemovesProject(t *testing.T) {
	env := newCreateEnv(t, pinnedConfig)
	env.runner.failOn = []string{"npx create-expo-app"}

	stdout, stderr, err := env.execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "my-expo-app")
	assert.Contains(t, stderr, "Could not create my-expo-app.")
	assert.NotContains(t, stdout, "Your Expo project is ready!")
	assert.Len(t, env.runner.commands, 1)
	assert.NoDirExists(t, filepath.Join(env.workDir, "my-expo-app"))
}

func TestCreateRejectsExistingDirectory(t *testing.T) {
	env := newCreateEnv(t, "")
	require.NoError(t, os.Mkdir(filepath.Join(env.workDir, "taken"), 0o755))
	env.ui.InputFunc = func(_ string, value *string, _ func(string) error) error {
		*value = "taken"
		return nil
	}

	_, _, err := env.execute()
	require.Error(t, err)
	assert.ErrorIs(t, err, plan.ErrValidation)
	assert.Empty(t, env.runner.commands)
}

func TestCreateLockHeld(t *testing.T) {
	env := newCreateEnv(t, pinnedConfig)
	held, err := lock.Acquire(env.workDir, "my-expo-app")
	require.NoError(t, err)
	t.Cleanup(func() { _ = held.Release() })

	_, _, err = env.execute()
	require.Error(t, err)
	assert.True(t, errors.Is(err, lock.ErrHeld), err)
	assert.Empty(t, env.runner.commands)
}

func TestCreateRechecksNameUnderLock(t *testing.T) {
	env := newCreateEnv(t, pinnedConfig)
	target := filepath.Join(env.workDir, "my-expo-app")
	lockAcquire = func(dir string, name string) (*lock.Lock, error) {
		// Another process creates the directory while this one waits.
		require.NoError(t, os.MkdirAll(target, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(target, "keep.txt"), []byte("mine"), 0o644))
		return lock.Acquire(dir, name)
	}

	_, _, err := env.execute()
	require.Error(t, err)
	assert.ErrorIs(t, err, plan.ErrValidation)
	assert.Empty(t, env.runner.commands)
	assert.FileExists(t, filepath.Join(target, "keep.txt"))
	assert.NoFileExists(t, lock.Path(env.workDir, "my-expo-app"))
}

func TestCreateInterrupted(t *testing.T) {
	env := newCreateEnv(t, pinnedConfig)
	var cancel context.CancelFunc
	notifyContext = func(parent context.Context, _ ...os.Signal) (context.Context, context.CancelFunc) {
		var ctx context.Context
		ctx, cancel = context.WithCancel(parent)
		return ctx, cancel
	}
	env.runner.onRun = func(command string) {
		if strings.HasPrefix(command, "npm install expo-router") {
			cancel()
		}
	}

	stdout, stderr, err := env.execute()
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, stderr, "Interrupted.")
	assert.Contains(t, stderr, "Not run:")
	assert.NotContains(t, stdout, "Your Expo project is ready!")
	assert.NotContains(t, strings.Join(env.runner.commands, "\n"), "nativewind")
	assert.DirExists(t, filepath.Join(env.workDir, "my-expo-app"))
	assert.NoFileExists(t, lock.Path(env.workDir, "my-expo-app"))
}

func TestPromptDefaults(t *testing.T) {
	cfg := config.Defaults()
	cfg.PackageManager = "yarn"
	cfg.Language = "javascript"

	d := promptDefaults(cfg, t.TempDir(), "")
	assert.Equal(t, pkgmgr.Yarn, d.PackageManager)
	assert.Equal(t, plan.JavaScript, d.Language)
	require.NotNil(t, d.CheckName)
	assert.NoError(t, d.CheckName("fresh-app"))

	d = promptDefaults(cfg, t.TempDir(), "pnpm/9.0.0 node/v20")
	assert.Equal(t, pkgmgr.PNPM, d.PackageManager)

	d = promptDefaults(config.Defaults(), t.TempDir(), "")
	assert.Equal(t, pkgmgr.Baseline, d.PackageManager)
	assert.Equal(t, plan.DefaultLanguage, d.Language)
}

func TestNewLoggerVerboseRaisesLevel(t *testing.T) {
	var out bytes.Buffer
	assert.Equal(t, logrus.WarnLevel, newLogger(&out, logrus.WarnLevel, false).GetLevel())
	assert.Equal(t, logrus.DebugLevel, newLogger(&out, logrus.WarnLevel, true).GetLevel())
	assert.Equal(t, logrus.TraceLevel, newLogger(&out, logrus.TraceLevel, true).GetLevel())
}
