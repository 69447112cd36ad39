package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/conn-castle/expofast/internal/compose"
	"github.com/conn-castle/expofast/internal/config"
	"github.com/conn-castle/expofast/internal/lock"
	"github.com/conn-castle/expofast/internal/messages"
	"github.com/conn-castle/expofast/internal/orchestrator"
	"github.com/conn-castle/expofast/internal/pkgmgr"
	"github.com/conn-castle/expofast/internal/plan"
	"github.com/conn-castle/expofast/internal/prompt"
	"github.com/conn-castle/expofast/internal/registry"
	"github.com/conn-castle/expofast/internal/runner"
	"github.com/conn-castle/expofast/internal/terminal"
	"github.com/conn-castle/expofast/internal/warnings"
)

var (
	getwd         = os.Getwd
	getenv        = os.Getenv
	isInteractive = terminal.IsInteractive
	newUI         = func() prompt.UI { return prompt.NewHuhUI() }
	// newCommandRunner builds the runner for external commands. Tests replace it
	// so no package manager is ever spawned.
	newCommandRunner = func(timeout time.Duration, log logrus.FieldLogger) orchestrator.CommandRunner {
		return runner.New(timeout, log)
	}
	registryClient = http.DefaultClient
	notifyContext  = signal.NotifyContext
	lockAcquire    = lock.Acquire
)

func runCreate(cmd *cobra.Command, opts *rootOptions) error {
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	cfg, cfgPath, found, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	log := newLogger(stderr, cfg.Level(), opts.verbose)
	if found {
		log.WithField("path", cfgPath).Debug(messages.ConfigLoadedLog)
	} else {
		log.WithField("path", cfgPath).Debug(messages.ConfigMissingUsingDefaults)
	}

	if !isInteractive() {
		return errors.New(messages.PromptRequiresTerminal)
	}
	workDir, err := getwd()
	if err != nil {
		return fmt.Errorf(messages.CreateGetwdFailedFmt, err)
	}

	printBanner(stdout)
	userAgent := getenv(pkgmgr.UserAgentEnv)
	answers, err := prompt.Collect(newUI(), promptDefaults(cfg, workDir, userAgent))
	if errors.Is(err, prompt.ErrCancelled) {
		_, _ = fmt.Fprintln(stdout, messages.PromptExitWithoutChanges)
		return nil
	}
	if err != nil {
		return err
	}

	p, err := plan.Resolve(answers, plan.Hints{WorkDir: workDir, UserAgent: userAgent}, plan.RealSystem{})
	if err != nil {
		return err
	}

	lk, err := lockAcquire(workDir, p.ProjectName())
	if err != nil {
		return err
	}
	defer func() {
		if err := lk.Release(); err != nil {
			log.WithError(err).Warn(messages.CreateLockReleaseLog)
		}
	}()
	// The directory may have appeared while the prompts or the lock wait ran.
	if err := plan.CheckName(plan.RealSystem{}, workDir, p.ProjectName()); err != nil {
		return err
	}

	ctx, stop := notifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	versions := resolveVersions(ctx, stdout, cfg, p, log)

	orch, err := orchestrator.New(p, versions, orchestrator.Deps{
		Runner:     newCommandRunner(cfg.StepTimeout.Std(), log),
		Composer:   compose.New(nil, log),
		Log:        log,
		Observer:   newProgress(stdout),
		KeepFailed: cfg.KeepFailed,
		Stream:     opts.verbose,
	})
	if err != nil {
		return err
	}
	report := orch.Run(ctx, orch.Steps())

	printWarnings(stderr, warnings.ApplyNoiseControl(report.Warnings, cfg.NoiseMode))
	if report.Cancelled() {
		printCancelled(stderr, p, report)
		return report.Err()
	}
	if report.Fatal() {
		printFailure(stderr, p, report, cfg.KeepFailed)
		return report.Err()
	}
	printSummary(stdout, p, report)
	return nil
}

func loadConfig(path string) (config.Config, string, bool, error) {
	if path == "" {
		var err error
		path, err = config.DefaultPath(getenv)
		if err != nil {
			return config.Config{}, "", false, err
		}
	}
	cfg, found, err := config.Load(path)
	return cfg, path, found, err
}

func newLogger(out io.Writer, level logrus.Level, verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if verbose && level < logrus.DebugLevel {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)
	return log
}

// promptDefaults picks the pre-selected answers. The invoking package manager
// wins over the config file.
func promptDefaults(cfg config.Config, workDir string, userAgent string) prompt.Defaults {
	manager, ok := pkgmgr.Parse(cfg.PackageManager)
	if userAgent != "" || !ok {
		manager = pkgmgr.Detect(userAgent)
	}
	language, ok := plan.ParseLanguage(cfg.Language)
	if !ok {
		language = plan.DefaultLanguage
	}
	defaults := prompt.NewDefaults(manager, language)
	defaults.CheckName = func(name string) error {
		return plan.CheckName(plan.RealSystem{}, workDir, name)
	}
	return defaults
}

func resolveVersions(ctx context.Context, out io.Writer, cfg config.Config, p plan.Plan, log logrus.FieldLogger) registry.VersionMap {
	pinned := orchestrator.PinnedVersions()
	for name, version := range cfg.Versions {
		pinned[name] = version
	}
	lookups := orchestrator.LookupPackages(p)
	resolver := registry.New(
		registry.WithBaseURL(cfg.RegistryURL),
		registry.WithTimeout(cfg.LookupTimeout.Std()),
		registry.WithHTTPClient(registryClient),
		registry.WithPinned(pinned),
		registry.WithLogger(log),
	)
	if len(lookups) == 0 {
		return resolver.Resolve(ctx)
	}

	_, _ = fmt.Fprintln(out, messages.CreateResolvingVersions)
	versions := resolver.Resolve(ctx, lookups...)
	shown := append(lookups, orchestrator.TailwindPackage)
	sort.Strings(shown)
	for _, name := range shown {
		_, _ = fmt.Fprintf(out, messages.CreateVersionLineFmt+"\n", name, versions.Get(name))
	}
	return versions
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
