package orchestrator

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/conn-castle/expofast/internal/compose"
	"github.com/conn-castle/expofast/internal/messages"
	"github.com/conn-castle/expofast/internal/pkgmgr"
	"github.com/conn-castle/expofast/internal/plan"
	"github.com/conn-castle/expofast/internal/templates"
)

// Step names outside the feature steps, which are named after their flag.
const (
	StepCreate    = "create"
	StepAppConfig = "app-config"
	StepReadme    = "readme"
)

// RouterPackages are installed at whatever version the generator's lockfile picks.
var RouterPackages = []string{
	"expo-router",
	"react-native-safe-area-context",
	"react-native-screens",
	"expo-linking",
	"expo-constants",
	"expo-status-bar",
}

// StylingPackages are installed at versions resolved from the registry.
var StylingPackages = []string{
	"nativewind",
	"react-native-reanimated",
	"react-native-safe-area-context",
}

// Tailwind is pinned by default because NativeWind requires Tailwind v3. A
// versions entry for TailwindPackage overrides the pin.
const (
	TailwindPackage = "tailwindcss"
	TailwindVersion = "3.4.17"
)

// PinnedVersions returns the versions that are never looked up.
func PinnedVersions() map[string]string {
	return map[string]string{TailwindPackage: TailwindVersion}
}

// LookupPackages returns the packages whose versions p needs resolved before Steps.
func LookupPackages(p plan.Plan) []string {
	if !p.Enabled(plan.FlagStyling) {
		return nil
	}
	return append([]string(nil), StylingPackages...)
}

const (
	blankTemplate    = "blank"
	globalCSSMarker  = "global.css"
	globalCSSImport  = "import '../global.css';\n"
	routerPlugin     = "expo-router"
	webBundler       = "metro"
	appConfigFile    = "app.json"
	tsconfigFile     = "tsconfig.json"
	babelConfigFile  = "babel.config.js"
	tsconfigIncludes = "include"
)

// Steps returns the ordered steps for the plan: create, the enabled features in
// declared order, then app-config and readme.
func (o *Orchestrator) Steps() []Step {
	steps := []Step{o.createStep()}
	for _, flag := range o.plan.EnabledFlags() {
		switch flag {
		case plan.FlagRouter:
			steps = append(steps, o.routerStep())
		case plan.FlagTabs:
			steps = append(steps, o.tabsStep())
		case plan.FlagStyling:
			steps = append(steps, o.stylingStep())
		case plan.FlagBuildProfiles:
			steps = append(steps, o.buildProfilesStep())
		}
	}
	return append(steps, o.appConfigStep(), o.readmeStep())
}

func (o *Orchestrator) createStep() Step {
	p := o.plan
	command := p.Commands().Command(pkgmgr.VerbCreate, p.ProjectName(), "--template", blankTemplate)
	actions := []Action{
		o.commandAction("generate", command, p.WorkDir()),
		{
			Name: "verify",
			Kind: KindFileWrite,
			Do: func(context.Context, RunReport) error {
				if !o.deps.Composer.Exists(p.Dir()) {
					return fmt.Errorf(messages.OrchestratorCreateMissingDirFmt, p.Dir())
				}
				return nil
			},
		},
	}
	if p.Language().Typed() {
		actions = append(actions, Action{
			Name: tsconfigFile,
			Kind: KindFileWrite,
			Do: func(context.Context, RunReport) error {
				if o.deps.Composer.Exists(o.path(tsconfigFile)) {
					return nil
				}
				f, err := templates.TSConfig()
				if err != nil {
					return err
				}
				return o.write(f)
			},
		})
	}
	return Step{Name: StepCreate, Policy: PolicyFatal, Phase: PhaseCreating, Actions: actions}
}

func (o *Orchestrator) routerStep() Step {
	p := o.plan
	install := p.Commands().Command(pkgmgr.VerbInstall, RouterPackages...)
	return o.featureStep(plan.FlagRouter,
		o.commandAction("install", install, p.Dir()),
		Action{
			Name: "screens",
			Kind: KindFileWrite,
			Do: func(context.Context, RunReport) error {
				files, err := templates.RouterFiles(p)
				if err != nil {
					return err
				}
				return o.writeAll(files)
			},
		},
		Action{
			Name: "remove-entry",
			Kind: KindFileWrite,
			Do: func(context.Context, RunReport) error {
				for _, name := range []string{"App.js", "App.tsx"} {
					if _, err := o.deps.Composer.Remove(o.path(name)); err != nil {
						return err
					}
				}
				return nil
			},
		},
	)
}

func (o *Orchestrator) tabsStep() Step {
	return o.featureStep(plan.FlagTabs, Action{
		Name: "screens",
		Kind: KindFileWrite,
		Do: func(context.Context, RunReport) error {
			files, err := templates.TabsFiles(o.plan)
			if err != nil {
				return err
			}
			return o.writeAll(files)
		},
	})
}

func (o *Orchestrator) stylingStep() Step {
	p := o.plan
	cmds := p.Commands()
	specs := make([]string, 0, len(StylingPackages))
	for _, name := range StylingPackages {
		specs = append(specs, o.versions.Spec(name))
	}
	actions := []Action{
		o.commandAction("install", cmds.Command(pkgmgr.VerbInstall, specs...), p.Dir()),
		o.commandAction("install-dev", cmds.Command(pkgmgr.VerbInstallDev, o.versions.Spec(TailwindPackage)), p.Dir()),
		{
			Name: "config",
			Kind: KindFileWrite,
			Do: func(context.Context, RunReport) error {
				files, err := templates.StylingFiles(p)
				if err != nil {
					return err
				}
				return o.writeAll(files)
			},
		},
		{
			Name: babelConfigFile,
			Kind: KindFileWrite,
			Do: func(context.Context, RunReport) error {
				if !o.deps.Composer.Exists(o.path(babelConfigFile)) {
					return nil
				}
				f, err := templates.BabelConfig()
				if err != nil {
					return err
				}
				return o.write(f)
			},
		},
	}
	if p.Enabled(plan.FlagRouter) {
		actions = append(actions, Action{
			Name: "layout-import",
			Kind: KindFileMerge,
			Do: func(context.Context, RunReport) error {
				_, err := o.deps.Composer.MergeText(o.path(templates.RootLayoutPath(p.Language())), globalCSSMarker, func(content string) string {
					return globalCSSImport + content
				})
				return err
			},
		})
	}
	if p.Language().Typed() {
		actions = append(actions, Action{
			Name: tsconfigFile,
			Kind: KindFileMerge,
			Do: func(context.Context, RunReport) error {
				_, err := o.deps.Composer.MergeJSON(o.path(tsconfigFile), func(doc *compose.Document) error {
					return doc.AppendUnique(tsconfigIncludes, templates.NativeWindTypesFile)
				})
				return err
			},
		})
	}
	return o.featureStep(plan.FlagStyling, actions...)
}

func (o *Orchestrator) buildProfilesStep() Step {
	return o.featureStep(plan.FlagBuildProfiles, Action{
		Name: "eas.json",
		Kind: KindFileWrite,
		Do: func(context.Context, RunReport) error {
			f, err := templates.EASConfig()
			if err != nil {
				return err
			}
			return o.write(f)
		},
	})
}

func (o *Orchestrator) appConfigStep() Step {
	return Step{
		Name:   StepAppConfig,
		Policy: PolicyOptional,
		Phase:  PhaseFinalizing,
		Actions: []Action{{
			Name: appConfigFile,
			Kind: KindFileMerge,
			Do: func(_ context.Context, report RunReport) error {
				_, err := o.deps.Composer.MergeJSON(o.path(appConfigFile), func(doc *compose.Document) error {
					if report.FeaturePresent(plan.FlagRouter) {
						if err := doc.AppendUnique("expo.plugins", routerPlugin); err != nil {
							return err
						}
					}
					if err := doc.Set("expo.web.bundler", webBundler); err != nil {
						return err
					}
					return doc.SetIfAbsent("expo.scheme", o.plan.Scheme())
				})
				return err
			},
		}},
	}
}

func (o *Orchestrator) readmeStep() Step {
	return Step{
		Name:   StepReadme,
		Policy: PolicyOptional,
		Phase:  PhaseFinalizing,
		Actions: []Action{{
			Name: "README.md",
			Kind: KindFileWrite,
			Do: func(_ context.Context, report RunReport) error {
				data := templates.NewReadmeData(o.plan, report.FeaturePresent)
				for _, res := range report.Results {
					if res.Feature == "" || res.Outcome == OutcomeSucceeded {
						continue
					}
					data.Failed = append(data.Failed, templates.FailedFeature{
						Feature: string(res.Feature),
						Retry:   strings.Join(res.Retry, " && "),
					})
				}
				f, err := templates.Readme(data)
				if err != nil {
					return err
				}
				return o.write(f)
			},
		}},
	}
}

func (o *Orchestrator) featureStep(flag plan.Flag, actions ...Action) Step {
	return Step{
		Name:    string(flag),
		Feature: flag,
		Policy:  PolicyOptional,
		Phase:   PhaseFeatures,
		Actions: actions,
	}
}

func (o *Orchestrator) commandAction(name string, command string, dir string) Action {
	return Action{
		Name:  name,
		Kind:  KindExternalCommand,
		Retry: command,
		Do: func(ctx context.Context, _ RunReport) error {
			result := o.deps.Runner.Run(ctx, command, dir, !o.deps.Stream)
			if !result.OK {
				return &CommandError{Command: command, Result: result}
			}
			return nil
		},
	}
}

func (o *Orchestrator) path(rel string) string {
	return filepath.Join(o.plan.Dir(), filepath.FromSlash(rel))
}

func (o *Orchestrator) write(f templates.File) error {
	target := o.path(f.Path)
	if err := o.deps.Composer.EnsureDir(filepath.Dir(target)); err != nil {
		return err
	}
	return o.deps.Composer.WriteNew(target, f.Content)
}

func (o *Orchestrator) writeAll(files []templates.File) error {
	for _, f := range files {
		if err := o.write(f); err != nil {
			return err
		}
	}
	return nil
}
