package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/conn-castle/expofast/internal/messages"
	"github.com/conn-castle/expofast/internal/orchestrator"
	"github.com/conn-castle/expofast/internal/pkgmgr"
	"github.com/conn-castle/expofast/internal/plan"
	"github.com/conn-castle/expofast/internal/warnings"
)

var (
	bannerColor  = color.New(color.FgCyan, color.Bold)
	startedColor = color.New(color.FgCyan)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	failColor    = color.New(color.FgRed)
	headingColor = color.New(color.Bold)
)

var stepLabels = map[string]string{
	orchestrator.StepCreate:        messages.StepCreateLabel,
	string(plan.FlagRouter):        messages.StepRouterLabel,
	string(plan.FlagTabs):          messages.StepTabsLabel,
	string(plan.FlagStyling):       messages.StepStylingLabel,
	string(plan.FlagBuildProfiles): messages.StepBuildProfilesLabel,
	orchestrator.StepAppConfig:     messages.StepAppConfigLabel,
	orchestrator.StepReadme:        messages.StepReadmeLabel,
}

func stepLabel(name string) string {
	if label, ok := stepLabels[name]; ok {
		return label
	}
	return name
}

func printBanner(out io.Writer) {
	_, _ = bannerColor.Fprintln(out, messages.CreateBanner)
	_, _ = fmt.Fprintln(out)
}

// progress prints one line when a step starts and one when it finishes.
type progress struct {
	out io.Writer
}

func newProgress(out io.Writer) *progress {
	return &progress{out: out}
}

func (p *progress) StepStarted(step orchestrator.Step) {
	_, _ = fmt.Fprintf(p.out, messages.StepStartedFmt+"\n", startedColor.Sprint("›"), stepLabel(step.Name))
}

func (p *progress) StepFinished(res orchestrator.StepResult) {
	label := stepLabel(res.Step)
	switch res.Outcome {
	case orchestrator.OutcomeSucceeded:
		_, _ = fmt.Fprintf(p.out, "%s %s\n", successColor.Sprint("✓"), label)
	case orchestrator.OutcomeWarned:
		_, _ = fmt.Fprintf(p.out, messages.StepWarnedFmt+"\n", warnColor.Sprint("!"), label)
	default:
		_, _ = fmt.Fprintf(p.out, "%s %s\n", failColor.Sprint("✗"), label)
	}
}

func printWarnings(out io.Writer, items []warnings.Warning) {
	if len(items) == 0 {
		return
	}
	_, _ = fmt.Fprintln(out)
	_, _ = warnColor.Fprintln(out, messages.SummaryWarningsTitle)
	for _, w := range items {
		_, _ = fmt.Fprintln(out, w.String())
	}
}

func printFailure(out io.Writer, p plan.Plan, report orchestrator.RunReport, keepFailed bool) {
	_, _ = fmt.Fprintln(out)
	_, _ = failColor.Fprintf(out, messages.CreateFailedFmt+"\n", p.ProjectName())
	switch {
	case report.CleanedUp:
		_, _ = fmt.Fprintf(out, messages.CreateCleanedUpFmt+"\n", p.ProjectName())
	case keepFailed:
		_, _ = fmt.Fprintf(out, messages.CreateKeptFmt+"\n", p.Dir())
	}
}

func printCancelled(out io.Writer, p plan.Plan, report orchestrator.RunReport) {
	_, _ = fmt.Fprintln(out)
	_, _ = failColor.Fprintf(out, messages.CreateCancelledFmt+"\n", p.Dir())
	skipped := report.Skipped()
	if len(skipped) == 0 {
		return
	}
	labels := make([]string, 0, len(skipped))
	for _, name := range skipped {
		labels = append(labels, stepLabel(name))
	}
	_, _ = fmt.Fprintf(out, messages.CreateSkippedFmt+"\n", strings.Join(labels, ", "))
}

// printSummary lists what the project actually contains and how to start it.
// Features are read from the report, so a failed step never shows as installed.
func printSummary(out io.Writer, p plan.Plan, report orchestrator.RunReport) {
	_, _ = fmt.Fprintln(out)
	_, _ = successColor.Fprintln(out, messages.SummaryReady)
	_, _ = fmt.Fprintln(out)

	_, _ = headingColor.Fprintln(out, messages.SummaryIncludes)
	for _, item := range summaryItems(p, report) {
		_, _ = fmt.Fprintf(out, messages.SummaryItemFmt+"\n", item)
	}
	if failed := report.FailedFeatures(); len(failed) > 0 {
		_, _ = fmt.Fprintln(out)
		_, _ = warnColor.Fprintln(out, messages.SummaryIncomplete)
		for _, f := range failed {
			_, _ = fmt.Fprintf(out, messages.SummaryItemFmt+"\n", stepLabel(string(f)))
		}
	}

	_, _ = fmt.Fprintln(out)
	_, _ = headingColor.Fprintln(out, messages.SummaryNextSteps)
	next := []string{
		"cd " + p.ProjectName(),
		pkgmgr.InstallAllCommand(p.PackageManager()),
		pkgmgr.StartCommand(p.PackageManager()),
	}
	for i, line := range next {
		_, _ = fmt.Fprintf(out, messages.SummaryNumberedFmt+"\n", i+1, line)
	}

	if report.FeaturePresent(plan.FlagBuildProfiles) {
		_, _ = fmt.Fprintln(out)
		_, _ = headingColor.Fprintln(out, messages.SummaryEASTitle)
		_, _ = fmt.Fprintf(out, messages.SummaryNumberedFmt+"\n", 1, messages.SummaryEASLogin)
		_, _ = fmt.Fprintf(out, messages.SummaryNumberedFmt+"\n", 2, messages.SummaryEASBuild)
	}
	if res, ok := report.Result(orchestrator.StepReadme); ok && res.Outcome == orchestrator.OutcomeSucceeded {
		_, _ = fmt.Fprintln(out)
		_, _ = fmt.Fprintln(out, messages.SummaryReadme)
	}
}

func summaryItems(p plan.Plan, report orchestrator.RunReport) []string {
	items := []string{p.Language().Label()}
	switch {
	case report.FeaturePresent(plan.FlagRouter) && report.FeaturePresent(plan.FlagTabs):
		items = append(items, messages.SummaryRouterTabs)
	case report.FeaturePresent(plan.FlagRouter):
		items = append(items, messages.SummaryRouter)
	}
	if report.FeaturePresent(plan.FlagStyling) {
		items = append(items, messages.SummaryStyling)
	}
	if report.FeaturePresent(plan.FlagBuildProfiles) {
		items = append(items, messages.SummaryBuildProfiles)
	}
	return items
}
