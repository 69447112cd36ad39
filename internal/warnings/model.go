package warnings

import (
	"fmt"
	"strings"

	"github.com/conn-castle/expofast/internal/messages"
)

// Warning codes.
const (
	CodeStepFailed        = "STEP_FAILED"
	CodeVersionUnresolved = "VERSION_UNRESOLVED"
	CodeCleanupFailed     = "CLEANUP_FAILED"
	CodeNoiseModeInvalid  = "WARNING_NOISE_MODE_INVALID"
)

// Source labels where a warning originates.
const (
	SourceInternal           = "internal"
	SourceNetwork            = "network"
	SourceExternalDependency = "external dependency"
)

// Severity labels whether a warning should be considered critical.
const (
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Warning is a non-fatal problem reported after a run.
type Warning struct {
	Code     string
	Subject  string
	Message  string
	Fix      string
	Details  []string
	Source   string
	Severity string
	// NoiseSuppressible marks warnings hidden by the reduce noise mode.
	// Critical warnings are never suppressed even if this flag is true.
	NoiseSuppressible bool
}

func (w Warning) String() string {
	var b strings.Builder
	b.WriteString("WARNING " + w.Code + ": " + w.Message + "\n")
	fmt.Fprintf(&b, "  source: %s\n", w.sourceOrDefault())
	fmt.Fprintf(&b, "  severity: %s\n", w.severityOrDefault())
	b.WriteString("  subject: " + w.Subject)
	if w.Fix != "" {
		b.WriteString("\n  fix: " + w.Fix)
	}
	for _, d := range w.Details {
		b.WriteString("\n  details: " + d)
	}
	return b.String()
}

func (w Warning) sourceOrDefault() string {
	if w.Source == "" {
		return SourceInternal
	}
	return w.Source
}

func (w Warning) severityOrDefault() string {
	if w.Severity == "" {
		return SeverityWarning
	}
	return w.Severity
}

// StepFailed reports an optional step that did not complete. retry lists the
// commands that would finish the step by hand; it may be empty for file-only steps.
func StepFailed(step string, err error, retry []string) Warning {
	w := Warning{
		Code:     CodeStepFailed,
		Subject:  step,
		Message:  fmt.Sprintf(messages.WarningsStepFailedFmt, step),
		Source:   SourceExternalDependency,
		Severity: SeverityWarning,
	}
	if len(retry) > 0 {
		w.Fix = fmt.Sprintf(messages.WarningsStepFailedRetryFmt, strings.Join(retry, " && "))
	} else {
		w.Fix = messages.WarningsStepFailedFix
	}
	if err != nil {
		w.Details = strings.Split(strings.TrimSpace(err.Error()), "\n")
	}
	return w
}

// VersionUnresolved reports packages installed at the "latest" tag because
// the registry lookup failed.
func VersionUnresolved(packages []string) Warning {
	return Warning{
		Code:              CodeVersionUnresolved,
		Subject:           strings.Join(packages, ", "),
		Message:           messages.WarningsVersionUnresolved,
		Fix:               messages.WarningsVersionUnresolvedFix,
		Source:            SourceNetwork,
		Severity:          SeverityWarning,
		NoiseSuppressible: true,
	}
}

// CleanupFailed reports a partial project directory that could not be removed.
func CleanupFailed(dir string, err error) Warning {
	w := Warning{
		Code:     CodeCleanupFailed,
		Subject:  dir,
		Message:  messages.WarningsCleanupFailed,
		Fix:      fmt.Sprintf(messages.WarningsCleanupFailedFixFmt, dir),
		Source:   SourceInternal,
		Severity: SeverityCritical,
	}
	if err != nil {
		w.Details = []string{err.Error()}
	}
	return w
}
