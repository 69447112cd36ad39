package warnings

import (
	"fmt"
	"slices"
	"strings"

	"github.com/conn-castle/expofast/internal/messages"
)

// Values accepted for noise_mode.
const (
	NoiseModeDefault = "default"
	NoiseModeReduce  = "reduce"
)

// ApplyNoiseControl returns the warnings to print for noise_mode mode. The
// input is never modified. Critical warnings always pass; an unknown mode keeps
// everything and appends a warning about the mode itself.
func ApplyNoiseControl(items []Warning, mode string) []Warning {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", NoiseModeDefault:
		return slices.Clone(items)
	case NoiseModeReduce:
		return slices.DeleteFunc(slices.Clone(items), suppressed)
	default:
		return append(slices.Clone(items), invalidNoiseMode(mode))
	}
}

func suppressed(w Warning) bool {
	return w.NoiseSuppressible && w.severityOrDefault() != SeverityCritical
}

func invalidNoiseMode(mode string) Warning {
	return Warning{
		Code:     CodeNoiseModeInvalid,
		Subject:  "noise_mode",
		Message:  fmt.Sprintf(messages.WarningsNoiseModeInvalidFmt, mode, NoiseModeDefault, NoiseModeReduce),
		Fix:      messages.WarningsNoiseModeInvalidFix,
		Source:   SourceInternal,
		Severity: SeverityCritical,
	}
}
