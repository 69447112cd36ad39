package plan

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/conn-castle/expofast/internal/messages"
)

const maxNameLength = 214

var (
	namePattern       = regexp.MustCompile(`^[a-z0-9._-]+$`)
	scopedNamePattern = regexp.MustCompile(`^@[a-z0-9._-]+/[a-z0-9._-]+$`)
)

var blocklistedNames = map[string]bool{
	"node_modules": true,
	"favicon.ico":  true,
}

// coreModules lists Node.js built-in module names a new package may not take.
var coreModules = map[string]bool{
	"assert": true, "async_hooks": true, "buffer": true, "child_process": true,
	"cluster": true, "console": true, "constants": true, "crypto": true,
	"dgram": true, "diagnostics_channel": true, "dns": true, "domain": true,
	"events": true, "fs": true, "http": true, "http2": true, "https": true,
	"inspector": true, "module": true, "net": true, "os": true, "path": true,
	"perf_hooks": true, "process": true, "punycode": true, "querystring": true,
	"readline": true, "repl": true, "stream": true, "string_decoder": true,
	"sys": true, "timers": true, "tls": true, "trace_events": true, "tty": true,
	"url": true, "util": true, "v8": true, "vm": true, "wasi": true,
	"worker_threads": true, "zlib": true,
}

// ValidateName applies npm's rules for new package names.
// It returns the first rule violated, or nil.
func ValidateName(name string) error {
	if name == "" {
		return nameError(name, messages.ValidationNameEmpty)
	}
	if strings.TrimSpace(name) != name {
		return nameError(name, messages.ValidationNameSurroundingSpaces)
	}
	if strings.HasPrefix(name, ".") {
		return nameError(name, messages.ValidationNameLeadingPeriod)
	}
	if strings.HasPrefix(name, "_") {
		return nameError(name, messages.ValidationNameLeadingUnderscore)
	}
	if blocklistedNames[strings.ToLower(name)] {
		return nameError(name, fmt.Sprintf(messages.ValidationNameBlocklistedFmt, name))
	}
	if coreModules[strings.ToLower(name)] {
		return nameError(name, fmt.Sprintf(messages.ValidationNameCoreModuleFmt, name))
	}
	if len(name) > maxNameLength {
		return nameError(name, messages.ValidationNameTooLong)
	}
	if strings.ToLower(name) != name {
		return nameError(name, messages.ValidationNameUppercase)
	}
	if !namePattern.MatchString(name) && !scopedNamePattern.MatchString(name) {
		return nameError(name, messages.ValidationNameSpecialCharacters)
	}
	return nil
}

// Scheme derives an app deep-link scheme from a project name.
func Scheme(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func nameError(name string, reason string) *ValidationError {
	return &ValidationError{Field: FieldProjectName, Value: name, Reason: reason}
}
