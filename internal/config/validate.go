package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/sirupsen/logrus"

	"github.com/conn-castle/expofast/internal/messages"
	"github.com/conn-castle/expofast/internal/pkgmgr"
	"github.com/conn-castle/expofast/internal/plan"
	"github.com/conn-castle/expofast/internal/warnings"
)

// Validate checks every field and joins all problems into one error.
// Empty package_manager and language mean "no preference".
func (c Config) Validate(source string) error {
	var errs []error
	if c.PackageManager != "" {
		if _, ok := pkgmgr.Parse(c.PackageManager); !ok {
			errs = append(errs, fmt.Errorf(messages.ConfigPackageManagerFmt, source, c.PackageManager, supportedManagers()))
		}
	}
	if c.Language != "" {
		if _, ok := plan.ParseLanguage(c.Language); !ok {
			errs = append(errs, fmt.Errorf(messages.ConfigLanguageFmt, source, c.Language))
		}
	}
	if u, err := url.Parse(c.RegistryURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf(messages.ConfigRegistryURLFmt, source, c.RegistryURL))
	}
	if c.StepTimeout <= 0 {
		errs = append(errs, fmt.Errorf(messages.ConfigTimeoutPositiveFmt, source, "step_timeout"))
	}
	if c.LookupTimeout <= 0 {
		errs = append(errs, fmt.Errorf(messages.ConfigTimeoutPositiveFmt, source, "lookup_timeout"))
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf(messages.ConfigLogLevelFmt, source, c.LogLevel))
	}
	if !slices.Contains([]string{"", warnings.NoiseModeDefault, warnings.NoiseModeReduce}, c.NoiseMode) {
		errs = append(errs, fmt.Errorf(messages.ConfigNoiseModeFmt, source, c.NoiseMode))
	}
	names := make([]string, 0, len(c.Versions))
	for name := range c.Versions {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if _, err := semver.StrictNewVersion(c.Versions[name]); err != nil {
			errs = append(errs, fmt.Errorf(messages.ConfigPinnedVersionFmt, source, name, c.Versions[name]))
		}
	}
	return errors.Join(errs...)
}

// Level returns the configured log level. Validate guarantees it parses.
func (c Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.WarnLevel
	}
	return level
}

func supportedManagers() string {
	names := pkgmgr.Supported()
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, string(n))
	}
	return strings.Join(out, ", ")
}
