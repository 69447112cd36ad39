// Package registry resolves the latest published version of npm packages.
// Lookups are best-effort: every failure degrades to the Sentinel version.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/sirupsen/logrus"

	"github.com/conn-castle/expofast/internal/messages"
)

// Sentinel is the version used whenever a lookup fails.
const Sentinel = "latest"

// DefaultURL is the public npm registry.
const DefaultURL = "https://registry.npmjs.org"

// DefaultTimeout bounds a single lookup, retries included.
const DefaultTimeout = 10 * time.Second

var retryDelay = 250 * time.Millisecond

const fetchRetryCount = 1

// Resolver queries an npm-compatible registry.
type Resolver struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
	pinned  map[string]string
	log     logrus.FieldLogger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithBaseURL points the resolver at another registry.
func WithBaseURL(base string) Option {
	return func(r *Resolver) {
		if strings.TrimSpace(base) != "" {
			r.baseURL = strings.TrimRight(strings.TrimSpace(base), "/")
		}
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(r *Resolver) {
		if client != nil {
			r.client = client
		}
	}
}

// WithTimeout sets the per-lookup timeout. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithPinned fixes versions that must never be looked up.
func WithPinned(pinned map[string]string) Option {
	return func(r *Resolver) {
		for name, version := range pinned {
			r.pinned[name] = version
		}
	}
}

// WithLogger sets the logger used for lookup diagnostics.
func WithLogger(log logrus.FieldLogger) Option {
	return func(r *Resolver) {
		if log != nil {
			r.log = log
		}
	}
}

// New returns a Resolver for the public npm registry unless overridden.
func New(opts ...Option) *Resolver {
	discard := logrus.New()
	discard.SetLevel(logrus.PanicLevel)
	r := &Resolver{
		baseURL: DefaultURL,
		client:  &http.Client{},
		timeout: DefaultTimeout,
		pinned:  map[string]string{},
		log:     discard,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Latest returns the latest published version of name, or Sentinel on any failure.
// Pinned versions are returned without a lookup.
func (r *Resolver) Latest(ctx context.Context, name string) string {
	if version, ok := r.pinned[name]; ok {
		return version
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	version, err := r.fetchLatest(ctx, name)
	if err != nil {
		r.log.WithField("package", name).WithError(err).Debug(messages.RegistryFallbackLog)
		return Sentinel
	}
	r.log.WithFields(logrus.Fields{"package": name, "version": version}).Debug(messages.RegistryResolvedLog)
	return version
}

// Resolve looks up each name in order and returns the combined VersionMap.
func (r *Resolver) Resolve(ctx context.Context, names ...string) VersionMap {
	out := make(VersionMap, len(names)+len(r.pinned))
	for name, version := range r.pinned {
		out[name] = version
	}
	for _, name := range names {
		if _, done := out[name]; done {
			continue
		}
		out[name] = r.Latest(ctx, name)
	}
	return out
}

type latestResponse struct {
	Version string `json:"version"`
}

// fetchLatest returns the validated latest version of name.
func (r *Resolver) fetchLatest(ctx context.Context, name string) (string, error) {
	endpoint := r.baseURL + "/" + url.PathEscape(name) + "/latest"
	for attempt := 0; attempt <= fetchRetryCount; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return "", fmt.Errorf(messages.RegistryCreateRequestErrFmt, name, err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "expofast")

		resp, err := r.client.Do(req)
		if err != nil {
			if shouldRetry(err, 0, attempt) {
				time.Sleep(retryDelay)
				continue
			}
			return "", fmt.Errorf(messages.RegistryFetchErrFmt, name, err)
		}

		if resp.StatusCode != http.StatusOK {
			status := resp.StatusCode
			statusText := resp.Status
			_ = resp.Body.Close()
			if shouldRetry(nil, status, attempt) {
				time.Sleep(retryDelay)
				continue
			}
			return "", fmt.Errorf(messages.RegistryFetchStatusFmt, name, statusText)
		}

		var payload latestResponse
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			_ = resp.Body.Close()
			return "", fmt.Errorf(messages.RegistryDecodeErrFmt, name, err)
		}
		_ = resp.Body.Close()

		raw := strings.TrimSpace(payload.Version)
		if raw == "" {
			return "", fmt.Errorf(messages.RegistryMissingVersionFmt, name)
		}
		parsed, err := semver.StrictNewVersion(raw)
		if err != nil {
			return "", fmt.Errorf(messages.RegistryInvalidVersionFmt, name, raw, err)
		}
		return parsed.String(), nil
	}

	return "", fmt.Errorf(messages.RegistryFetchErrFmt, name, errors.New(messages.RegistryRetryBudgetExhausted))
}

func shouldRetry(err error, statusCode int, attempt int) bool {
	if attempt >= fetchRetryCount {
		return false
	}
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return false
		}
		var netErr net.Error
		return errors.As(err, &netErr)
	}
	return statusCode >= 500 && statusCode <= 599
}
