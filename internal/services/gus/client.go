// Package gus implements the GUS authentication and query core: PKCE OAuth
// login through a transient local callback listener, cached-credential
// management, and SOQL/SOSL query execution against the work-tracking API.
package gus

import (
	"context"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/rogo/internal/common"
	"github.com/ternarybob/rogo/internal/interfaces"
	"github.com/ternarybob/rogo/internal/models"
)

const (
	// DefaultTimeout is the default HTTP timeout for single round trips.
	DefaultTimeout = 30 * time.Second

	// DefaultLoginTimeout is the watchdog window for the callback wait.
	DefaultLoginTimeout = 5 * time.Minute

	// DefaultRateLimit is the default API rate limit (requests per second).
	DefaultRateLimit = 5
)

// Options is the immutable per-call connection configuration. Defaults come
// from application config; callers override field-by-field via Merge.
type Options struct {
	InstanceHost      string
	ClientID          string
	RedirectURI       string
	Scopes            string
	APIVersion        string
	CallbackPort      int
	LoginTimeout      time.Duration
	MaxAge            time.Duration
	DefaultTeam       string
	DefaultProductTag string
}

// OptionsFromConfig converts the application config section into flow
// options, parsing the duration fields.
func OptionsFromConfig(cfg *common.GusConfig) Options {
	loginTimeout := DefaultLoginTimeout
	if d, err := time.ParseDuration(cfg.LoginTimeout); err == nil && d > 0 {
		loginTimeout = d
	}

	maxAge := common.DefaultCredentialMaxAge
	if cfg.MaxAgeHours > 0 {
		maxAge = time.Duration(cfg.MaxAgeHours) * time.Hour
	}

	return Options{
		InstanceHost:      cfg.InstanceHost,
		ClientID:          cfg.ClientID,
		RedirectURI:       cfg.RedirectURI,
		Scopes:            cfg.Scopes,
		APIVersion:        cfg.APIVersion,
		CallbackPort:      cfg.CallbackPort,
		LoginTimeout:      loginTimeout,
		MaxAge:            maxAge,
		DefaultTeam:       cfg.DefaultTeam,
		DefaultProductTag: cfg.DefaultProductTag,
	}
}

// Merge returns a copy of o with every non-zero field of override applied.
// Override wins field-by-field; missing fields fall back to the receiver.
func (o Options) Merge(override Options) Options {
	merged := o
	if override.InstanceHost != "" {
		merged.InstanceHost = override.InstanceHost
	}
	if override.ClientID != "" {
		merged.ClientID = override.ClientID
	}
	if override.RedirectURI != "" {
		merged.RedirectURI = override.RedirectURI
	}
	if override.Scopes != "" {
		merged.Scopes = override.Scopes
	}
	if override.APIVersion != "" {
		merged.APIVersion = override.APIVersion
	}
	if override.CallbackPort != 0 {
		merged.CallbackPort = override.CallbackPort
	}
	if override.LoginTimeout != 0 {
		merged.LoginTimeout = override.LoginTimeout
	}
	if override.MaxAge != 0 {
		merged.MaxAge = override.MaxAge
	}
	if override.DefaultTeam != "" {
		merged.DefaultTeam = override.DefaultTeam
	}
	if override.DefaultProductTag != "" {
		merged.DefaultProductTag = override.DefaultProductTag
	}
	return merged
}

// Service is the authenticated client facade. It decides cache-hit versus
// re-login and hands out credentials; query execution lives on Client.
type Service struct {
	opts       Options
	store      interfaces.CredentialStore // nil disables caching
	browser    interfaces.BrowserOpener
	httpClient *http.Client
	logger     arbor.ILogger
	now        func() time.Time
}

// ServiceOption configures the Service.
type ServiceOption func(*Service)

// WithHTTPClient sets a custom HTTP client for the token exchange.
func WithHTTPClient(httpClient *http.Client) ServiceOption {
	return func(s *Service) {
		s.httpClient = httpClient
	}
}

// WithClock overrides the time source (used by staleness tests).
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates the authenticated client facade. store may be nil, in
// which case every GetClient call runs an interactive login.
func NewService(opts Options, store interfaces.CredentialStore, browser interfaces.BrowserOpener, logger arbor.ILogger, serviceOpts ...ServiceOption) *Service {
	s := &Service{
		opts:    opts,
		store:   store,
		browser: browser,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: logger,
		now:    time.Now,
	}

	for _, opt := range serviceOpts {
		opt(s)
	}

	return s
}

// Options returns the service's resolved connection options.
func (s *Service) Options() Options {
	return s.opts
}

// GetClient returns a usable credential: the cached one when it is younger
// than the freshness window, otherwise the result of a fresh interactive
// login, persisted back to the cache. Staleness is binary on the age
// threshold; there is no forced-refresh mode.
func (s *Service) GetClient(ctx context.Context) (*models.Credential, error) {
	if s.store != nil {
		cached, err := s.store.Get(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("Failed to read credential cache, falling back to login")
		} else if cached != nil {
			staleness := common.CheckCredentialStaleness(cached.CollectedAt, s.now(), s.opts.MaxAge)
			if !staleness.IsStale {
				s.logger.Debug().
					Str("instance", cached.InstanceHost).
					Str("expires_at", staleness.ExpiresAt.Format(time.RFC3339)).
					Msg("Using cached credential")
				return cached, nil
			}
			s.logger.Info().Str("reason", staleness.Reason).Msg("Cached credential is stale")
		}
	}

	credential, err := s.Login(ctx)
	if err != nil {
		return nil, err
	}

	if s.store != nil {
		if err := s.store.Set(ctx, credential); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to persist credential to cache")
		}
	}

	return credential, nil
}

// Logout removes the cached credential. No remote call is made; the access
// token simply ages out server-side.
func (s *Service) Logout(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	return s.store.Delete(ctx)
}
