package pickpoint

import (
	"context"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// DefaultSessionTTL is how long a cached session token is reused.
const DefaultSessionTTL = 60 * time.Second

// TokenCache is an external key-value store holding session tokens.
// Implementations must be safe for concurrent use.
type TokenCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	SetWithExpiry(ctx context.Context, key, value string, ttl time.Duration) error
}

// NopCache never stores anything, so every EnsureToken logs in again.
type NopCache struct{}

// Get always misses.
func (NopCache) Get(context.Context, string) (string, bool, error) { return "", false, nil }

// SetWithExpiry discards the value.
func (NopCache) SetWithExpiry(context.Context, string, string, time.Duration) error { return nil }

// Session obtains authentication tokens for one account.
type Session struct {
	apiClient APIClient
	endpoint  string
	login     string
	password  string
	ikn       string
	cache     TokenCache
	ttl       time.Duration
	logger    *otelzap.Logger
}

// NewSession creates a session manager. A nil cache behaves like NopCache
// and a nil logger discards output.
func NewSession(apiClient APIClient, cfg Config, cache TokenCache, logger *otelzap.Logger) *Session {
	if cache == nil {
		cache = NopCache{}
	}
	if logger == nil {
		logger = otelzap.New(zap.NewNop())
	}
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Session{
		apiClient: apiClient,
		endpoint:  cfg.endpoint(pathLogin),
		login:     cfg.Login,
		password:  cfg.Password,
		ikn:       cfg.IKN,
		cache:     cache,
		ttl:       ttl,
		logger:    logger,
	}
}

// CacheKey is the cache key of the account's session token.
func (s *Session) CacheKey() string {
	return "session:" + s.ikn
}

// EnsureToken returns a cached token or logs in and caches the new one.
func (s *Session) EnsureToken(ctx context.Context) (string, error) {
	key := s.CacheKey()

	token, ok, err := s.cache.Get(ctx, key)
	switch {
	case err != nil:
		s.logger.Ctx(ctx).Warn("Session cache read failed, logging in", zap.String("key", key), zap.Error(err))
	case ok && token != "":
		return token, nil
	}

	resp, err := s.apiClient.Login(ctx, &LoginRequest{Login: s.login, Password: s.password})
	if err != nil {
		return "", asCallError(s.endpoint, err)
	}
	if err := classify(s.endpoint, resp); err != nil {
		return "", err
	}

	if err := s.cache.SetWithExpiry(ctx, key, resp.SessionID, s.ttl); err != nil {
		s.logger.Ctx(ctx).Warn("Session cache write failed", zap.String("key", key), zap.Error(err))
	}

	s.logger.Ctx(ctx).Debug("PickPoint session opened", zap.String("ikn", s.ikn))
	return resp.SessionID, nil
}
