package pickpoint_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/pickpoint/pkg/pickpoint"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

type memoryCache struct {
	mu      sync.Mutex
	values  map[string]string
	ttls    map[string]time.Duration
	getErr  error
	setErr  error
	setHits int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memoryCache) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memoryCache) SetWithExpiry(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setHits++
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	m.ttls[key] = ttl
	return nil
}

func newTestSession(api *pickpoint.MockAPIClient, cache pickpoint.TokenCache, ttl time.Duration) *pickpoint.Session {
	cfg := testConfig
	cfg.SessionTTL = ttl
	return pickpoint.NewSession(api, cfg, cache, otelzap.New(zap.NewNop()))
}

func TestSession_CacheHitSkipsLogin(t *testing.T) {
	api := pickpoint.NewMockAPIClient()
	cache := newMemoryCache()
	session := newTestSession(api, cache, 0)
	cache.values[session.CacheKey()] = "cached-sid"

	token, err := session.EnsureToken(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "cached-sid", token)
	assert.Zero(t, api.Calls("Login"))
	assert.Zero(t, cache.setHits)
}

func TestSession_CacheMissLogsInOnceAndStores(t *testing.T) {
	api := pickpoint.NewMockAPIClient()
	var login *pickpoint.LoginRequest
	api.OnLogin = func(ctx context.Context, req *pickpoint.LoginRequest) (*pickpoint.LoginResponse, error) {
		login = req
		return &pickpoint.LoginResponse{SessionID: "fresh-sid"}, nil
	}
	cache := newMemoryCache()
	session := newTestSession(api, cache, 0)

	token, err := session.EnsureToken(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "fresh-sid", token)
	assert.Equal(t, 1, api.Calls("Login"))
	require.NotNil(t, login)
	assert.Equal(t, "apitest", login.Login)
	assert.Equal(t, "fresh-sid", cache.values["session:9990000112"])
	assert.Equal(t, pickpoint.DefaultSessionTTL, cache.ttls["session:9990000112"])

	token, err = session.EnsureToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh-sid", token)
	assert.Equal(t, 1, api.Calls("Login"))
}

func TestSession_CustomTTL(t *testing.T) {
	cache := newMemoryCache()
	session := newTestSession(pickpoint.NewMockAPIClient(), cache, 5*time.Minute)

	_, err := session.EnsureToken(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, cache.ttls[session.CacheKey()])
}

func TestSession_CacheErrorsDoNotFailLogin(t *testing.T) {
	api := pickpoint.NewMockAPIClient()
	cache := newMemoryCache()
	cache.getErr = errCacheDown
	cache.setErr = errCacheDown
	session := newTestSession(api, cache, 0)

	token, err := session.EnsureToken(context.Background())

	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, 1, api.Calls("Login"))
	assert.Equal(t, 1, cache.setHits)
}

func TestSession_NilCacheLogsInEveryTime(t *testing.T) {
	api := pickpoint.NewMockAPIClient()
	session := newTestSession(api, nil, 0)

	a, err := session.EnsureToken(context.Background())
	require.NoError(t, err)
	b, err := session.EnsureToken(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, api.Calls("Login"))
}

func TestSession_LoginErrorCode(t *testing.T) {
	api := pickpoint.NewMockAPIClient()
	api.OnLogin = func(ctx context.Context, req *pickpoint.LoginRequest) (*pickpoint.LoginResponse, error) {
		return &pickpoint.LoginResponse{ErrorFields: pickpoint.ErrorFields{ErrorCode: 1, ErrorMessage: "Wrong login or password"}}, nil
	}
	cache := newMemoryCache()
	session := newTestSession(api, cache, 0)

	_, err := session.EnsureToken(context.Background())

	var callErr *pickpoint.CallError
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, 1, callErr.Code)
	assert.Equal(t, "https://e-solution.pickpoint.ru/apitest/login", callErr.URL)
	assert.Zero(t, cache.setHits)
}
