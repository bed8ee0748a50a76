package rediscache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/tournevent/pickpoint/pkg/pickpoint"
)

var _ pickpoint.TokenCache = (*Cache)(nil)

func TestCache_GetSet(t *testing.T) {
	mr := miniredis.RunT(t)
	c := New(mr.Addr())
	t.Cleanup(func() { _ = c.Close() })

	ctx := context.Background()
	require.NoError(t, c.SetWithExpiry(ctx, "session:9990000112", "sid-1", time.Minute))

	v, ok, err := c.Get(ctx, "session:9990000112")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "sid-1", v)
}

func TestCache_Miss(t *testing.T) {
	mr := miniredis.RunT(t)
	c := New(mr.Addr())

	v, ok, err := c.Get(context.Background(), "absent")
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, v)
}

func TestCache_Expiry(t *testing.T) {
	mr := miniredis.RunT(t)
	c := New(mr.Addr())

	ctx := context.Background()
	require.NoError(t, c.SetWithExpiry(ctx, "k", "v", 60*time.Second))
	require.Equal(t, 60*time.Second, mr.TTL("k"))

	mr.FastForward(61 * time.Second)

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCache_ServerDown(t *testing.T) {
	mr := miniredis.RunT(t)
	c := New(mr.Addr())
	mr.Close()

	_, _, err := c.Get(context.Background(), "k")
	require.Error(t, err)
	require.Contains(t, err.Error(), "redis get")
	require.Error(t, c.Ping(context.Background()))
}

func TestCache_TokenReuseAcrossClients(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := New(mr.Addr())

	api := pickpoint.NewMockAPIClient()
	cfg := pickpoint.Config{Host: "https://e-solution.pickpoint.ru/api", IKN: "9990000112"}

	first := pickpoint.NewSession(api, cfg, cache, nil)
	second := pickpoint.NewSession(api, cfg, cache, nil)

	ctx := context.Background()
	a, err := first.EnsureToken(ctx)
	require.NoError(t, err)
	b, err := second.EnsureToken(ctx)
	require.NoError(t, err)

	require.Equal(t, a, b)
	require.Equal(t, 1, api.Calls("Login"))
}
