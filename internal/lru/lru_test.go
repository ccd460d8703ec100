package lru

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, ttl time.Duration) (*Cache, *prometheus.CounterVec) {
	t.Helper()

	entries := prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: "test_entries"}, []string{"op"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_requests"}, []string{"op", "cache"})

	c := New("test", 100, ttl, entries, requests)
	t.Cleanup(c.Stop)

	return c, requests
}

func TestFindOrFetch(t *testing.T) {
	c, requests := newTestCache(t, time.Minute)

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return calls, nil
	}

	v, err := c.FindOrFetch("key", fetch)
	require.NoError(t, err)
	require.Equal(t, 1, v)

	v, err = c.FindOrFetch("key", fetch)
	require.NoError(t, err)
	require.Equal(t, 1, v, "second lookup should be served from cache")

	require.Equal(t, float64(1), testutil.ToFloat64(requests.WithLabelValues("test", "miss")))
	require.Equal(t, float64(1), testutil.ToFloat64(requests.WithLabelValues("test", "hit")))
}

func TestFindOrFetchExpired(t *testing.T) {
	c, _ := newTestCache(t, -time.Second)

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return calls, nil
	}

	_, err := c.FindOrFetch("key", fetch)
	require.NoError(t, err)

	v, err := c.FindOrFetch("key", fetch)
	require.NoError(t, err)
	require.Equal(t, 2, v, "expired items are fetched again")
}

func TestFindOrFetchError(t *testing.T) {
	c, requests := newTestCache(t, time.Minute)

	_, err := c.FindOrFetch("key", func() (interface{}, error) {
		return nil, errors.New("boom")
	})
	require.EqualError(t, err, "boom")
	require.Equal(t, float64(1), testutil.ToFloat64(requests.WithLabelValues("test", "error")))
}
