package signedurl_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerhub-utils/internal/signedurl"
)

type fakeSigner struct {
	calls   atomic.Int32
	url     string
	err     error
	release chan struct{}
}

func (f *fakeSigner) Sign(ctx context.Context, bucket, path string) (string, error) {
	f.calls.Add(1)
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return "", f.err
	}
	if f.url != "" {
		return f.url, nil
	}
	return "https://cdn.example.com/" + bucket + "/" + path + "?sig=1", nil
}

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newResolver(cache signedurl.Cache, s signedurl.Signer, c *clock) *signedurl.Resolver {
	return signedurl.NewResolver(cache, s, signedurl.Options{
		Bucket: "company-logos",
		TTL:    time.Hour,
		Now:    c.Now,
	}, nil)
}

func TestResolve_EmptyPathSkipsNetwork(t *testing.T) {
	s := &fakeSigner{}
	r := newResolver(signedurl.NewMemoryCache(), s, &clock{t: time.Now()})

	u, err := r.Resolve(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, u)
	assert.Zero(t, s.calls.Load())
}

func TestResolve_CachesUntilExpiry(t *testing.T) {
	s := &fakeSigner{}
	c := &clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	cache := signedurl.NewMemoryCache()
	r := newResolver(cache, s, c)
	ctx := context.Background()

	first, err := r.Resolve(ctx, "acme.png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/company-logos/acme.png?sig=1", first)

	e, ok, _ := cache.Get(ctx, "companyLogoUrl:acme.png")
	require.True(t, ok)
	assert.Equal(t, c.Now().Add(time.Hour).UnixMilli(), e.Expiry)

	c.Advance(59 * time.Minute)
	_, err = r.Resolve(ctx, "acme.png")
	require.NoError(t, err)
	assert.EqualValues(t, 1, s.calls.Load())

	c.Advance(time.Minute)
	_, err = r.Resolve(ctx, "acme.png")
	require.NoError(t, err)
	assert.EqualValues(t, 2, s.calls.Load())
}

func TestResolve_ExpiredEntryNeverReturned(t *testing.T) {
	c := &clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	cache := signedurl.NewMemoryCache()
	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, "companyLogoUrl:old.png", signedurl.Entry{
		URL:    "https://stale.example.com/old.png",
		Expiry: c.Now().Add(-time.Second).UnixMilli(),
	}))

	s := &fakeSigner{err: errors.New("backend down")}
	r := newResolver(cache, s, c)

	u, err := r.Resolve(ctx, "old.png")
	require.NoError(t, err)
	assert.Empty(t, u)

	_, ok, _ := cache.Get(ctx, "companyLogoUrl:old.png")
	assert.False(t, ok, "stale entry should be evicted")
}

func TestResolve_NonHTTPEntryIgnored(t *testing.T) {
	c := &clock{t: time.Now()}
	cache := signedurl.NewMemoryCache()
	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, "companyLogoUrl:x.png", signedurl.Entry{
		URL:    "undefined",
		Expiry: c.Now().Add(time.Hour).UnixMilli(),
	}))

	s := &fakeSigner{}
	u, err := newResolver(cache, s, c).Resolve(ctx, "x.png")
	require.NoError(t, err)
	assert.Contains(t, u, "https://")
	assert.EqualValues(t, 1, s.calls.Load())
}

func TestResolve_MalformedSignedURL(t *testing.T) {
	cache := signedurl.NewMemoryCache()
	s := &fakeSigner{url: "not a url"}
	u, err := newResolver(cache, s, &clock{t: time.Now()}).Resolve(context.Background(), "a.png")
	require.NoError(t, err)
	assert.Empty(t, u)
	assert.Zero(t, cache.Len())
}

func TestResolve_ConcurrentCallsShareOneRequest(t *testing.T) {
	s := &fakeSigner{release: make(chan struct{})}
	r := newResolver(signedurl.NewMemoryCache(), s, &clock{t: time.Now()})

	const n = 8
	var wg sync.WaitGroup
	results := make([]string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = r.Resolve(context.Background(), "shared.png")
		}(i)
	}

	require.Eventually(t, func() bool { return s.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(s.release)
	wg.Wait()

	assert.EqualValues(t, 1, s.calls.Load())
	for _, u := range results {
		assert.Equal(t, results[0], u)
	}
}

func TestResolve_CancelledCaller(t *testing.T) {
	s := &fakeSigner{release: make(chan struct{})}
	cache := signedurl.NewMemoryCache()
	r := newResolver(cache, s, &clock{t: time.Now()})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := r.Resolve(ctx, "slow.png")
		done <- err
	}()

	require.Eventually(t, func() bool { return s.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	close(s.release)
	require.Eventually(t, func() bool { return cache.Len() == 1 }, time.Second, 5*time.Millisecond)
}

func TestResolveMany(t *testing.T) {
	s := &fakeSigner{}
	r := newResolver(signedurl.NewMemoryCache(), s, &clock{t: time.Now()})

	got, err := r.ResolveMany(context.Background(), []string{"a.png", "", "b.png", "a.png"})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Contains(t, got["a.png"], "/a.png")
	assert.Contains(t, got["b.png"], "/b.png")
	assert.EqualValues(t, 2, s.calls.Load())
}

func TestMemoryCache_Sweep(t *testing.T) {
	now := time.Now()
	cache := signedurl.NewMemoryCache()
	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, "live", signedurl.Entry{URL: "https://a", Expiry: now.Add(time.Minute).UnixMilli()}))
	require.NoError(t, cache.Set(ctx, "dead", signedurl.Entry{URL: "https://b", Expiry: now.Add(-time.Minute).UnixMilli()}))

	assert.Equal(t, 1, cache.Sweep(now))
	assert.Equal(t, 1, cache.Len())
}
