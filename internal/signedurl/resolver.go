package signedurl

import (
	"context"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"careerhub-utils/internal/logging"
)

// DefaultKeyPrefix namespaces logo URLs in the cache
const DefaultKeyPrefix = "companyLogoUrl:"

// Options configures a Resolver
type Options struct {
	Bucket        string
	TTL           time.Duration // lifetime of a cached URL
	KeyPrefix     string
	MaxConcurrent int           // ResolveMany worker limit
	Timeout       time.Duration // per signing call
	Now           func() time.Time
}

// Resolver maps storage paths to signed URLs. Failures resolve to ""
// and are only logged.
type Resolver struct {
	cache  Cache
	signer Signer
	opts   Options
	group  singleflight.Group
	logger logging.Logger
}

func NewResolver(cache Cache, signer Signer, opts Options, logger logging.Logger) *Resolver {
	if opts.TTL <= 0 {
		opts.TTL = 55 * time.Minute
	}
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = DefaultKeyPrefix
	}
	if opts.MaxConcurrent < 1 {
		opts.MaxConcurrent = 5
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if c, ok := cache.(clockAware); ok {
		c.UseClock(opts.Now)
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Resolver{
		cache:  cache,
		signer: signer,
		opts:   opts,
		logger: logger.WithField("component", "signed_url_resolver"),
	}
}

// Key returns the cache key for path
func (r *Resolver) Key(path string) string {
	return r.opts.KeyPrefix + path
}

// Resolve returns a signed URL for path, or "" when path is empty or the
// URL cannot be obtained. The only error is ctx.Err() when the caller
// gives up; an in-flight request shared with other callers carries on.
func (r *Resolver) Resolve(ctx context.Context, path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := r.Key(path)
	e, ok, err := r.cache.Get(ctx, key)
	switch {
	case err != nil:
		r.logger.Warn("Signed URL cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
	case ok && e.Valid(r.opts.Now()):
		return e.URL, nil
	case ok:
		r.evict(ctx, key)
	}

	ch := r.group.DoChan(key, func() (interface{}, error) {
		return r.fetch(context.WithoutCancel(ctx), key, path), nil
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		return res.Val.(string), nil
	}
}

func (r *Resolver) fetch(ctx context.Context, key, path string) string {
	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	signed, err := r.signer.Sign(ctx, r.opts.Bucket, path)
	if err != nil {
		r.logger.Warn("Failed to sign URL", map[string]interface{}{"path": path, "error": err.Error()})
		r.evict(ctx, key)
		return ""
	}
	if !wellFormed(signed) {
		r.logger.Warn("Signer returned an unusable URL", map[string]interface{}{"path": path})
		r.evict(ctx, key)
		return ""
	}

	entry := Entry{URL: signed, Expiry: r.opts.Now().Add(r.opts.TTL).UnixMilli()}
	if err := r.cache.Set(ctx, key, entry); err != nil {
		r.logger.Warn("Signed URL cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
	return signed
}

func (r *Resolver) evict(ctx context.Context, key string) {
	if err := r.cache.Delete(ctx, key); err != nil {
		r.logger.Warn("Signed URL cache evict failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
}

// ResolveMany resolves distinct non-empty paths concurrently. Paths that
// fail map to "".
func (r *Resolver) ResolveMany(ctx context.Context, paths []string) (map[string]string, error) {
	out := make(map[string]string, len(paths))
	unique := make([]string, 0, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, seen := out[p]; !seen {
			out[p] = ""
			unique = append(unique, p)
		}
	}

	results := make([]string, len(unique))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.MaxConcurrent)
	for i, p := range unique {
		i, p := i, p
		g.Go(func() error {
			u, err := r.Resolve(gctx, p)
			results[i] = u
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, p := range unique {
		out[p] = results[i]
	}
	return out, nil
}

func wellFormed(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
