// Package backend is the REST client for the platform API that owns saved
// jobs, AI matches, skills and signed asset URLs.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"careerhub-utils/internal/config"
	"careerhub-utils/internal/logging"
)

// SessionHeader carries the caller's session to the backend
const SessionHeader = "X-Session-ID"

const maxBodyBytes = 4 << 20

// Error is a non-2xx answer from the backend
type Error struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend %s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// ErrMalformed is returned when a 2xx body cannot be decoded
var ErrMalformed = errors.New("malformed backend response")

// IsStatus reports whether err is a backend Error with the given status
func IsStatus(err error, code int) bool {
	var be *Error
	return errors.As(err, &be) && be.StatusCode == code
}

// Client talks to the platform backend
type Client struct {
	base      string
	userAgent string
	http      *http.Client
	limiter   *rate.Limiter
	logger    logging.Logger
}

// NewClient builds a client from the backend section of cfg
func NewClient(cfg *config.Config, logger logging.Logger) *Client {
	limit := rate.Inf
	if cfg.Backend.RateLimit > 0 {
		limit = rate.Limit(cfg.Backend.RateLimit)
	}
	burst := cfg.Backend.Burst
	if burst < 1 {
		burst = 1
	}
	if logger == nil {
		logger = logging.Discard()
	}

	return &Client{
		base:      strings.TrimRight(cfg.Backend.BaseURL, "/"),
		userAgent: cfg.Backend.UserAgent,
		http:      &http.Client{Timeout: cfg.Backend.Timeout},
		limiter:   rate.NewLimiter(limit, burst),
		logger:    logger.WithField("component", "backend_client"),
	}
}

// ListSavedJobs returns the raw saved-job records of the session, in the
// order the backend sends them.
func (c *Client) ListSavedJobs(ctx context.Context, sessionID string) ([]map[string]interface{}, error) {
	var out struct {
		Jobs []map[string]interface{} `json:"jobs"`
	}
	if err := c.do(ctx, http.MethodGet, "/saved-jobs", sessionID, nil, &out); err != nil {
		return nil, err
	}
	if out.Jobs == nil {
		out.Jobs = []map[string]interface{}{}
	}
	return out.Jobs, nil
}

// DeleteSavedJob unsaves a job. A nil error means the backend answered 2xx.
func (c *Client) DeleteSavedJob(ctx context.Context, sessionID, jobID string) error {
	body := map[string]string{"jobId": jobID}
	return c.do(ctx, http.MethodDelete, "/saved-jobs", sessionID, body, nil)
}

// SignedURL asks the backend to sign path in bucket
func (c *Client) SignedURL(ctx context.Context, bucket, path string) (string, error) {
	q := url.Values{}
	q.Set("bucket", bucket)
	q.Set("path", path)

	var out struct {
		SignedURL string `json:"signedUrl"`
	}
	if err := c.do(ctx, http.MethodGet, "/signed-url?"+q.Encode(), "", nil, &out); err != nil {
		return "", err
	}
	return out.SignedURL, nil
}

// JobMatches returns the raw AI match records for a student
func (c *Client) JobMatches(ctx context.Context, sessionID, studentID string) ([]map[string]interface{}, error) {
	var out struct {
		Matches []map[string]interface{} `json:"matches"`
	}
	body := map[string]string{"student_id": studentID}
	if err := c.do(ctx, http.MethodPost, "/job-matches", sessionID, body, &out); err != nil {
		return nil, err
	}
	if out.Matches == nil {
		out.Matches = []map[string]interface{}{}
	}
	return out.Matches, nil
}

// JobSkills returns the skills required by a job
func (c *Client) JobSkills(ctx context.Context, sessionID, jobID string) ([]string, error) {
	var out struct {
		Skills []string `json:"skills"`
	}
	if err := c.do(ctx, http.MethodGet, "/"+url.PathEscape(jobID)+"/skills", sessionID, nil, &out); err != nil {
		return nil, err
	}
	if out.Skills == nil {
		out.Skills = []string{}
	}
	return out.Skills, nil
}

func (c *Client) do(ctx context.Context, method, path, sessionID string, in, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("backend rate limit: %w", err)
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if sessionID != "" {
		req.Header.Set(SessionHeader, sessionID)
	}

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read %s %s: %w", method, path, err)
	}

	c.logger.Debug("Backend call", map[string]interface{}{
		"method":   method,
		"path":     path,
		"status":   res.StatusCode,
		"duration": time.Since(start).String(),
	})

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &Error{Method: method, Path: path, StatusCode: res.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		if out != nil {
			return fmt.Errorf("%s %s: empty body: %w", method, path, ErrMalformed)
		}
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%s %s: %v: %w", method, path, err, ErrMalformed)
	}
	return nil
}
