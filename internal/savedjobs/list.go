// Package savedjobs holds the per-session saved-jobs list: the normalized
// jobs, the user's search/sort/page and the selected card. Removal only
// touches local state once the backend has confirmed it.
package savedjobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"careerhub-utils/internal/logging"
	"careerhub-utils/internal/normalize"
	"careerhub-utils/internal/pipeline"
	"careerhub-utils/pkg/models"
)

var (
	ErrNotFound        = errors.New("job not in saved list")
	ErrSessionNotFound = errors.New("session not found")
)

// Backend is the subset of the backend client a List uses
type Backend interface {
	ListSavedJobs(ctx context.Context, sessionID string) ([]map[string]interface{}, error)
	DeleteSavedJob(ctx context.Context, sessionID, jobID string) error
}

// LogoResolver resolves logo paths to URLs; failures map to ""
type LogoResolver interface {
	ResolveMany(ctx context.Context, paths []string) (map[string]string, error)
}

// Deps are shared by every List of a Store
type Deps struct {
	Backend           Backend
	Resolver          LogoResolver
	Normalizer        *normalize.Normalizer
	Pipeline          *pipeline.Pipeline
	ClosingSoonWindow time.Duration
	Logger            logging.Logger
}

// List is one session's saved-jobs state
type List struct {
	sessionID string
	deps      Deps

	mu       sync.Mutex
	jobs     []models.SavedJob
	query    pipeline.Query
	selected string
	loaded   bool
	lastUsed time.Time
}

func newList(sessionID string, deps Deps, now time.Time) *List {
	return &List{
		sessionID: sessionID,
		deps:      deps,
		query:     pipeline.Query{Sort: pipeline.SortRecent, Page: 1},
		lastUsed:  now,
	}
}

// SessionID returns the owning session
func (l *List) SessionID() string { return l.sessionID }

// Loaded reports whether the list has been fetched at least once
func (l *List) Loaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loaded
}

// Refresh replaces the jobs with a fresh fetch. Selection survives if the
// selected job is still present; the page is clamped.
func (l *List) Refresh(ctx context.Context) error {
	raws, err := l.deps.Backend.ListSavedJobs(ctx, l.sessionID)
	if err != nil {
		return fmt.Errorf("fetch saved jobs: %w", err)
	}
	jobs, dropped := l.deps.Normalizer.Jobs(raws)
	if dropped > 0 {
		l.deps.Logger.Warn("Dropped saved jobs without an id", map[string]interface{}{
			"session_id": l.sessionID,
			"dropped":    dropped,
		})
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.jobs = jobs
	l.loaded = true
	if l.indexOf(l.selected) < 0 {
		l.selected = ""
	}
	l.clampPage()
	return nil
}

// SetQuery changes search and sort. Any change sends the user back to
// page 1.
func (l *List) SetQuery(search string, sort pipeline.SortKey) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if search != l.query.Search || sort != l.query.Sort {
		l.query.Search = search
		l.query.Sort = sort
		l.query.Page = 1
	}
}

// SetPage moves to page, clamped to the valid range
func (l *List) SetPage(page int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.query.Page = page
	l.clampPage()
}

// Select toggles the selected job and returns the new selection ("" when
// cleared).
func (l *List) Select(id string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.indexOf(id) < 0 {
		return l.selected, fmt.Errorf("select %s: %w", id, ErrNotFound)
	}
	if l.selected == id {
		l.selected = ""
	} else {
		l.selected = id
	}
	return l.selected, nil
}

// Selected returns the selected job id, or ""
func (l *List) Selected() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.selected
}

// Remove unsaves id. The backend is asked first; on failure the list is
// left exactly as it was.
func (l *List) Remove(ctx context.Context, id string) error {
	l.mu.Lock()
	known := l.indexOf(id) >= 0
	l.mu.Unlock()
	if !known {
		return fmt.Errorf("remove %s: %w", id, ErrNotFound)
	}

	if err := l.deps.Backend.DeleteSavedJob(ctx, l.sessionID, id); err != nil {
		l.deps.Logger.Error("Failed to remove saved job", map[string]interface{}{
			"session_id": l.sessionID,
			"job_id":     id,
			"error":      err.Error(),
		})
		return fmt.Errorf("remove %s: %w", id, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if i := l.indexOf(id); i >= 0 {
		l.jobs = append(l.jobs[:i:i], l.jobs[i+1:]...)
	}
	if l.selected == id {
		l.selected = ""
	}
	l.clampPage()
	return nil
}

// Jobs returns a copy of the normalized jobs in backend order
func (l *List) Jobs() []models.SavedJob {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]models.SavedJob(nil), l.jobs...)
}

// View renders the current page as cards with resolved logos
func (l *List) View(ctx context.Context, now time.Time) (*models.SavedJobsPage, error) {
	l.mu.Lock()
	res := l.deps.Pipeline.Run(l.jobs, l.query)
	l.query.Page = res.Page
	query, selected := l.query, l.selected
	l.mu.Unlock()

	paths := make([]string, 0, len(res.Items))
	for _, j := range res.Items {
		paths = append(paths, j.LogoPath)
	}
	logos := map[string]string{}
	if l.deps.Resolver != nil && len(paths) > 0 {
		var err error
		if logos, err = l.deps.Resolver.ResolveMany(ctx, paths); err != nil {
			return nil, err
		}
	}

	cards := make([]models.JobCard, 0, len(res.Items))
	for _, j := range res.Items {
		cards = append(cards, l.card(j, now, logos[j.LogoPath], j.ID == selected))
	}

	return &models.SavedJobsPage{
		Items:       cards,
		Page:        res.Page,
		PageCount:   res.PageCount,
		PageSize:    res.PageSize,
		Total:       res.Total,
		Search:      query.Search,
		Sort:        string(query.Sort),
		SelectedJob: selected,
	}, nil
}

func (l *List) card(j models.SavedJob, now time.Time, logo string, selected bool) models.JobCard {
	window := l.deps.ClosingSoonWindow
	if window <= 0 {
		window = pipeline.ClosingSoonWindow
	}
	return models.JobCard{
		SavedJob:        j,
		Status:          pipeline.DeriveStatusWithin(j.ApplicationDeadline, j.Paused, now, window),
		DisplayTitle:    pipeline.DisplayTitle(j.Title),
		DisplayLocation: pipeline.DisplayLocation(j.Location),
		SavedAgo:        pipeline.RelativeSaved(j.SavedDate, now),
		Deadline:        pipeline.FormatDeadline(j.ApplicationDeadline),
		LogoURL:         logo,
		Selected:        selected,
	}
}

func (l *List) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, j := range l.jobs {
		if j.ID == id {
			return i
		}
	}
	return -1
}

// clampPage keeps the page valid for the filtered list. Callers hold mu.
func (l *List) clampPage() {
	n := len(pipeline.Filter(l.jobs, l.query.Search))
	l.query.Page, _ = pipeline.Clamp(l.query.Page, n, l.deps.Pipeline.PageSize())
}

func (l *List) touch(now time.Time) {
	l.mu.Lock()
	l.lastUsed = now
	l.mu.Unlock()
}

func (l *List) idleSince(now time.Time) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return now.Sub(l.lastUsed)
}
