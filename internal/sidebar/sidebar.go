// Package sidebar aggregates the two dashboard widgets: the most recently
// saved jobs and the best AI matches. Each half loads independently and
// degrades to an empty list on failure.
package sidebar

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"careerhub-utils/internal/logging"
	"careerhub-utils/internal/normalize"
	"careerhub-utils/pkg/models"
)

// DefaultLimit is how many entries each half shows
const DefaultLimit = 3

// Backend is the subset of the backend client the sidebar uses
type Backend interface {
	ListSavedJobs(ctx context.Context, sessionID string) ([]map[string]interface{}, error)
	JobMatches(ctx context.Context, sessionID, studentID string) ([]map[string]interface{}, error)
}

type Service struct {
	backend    Backend
	normalizer *normalize.Normalizer
	limit      int
	logger     logging.Logger
}

func NewService(backend Backend, normalizer *normalize.Normalizer, limit int, logger logging.Logger) *Service {
	if limit < 1 {
		limit = DefaultLimit
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Service{
		backend:    backend,
		normalizer: normalizer,
		limit:      limit,
		logger:     logger.WithField("component", "sidebar"),
	}
}

// BadgeColor buckets a match score: >= 60 green, >= 31 orange, else red.
// Scores are fractional, so 30.5 is red.
func BadgeColor(score float64) models.BadgeColor {
	switch {
	case score >= 60:
		return models.BadgeGreen
	case score >= 31:
		return models.BadgeOrange
	}
	return models.BadgeRed
}

// Load fetches both halves concurrently. It never fails; a half that
// cannot be loaded is empty. studentID "" skips the matches request.
func (s *Service) Load(ctx context.Context, sessionID, studentID string) *models.SidebarResponse {
	resp := &models.SidebarResponse{
		RecentSaved: []models.SavedJob{},
		TopMatches:  []models.SidebarMatch{},
	}

	var g errgroup.Group
	g.Go(func() error {
		resp.RecentSaved = s.recentSaved(ctx, sessionID)
		return nil
	})
	if studentID != "" {
		g.Go(func() error {
			resp.TopMatches = s.topMatches(ctx, sessionID, studentID)
			return nil
		})
	}
	_ = g.Wait()

	return resp
}

func (s *Service) recentSaved(ctx context.Context, sessionID string) []models.SavedJob {
	raws, err := s.backend.ListSavedJobs(ctx, sessionID)
	if err != nil {
		s.logger.Warn("Sidebar saved jobs unavailable", map[string]interface{}{"error": err.Error()})
		return []models.SavedJob{}
	}
	jobs, _ := s.normalizer.Jobs(raws)
	if len(jobs) > s.limit {
		jobs = jobs[:s.limit]
	}
	return jobs
}

func (s *Service) topMatches(ctx context.Context, sessionID, studentID string) []models.SidebarMatch {
	raws, err := s.backend.JobMatches(ctx, sessionID, studentID)
	if err != nil {
		s.logger.Warn("Sidebar matches unavailable", map[string]interface{}{
			"student_id": studentID,
			"error":      err.Error(),
		})
		return []models.SidebarMatch{}
	}

	matches := s.normalizer.Matches(raws)
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].GPTScore > matches[j].GPTScore
	})
	if len(matches) > s.limit {
		matches = matches[:s.limit]
	}

	out := make([]models.SidebarMatch, 0, len(matches))
	for _, m := range matches {
		out = append(out, models.SidebarMatch{JobMatch: m, Badge: BadgeColor(m.GPTScore)})
	}
	return out
}
