// Package pipeline implements the search, sort and paginate stages of the
// saved-jobs list. Every call starts from the full source list, so results
// never depend on a previous sort.
package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"careerhub-utils/pkg/models"
)

// DefaultPageSize is the saved-jobs page size
const DefaultPageSize = 5

// SortKey selects the single active ordering
type SortKey string

const (
	SortRecent  SortKey = "recent"
	SortMatch   SortKey = "match"
	SortCompany SortKey = "company"
)

// ParseSortKey validates a sort key; "" means recent
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return SortRecent, nil
	case SortRecent, SortMatch, SortCompany:
		return k, nil
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

// Query is the user-controlled input to the pipeline
type Query struct {
	Search string
	Sort   SortKey
	Page   int
}

// Result is one page of the filtered, sorted list
type Result struct {
	Items     []models.SavedJob
	Page      int
	PageCount int
	PageSize  int
	Total     int // after filtering
}

// Pipeline holds the settings shared by every run
type Pipeline struct {
	pageSize int
	locale   language.Tag
}

// New creates a pipeline. pageSize < 1 uses DefaultPageSize; an
// unparseable locale falls back to English.
func New(pageSize int, locale string) *Pipeline {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return &Pipeline{pageSize: pageSize, locale: tag}
}

// PageSize returns the configured page size
func (p *Pipeline) PageSize() int { return p.pageSize }

// Run filters, sorts and pages jobs. The input slice is not modified.
func (p *Pipeline) Run(jobs []models.SavedJob, q Query) Result {
	filtered := Filter(jobs, q.Search)
	p.Sort(filtered, q.Sort)

	page, pageCount := Clamp(q.Page, len(filtered), p.pageSize)
	res := Result{
		Page:      page,
		PageCount: pageCount,
		PageSize:  p.pageSize,
		Total:     len(filtered),
		Items:     []models.SavedJob{},
	}
	if pageCount == 0 {
		return res
	}

	start := (page - 1) * p.pageSize
	end := start + p.pageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	res.Items = filtered[start:end]
	return res
}

// Filter returns a new slice with the jobs whose title or company contains
// search, ignoring case. The query is matched as given, surrounding spaces
// included. An empty search keeps everything.
func Filter(jobs []models.SavedJob, search string) []models.SavedJob {
	needle := strings.ToLower(search)
	out := make([]models.SavedJob, 0, len(jobs))
	for _, j := range jobs {
		if needle == "" ||
			strings.Contains(strings.ToLower(j.Title), needle) ||
			strings.Contains(strings.ToLower(j.Company), needle) {
			out = append(out, j)
		}
	}
	return out
}

// Sort orders jobs in place by key. Ties keep their input order.
func (p *Pipeline) Sort(jobs []models.SavedJob, key SortKey) {
	switch key {
	case SortMatch:
		sort.SliceStable(jobs, func(i, j int) bool {
			return jobs[i].MatchPercentage > jobs[j].MatchPercentage
		})
	case SortCompany:
		// a Collator is not safe for concurrent use
		c := collate.New(p.locale)
		sort.SliceStable(jobs, func(i, j int) bool {
			return c.CompareString(jobs[i].Company, jobs[j].Company) < 0
		})
	default:
		sort.SliceStable(jobs, func(i, j int) bool {
			return savedUnix(jobs[i]) > savedUnix(jobs[j])
		})
	}
}

// missing or unparseable dates sort as the epoch, i.e. last
func savedUnix(j models.SavedJob) int64 {
	t, ok := ParseDate(j.SavedDate)
	if !ok {
		return 0
	}
	return t.UnixMilli()
}

// PageCount is ceil(total / size)
func PageCount(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// Clamp bounds page to [1, pageCount]. With no items the page is 1 and
// pageCount is 0.
func Clamp(page, total, size int) (clamped, pageCount int) {
	pageCount = PageCount(total, size)
	switch {
	case page < 1 || pageCount == 0:
		return 1, pageCount
	case page > pageCount:
		return pageCount, pageCount
	}
	return page, pageCount
}
