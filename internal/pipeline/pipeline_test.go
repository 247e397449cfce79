package pipeline_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerhub-utils/internal/pipeline"
	"careerhub-utils/pkg/models"
)

func ids(jobs []models.SavedJob) []string {
	out := make([]string, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, j.ID)
	}
	return out
}

func twoJobs() []models.SavedJob {
	return []models.SavedJob{
		{ID: "1", Title: "Backend Engineer", Company: "Acme", SavedDate: "2024-05-01", MatchPercentage: 70},
		{ID: "2", Title: "Data Analyst", Company: "Zeta", SavedDate: "2024-05-03", MatchPercentage: 90},
	}
}

func TestRun_RecentCompanyAndSearch(t *testing.T) {
	p := pipeline.New(5, "en")
	jobs := twoJobs()

	res := p.Run(jobs, pipeline.Query{Sort: pipeline.SortRecent, Page: 1})
	assert.Equal(t, []string{"2", "1"}, ids(res.Items))

	res = p.Run(jobs, pipeline.Query{Sort: pipeline.SortCompany, Page: 1})
	assert.Equal(t, []string{"1", "2"}, ids(res.Items))

	res = p.Run(jobs, pipeline.Query{Search: "zet", Sort: pipeline.SortRecent, Page: 1})
	assert.Equal(t, []string{"2"}, ids(res.Items))
	assert.Equal(t, 1, res.Total)

	res = p.Run(jobs, pipeline.Query{Sort: pipeline.SortMatch, Page: 1})
	assert.Equal(t, []string{"2", "1"}, ids(res.Items))

	// source untouched
	assert.Equal(t, []string{"1", "2"}, ids(jobs))
}

func TestFilter_CaseInsensitiveSubset(t *testing.T) {
	jobs := []models.SavedJob{
		{ID: "a", Title: "Senior GO Developer", Company: "Initech"},
		{ID: "b", Title: "Designer", Company: "Gopher Labs"},
		{ID: "c", Title: "Accountant", Company: "Umbrella"},
	}

	got := pipeline.Filter(jobs, "go")
	assert.Equal(t, []string{"a", "b"}, ids(got))
	for _, j := range got {
		hay := strings.ToLower(j.Title + " " + j.Company)
		assert.Contains(t, hay, "go")
	}

	assert.Len(t, pipeline.Filter(jobs, ""), 3)
	assert.Empty(t, pipeline.Filter(jobs, "nothing-matches"))
}

func TestFilter_QueryNotTrimmed(t *testing.T) {
	jobs := []models.SavedJob{
		{ID: "a", Title: "Go Developer", Company: "Initech"},
		{ID: "b", Title: "Senior Go Developer", Company: "Umbrella"},
	}

	assert.Equal(t, []string{"b"}, ids(pipeline.Filter(jobs, " go")))
	assert.Equal(t, []string{"a", "b"}, ids(pipeline.Filter(jobs, "go")))
	assert.Empty(t, pipeline.Filter(jobs, "   "))
}

func TestSort_TiesAreStable(t *testing.T) {
	p := pipeline.New(5, "en")
	jobs := []models.SavedJob{
		{ID: "x", MatchPercentage: 80},
		{ID: "y", MatchPercentage: 95},
		{ID: "z", MatchPercentage: 80},
	}
	for i := 0; i < 3; i++ {
		res := p.Run(jobs, pipeline.Query{Sort: pipeline.SortMatch, Page: 1})
		assert.Equal(t, []string{"y", "x", "z"}, ids(res.Items))
	}
}

func TestSort_MissingDatesAndCompaniesLast(t *testing.T) {
	p := pipeline.New(5, "en")
	jobs := []models.SavedJob{
		{ID: "nodate", Company: "beta"},
		{ID: "old", Company: "Alpha", SavedDate: "2023-01-01"},
		{ID: "new", Company: "", SavedDate: "2024-01-01T10:00:00Z"},
	}

	res := p.Run(jobs, pipeline.Query{Sort: pipeline.SortRecent, Page: 1})
	assert.Equal(t, []string{"new", "old", "nodate"}, ids(res.Items))

	res = p.Run(jobs, pipeline.Query{Sort: pipeline.SortCompany, Page: 1})
	assert.Equal(t, []string{"new", "old", "nodate"}, ids(res.Items))
}

func TestRun_Pagination(t *testing.T) {
	p := pipeline.New(5, "en")
	var jobs []models.SavedJob
	for i := 0; i < 12; i++ {
		jobs = append(jobs, models.SavedJob{ID: fmt.Sprint(i), MatchPercentage: float64(100 - i)})
	}

	tests := []struct {
		name      string
		page      int
		wantPage  int
		wantFirst string
		wantLen   int
	}{
		{"first", 1, 1, "0", 5},
		{"last partial", 3, 3, "10", 2},
		{"beyond range clamps", 9, 3, "10", 2},
		{"zero clamps", 0, 1, "0", 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := p.Run(jobs, pipeline.Query{Sort: pipeline.SortMatch, Page: tt.page})
			assert.Equal(t, 3, res.PageCount)
			assert.Equal(t, tt.wantPage, res.Page)
			require.Len(t, res.Items, tt.wantLen)
			assert.Equal(t, tt.wantFirst, res.Items[0].ID)
		})
	}
}

func TestRun_EmptyList(t *testing.T) {
	res := pipeline.New(5, "en").Run(nil, pipeline.Query{Page: 4})
	assert.Equal(t, 0, res.PageCount)
	assert.Equal(t, 1, res.Page)
	assert.NotNil(t, res.Items)
	assert.Empty(t, res.Items)
}

func TestNew_Defaults(t *testing.T) {
	p := pipeline.New(0, "not a locale!!")
	assert.Equal(t, pipeline.DefaultPageSize, p.PageSize())
}

func TestParseSortKey(t *testing.T) {
	k, err := pipeline.ParseSortKey("")
	require.NoError(t, err)
	assert.Equal(t, pipeline.SortRecent, k)

	k, err = pipeline.ParseSortKey("Company")
	require.NoError(t, err)
	assert.Equal(t, pipeline.SortCompany, k)

	_, err = pipeline.ParseSortKey("salary")
	assert.Error(t, err)
}
