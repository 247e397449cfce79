package normalize_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerhub-utils/internal/normalize"
	"careerhub-utils/pkg/models"
)

func decode(t *testing.T, s string) map[string]interface{} {
	t.Helper()
	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(s), &raw))
	return raw
}

func TestJob_IDFallbacks(t *testing.T) {
	n := normalize.New(85)
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"id", `{"id": "abc", "job_id": "x"}`, "abc"},
		{"numeric id", `{"id": 42}`, "42"},
		{"job_id", `{"job_id": 7}`, "7"},
		{"jobId", `{"jobId": "j-9"}`, "j-9"},
		{"blank id skipped", `{"id": "  ", "jobId": "j-1"}`, "j-1"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			job, ok := n.Job(decode(t, c.raw))
			require.True(t, ok)
			assert.Equal(t, c.want, job.ID)
		})
	}
}

func TestJob_MissingIDIsRejected(t *testing.T) {
	n := normalize.New(85)
	_, ok := n.Job(decode(t, `{"title": "Dev", "id": {"nested": true}}`))
	assert.False(t, ok)

	_, ok = n.Job(nil)
	assert.False(t, ok)
}

func TestJob_IDsMustBeAddressable(t *testing.T) {
	n := normalize.New(85)

	for _, raw := range []string{`{"id": "job.42"}`, `{"id": "a:b"}`, `{"id": 12.5}`, `{"id": "job 1"}`} {
		job, ok := n.Job(decode(t, raw))
		require.True(t, ok, raw)
		assert.True(t, models.AddressableJobID(job.ID), raw)
	}

	for _, raw := range []string{`{"id": "a/b"}`, `{"id": "tab\tid"}`, `{"id": "   "}`} {
		_, ok := n.Job(decode(t, raw))
		assert.False(t, ok, raw)
	}
}

func TestJob_CompanyFallbackChain(t *testing.T) {
	n := normalize.New(85)
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"direct", `{"id":1,"company":"Acme","registered_employer":{"company_name":"Reg"}}`, "Acme"},
		{"company_name", `{"id":1,"company_name":"Beta"}`, "Beta"},
		{"registered employer", `{"id":1,"registered_employer":{"company_name":"Reg"},"employer":{"company_name":"Emp"}}`, "Reg"},
		{"employer", `{"id":1,"employer":{"company_name":"Emp","first_name":"Ann"}}`, "Emp"},
		{"employer name", `{"id":1,"employer":{"first_name":"Ann","last_name":"Lee"}}`, "Ann Lee"},
		{"first name only", `{"id":1,"employer":{"first_name":"Ann"}}`, "Ann"},
		{"company is an object", `{"id":1,"company":{"name":"Obj"}}`, normalize.UnknownCompany},
		{"nested not an object", `{"id":1,"employer":"Emp Inc"}`, normalize.UnknownCompany},
		{"nothing", `{"id":1}`, normalize.UnknownCompany},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			job, ok := n.Job(decode(t, c.raw))
			require.True(t, ok)
			assert.Equal(t, c.want, job.Company)
		})
	}
}

func TestJob_FieldAliases(t *testing.T) {
	n := normalize.New(85)
	job, ok := n.Job(decode(t, `{
		"job_id": 3,
		"job_title": "Backend Engineer",
		"address": "1 Main St, Springfield, IL, USA",
		"created_at": "2024-01-01T00:00:00Z",
		"application_deadline": "2024-03-01",
		"is_paused": "true",
		"match_percentage": "72.5",
		"employer": {"company_logo": "logos/acme.png"},
		"job_type": "Full-time",
		"salary": 120000
	}`))
	require.True(t, ok)

	assert.Equal(t, "3", job.ID)
	assert.Equal(t, "Backend Engineer", job.Title)
	assert.Equal(t, "1 Main St, Springfield, IL, USA", job.Location)
	assert.Equal(t, "2024-01-01T00:00:00Z", job.SavedDate)
	assert.Equal(t, "2024-03-01", job.ApplicationDeadline)
	assert.True(t, job.Paused)
	assert.Equal(t, 72.5, job.MatchPercentage)
	assert.False(t, job.MatchEstimated)
	assert.Equal(t, "logos/acme.png", job.LogoPath)
	assert.Equal(t, "Full-time", job.JobType)
	assert.Equal(t, "120000", job.Salary)
}

func TestJob_SavedAtPreferredOverCreatedAt(t *testing.T) {
	job, _ := normalize.New(85).Job(decode(t, `{"id":1,"saved_at":"2024-02-01","created_at":"2024-01-01"}`))
	assert.Equal(t, "2024-02-01", job.SavedDate)
}

func TestJob_WrongTypesAreIgnored(t *testing.T) {
	job, ok := normalize.New(85).Job(decode(t, `{
		"id": "1",
		"title": ["not", "a", "string"],
		"location": true,
		"paused": {"x": 1},
		"matchPercentage": "high"
	}`))
	require.True(t, ok)
	assert.Empty(t, job.Title)
	assert.Empty(t, job.Location)
	assert.False(t, job.Paused)
	assert.Equal(t, float64(85), job.MatchPercentage)
	assert.True(t, job.MatchEstimated)
}

func TestJob_DefaultMatchIsFlagged(t *testing.T) {
	job, _ := normalize.New(85).Job(decode(t, `{"id":1}`))
	assert.Equal(t, float64(85), job.MatchPercentage)
	assert.True(t, job.MatchEstimated)

	job, _ = normalize.New(85).Job(decode(t, `{"id":1,"gpt_score":85}`))
	assert.Equal(t, float64(85), job.MatchPercentage)
	assert.False(t, job.MatchEstimated)

	var zero normalize.Normalizer
	job, _ = zero.Job(decode(t, `{"id":1}`))
	assert.Equal(t, float64(normalize.DefaultMatchPercentage), job.MatchPercentage)
}

func TestJob_Idempotent(t *testing.T) {
	n := normalize.New(85)
	raws := []string{
		`{"id":1,"title":"Dev","company":"Acme","saved_at":"2024-01-01","paused":true,"gpt_score":0}`,
		`{"job_id":"x","employer":{"first_name":"Ann","last_name":"Lee","company_logo":"a.png"}}`,
		`{"jobId":5}`,
	}
	for _, s := range raws {
		first, ok := n.Job(decode(t, s))
		require.True(t, ok)

		data, err := json.Marshal(first)
		require.NoError(t, err)
		second, ok := n.Job(decode(t, string(data)))
		require.True(t, ok)

		assert.Equal(t, first, second, "normalizing %s twice", s)
	}
}

func TestJobs_DropsRecordsWithoutID(t *testing.T) {
	raws := []map[string]interface{}{
		{"id": float64(1), "title": "Dev"},
		{"title": "No id"},
		nil,
		{"jobId": "2"},
	}
	jobs, dropped := normalize.New(85).Jobs(raws)
	assert.Equal(t, 2, dropped)
	require.Len(t, jobs, 2)
	assert.Equal(t, "1", jobs[0].ID)
	assert.Equal(t, "2", jobs[1].ID)
}

func TestMatches(t *testing.T) {
	var raws []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(`[
		{"job_id": 10, "job_title": "Dev", "company_name": "Acme", "gpt_score": 77},
		{"job_id": "11", "title": "QA", "score": "40"},
		{"job_title": "no id"}
	]`), &raws))

	got := normalize.New(85).Matches(raws)
	assert.Equal(t, []models.JobMatch{
		{JobID: "10", JobTitle: "Dev", CompanyName: "Acme", GPTScore: 77},
		{JobID: "11", JobTitle: "QA", CompanyName: normalize.UnknownCompany, GPTScore: 40},
	}, got)
}
