// Package normalize maps heterogeneous backend job records onto the
// stable SavedJob and JobMatch view models.
//
// Every lookup is type-guarded: a field holding an unexpected type is
// treated as absent, so no input can panic.
package normalize

import "careerhub-utils/pkg/models"

const (
	UnknownCompany = "Unknown Company"

	DefaultMatchPercentage = 85
)

// Normalizer converts raw records. The zero value uses
// DefaultMatchPercentage for records without a score.
type Normalizer struct {
	DefaultMatch float64
}

// New returns a Normalizer with the given fallback score
func New(defaultMatch float64) *Normalizer {
	return &Normalizer{DefaultMatch: defaultMatch}
}

func (n *Normalizer) defaultMatch() float64 {
	if n == nil || n.DefaultMatch == 0 {
		return DefaultMatchPercentage
	}
	return n.DefaultMatch
}

// Job normalizes a single record. ok is false when no usable id can be
// found.
func (n *Normalizer) Job(raw map[string]interface{}) (job models.SavedJob, ok bool) {
	if raw == nil {
		return models.SavedJob{}, false
	}

	job.ID, ok = firstOf(raw, idRules)
	// the id must survive a round trip through the job routes
	ok = ok && models.AddressableJobID(job.ID)
	job.Title, _ = firstOf(raw, titleRules)
	job.Location, _ = firstOf(raw, locationRules)
	job.SavedDate, _ = firstOf(raw, savedDateRules)
	job.ApplicationDeadline, _ = firstOf(raw, deadlineRules)
	job.LogoPath, _ = firstOf(raw, logoRules)
	job.JobType, _ = firstOf(raw, jobTypeRules)
	job.Salary, _ = firstOf(raw, salaryRules)

	if company, found := firstOf(raw, companyRules); found {
		job.Company = company
	} else {
		job.Company = UnknownCompany
	}

	for _, path := range pausedKeys {
		if b, found := asBool(lookup(raw, path)); found {
			job.Paused = b
			break
		}
	}

	job.MatchPercentage, job.MatchEstimated = n.defaultMatch(), true
	if estimated, _ := asBool(raw["matchEstimated"]); !estimated {
		for _, path := range matchKeys {
			if f, found := asNumber(lookup(raw, path)); found {
				job.MatchPercentage, job.MatchEstimated = f, false
				break
			}
		}
	}

	return job, ok
}

// Jobs normalizes a batch, dropping records without an id. dropped counts
// the records that were skipped.
func (n *Normalizer) Jobs(raws []map[string]interface{}) (jobs []models.SavedJob, dropped int) {
	jobs = make([]models.SavedJob, 0, len(raws))
	for _, raw := range raws {
		job, ok := n.Job(raw)
		if !ok {
			dropped++
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, dropped
}

// Match normalizes a job-match record. Missing scores are 0.
func (n *Normalizer) Match(raw map[string]interface{}) (models.JobMatch, bool) {
	if raw == nil {
		return models.JobMatch{}, false
	}

	var m models.JobMatch
	var ok bool
	m.JobID, ok = firstOf(raw, matchIDRules)
	m.JobTitle, _ = firstOf(raw, matchTitleRules)
	if company, found := firstOf(raw, matchCompanyRules); found {
		m.CompanyName = company
	} else {
		m.CompanyName = UnknownCompany
	}
	for _, path := range matchScoreKeys {
		if f, found := asNumber(lookup(raw, path)); found {
			m.GPTScore = f
			break
		}
	}
	return m, ok
}

// Matches normalizes a batch of job-match records
func (n *Normalizer) Matches(raws []map[string]interface{}) []models.JobMatch {
	out := make([]models.JobMatch, 0, len(raws))
	for _, raw := range raws {
		if m, ok := n.Match(raw); ok {
			out = append(out, m)
		}
	}
	return out
}
