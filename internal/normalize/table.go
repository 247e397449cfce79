package normalize

import "strings"

// A rule extracts one candidate string from a raw record. Rules for a field
// are tried in order and the first hit wins.
type rule func(record map[string]interface{}) (string, bool)

func field(path ...string) rule {
	return func(record map[string]interface{}) (string, bool) {
		return asString(lookup(record, path))
	}
}

// fullName joins <prefix>.first_name and <prefix>.last_name
func fullName(prefix string) rule {
	return func(record map[string]interface{}) (string, bool) {
		first, _ := asString(lookup(record, []string{prefix, "first_name"}))
		last, _ := asString(lookup(record, []string{prefix, "last_name"}))
		name := strings.TrimSpace(first + " " + last)
		return name, name != ""
	}
}

func firstOf(record map[string]interface{}, rules []rule) (string, bool) {
	for _, r := range rules {
		if s, ok := r(record); ok {
			return s, true
		}
	}
	return "", false
}

// Source fields per SavedJob field, in priority order. The camelCase keys
// come first so a SavedJob's own JSON normalizes to itself.
var (
	idRules = []rule{field("id"), field("job_id"), field("jobId")}

	titleRules = []rule{field("title"), field("job_title")}

	companyRules = []rule{
		field("company"),
		field("company_name"),
		field("registered_employer", "company_name"),
		field("employer", "company_name"),
		fullName("employer"),
	}

	locationRules = []rule{field("location"), field("address"), field("job_location")}

	savedDateRules = []rule{field("savedDate"), field("saved_at"), field("created_at")}

	deadlineRules = []rule{
		field("applicationDeadline"),
		field("application_deadline"),
		field("deadline"),
	}

	logoRules = []rule{
		field("logoPath"),
		field("company_logo"),
		field("registered_employer", "company_logo"),
		field("employer", "company_logo"),
	}

	jobTypeRules = []rule{field("jobType"), field("job_type")}

	salaryRules = []rule{field("salary"), field("salary_range")}

	pausedKeys = [][]string{{"paused"}, {"is_paused"}}

	matchKeys = [][]string{{"matchPercentage"}, {"match_percentage"}, {"gpt_score"}, {"match_score"}}
)

// Source fields per JobMatch field
var (
	matchIDRules      = []rule{field("job_id"), field("jobId"), field("id")}
	matchTitleRules   = []rule{field("job_title"), field("title")}
	matchCompanyRules = []rule{field("company_name"), field("company")}
	matchScoreKeys    = [][]string{{"gpt_score"}, {"score"}, {"match_percentage"}}
)
