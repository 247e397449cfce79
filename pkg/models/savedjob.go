package models

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxJobIDLength bounds the ids the API accepts
const MaxJobIDLength = 256

// AddressableJobID reports whether id can be carried as one URL path
// segment: non-blank UTF-8 without slashes or control characters.
func AddressableJobID(id string) bool {
	if len(id) > MaxJobIDLength || strings.TrimSpace(id) == "" || !utf8.ValidString(id) {
		return false
	}
	for _, r := range id {
		if r == '/' || unicode.IsControl(r) {
			return false
		}
	}
	return true
}

// SavedJob is the normalized view model of a job the student saved.
// It is rebuilt from backend records on every fetch.
type SavedJob struct {
	ID                  string  `json:"id"`
	Title               string  `json:"title"`
	Company             string  `json:"company"`
	Location            string  `json:"location,omitempty"`
	SavedDate           string  `json:"savedDate,omitempty"`
	ApplicationDeadline string  `json:"applicationDeadline,omitempty"`
	Paused              bool    `json:"paused,omitempty"`
	MatchPercentage     float64 `json:"matchPercentage"`
	// MatchEstimated is set when the backend sent no score and
	// MatchPercentage holds the configured default.
	MatchEstimated bool   `json:"matchEstimated,omitempty"`
	LogoPath       string `json:"logoPath,omitempty"`
	JobType        string `json:"jobType,omitempty"`
	Salary         string `json:"salary,omitempty"`
}

// JobMatch is an AI-scored match shown in the sidebar
type JobMatch struct {
	JobID       string  `json:"job_id"`
	JobTitle    string  `json:"job_title"`
	CompanyName string  `json:"company_name"`
	GPTScore    float64 `json:"gpt_score"`
}

// JobStatus is the display status derived from deadline and paused flag
type JobStatus string

const (
	StatusActive      JobStatus = "Active"
	StatusClosingSoon JobStatus = "Closing Soon"
	StatusClosed      JobStatus = "Closed"
)

// BadgeColor buckets a match score for display
type BadgeColor string

const (
	BadgeGreen  BadgeColor = "green"
	BadgeOrange BadgeColor = "orange"
	BadgeRed    BadgeColor = "red"
)

// JobCard is one rendered list item
type JobCard struct {
	SavedJob
	Status          JobStatus `json:"status"`
	DisplayTitle    string    `json:"displayTitle"`
	DisplayLocation string    `json:"displayLocation"`
	SavedAgo        string    `json:"savedAgo,omitempty"`
	Deadline        string    `json:"deadline,omitempty"`
	LogoURL         string    `json:"logoUrl,omitempty"`
	Selected        bool      `json:"selected"`
}

// SidebarMatch is a JobMatch with its badge
type SidebarMatch struct {
	JobMatch
	Badge BadgeColor `json:"badge"`
}
