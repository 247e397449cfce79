package models

import "time"

// SavedJobsPage is the response for a page of the saved-jobs list
type SavedJobsPage struct {
	Items       []JobCard `json:"items"`
	Page        int       `json:"page"`
	PageCount   int       `json:"pageCount"`
	PageSize    int       `json:"pageSize"`
	Total       int       `json:"total"`
	Search      string    `json:"search"`
	Sort        string    `json:"sort"`
	SelectedJob string    `json:"selectedJob,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
}

// SidebarResponse holds the two independently loaded sidebar lists
type SidebarResponse struct {
	RecentSaved []SavedJob     `json:"recentSaved"`
	TopMatches  []SidebarMatch `json:"topMatches"`
	RequestID   string         `json:"request_id,omitempty"`
}

// SkillsResponse lists the skills required by a job
type SkillsResponse struct {
	JobID  string   `json:"jobId"`
	Skills []string `json:"skills"`
}

// SignedURLResponse carries a resolved asset URL. URL is empty when the
// asset could not be resolved and the client should show a placeholder.
type SignedURLResponse struct {
	Path string `json:"path"`
	URL  string `json:"url"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Uptime    time.Duration     `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}
