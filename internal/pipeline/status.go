package pipeline

import (
	"math"
	"strings"
	"time"

	"careerhub-utils/pkg/models"
)

// ClosingSoonWindow is how close a deadline must be to count as closing soon
const ClosingSoonWindow = 72 * time.Hour

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate parses the date formats the backend is known to send.
// Values without a zone are read as UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DeriveStatus computes the display status of a job at now using the
// default closing-soon window.
func DeriveStatus(deadline string, paused bool, now time.Time) models.JobStatus {
	return DeriveStatusWithin(deadline, paused, now, ClosingSoonWindow)
}

// DeriveStatusWithin computes the display status of a job:
//
//	paused                          -> Closed
//	deadline before now             -> Closed
//	deadline within window (days)   -> Closing Soon
//	otherwise, or no usable deadline -> Active
//
// Days left are rounded up, so a deadline 3 days and 1 hour away is 4 days.
func DeriveStatusWithin(deadline string, paused bool, now time.Time, window time.Duration) models.JobStatus {
	if paused {
		return models.StatusClosed
	}
	due, ok := ParseDate(deadline)
	if !ok {
		return models.StatusActive
	}
	if due.Before(now) {
		return models.StatusClosed
	}

	day := 24 * time.Hour
	daysLeft := math.Ceil(float64(due.Sub(now)) / float64(day))
	if daysLeft <= math.Ceil(float64(window)/float64(day)) {
		return models.StatusClosingSoon
	}
	return models.StatusActive
}
