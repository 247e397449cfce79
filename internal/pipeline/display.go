package pipeline

import (
	"fmt"
	"strings"
	"time"
)

const (
	UntitledPosition = "Untitled Position"
	UnknownLocation  = "Unknown Location"
)

// DisplayTitle substitutes a placeholder for a missing title
func DisplayTitle(title string) string {
	if strings.TrimSpace(title) == "" {
		return UntitledPosition
	}
	return title
}

// DisplayLocation keeps the last three comma-separated parts of an address
// (city, region, country).
func DisplayLocation(location string) string {
	var parts []string
	for _, p := range strings.Split(location, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return UnknownLocation
	}
	if len(parts) > 3 {
		parts = parts[len(parts)-3:]
	}
	return strings.Join(parts, ", ")
}

// RelativeSaved renders how long ago a job was saved. Unparseable dates
// render as "".
func RelativeSaved(savedDate string, now time.Time) string {
	saved, ok := ParseDate(savedDate)
	if !ok {
		return ""
	}
	days := int(now.Sub(saved).Hours() / 24)
	if days < 0 {
		days = 0
	}

	switch {
	case days == 0:
		return "Saved today"
	case days == 1:
		return "Saved yesterday"
	case days < 7:
		return fmt.Sprintf("Saved %d days ago", days)
	case days < 30:
		return "Saved " + plural(days/7, "week") + " ago"
	case days < 365:
		return "Saved " + plural(days/30, "month") + " ago"
	}
	return "Saved " + plural(days/365, "year") + " ago"
}

// FormatDeadline renders a deadline as "Jan 2, 2006", or "" when missing
func FormatDeadline(deadline string) string {
	t, ok := ParseDate(deadline)
	if !ok {
		return ""
	}
	return t.Format("Jan 2, 2006")
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
