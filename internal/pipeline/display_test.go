package pipeline_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"careerhub-utils/internal/pipeline"
)

func TestDisplayTitle(t *testing.T) {
	assert.Equal(t, "Go Developer", pipeline.DisplayTitle("Go Developer"))
	assert.Equal(t, pipeline.UntitledPosition, pipeline.DisplayTitle("  "))
}

func TestDisplayLocation(t *testing.T) {
	assert.Equal(t, "Pune, Maharashtra, India",
		pipeline.DisplayLocation("Office 4, MG Road, Pune, Maharashtra, India"))
	assert.Equal(t, "Berlin, Germany", pipeline.DisplayLocation("Berlin, , Germany"))
	assert.Equal(t, pipeline.UnknownLocation, pipeline.DisplayLocation(""))
}

func TestRelativeSaved(t *testing.T) {
	now := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
	ago := func(days int) string {
		return now.Add(-time.Duration(days) * 24 * time.Hour).Format(time.RFC3339)
	}

	tests := map[string]string{
		ago(0):   "Saved today",
		ago(1):   "Saved yesterday",
		ago(4):   "Saved 4 days ago",
		ago(7):   "Saved 1 week ago",
		ago(20):  "Saved 2 weeks ago",
		ago(65):  "Saved 2 months ago",
		ago(400): "Saved 1 year ago",
		"":       "",
	}
	for in, want := range tests {
		assert.Equal(t, want, pipeline.RelativeSaved(in, now), in)
	}
}

func TestFormatDeadline(t *testing.T) {
	assert.Equal(t, "Jul 4, 2024", pipeline.FormatDeadline("2024-07-04T00:00:00Z"))
	assert.Equal(t, "", pipeline.FormatDeadline(""))
}
