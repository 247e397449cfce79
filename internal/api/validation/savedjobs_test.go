package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"careerhub-utils/internal/api/validation"
)

type sample struct {
	JobID   string `validate:"job_id"`
	Session string `validate:"session_id"`
	Path    string `validate:"storage_path"`
}

func TestCustomValidators(t *testing.T) {
	v := validation.New()

	ok := sample{JobID: "123", Session: "sess_abc-1", Path: "logos/acme inc/logo.png"}
	assert.NoError(t, v.Struct(ok))

	for _, id := range []string{"job.42", "a:b", "12.5", "job 1", "uuid-Ä"} {
		assert.NoError(t, v.Var(id, "required,job_id"), id)
	}

	bad := []sample{
		{JobID: "1/2", Session: "s", Path: "a.png"},
		{JobID: "", Session: "s", Path: "a.png"},
		{JobID: "  ", Session: "s", Path: "a.png"},
		{JobID: "bad\x01id", Session: "s", Path: "a.png"},
		{JobID: "1", Session: "has space", Path: "a.png"},
		{JobID: "1", Session: "s", Path: "/etc/passwd"},
		{JobID: "1", Session: "s", Path: "logos/../secret"},
	}
	for _, s := range bad {
		assert.Error(t, v.Struct(s), "%+v", s)
	}
}
