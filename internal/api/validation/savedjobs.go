package validation

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"careerhub-utils/pkg/models"
)

// SessionIDPattern matches the opaque session tokens the frontend forwards
var SessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,128}$`)

// StoragePathPattern matches object keys in the logo bucket
var StoragePathPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._/ -]{0,511}$`)

// ValidateJobID accepts every id the normalizer keeps
func ValidateJobID(fl validator.FieldLevel) bool {
	return models.AddressableJobID(fl.Field().String())
}

func ValidateSessionID(fl validator.FieldLevel) bool {
	return SessionIDPattern.MatchString(fl.Field().String())
}

// ValidateStoragePath rejects absolute paths and parent-directory segments
func ValidateStoragePath(fl validator.FieldLevel) bool {
	p := fl.Field().String()
	if !StoragePathPattern.MatchString(p) {
		return false
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return false
		}
	}
	return true
}

// RegisterSavedJobsValidators registers the custom tags used by the API
func RegisterSavedJobsValidators(v *validator.Validate) {
	v.RegisterValidation("job_id", ValidateJobID)
	v.RegisterValidation("session_id", ValidateSessionID)
	v.RegisterValidation("storage_path", ValidateStoragePath)
}

// New returns a validator with every custom tag registered
func New() *validator.Validate {
	v := validator.New()
	RegisterSavedJobsValidators(v)
	return v
}
