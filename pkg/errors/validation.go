package errors

import (
	"strings"
	"unicode"
)

// ValidatePathArg checks a path supplied on the command line or in a config
// file. It rejects empty values and control characters, which would
// otherwise surface later as confusing filesystem errors.
func ValidatePathArg(name, path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidPath, "%s cannot be empty", name)
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "%s contains invalid control characters", name)
		}
	}
	return nil
}
