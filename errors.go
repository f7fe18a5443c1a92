package pdftext

import (
	"strings"

	"github.com/pkg/errors"
)

// Sentinel errors returned by this package. Operations wrap these with
// context using github.com/pkg/errors, so callers classify with errors.Is.
var (
	// ErrInvalidArguments reports a nil or malformed input, caught before
	// any work begins.
	ErrInvalidArguments = errors.New("invalid arguments")

	// ErrOutOfMemory reports an allocation failure inside the rendering
	// backend while building results.
	ErrOutOfMemory = errors.New("out of memory")

	// ErrInvalidPassword reports a missing or wrong document password.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrOperationFailed is the generic catch-all for backend failures.
	ErrOperationFailed = errors.New("operation failed")
)

// classifyBackendError maps an error from the rendering backend onto the
// package taxonomy, keeping the backend's message as context.
func classifyBackendError(err error, context string) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "password"):
		return errors.Wrapf(ErrInvalidPassword, "%s: %v", context, err)
	case strings.Contains(msg, "memory"):
		return errors.Wrapf(ErrOutOfMemory, "%s: %v", context, err)
	default:
		return errors.Wrapf(ErrOperationFailed, "%s: %v", context, err)
	}
}
