package pdftext

import (
	"testing"

	"github.com/pkg/errors"
)

func TestClassifyBackendError(t *testing.T) {
	tests := []struct {
		message string
		want    error
	}{
		{"document requires a password", ErrInvalidPassword},
		{"out of memory", ErrOutOfMemory},
		{"format error", ErrOperationFailed},
		{"unknown error", ErrOperationFailed},
	}

	for _, tt := range tests {
		err := classifyBackendError(errors.New(tt.message), "opening")
		if !errors.Is(err, tt.want) {
			t.Errorf("classifyBackendError(%q) = %v, want %v", tt.message, err, tt.want)
		}
	}
}
