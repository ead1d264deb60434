package booking

import (
	"errors"
	"fmt"
)

// Error codes for the booking engine. Every one of these is recoverable by
// re-running the matching pipeline against current data.
const (
	CodeInvalidRequest        = "invalidRequest"
	CodeNoCandidates          = "noCandidates"
	CodeInsufficientSelection = "insufficientSelection"
	CodeCapacityConflict      = "capacityConflict"
	CodeStorageFailure        = "storageFailure"
)

type EngineError struct {
	Code    string
	Message string
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewEngineError(code, msg string) error {
	return &EngineError{
		Code:    code,
		Message: msg,
	}
}

// ErrorCode extracts the engine error code, or "" for foreign errors.
func ErrorCode(err error) string {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return ""
}
