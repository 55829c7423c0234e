package sesuite

import (
	"errors"

	"github.com/sesuite-go/sesuite/pkg/soap"
)

var (
	// ErrSessionNotStarted is returned by operations called before Open or after Close.
	ErrSessionNotStarted = errors.New("http session not started")

	// ErrWorkflowOperationFailed matches every failed workflow operation.
	ErrWorkflowOperationFailed = errors.New("workflow operation failed")

	// ErrFormOperationFailed matches every failed form operation.
	ErrFormOperationFailed = errors.New("form operation failed")

	// ErrUnsafeFileName is returned by Download for names that escape the
	// download directory.
	ErrUnsafeFileName = errors.New("unsafe file name")
)

// OperationError describes a failed call. StatusCode is the HTTP status of the
// answer; for business failures it is 200 and Message holds the Detail text.
// For HTTP failures Message holds the raw response body.
type OperationError struct {
	Component  soap.Component
	Action     soap.Action
	StatusCode int
	Message    string
}

func (e *OperationError) Error() string {
	return e.Message
}

// Is matches the sentinel of the error's component.
func (e *OperationError) Is(target error) bool {
	switch e.Component {
	case soap.Workflow:
		return target == ErrWorkflowOperationFailed
	case soap.Form:
		return target == ErrFormOperationFailed
	}
	return false
}

func operationError(c soap.Component, a soap.Action, status int, msg string) *OperationError {
	return &OperationError{Component: c, Action: a, StatusCode: status, Message: msg}
}
