package notification

import (
	"errors"
	"strings"
)

// NotificationError is the single error kind returned by Notifier.Send.
type NotificationError struct {
	Message string
	Err     error
}

func (e *NotificationError) Error() string { return e.Message }

func (e *NotificationError) Unwrap() error { return e.Err }

// Error is one structured application error.
type Error struct {
	Message   string         `json:"message"`
	ErrorType string         `json:"error_type,omitempty"`
	Level     string         `json:"level,omitempty"`
	Extra     map[string]any `json:"extra,omitempty"`
}

// ErrorsError carries several structured errors raised together.
type ErrorsError struct {
	Errors []Error
}

func (e *ErrorsError) Error() string {
	return strings.Join(e.messages(), "; ")
}

func (e *ErrorsError) messages() []string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Message
	}
	return msgs
}

// wrap converts any failure into a *NotificationError. Structured and joined
// errors keep one message per cause, separated by ";".
func wrap(err error) *NotificationError {
	var ne *NotificationError
	if errors.As(err, &ne) {
		return ne
	}
	var ee *ErrorsError
	if errors.As(err, &ee) {
		return &NotificationError{Message: strings.Join(ee.messages(), ";"), Err: err}
	}
	if joined := findJoined(err); joined != nil {
		var msgs []string
		for _, e := range joined.Unwrap() {
			msgs = append(msgs, e.Error())
		}
		return &NotificationError{Message: strings.Join(msgs, ";"), Err: err}
	}
	return &NotificationError{Message: err.Error(), Err: err}
}

// findJoined returns the first multi-error in err's single-wrap chain.
func findJoined(err error) interface{ Unwrap() []error } {
	for ; err != nil; err = errors.Unwrap(err) {
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			return joined
		}
	}
	return nil
}
