package compiler

import (
	"errors"
	"fmt"

	"github.com/ryanadelino-stack/compiler-api/internal/guard"
)

// Code classifies compile failures.
type Code string

const (
	CodeInvalidInput     Code = "INVALID_INPUT"
	CodeInvalidTemplate  Code = "INVALID_TEMPLATE"
	CodeBlockedClass     Code = "BLOCKED_CLASS"
	CodeResourceExceeded Code = "RESOURCE_EXCEEDED"
)

// Error is a classified compile failure. errors.Is matches on Code, so the
// sentinels below can be used as targets.
type Error struct {
	Code    Code
	Message string
	// Class is the rejected class name for CodeBlockedClass.
	Class string
	Err   error
}

// Sentinels for errors.Is.
var (
	ErrInvalidInput     = &Error{Code: CodeInvalidInput}
	ErrInvalidTemplate  = &Error{Code: CodeInvalidTemplate}
	ErrBlockedClass     = &Error{Code: CodeBlockedClass}
	ErrResourceExceeded = &Error{Code: CodeResourceExceeded}
)

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Code)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// CodeOf returns the code of a compile error, or "" for anything else.
func CodeOf(err error) Code {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

func invalidInput(err error) *Error {
	return &Error{Code: CodeInvalidInput, Message: "invalid roster input", Err: err}
}

func invalidTemplate(msg string, err error) *Error {
	return &Error{Code: CodeInvalidTemplate, Message: msg, Err: err}
}

// classifyLoad maps a template decoding failure onto the taxonomy.
func classifyLoad(err error) *Error {
	var blocked *guard.BlockedClassError
	if errors.As(err, &blocked) {
		return &Error{
			Code:    CodeBlockedClass,
			Message: "template references a blocked class",
			Class:   blocked.Class,
			Err:     err,
		}
	}
	var exceeded *guard.ResourceExceededError
	if errors.As(err, &exceeded) {
		return &Error{Code: CodeResourceExceeded, Message: "template exceeds resource limits", Err: err}
	}
	return invalidTemplate("failed to decode template", err)
}
