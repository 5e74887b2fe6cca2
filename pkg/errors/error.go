// Package errors provides coded errors shared by the engine, the trading components and the
// data adapters.
//
// Codes are grouped by hundreds: validation (1xx), data and catalog (2xx), indicators (3xx),
// components (4xx), trading (5xx), backtest runs (6xx) and state machines (9xx).
//
//	err := errors.Wrap(errors.ErrCodeCatalogRead, "failed to read bars", cause)
//	if errors.HasCode(err, errors.ErrCodeCatalogRead) { ... }
package errors

import (
	"errors"
	"fmt"
)

// coded is implemented by every error type of this package.
type coded interface {
	error
	ErrorCode() ErrorCode
}

// Error carries a code, a message and an optional cause.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func New(code ErrorCode, message string) *Error {
	return Wrap(code, message, nil)
}

func Newf(code ErrorCode, format string, args ...any) *Error {
	return Wrap(code, fmt.Sprintf(format, args...), nil)
}

// Wrap attaches a code and message to cause. A nil cause yields a plain coded error.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return Wrap(code, fmt.Sprintf(format, args...), cause)
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("[%d] %s", e.Code, e.Message)
	if e.Cause == nil {
		return msg
	}

	return msg + ": " + e.Cause.Error()
}

func (e *Error) Unwrap() error { return e.Cause }

func (e *Error) ErrorCode() ErrorCode { return e.Code }

// Is re-exports the standard errors.Is so callers need a single errors import.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// GetCode returns the code of the first coded error in the chain, or ErrCodeUnknown.
func GetCode(err error) ErrorCode {
	var c coded
	if errors.As(err, &c) {
		return c.ErrorCode()
	}

	return ErrCodeUnknown
}

func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// InvalidStateTriggerError reports a trigger the state machine has no transition for.
type InvalidStateTriggerError struct {
	State   string
	Trigger string
}

func NewInvalidStateTriggerError(state, trigger string) *InvalidStateTriggerError {
	return &InvalidStateTriggerError{State: state, Trigger: trigger}
}

func (e *InvalidStateTriggerError) Error() string {
	return fmt.Sprintf("[%d] invalid state trigger %s -> %s", ErrCodeInvalidStateTrigger, e.State, e.Trigger)
}

func (e *InvalidStateTriggerError) ErrorCode() ErrorCode { return ErrCodeInvalidStateTrigger }

func IsInvalidStateTrigger(err error) bool {
	var t *InvalidStateTriggerError

	return errors.As(err, &t)
}
