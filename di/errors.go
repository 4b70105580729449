package di

import (
	"errors"
	"strconv"
)

var (
	// ErrInvalidArgument is matched by every InvalidArgumentError.
	ErrInvalidArgument = errors.New("di: invalid argument")

	// ErrArgumentsNotReceived is matched by every ArgumentsNotReceivedError.
	ErrArgumentsNotReceived = errors.New("di: arguments not received")

	// ErrGenerationConflict is matched by every GenerationConflictError.
	ErrGenerationConflict = errors.New("di: stage generation conflict")

	// ErrLocatorPanic wraps the value recovered from a panicking Locator. TryGet
	// logs it and treats the slot as a miss.
	ErrLocatorPanic = errors.New("locator: panic during Resolve")
)

// InvalidArgumentError is returned when a required parameter is missing
// (nil registry, nil client, nil client type, nil or destroyed original) or
// cannot be used by the called operation.
type InvalidArgumentError struct {
	Param string

	// Reason is optional detail appended to the message.
	Reason string
}

// Error implements the error interface.
func (e InvalidArgumentError) Error() string {
	// Example: di: invalid argument "client"
	msg := "di: invalid argument " + strconv.Quote(e.Param)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// Is reports whether target is ErrInvalidArgument.
func (e InvalidArgumentError) Is(target error) bool { return target == ErrInvalidArgument }

// ArgumentsNotReceivedError is returned by Instantiate when the clone neither
// consumed the staged values during construction nor implements Initializer.
//
// The clone may be half-initialized; treat this as fatal for that call.
type ArgumentsNotReceivedError struct {
	// Type is the concrete client type, e.g. "*spawner.Enemy".
	Type string
}

// Error implements the error interface.
func (e ArgumentsNotReceivedError) Error() string {
	// Example: di: arguments not received by "*spawner.Enemy"
	return "di: arguments not received by " + strconv.Quote(e.Type)
}

// Is reports whether target is ErrArgumentsNotReceived.
func (e ArgumentsNotReceivedError) Is(target error) bool { return target == ErrArgumentsNotReceived }

// GenerationConflictError is returned when a stage entry was replaced by an
// unrelated Set between staging and clearing.
type GenerationConflictError struct {
	Type string
}

// Error implements the error interface.
func (e GenerationConflictError) Error() string {
	// Example: di: stage for "*spawner.Enemy" was overwritten by another producer
	return "di: stage for " + strconv.Quote(e.Type) + " was overwritten by another producer"
}

// Is reports whether target is ErrGenerationConflict.
func (e GenerationConflictError) Is(target error) bool { return target == ErrGenerationConflict }
