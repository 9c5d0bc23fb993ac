package element

import (
	"fmt"

	"github.com/xaionaro-go/avelement/pin"
	"github.com/xaionaro-go/avelement/types"
)

// Error is a fatal error reported by an element.
type Error struct {
	Element Abstract
	Err     error
}

func (e Error) Error() string {
	return fmt.Sprintf("received an error on %s: %v", e.Element, e.Err)
}

func (e Error) Unwrap() error {
	return e.Err
}

// ErrInvalidOperation is returned when the connected elements do not fit
// each other, for example a decoder fed with video.
type ErrInvalidOperation struct {
	Reason string
}

func (e ErrInvalidOperation) Error() string {
	return fmt.Sprintf("invalid operation: %s", e.Reason)
}

type ErrNotSupported struct {
	Err error
}

func (e ErrNotSupported) Error() string {
	return fmt.Sprintf("not supported: %v", e.Err)
}

func (e ErrNotSupported) Unwrap() error {
	return e.Err
}

// ErrCapabilityFailure is returned when a capability (e.g. a decoder) could
// not be constructed for a reason other than lack of support.
type ErrCapabilityFailure struct {
	Err error
}

func (e ErrCapabilityFailure) Error() string {
	return fmt.Sprintf("unable to initialize the capability: %v", e.Err)
}

func (e ErrCapabilityFailure) Unwrap() error {
	return e.Err
}

type ErrInvalidTransition struct {
	From types.MediaState
	To   types.MediaState
}

func (e ErrInvalidTransition) Error() string {
	return fmt.Sprintf("invalid state transition %s -> %s", e.From, e.To)
}

type ErrInvalidState struct {
	Expected types.MediaState
	Actual   types.MediaState
}

func (e ErrInvalidState) Error() string {
	return fmt.Sprintf("the element is in state %s, but %s was expected", e.Actual, e.Expected)
}

type ErrNotRegistered struct {
	ID types.ElementID
}

func (e ErrNotRegistered) Error() string {
	return fmt.Sprintf("element %s is not registered", e.ID)
}

type ErrAlreadyRegistered struct {
	ID types.ElementID
}

func (e ErrAlreadyRegistered) Error() string {
	return fmt.Sprintf("another element is already registered with ID %s", e.ID)
}

type ErrNotConnected = pin.ErrNotConnected
type ErrAlreadyConnected = pin.ErrAlreadyConnected
