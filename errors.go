package broker

import (
	"errors"
	"fmt"

	"github.com/dshills/broker/namespace"
)

// Sentinel errors for the broker.
var (
	// ErrInvalidNamespace is returned when a namespace or pattern is
	// empty or malformed.
	ErrInvalidNamespace = errors.New("invalid namespace")

	// ErrNilCallback is returned when a nil callback is registered.
	ErrNilCallback = errors.New("callback cannot be nil")

	// ErrNilTransformer is returned when a nil transformer is registered.
	ErrNilTransformer = errors.New("transformer cannot be nil")

	// ErrInvalidSubscription is returned when a nil subscription is
	// passed to Unsubscribe.
	ErrInvalidSubscription = errors.New("invalid subscription")

	// ErrSubscriptionNotFound is returned when unsubscribing an entry
	// that is no longer registered.
	ErrSubscriptionNotFound = errors.New("subscription not found")

	// ErrTransformationNotFound is returned when removing a transformer
	// that is no longer registered.
	ErrTransformationNotFound = errors.New("transformation not found")

	// ErrSignatureConflict is returned when a subscriber's declared
	// argument names disagree with the namespace's signature record.
	ErrSignatureConflict = errors.New("signature conflict")

	// ErrArgumentMismatch is returned when emitted arguments disagree
	// with a matched namespace's signature record.
	ErrArgumentMismatch = errors.New("argument mismatch")
)

// SignatureConflictError is a registration-time failure: a non-flexible
// subscriber declared argument names that differ from the record already
// set for its namespace. The registration is rejected and no state is
// mutated.
type SignatureConflictError struct {
	// Namespace is the literal path whose record was violated.
	Namespace namespace.Path

	// Want is the recorded argument-name set for the namespace.
	Want []string

	// Got is the argument-name set the rejected subscriber declared.
	Got []string
}

// Error implements the error interface.
func (e *SignatureConflictError) Error() string {
	return fmt.Sprintf("subscriber argument mismatch for namespace %q: expected %v, got %v",
		e.Namespace, e.Want, e.Got)
}

// Is allows errors.Is to match SignatureConflictError with ErrSignatureConflict.
func (e *SignatureConflictError) Is(target error) bool {
	return target == ErrSignatureConflict
}

// ArgumentError is an emission-time failure: the emitted argument names
// disagree with a matched namespace's signature record. The emission
// aborts wholly before any delivery.
type ArgumentError struct {
	// Namespace is the concrete path being emitted to.
	Namespace namespace.Path

	// Pattern is the registered namespace whose record was violated.
	Pattern namespace.Path

	// Want is the recorded argument-name set.
	Want []string

	// Got is the argument-name set that was emitted.
	Got []string
}

// Error implements the error interface.
func (e *ArgumentError) Error() string {
	return fmt.Sprintf("argument mismatch emitting to %q: subscribers in %q expect %v, got %v",
		e.Namespace, e.Pattern, e.Want, e.Got)
}

// Is allows errors.Is to match ArgumentError with ErrArgumentMismatch.
func (e *ArgumentError) Is(target error) bool {
	return target == ErrArgumentMismatch
}

// TransformerError wraps an error from a transformer when the
// transformer exception policy is disabled and the error propagates to
// the emit call site.
type TransformerError struct {
	// Transformation identifies the failing transformer.
	Transformation string

	// Namespace is the path being emitted to.
	Namespace namespace.Path

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *TransformerError) Error() string {
	return fmt.Sprintf("transformer %s failed for namespace %q: %v", e.Transformation, e.Namespace, e.Err)
}

// Unwrap returns the underlying error.
func (e *TransformerError) Unwrap() error {
	return e.Err
}

// DeliveryError wraps an error from a subscriber callback when the
// subscriber exception policy is disabled and the error propagates to
// the emit call site.
type DeliveryError struct {
	// Subscription identifies the failing subscriber.
	Subscription string

	// Namespace is the path being emitted to.
	Namespace namespace.Path

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *DeliveryError) Error() string {
	return fmt.Sprintf("subscriber %s failed for namespace %q: %v", e.Subscription, e.Namespace, e.Err)
}

// Unwrap returns the underlying error.
func (e *DeliveryError) Unwrap() error {
	return e.Err
}
