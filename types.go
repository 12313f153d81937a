package broker

import (
	"context"
	"sort"

	"github.com/dshills/broker/namespace"
)

// Args carries the keyword arguments of an emission. Transformers may
// replace it wholesale; subscribers receive the final, transformed map.
type Args map[string]any

// Keys returns the argument names in sorted order.
func (a Args) Keys() []string {
	if len(a) == 0 {
		return nil
	}
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Callback is the subscriber end point that event data is forwarded to.
// A returned error is treated as a subscriber failure and routed through
// the configured subscriber exception handler.
//
// The broker cannot return a value to the emitter. If you want data
// back, emit an event in the opposite direction.
type Callback func(ctx context.Context, args Args) error

// Transformer intercepts an emission before it reaches subscribers.
// It receives the concrete emitted namespace and the current arguments
// and returns the replacement arguments for the rest of the pipeline.
//
// Returning a nil Args map blocks the event: no further transformers
// run, no subscribers are invoked, and the emission reports
// StatusBlocked without error. A returned error is routed through the
// configured transformer exception handler.
type Transformer func(ns namespace.Path, args Args) (Args, error)

// Status reports the outcome of an emission.
type Status int

const (
	// StatusDelivered means the emission reached the delivery stage.
	StatusDelivered Status = iota

	// StatusBlocked means a transformer blocked the event before any
	// subscriber ran. Blocking is a defined outcome, not a failure.
	StatusBlocked
)

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusDelivered:
		return "delivered"
	case StatusBlocked:
		return "blocked"
	default:
		return "unknown"
	}
}

// Decision is returned by exception handlers to steer the delivery loop
// after a callback failure.
type Decision int

const (
	// Continue proceeds to the next transformer or subscriber.
	Continue Decision = iota

	// Stop aborts the remaining pipeline or delivery loop.
	Stop
)

// String returns a human-readable decision name.
func (d Decision) String() string {
	switch d {
	case Continue:
		return "continue"
	case Stop:
		return "stop"
	default:
		return "unknown"
	}
}

// SubscriberExceptionHandler decides what happens when a subscriber
// callback returns an error during delivery. A nil handler disables the
// policy: the error propagates to the emit call site and aborts the
// remaining delivery.
type SubscriberExceptionHandler func(sub *Subscription, ns namespace.Path, err error) Decision

// TransformerExceptionHandler decides what happens when a transformer
// returns an error. A nil handler disables the policy: the error
// propagates to the emit call site and aborts the emission.
type TransformerExceptionHandler func(tr *Transformation, ns namespace.Path, err error) Decision
