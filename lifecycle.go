package broker

import (
	"context"
	"runtime"
	"weak"

	"github.com/dshills/broker/namespace"
)

// Owner-tracked lifecycle. Registrations are permanent until explicitly
// removed; tying an entry to an owner value makes the broker retire it
// automatically once the owner becomes unreachable, so long-lived
// brokers do not accumulate entries for dead components. Explicit
// Unsubscribe and RemoveTransformer remain the primary contract; owner
// tracking is the safety net for components that forget.

// WithOwner ties the subscription's lifetime to owner. When the garbage
// collector frees owner, the subscription is retired and, if the
// OnSubscriberCollected flag is set, a collection notification fires
// exactly once.
//
// The callback must not keep owner reachable or the cleanup never runs;
// pair this with WeakCallback when the callback needs the owner.
func WithOwner[T any](owner *T) SubscribeOption {
	return func(c *subscribeConfig) {
		c.attach = func(retire func()) {
			runtime.AddCleanup(owner, func(struct{}) { retire() }, struct{}{})
		}
	}
}

// WithTransformOwner ties the transformation's lifetime to owner, the
// way WithOwner does for subscriptions.
func WithTransformOwner[T any](owner *T) TransformOption {
	return func(c *transformConfig) {
		c.attach = func(retire func()) {
			runtime.AddCleanup(owner, func(struct{}) { retire() }, struct{}{})
		}
	}
}

// WeakCallback adapts a method-style callback so it references its
// receiver weakly. While owner is alive the returned Callback invokes
// fn with it; once owner is collected the callback becomes a no-op
// until the cleanup retires the entry.
func WeakCallback[T any](owner *T, fn func(ctx context.Context, owner *T, args Args) error) Callback {
	wp := weak.Make(owner)
	return func(ctx context.Context, args Args) error {
		o := wp.Value()
		if o == nil {
			return nil
		}
		return fn(ctx, o, args)
	}
}

// WeakTransformer adapts a method-style transformer so it references
// its receiver weakly. Once owner is collected the transformer passes
// arguments through untouched until the cleanup retires the entry.
func WeakTransformer[T any](owner *T, fn func(owner *T, ns namespace.Path, args Args) (Args, error)) Transformer {
	wp := weak.Make(owner)
	return func(ns namespace.Path, args Args) (Args, error) {
		o := wp.Value()
		if o == nil {
			return args, nil
		}
		return fn(o, ns, args)
	}
}
