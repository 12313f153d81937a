package broker

import (
	"context"
	"fmt"
	"maps"

	"github.com/dshills/broker/namespace"
)

// Emit dispatches an event synchronously to every matching synchronous
// subscriber, in priority order. Asynchronous subscribers are skipped.
//
// The returned status reports whether the event reached the delivery
// phase: StatusBlocked means a transformer suppressed it (or a
// pre-delivery failure aborted it), StatusDelivered means the delivery
// loop ran. Errors are only returned when the corresponding exception
// policy is disabled; with handlers installed, failures are routed to
// them and Emit returns nil.
func (b *Broker) Emit(ns string, args Args) (Status, error) {
	return b.dispatch(context.Background(), namespace.Path(ns), args, false)
}

// EmitAsync dispatches an event to every matching subscriber, both
// synchronous and asynchronous, in a single global priority order. The
// context is consulted between deliveries; cancellation aborts the
// remaining ones and returns the context error.
func (b *Broker) EmitAsync(ctx context.Context, ns string, args Args) (Status, error) {
	return b.dispatch(ctx, namespace.Path(ns), args, true)
}

// dispatch runs the emission pipeline: transform, resolve subscribers,
// validate the signature, deliver, then meta-notify. Transformation and
// validation operate on a private copy of the arguments; the caller's
// map is never mutated.
func (b *Broker) dispatch(ctx context.Context, path namespace.Path, args Args, async bool) (Status, error) {
	if !path.IsValid() {
		return StatusBlocked, fmt.Errorf("%w: %q", ErrInvalidNamespace, path)
	}

	payload := Args{}
	if args != nil {
		payload = maps.Clone(args)
	}

	payload, blocked, err := b.runTransformers(path, payload)
	if err != nil {
		return StatusBlocked, err
	}
	if blocked {
		b.notifyEmission(path, async)
		return StatusBlocked, nil
	}

	subs := b.resolve(path, async)

	if err := b.validateEmission(path, subs, payload); err != nil {
		return StatusBlocked, err
	}

	if err := b.deliver(ctx, path, payload, subs, async); err != nil {
		return StatusDelivered, err
	}

	b.notifyEmission(path, async)
	return StatusDelivered, nil
}

// runTransformers feeds the arguments through every matching
// transformer in pipeline order. A transformer returning nil arguments
// blocks the emission. A transformer error consults the transformer
// exception policy: with no handler installed the error propagates
// wrapped in a TransformerError; a handler deciding Stop halts the
// emission as if it had been blocked; Continue skips the failed
// transformer and keeps the pipeline's current arguments.
func (b *Broker) runTransformers(path namespace.Path, args Args) (Args, bool, error) {
	for _, tr := range b.registry.matchTransformers(path) {
		if !tr.IsLive() {
			continue
		}

		out, err := tr.fn(path, args)
		if err != nil {
			handler := b.transformerExceptionHandler()
			if handler == nil {
				return nil, false, &TransformerError{
					Transformation: tr.label(),
					Namespace:      path,
					Err:            err,
				}
			}
			if handler(tr, path, err) == Stop {
				return nil, true, nil
			}
			continue
		}
		if out == nil {
			return nil, true, nil
		}
		args = out
	}
	return args, false, nil
}

// resolve snapshots the matching subscribers in global delivery order,
// filtered to the kinds the emission mode delivers: Emit reaches only
// synchronous subscribers, EmitAsync reaches both kinds.
func (b *Broker) resolve(path namespace.Path, async bool) []*Subscription {
	matched := b.registry.matchSubscribers(path)
	if async {
		return matched
	}
	var subs []*Subscription
	for _, sub := range matched {
		if !sub.IsAsync() {
			subs = append(subs, sub)
		}
	}
	return subs
}

// deliver invokes each resolved subscriber's callback sequentially. In
// asynchronous mode the context is checked before each delivery. A
// callback error consults the subscriber exception policy: with no
// handler installed the error propagates wrapped in a DeliveryError and
// the remaining deliveries are skipped; a handler deciding Stop ends
// the delivery loop quietly; Continue moves on to the next subscriber.
func (b *Broker) deliver(ctx context.Context, path namespace.Path, args Args, subs []*Subscription, async bool) error {
	for _, sub := range subs {
		if !sub.IsLive() {
			continue
		}
		if async {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		if err := sub.callback(ctx, args); err != nil {
			handler := b.subscriberExceptionHandler()
			if handler == nil {
				return &DeliveryError{
					Subscription: sub.label(),
					Namespace:    path,
					Err:          err,
				}
			}
			if handler(sub, path, err) == Stop {
				return nil
			}
		}
	}
	return nil
}

// notifyEmission fires the per-mode emission notification plus the
// catch-all, gated by the flags. Emissions under the notify root never
// recurse.
func (b *Broker) notifyEmission(path namespace.Path, async bool) {
	if isMeta(path) {
		return
	}

	flags := b.FlagStates()
	if async {
		if flags.OnEmitAsync {
			b.notify(OnEmitAsync, path)
		}
	} else {
		if flags.OnEmit {
			b.notify(OnEmit, path)
		}
	}
	if flags.OnEmitAll {
		b.notify(OnEmitAll, path)
	}
}
