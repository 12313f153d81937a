package broker

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/dshills/broker/namespace"
)

// Broker is the central event coordinator. It supports hierarchical
// namespaces through dot notation, with a trailing "*" subscribing to
// an entire subtree, and delivers to both synchronous and asynchronous
// subscribers: use Emit for fire-and-forget delivery to synchronous
// callbacks, EmitAsync to additionally run asynchronous callbacks to
// completion.
//
// The broker assumes one logical thread of control drives registration
// and emission; its internal structures are nonetheless guarded so that
// owner-collection callbacks, which arrive on runtime goroutines, stay
// safe. Delivery loops run over point-in-time snapshots, so a callback
// may freely register or unregister entries mid-delivery without
// affecting the current pass.
type Broker struct {
	registry *registry
	logger   *slog.Logger

	mu                 sync.RWMutex
	subscriberHandler  SubscriberExceptionHandler
	transformerHandler TransformerExceptionHandler
	flags              NotifyFlags
}

// New creates a broker. Both exception-handler slots default to the
// stop-and-log policy; meta-notifications default to off.
func New(opts ...Option) *Broker {
	cfg := defaultBrokerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if !cfg.subscriberSet {
		cfg.subscriberHandler = StopAndLogSubscriber(cfg.logger)
	}
	if !cfg.transformerSet {
		cfg.transformerHandler = StopAndLogTransformer(cfg.logger)
	}

	return &Broker{
		registry:           newRegistry(),
		logger:             cfg.logger,
		subscriberHandler:  cfg.subscriberHandler,
		transformerHandler: cfg.transformerHandler,
		flags:              cfg.flags,
	}
}

// Subscribe registers a callback on a namespace pattern and returns the
// handle used to unsubscribe it. The pattern may be a concrete path
// ("system.io.file"), a subtree wildcard ("system.io.*"), or the bare
// root wildcard ("*").
//
// A non-flexible subscriber (one registered with WithArgs) whose
// declared names conflict with the namespace's signature record is
// rejected with a SignatureConflictError and nothing is mutated.
func (b *Broker) Subscribe(pattern string, cb Callback, opts ...SubscribeOption) (*Subscription, error) {
	if cb == nil {
		return nil, ErrNilCallback
	}
	p := namespace.Path(pattern)
	if !p.IsValidPattern() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidNamespace, pattern)
	}

	var cfg subscribeConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	sub := newSubscription(p, cb, cfg)
	created, err := b.registry.addSubscriber(sub)
	if err != nil {
		return nil, err
	}

	if cfg.attach != nil {
		cfg.attach(func() { b.collectSubscriber(sub) })
	}

	// Notifications fire after the registration has fully completed.
	if !isMeta(p) {
		flags := b.FlagStates()
		if created && flags.OnNamespaceCreated {
			b.notify(OnNamespaceCreated, p)
		}
		if flags.OnSubscribe {
			b.notify(OnSubscriberAdded, p)
		}
	}

	return sub, nil
}

// Unsubscribe removes a previously registered subscription. If the
// entry was the namespace's last, the namespace node is deleted and its
// signature record cleared.
func (b *Broker) Unsubscribe(sub *Subscription) error {
	if sub == nil {
		return ErrInvalidSubscription
	}

	removed, nodeDeleted := b.registry.removeSubscriber(sub)
	if !removed {
		return ErrSubscriptionNotFound
	}
	sub.live.Store(false)

	if !isMeta(sub.pattern) {
		flags := b.FlagStates()
		if flags.OnUnsubscribe {
			b.notify(OnSubscriberRemoved, sub.pattern)
		}
		if nodeDeleted && flags.OnNamespaceDeleted {
			b.notify(OnNamespaceDeleted, sub.pattern)
		}
	}

	return nil
}

// AddTransformer registers a transformer on a namespace pattern and
// returns the handle used to remove it. Transformers intercept events
// before they reach subscribers and can modify or block them.
func (b *Broker) AddTransformer(pattern string, fn Transformer, opts ...TransformOption) (*Transformation, error) {
	if fn == nil {
		return nil, ErrNilTransformer
	}
	p := namespace.Path(pattern)
	if !p.IsValidPattern() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidNamespace, pattern)
	}

	var cfg transformConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	tr := newTransformation(p, fn, cfg)
	created := b.registry.addTransformer(tr)

	if cfg.attach != nil {
		cfg.attach(func() { b.collectTransformer(tr) })
	}

	if !isMeta(p) {
		flags := b.FlagStates()
		if created && flags.OnNamespaceCreated {
			b.notify(OnNamespaceCreated, p)
		}
		if flags.OnTransformerAdd {
			b.notify(OnTransformerAdded, p)
		}
	}

	return tr, nil
}

// RemoveTransformer removes a previously registered transformation.
func (b *Broker) RemoveTransformer(tr *Transformation) error {
	if tr == nil {
		return ErrTransformationNotFound
	}

	removed, nodeDeleted := b.registry.removeTransformer(tr)
	if !removed {
		return ErrTransformationNotFound
	}
	tr.live.Store(false)

	if !isMeta(tr.pattern) {
		flags := b.FlagStates()
		if flags.OnTransformerRemove {
			b.notify(OnTransformerRemoved, tr.pattern)
		}
		if nodeDeleted && flags.OnNamespaceDeleted {
			b.notify(OnNamespaceDeleted, tr.pattern)
		}
	}

	return nil
}

// SetSubscriberExceptionHandler replaces the subscriber exception
// policy. Pass nil to disable it: subscriber errors then propagate to
// the emit call site and abort the remaining delivery. The swap takes
// effect for all subsequent failures.
func (b *Broker) SetSubscriberExceptionHandler(h SubscriberExceptionHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscriberHandler = h
}

// SetTransformerExceptionHandler replaces the transformer exception
// policy. Pass nil to disable it: transformer errors then propagate to
// the emit call site and abort the emission.
func (b *Broker) SetTransformerExceptionHandler(h TransformerExceptionHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.transformerHandler = h
}

// subscriberExceptionHandler returns the current subscriber policy.
func (b *Broker) subscriberExceptionHandler() SubscriberExceptionHandler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.subscriberHandler
}

// transformerExceptionHandler returns the current transformer policy.
func (b *Broker) transformerExceptionHandler() TransformerExceptionHandler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.transformerHandler
}

// Clear removes every subscription, transformation and namespace.
// Namespace-deletion notifications fire per deleted namespace when the
// flag is enabled.
func (b *Broker) Clear() {
	deleted := b.registry.clear()

	flags := b.FlagStates()
	if !flags.OnNamespaceDeleted {
		return
	}
	for _, p := range deleted {
		if !isMeta(p) {
			b.notify(OnNamespaceDeleted, p)
		}
	}
}

// ClearTransformers removes every registered transformation, deleting
// namespaces left empty.
func (b *Broker) ClearTransformers() {
	deleted := b.registry.clearTransformers()

	flags := b.FlagStates()
	if !flags.OnNamespaceDeleted {
		return
	}
	for _, p := range deleted {
		if !isMeta(p) {
			b.notify(OnNamespaceDeleted, p)
		}
	}
}

// collectSubscriber retires a subscription whose owner was garbage
// collected. The CAS guarantees exactly one collection notification per
// entry no matter how the retirement races with delivery or explicit
// unsubscription.
func (b *Broker) collectSubscriber(sub *Subscription) {
	if !sub.live.CompareAndSwap(true, false) {
		return
	}

	removed, nodeDeleted := b.registry.removeSubscriber(sub)
	if !removed {
		return
	}

	if !isMeta(sub.pattern) {
		flags := b.FlagStates()
		if nodeDeleted && flags.OnNamespaceDeleted {
			b.notify(OnNamespaceDeleted, sub.pattern)
		}
		if flags.OnSubscriberCollected {
			b.notify(OnSubscriberCollected, sub.pattern)
		}
	}
}

// collectTransformer retires a transformation whose owner was garbage
// collected.
func (b *Broker) collectTransformer(tr *Transformation) {
	if !tr.live.CompareAndSwap(true, false) {
		return
	}

	removed, nodeDeleted := b.registry.removeTransformer(tr)
	if !removed {
		return
	}

	if !isMeta(tr.pattern) {
		flags := b.FlagStates()
		if nodeDeleted && flags.OnNamespaceDeleted {
			b.notify(OnNamespaceDeleted, tr.pattern)
		}
		if flags.OnTransformerCollected {
			b.notify(OnTransformerCollected, tr.pattern)
		}
	}
}
