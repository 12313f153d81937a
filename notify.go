package broker

import (
	"context"
	"strings"

	"github.com/dshills/broker/namespace"
)

// notifyRoot is the reserved namespace prefix for the broker's own
// structural events. Emissions to namespaces under this root never
// trigger further meta-notifications.
const notifyRoot = "broker.notify."

// Reserved meta-notification namespaces. Subscribe to these to observe
// the broker's own structural events; every meta-notification carries a
// single "namespace" argument naming the path the event is about.
const (
	// OnSubscriberAdded fires when a subscriber is registered.
	OnSubscriberAdded = namespace.Path(notifyRoot + "subscriber.added")

	// OnSubscriberRemoved fires when a subscriber is unregistered.
	OnSubscriberRemoved = namespace.Path(notifyRoot + "subscriber.removed")

	// OnSubscriberCollected fires when a subscriber's owner was garbage
	// collected and the entry retired.
	OnSubscriberCollected = namespace.Path(notifyRoot + "subscriber.collected")

	// OnTransformerAdded fires when a transformer is registered.
	OnTransformerAdded = namespace.Path(notifyRoot + "transformer.added")

	// OnTransformerRemoved fires when a transformer is unregistered.
	OnTransformerRemoved = namespace.Path(notifyRoot + "transformer.removed")

	// OnTransformerCollected fires when a transformer's owner was
	// garbage collected and the entry retired.
	OnTransformerCollected = namespace.Path(notifyRoot + "transformer.collected")

	// OnEmit fires after every Emit call, including blocked ones.
	OnEmit = namespace.Path(notifyRoot + "emit.sync")

	// OnEmitAsync fires after every EmitAsync call, including blocked ones.
	OnEmitAsync = namespace.Path(notifyRoot + "emit.async")

	// OnEmitAll fires after every Emit or EmitAsync call.
	OnEmitAll = namespace.Path(notifyRoot + "emit.all")

	// OnNamespaceCreated fires when a registration creates a namespace.
	OnNamespaceCreated = namespace.Path(notifyRoot + "namespace.created")

	// OnNamespaceDeleted fires when a namespace loses its last entry and
	// is deleted.
	OnNamespaceDeleted = namespace.Path(notifyRoot + "namespace.deleted")
)

// NotifyFlags enables emission of individual meta-notification kinds.
// All flags default to off so unused notification classes incur no
// dispatch overhead.
type NotifyFlags struct {
	OnSubscribe            bool `yaml:"on_subscribe"`
	OnUnsubscribe          bool `yaml:"on_unsubscribe"`
	OnSubscriberCollected  bool `yaml:"on_subscriber_collected"`
	OnTransformerAdd       bool `yaml:"on_transformer_add"`
	OnTransformerRemove    bool `yaml:"on_transformer_remove"`
	OnTransformerCollected bool `yaml:"on_transformer_collected"`
	OnEmit                 bool `yaml:"on_emit"`
	OnEmitAsync            bool `yaml:"on_emit_async"`
	OnEmitAll              bool `yaml:"on_emit_all"`
	OnNamespaceCreated     bool `yaml:"on_namespace_created"`
	OnNamespaceDeleted     bool `yaml:"on_namespace_deleted"`
}

// SetFlagStates sets the notification flags on or off for each kind of
// broker activity. The zero value disables everything.
func (b *Broker) SetFlagStates(flags NotifyFlags) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.flags = flags
}

// FlagStates returns the current notification flags.
func (b *Broker) FlagStates() NotifyFlags {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.flags
}

// isMeta reports whether a path lives under the reserved notify root.
func isMeta(p namespace.Path) bool {
	return strings.HasPrefix(string(p), notifyRoot)
}

// notify re-injects a broker structural event as an ordinary emission
// on a reserved namespace. Failures in meta subscribers follow the same
// exception policies as any other emission; a propagated error is
// logged rather than surfaced, since the triggering call has already
// completed.
func (b *Broker) notify(target namespace.Path, about namespace.Path) {
	if _, err := b.dispatch(context.Background(), target, Args{"namespace": about.String()}, false); err != nil {
		b.logger.Error("meta-notification failed",
			"notify", target.String(),
			"namespace", about.String(),
			"error", err)
	}
}
