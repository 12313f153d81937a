package broker

import (
	"sort"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/broker/namespace"
)

// Subscription is the handle returned by Subscribe. It identifies the
// registered entry for unsubscription and introspection.
type Subscription struct {
	id       string
	pattern  namespace.Path
	callback Callback
	priority int
	seq      uint64
	async    bool
	argNames []string // sorted; nil means flexible
	name     string
	live     atomic.Bool
}

// newSubscription builds a subscription from the applied options.
func newSubscription(pattern namespace.Path, cb Callback, cfg subscribeConfig) *Subscription {
	s := &Subscription{
		id:       uuid.NewString(),
		pattern:  pattern,
		callback: cb,
		priority: cfg.priority,
		async:    cfg.async,
		argNames: sortedNames(cfg.argNames),
		name:     cfg.name,
	}
	s.live.Store(true)
	return s
}

// ID returns the unique subscription identifier.
func (s *Subscription) ID() string {
	return s.id
}

// Pattern returns the registered namespace pattern.
func (s *Subscription) Pattern() namespace.Path {
	return s.pattern
}

// Priority returns the delivery priority. Higher runs earlier.
func (s *Subscription) Priority() int {
	return s.priority
}

// IsAsync returns true if the callback is asynchronous: delivered only
// by EmitAsync, skipped entirely by Emit.
func (s *Subscription) IsAsync() bool {
	return s.async
}

// IsFlexible returns true if the subscriber accepts arbitrary arguments
// and is exempt from signature checking.
func (s *Subscription) IsFlexible() bool {
	return s.argNames == nil
}

// ExpectedArgs returns the declared argument names, sorted, or nil for
// a flexible subscriber.
func (s *Subscription) ExpectedArgs() []string {
	if s.argNames == nil {
		return nil
	}
	out := make([]string, len(s.argNames))
	copy(out, s.argNames)
	return out
}

// Name returns the optional display name set with WithName.
func (s *Subscription) Name() string {
	return s.name
}

// IsLive returns true if the entry has not been retired.
func (s *Subscription) IsLive() bool {
	return s.live.Load()
}

// label identifies the subscription in logs, handlers and exports.
func (s *Subscription) label() string {
	if s.name != "" {
		return s.name
	}
	return "subscriber:" + shortID(s.id)
}

// sortedNames returns a sorted copy of the declared argument names, or
// nil when the subscriber is flexible.
func sortedNames(names []string) []string {
	if names == nil {
		return nil
	}
	out := make([]string, len(names))
	copy(out, names)
	sort.Strings(out)
	return out
}

// shortID trims a UUID down to its first group for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
