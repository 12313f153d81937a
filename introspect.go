package broker

import (
	"github.com/dshills/broker/namespace"
)

// NamespaceInfo describes one registered namespace pattern.
type NamespaceInfo struct {
	Pattern      namespace.Path
	Subscribers  int
	Transformers int
	Signature    []string // recorded argument names; nil when unset
}

// Statistics summarizes the broker's registry.
type Statistics struct {
	Namespaces   int
	Subscribers  int
	Transformers int
}

// Namespaces returns every registered namespace pattern, sorted.
func (b *Broker) Namespaces() []namespace.Path {
	return b.registry.namespaces()
}

// NamespaceExists reports whether anything is registered exactly at the
// given pattern.
func (b *Broker) NamespaceExists(pattern string) bool {
	return b.registry.exists(namespace.Path(pattern))
}

// MatchingNamespaces returns the registered patterns that would receive
// an emission on the given namespace, sorted.
func (b *Broker) MatchingNamespaces(ns string) []namespace.Path {
	matched := b.registry.trie.Match(namespace.Path(ns))
	namespace.Sort(matched)
	return matched
}

// NamespaceInfo returns the details of one registered pattern. The
// second return is false when nothing is registered there.
func (b *Broker) NamespaceInfo(pattern string) (NamespaceInfo, bool) {
	p := namespace.Path(pattern)
	if !b.registry.exists(p) {
		return NamespaceInfo{}, false
	}
	return NamespaceInfo{
		Pattern:      p,
		Subscribers:  len(b.registry.subscribersAt(p)),
		Transformers: len(b.registry.transformersAt(p)),
		Signature:    b.registry.signatureFor(p),
	}, true
}

// Signature returns a copy of the argument-name record for a pattern,
// or nil when the pattern has no record.
func (b *Broker) Signature(pattern string) []string {
	return b.registry.signatureFor(namespace.Path(pattern))
}

// Subscriptions returns the subscriptions registered exactly at a
// pattern, in delivery order.
func (b *Broker) Subscriptions(pattern string) []*Subscription {
	return b.registry.subscribersAt(namespace.Path(pattern))
}

// Transformations returns the transformations registered exactly at a
// pattern, in registration order.
func (b *Broker) Transformations(pattern string) []*Transformation {
	return b.registry.transformersAt(namespace.Path(pattern))
}

// Stats returns registry totals.
func (b *Broker) Stats() Statistics {
	n, s, t := b.registry.counts()
	return Statistics{Namespaces: n, Subscribers: s, Transformers: t}
}

// SubscriberCount returns the total number of registered subscriptions.
func (b *Broker) SubscriberCount() int {
	_, s, _ := b.registry.counts()
	return s
}

// TransformerCount returns the total number of registered
// transformations.
func (b *Broker) TransformerCount() int {
	_, _, t := b.registry.counts()
	return t
}
