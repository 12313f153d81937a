package broker

import (
	"sort"
	"sync"

	"github.com/dshills/broker/namespace"
)

// node holds everything registered exactly at one namespace pattern.
// A node exists while it has at least one subscriber or transformer;
// its signature record lives and dies with it.
type node struct {
	subscribers  []*Subscription
	transformers []*Transformation
	signature    []string // sorted argument names; nil means unset
}

// isEmpty returns true if the node holds no entries.
func (n *node) isEmpty() bool {
	return len(n.subscribers) == 0 && len(n.transformers) == 0
}

// registry manages subscriptions and transformations organized by
// namespace pattern. It is thread-safe for concurrent access; all
// resolution methods return snapshots so delivery loops are unaffected
// by concurrent mutation.
type registry struct {
	mu    sync.RWMutex
	nodes map[namespace.Path]*node
	trie  *namespace.Trie
	seq   uint64
}

// newRegistry creates an empty registry.
func newRegistry() *registry {
	return &registry{
		nodes: make(map[namespace.Path]*node),
		trie:  namespace.NewTrie(),
	}
}

// addSubscriber registers a subscription on its pattern's node,
// creating the node if needed. It enforces the signature record: a
// non-flexible subscriber whose declared names differ from an existing
// record is rejected with no state mutation. Returns true if the
// namespace node was created by this registration.
func (r *registry) addSubscriber(sub *Subscription) (created bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, exists := r.nodes[sub.pattern]
	if exists && !sub.IsFlexible() && n.signature != nil && !sameNames(n.signature, sub.argNames) {
		return false, &SignatureConflictError{
			Namespace: sub.pattern,
			Want:      copyNames(n.signature),
			Got:       sub.ExpectedArgs(),
		}
	}

	if !exists {
		n = &node{}
		r.nodes[sub.pattern] = n
		r.trie.Insert(sub.pattern)
		created = true
	}

	if !sub.IsFlexible() && n.signature == nil {
		n.signature = copyNames(sub.argNames)
	}

	r.seq++
	sub.seq = r.seq
	n.subscribers = append(n.subscribers, sub)
	return created, nil
}

// removeSubscriber removes a subscription from its node. Returns
// whether the entry was found and whether the node was deleted because
// it became empty.
func (r *registry) removeSubscriber(sub *Subscription) (removed, nodeDeleted bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, exists := r.nodes[sub.pattern]
	if !exists {
		return false, false
	}

	for i, s := range n.subscribers {
		if s.id == sub.id {
			n.subscribers = append(n.subscribers[:i], n.subscribers[i+1:]...)
			removed = true
			break
		}
	}
	if !removed {
		return false, false
	}

	return true, r.deleteIfEmpty(sub.pattern, n)
}

// addTransformer registers a transformation on its pattern's node,
// creating the node if needed. Returns true if the node was created.
func (r *registry) addTransformer(tr *Transformation) (created bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, exists := r.nodes[tr.pattern]
	if !exists {
		n = &node{}
		r.nodes[tr.pattern] = n
		r.trie.Insert(tr.pattern)
		created = true
	}

	r.seq++
	tr.seq = r.seq
	n.transformers = append(n.transformers, tr)
	return created
}

// removeTransformer removes a transformation from its node. Returns
// whether the entry was found and whether the node was deleted.
func (r *registry) removeTransformer(tr *Transformation) (removed, nodeDeleted bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, exists := r.nodes[tr.pattern]
	if !exists {
		return false, false
	}

	for i, t := range n.transformers {
		if t.id == tr.id {
			n.transformers = append(n.transformers[:i], n.transformers[i+1:]...)
			removed = true
			break
		}
	}
	if !removed {
		return false, false
	}

	return true, r.deleteIfEmpty(tr.pattern, n)
}

// deleteIfEmpty deletes the pattern's node when it holds no entries.
// Must be called with the write lock held.
func (r *registry) deleteIfEmpty(pattern namespace.Path, n *node) bool {
	if !n.isEmpty() {
		return false
	}
	delete(r.nodes, pattern)
	r.trie.Delete(pattern)
	return true
}

// matchSubscribers returns a snapshot of every subscription covering
// the emitted path, in global delivery order: priority descending,
// registration sequence ascending.
func (r *registry) matchSubscribers(path namespace.Path) []*Subscription {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []*Subscription
	for _, pattern := range r.trie.Match(path) {
		if n := r.nodes[pattern]; n != nil {
			all = append(all, n.subscribers...)
		}
	}
	if len(all) == 0 {
		return nil
	}

	sortSubscriptions(all)
	return all
}

// matchTransformers returns a snapshot of every transformation covering
// the emitted path, in pipeline order: priority descending,
// registration sequence ascending.
func (r *registry) matchTransformers(path namespace.Path) []*Transformation {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []*Transformation
	for _, pattern := range r.trie.Match(path) {
		if n := r.nodes[pattern]; n != nil {
			all = append(all, n.transformers...)
		}
	}
	if len(all) == 0 {
		return nil
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].priority != all[j].priority {
			return all[i].priority > all[j].priority
		}
		return all[i].seq < all[j].seq
	})
	return all
}

// sortSubscriptions orders entries by priority descending, then by
// registration sequence ascending.
func sortSubscriptions(subs []*Subscription) {
	sort.SliceStable(subs, func(i, j int) bool {
		if subs[i].priority != subs[j].priority {
			return subs[i].priority > subs[j].priority
		}
		return subs[i].seq < subs[j].seq
	})
}

// signatureFor returns a copy of the signature record for a pattern, or
// nil when the pattern has no node or no record.
func (r *registry) signatureFor(pattern namespace.Path) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, exists := r.nodes[pattern]
	if !exists || n.signature == nil {
		return nil
	}
	return copyNames(n.signature)
}

// namespaces returns all registered patterns, sorted.
func (r *registry) namespaces() []namespace.Path {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]namespace.Path, 0, len(r.nodes))
	for p := range r.nodes {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// exists reports whether a pattern has a node.
func (r *registry) exists(pattern namespace.Path) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.nodes[pattern]
	return ok
}

// subscribersAt returns a snapshot of the subscriptions registered
// exactly at a pattern, in delivery order.
func (r *registry) subscribersAt(pattern namespace.Path) []*Subscription {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, exists := r.nodes[pattern]
	if !exists || len(n.subscribers) == 0 {
		return nil
	}
	out := make([]*Subscription, len(n.subscribers))
	copy(out, n.subscribers)
	sortSubscriptions(out)
	return out
}

// transformersAt returns a snapshot of the transformations registered
// exactly at a pattern, in registration order.
func (r *registry) transformersAt(pattern namespace.Path) []*Transformation {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, exists := r.nodes[pattern]
	if !exists || len(n.transformers) == 0 {
		return nil
	}
	out := make([]*Transformation, len(n.transformers))
	copy(out, n.transformers)
	return out
}

// counts returns the total number of namespaces, subscriptions and
// transformations.
func (r *registry) counts() (namespaces, subscribers, transformers int) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	namespaces = len(r.nodes)
	for _, n := range r.nodes {
		subscribers += len(n.subscribers)
		transformers += len(n.transformers)
	}
	return namespaces, subscribers, transformers
}

// clear removes every node and returns the deleted patterns, sorted.
func (r *registry) clear() []namespace.Path {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := make([]namespace.Path, 0, len(r.nodes))
	for p, n := range r.nodes {
		for _, s := range n.subscribers {
			s.live.Store(false)
		}
		for _, t := range n.transformers {
			t.live.Store(false)
		}
		deleted = append(deleted, p)
	}
	r.nodes = make(map[namespace.Path]*node)
	r.trie.Clear()
	sort.Slice(deleted, func(i, j int) bool { return deleted[i] < deleted[j] })
	return deleted
}

// clearTransformers removes every transformation and returns the
// patterns whose nodes were deleted because they became empty.
func (r *registry) clearTransformers() []namespace.Path {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted []namespace.Path
	for p, n := range r.nodes {
		if len(n.transformers) == 0 {
			continue
		}
		for _, t := range n.transformers {
			t.live.Store(false)
		}
		n.transformers = nil
		if r.deleteIfEmpty(p, n) {
			deleted = append(deleted, p)
		}
	}
	sort.Slice(deleted, func(i, j int) bool { return deleted[i] < deleted[j] })
	return deleted
}

// copyNames copies an argument-name set, keeping an empty set non-nil
// so it stays distinguishable from an unset record.
func copyNames(names []string) []string {
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// sameNames compares two sorted argument-name sets for equality.
func sameNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
