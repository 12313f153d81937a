// Package broker provides an in-process publish/subscribe event engine
// with hierarchical namespaces, priority-ordered delivery, argument
// signature enforcement and a pre-delivery transformer pipeline.
//
// # Architecture
//
// Events flow from an emit call through the transformer pipeline to the
// matched subscribers:
//
//	Emit / EmitAsync
//	      |
//	      v
//	+------------+     +-------------+     +-----------+
//	| transform  | --> |  validate   | --> |  deliver  |
//	| (pipeline) |     | (signature) |     | (ordered) |
//	+------------+     +-------------+     +-----------+
//	      |                                      |
//	   blocked                                   v
//	  (nil args)                         meta-notifications
//
// Namespaces use dot notation ("system.io.file"). A subscription on a
// concrete path receives exactly that path; a subscription on a subtree
// wildcard ("system.io.*") receives everything strictly below the
// registration point, and the bare wildcard "*" receives everything.
// All subscribers matched by an emission are delivered in one global
// order: priority descending, then registration order.
//
// # Transformers
//
// Transformers registered on matching patterns run before delivery, in
// the same priority order, each receiving the previous one's output.
// Returning nil arguments blocks the emission: no subscriber runs, the
// emit call reports StatusBlocked, and no error is raised.
//
// # Signatures
//
// A subscriber registered with WithArgs declares the exact argument
// names it expects. The first such subscriber on a namespace fixes the
// namespace's signature record; later declarations and every emission
// reaching the namespace must match it exactly. Subscribers registered
// without WithArgs are flexible and exempt.
//
// # Failure policy
//
// Subscriber and transformer errors are routed to pluggable exception
// handlers (see StopAndLogSubscriber and friends). Setting a slot to
// nil disables the policy: errors then propagate to the emit call site
// and abort the emission.
//
// # Lifecycle
//
// Registrations return handles; Unsubscribe and RemoveTransformer are
// the primary removal contract. WithOwner ties an entry to an owner
// value so it is retired automatically when the owner is garbage
// collected. Structural events (registrations, removals, emissions,
// namespace creation and deletion) can be observed by subscribing under
// the reserved "broker.notify" namespace and enabling the matching
// NotifyFlags.
package broker
