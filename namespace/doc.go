// Package namespace provides hierarchical namespace paths and pattern
// matching for the event broker.
//
// # Path Format
//
// Namespaces use dot-notation to create hierarchical event channels:
//
//	system.io.file
//	system.startup
//	app.user.login
//
// # Wildcards
//
// A single wildcard form is supported: a trailing "*" segment denotes
// the entire subtree strictly below the registration point.
//
// Examples:
//
//	system.io.*    matches system.io.file, system.io.file.open (not system.io)
//	system.*       matches system.startup, system.io.file
//	*              matches every namespace
//
// A wildcard never matches the level it is registered on: "system.io.*"
// does not match "system.io". The wildcard is only valid as the final
// segment of a pattern.
//
// # Pattern Matching
//
// The Trie type stores registered patterns (literal and wildcard) and
// resolves, for a concrete emitted path, every pattern that covers it:
// the literal path itself plus each ancestor registered in wildcard
// form. Lookup is O(k) in the number of path segments.
//
//	tr := namespace.NewTrie()
//	tr.Insert(namespace.Path("system.*"))
//	tr.Insert(namespace.Path("system.io.file"))
//
//	matches := tr.Match(namespace.Path("system.io.file"))
//	// matches contains both patterns
package namespace
