package namespace

import "sync"

// Trie is a thread-safe trie that stores registered namespace patterns
// and resolves which patterns cover a concrete emitted path. It
// provides O(k) lookup where k is the number of path segments.
type Trie struct {
	mu   sync.RWMutex
	root *trieNode
}

// trieNode represents a node in the pattern trie.
type trieNode struct {
	children map[string]*trieNode
	patterns []Path // Patterns that terminate at this node
}

// newTrieNode creates a new trie node.
func newTrieNode() *trieNode {
	return &trieNode{
		children: make(map[string]*trieNode),
	}
}

// isEmpty returns true if the node has no children and no patterns.
func (n *trieNode) isEmpty() bool {
	return len(n.children) == 0 && len(n.patterns) == 0
}

// NewTrie creates a new namespace pattern trie.
func NewTrie() *Trie {
	return &Trie{
		root: newTrieNode(),
	}
}

// Insert adds a pattern to the trie. The pattern may be literal or end
// in a wildcard segment. Returns true if the pattern was added, false
// if it already existed or is empty.
func (t *Trie) Insert(pattern Path) bool {
	if pattern == "" {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.root == nil {
		t.root = newTrieNode()
	}

	node := t.root
	for _, seg := range pattern.Segments() {
		if node.children[seg] == nil {
			node.children[seg] = newTrieNode()
		}
		node = node.children[seg]
	}

	for _, p := range node.patterns {
		if p == pattern {
			return false
		}
	}
	node.patterns = append(node.patterns, pattern)
	return true
}

// pathEntry tracks a node and the key used to reach it during traversal.
type pathEntry struct {
	node *trieNode
	key  string
}

// Delete removes a pattern from the trie and prunes empty nodes.
// Returns true if the pattern was removed, false if it didn't exist.
func (t *Trie) Delete(pattern Path) bool {
	if pattern == "" {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.root == nil {
		return false
	}

	segments := pattern.Segments()

	path := make([]pathEntry, 0, len(segments)+1)
	path = append(path, pathEntry{node: t.root})

	node := t.root
	for _, seg := range segments {
		child := node.children[seg]
		if child == nil {
			return false
		}
		path = append(path, pathEntry{node: child, key: seg})
		node = child
	}

	found := false
	for i, p := range node.patterns {
		if p == pattern {
			node.patterns = append(node.patterns[:i], node.patterns[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return false
	}

	// Prune empty nodes from leaf back to root.
	for i := len(path) - 1; i > 0; i-- {
		if !path[i].node.isEmpty() {
			break
		}
		delete(path[i-1].node.children, path[i].key)
	}

	return true
}

// Contains returns true if the exact pattern exists in the trie.
func (t *Trie) Contains(pattern Path) bool {
	if pattern == "" {
		return false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.root == nil {
		return false
	}

	node := t.root
	for _, seg := range pattern.Segments() {
		if node.children[seg] == nil {
			return false
		}
		node = node.children[seg]
	}

	for _, p := range node.patterns {
		if p == pattern {
			return true
		}
	}
	return false
}

// Match returns all patterns that cover the given concrete path: the
// literal pattern equal to it, plus every wildcard pattern registered
// at a strict ancestor (including the bare root wildcard). The path
// itself must not contain wildcards.
func (t *Trie) Match(path Path) []Path {
	if path == "" {
		return nil
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.root == nil {
		return nil
	}

	segments := path.Segments()
	node := t.root

	var matches []Path
	for depth := 0; ; depth++ {
		// A wildcard child at this level covers everything strictly
		// below it, so it only matches while segments remain.
		if wc := node.children[Wildcard]; wc != nil && depth < len(segments) {
			matches = append(matches, wc.patterns...)
		}

		if depth == len(segments) {
			matches = append(matches, node.patterns...)
			break
		}

		child := node.children[segments[depth]]
		if child == nil {
			break
		}
		node = child
	}

	return matches
}

// MatchExact returns true if a literal pattern equal to the path exists.
func (t *Trie) MatchExact(path Path) bool {
	if path == "" {
		return false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.root == nil {
		return false
	}

	node := t.root
	for _, seg := range path.Segments() {
		child := node.children[seg]
		if child == nil {
			return false
		}
		node = child
	}

	for _, p := range node.patterns {
		if p == path {
			return true
		}
	}
	return false
}

// All returns all patterns stored in the trie.
func (t *Trie) All() []Path {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var patterns []Path
	collectPatterns(t.root, &patterns)
	return patterns
}

// collectPatterns recursively collects all patterns from the trie.
func collectPatterns(node *trieNode, patterns *[]Path) {
	if node == nil {
		return
	}

	*patterns = append(*patterns, node.patterns...)

	for _, child := range node.children {
		collectPatterns(child, patterns)
	}
}

// Size returns the number of patterns in the trie.
func (t *Trie) Size() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	count := 0
	countPatterns(t.root, &count)
	return count
}

// countPatterns recursively counts patterns in the trie.
func countPatterns(node *trieNode, count *int) {
	if node == nil {
		return
	}

	*count += len(node.patterns)

	for _, child := range node.children {
		countPatterns(child, count)
	}
}

// Clear removes all patterns from the trie.
func (t *Trie) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.root = newTrieNode()
}
