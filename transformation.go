package broker

import (
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/broker/namespace"
)

// Transformation is the handle returned by AddTransformer. It
// identifies the registered transformer for removal and introspection.
type Transformation struct {
	id       string
	pattern  namespace.Path
	fn       Transformer
	priority int
	seq      uint64
	name     string
	live     atomic.Bool
}

// newTransformation builds a transformation from the applied options.
func newTransformation(pattern namespace.Path, fn Transformer, cfg transformConfig) *Transformation {
	t := &Transformation{
		id:       uuid.NewString(),
		pattern:  pattern,
		fn:       fn,
		priority: cfg.priority,
		name:     cfg.name,
	}
	t.live.Store(true)
	return t
}

// ID returns the unique transformation identifier.
func (t *Transformation) ID() string {
	return t.id
}

// Pattern returns the registered namespace pattern.
func (t *Transformation) Pattern() namespace.Path {
	return t.pattern
}

// Priority returns the pipeline priority. Higher runs earlier.
func (t *Transformation) Priority() int {
	return t.priority
}

// Name returns the optional display name set with WithTransformName.
func (t *Transformation) Name() string {
	return t.name
}

// IsLive returns true if the entry has not been retired.
func (t *Transformation) IsLive() bool {
	return t.live.Load()
}

// label identifies the transformation in logs, handlers and exports.
func (t *Transformation) label() string {
	if t.name != "" {
		return t.name
	}
	return "transformer:" + shortID(t.id)
}
