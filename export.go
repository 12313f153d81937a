package broker

import (
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// Snapshot renders the registry as JSON: per-namespace subscriber and
// transformer descriptors plus the signature record, and overall
// totals. Entries appear in their delivery order.
func (b *Broker) Snapshot() ([]byte, error) {
	out := []byte(`{"namespaces":{}}`)
	var err error

	for _, p := range b.registry.namespaces() {
		key := "namespaces." + escapeKey(p.String())

		if out, err = sjson.SetRawBytes(out, key, []byte(`{}`)); err != nil {
			return nil, fmt.Errorf("snapshot %q: %w", p, err)
		}
		if sig := b.registry.signatureFor(p); sig != nil {
			if out, err = sjson.SetBytes(out, key+".signature", sig); err != nil {
				return nil, fmt.Errorf("snapshot %q: %w", p, err)
			}
		}
		if subs := b.registry.subscribersAt(p); len(subs) > 0 {
			descs := make([]string, len(subs))
			for i, s := range subs {
				descs[i] = s.describe()
			}
			if out, err = sjson.SetBytes(out, key+".subscribers", descs); err != nil {
				return nil, fmt.Errorf("snapshot %q: %w", p, err)
			}
		}
		if trs := b.registry.transformersAt(p); len(trs) > 0 {
			descs := make([]string, len(trs))
			for i, t := range trs {
				descs[i] = t.describe()
			}
			if out, err = sjson.SetBytes(out, key+".transformers", descs); err != nil {
				return nil, fmt.Errorf("snapshot %q: %w", p, err)
			}
		}
	}

	stats := b.Stats()
	if out, err = sjson.SetBytes(out, "stats.namespaces", stats.Namespaces); err != nil {
		return nil, err
	}
	if out, err = sjson.SetBytes(out, "stats.subscribers", stats.Subscribers); err != nil {
		return nil, err
	}
	if out, err = sjson.SetBytes(out, "stats.transformers", stats.Transformers); err != nil {
		return nil, err
	}
	return out, nil
}

// Dump returns the snapshot as indented JSON for logs and debugging.
func (b *Broker) Dump() (string, error) {
	snap, err := b.Snapshot()
	if err != nil {
		return "", err
	}
	return string(pretty.Pretty(snap)), nil
}

// Export writes the indented snapshot to a file.
func (b *Broker) Export(path string) error {
	snap, err := b.Snapshot()
	if err != nil {
		return err
	}
	return os.WriteFile(path, pretty.Pretty(snap), 0o644)
}

// describe renders a subscriber for exports.
func (s *Subscription) describe() string {
	desc := fmt.Sprintf("%s [priority=%d]", s.label(), s.priority)
	if s.async {
		desc += " [async]"
	}
	return desc
}

// describe renders a transformer for exports.
func (t *Transformation) describe() string {
	return fmt.Sprintf("%s [priority=%d]", t.label(), t.priority)
}

// escapeKey escapes characters that are path syntax to sjson so a
// dotted namespace becomes a single JSON object key.
func escapeKey(key string) string {
	key = strings.ReplaceAll(key, ".", `\.`)
	return strings.ReplaceAll(key, "*", `\*`)
}
