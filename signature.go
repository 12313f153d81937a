package broker

import (
	"github.com/dshills/broker/namespace"
)

// validateEmission checks the post-transformation argument names
// against the signature records owning the resolved non-flexible
// subscribers. Flexible subscribers impose no constraint; a namespace
// whose record is enforced requires the emission's key set to equal it
// exactly. With no non-flexible subscriber in the resolved set, any
// argument shape is accepted.
func (b *Broker) validateEmission(path namespace.Path, subs []*Subscription, args Args) error {
	var keys []string
	checked := map[namespace.Path]bool{}

	for _, sub := range subs {
		if sub.IsFlexible() || checked[sub.pattern] {
			continue
		}
		checked[sub.pattern] = true

		want := b.registry.signatureFor(sub.pattern)
		if want == nil {
			continue
		}
		if keys == nil {
			keys = args.Keys()
		}
		if !sameNames(want, keys) {
			return &ArgumentError{
				Namespace: path,
				Pattern:   sub.pattern,
				Want:      want,
				Got:       keys,
			}
		}
	}
	return nil
}
