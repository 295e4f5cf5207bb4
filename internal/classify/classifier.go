// Package classify decides which end of a frame belongs to this host.
package classify

import (
	"net/netip"

	"firestige.xyz/netproc/internal/core"
)

// Classifier compares frame addresses against a fixed local identity.
type Classifier struct {
	identity core.Identity
}

// NewClassifier creates a Classifier for identity.
func NewClassifier(identity core.Identity) *Classifier {
	return &Classifier{identity: identity}
}

// Identity returns the identity the classifier was built with.
func (c *Classifier) Identity() core.Identity {
	return c.identity
}

// Classify applies the priority chain: a local source wins over a local
// destination, and both being local upgrades to BothLocal.
func (c *Classifier) Classify(src, dst netip.Addr) core.Classification {
	if c.identity.IsLocal(src) {
		if c.identity.IsLocal(dst) {
			return core.BothLocal
		}
		return core.SourceLocal
	}
	if c.identity.IsLocal(dst) {
		return core.DestLocal
	}
	return core.NoneLocal
}
