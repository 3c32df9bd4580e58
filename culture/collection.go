package culture

import "golang.org/x/text/language"

// Collection holds chains for specific requested cultures and a default
// chain for everything else.
type Collection struct {
	def    *Chain
	chains map[language.Tag]*Chain
}

// NewCollection creates a collection around def. A nil def is an empty chain
// without invariant fallback.
func NewCollection(def *Chain) *Collection {
	if def == nil {
		def = NewChain(false)
	}
	return &Collection{def: def, chains: make(map[language.Tag]*Chain)}
}

// Add returns the chain used when tag is requested, creating it with the
// default chain's invariant setting.
func (c *Collection) Add(tag language.Tag) *Chain {
	if chain, ok := c.chains[tag]; ok {
		return chain
	}
	chain := NewChain(c.def.invariant)
	c.chains[tag] = chain
	return chain
}

func (c *Collection) Default() *Chain {
	return c.def
}

// ChainFor picks the chain for requested: an exact match, then one for its
// base language, then the default.
func (c *Collection) ChainFor(requested language.Tag) *Chain {
	if chain, ok := c.chains[requested]; ok {
		return chain
	}

	if base, conf := requested.Base(); conf != language.No {
		if chain, ok := c.chains[language.Make(base.String())]; ok {
			return chain
		}
	}
	return c.def
}

// Resolve resolves requested through its chain.
func (c *Collection) Resolve(requested language.Tag) []language.Tag {
	return c.ChainFor(requested).Resolve(requested)
}
