package culture

import "golang.org/x/text/language"

// Chain is an ordered list of fallback cultures. It is built during setup
// and read concurrently afterwards.
type Chain struct {
	fallbacks []language.Tag
	invariant bool
}

// NewChain creates a chain. When invariantFallback is set the invariant
// culture always ends the resolved sequence, exactly once.
func NewChain(invariantFallback bool, fallbacks ...language.Tag) *Chain {
	c := &Chain{invariant: invariantFallback}
	for _, tag := range fallbacks {
		c.Then(tag)
	}
	return c
}

// Then appends a fallback culture.
func (c *Chain) Then(tag language.Tag) *Chain {
	c.fallbacks = append(c.fallbacks, tag)
	return c
}

// Fallbacks returns the configured fallback cultures in order.
func (c *Chain) Fallbacks() []language.Tag {
	return append([]language.Tag(nil), c.fallbacks...)
}

func (c *Chain) InvariantFallback() bool {
	return c.invariant
}

// Resolve returns requested, then the fallbacks, then the invariant culture
// if enabled. A culture appearing twice keeps its first position.
func (c *Chain) Resolve(requested language.Tag) []language.Tag {
	out := make([]language.Tag, 0, len(c.fallbacks)+2)
	seen := make(map[language.Tag]struct{}, len(c.fallbacks)+2)

	add := func(tag language.Tag) {
		if c.invariant && IsInvariant(tag) {
			return
		}
		if _, ok := seen[tag]; ok {
			return
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}

	add(requested)
	for _, tag := range c.fallbacks {
		add(tag)
	}
	if c.invariant {
		out = append(out, Invariant)
	}
	return out
}

// LookupFunc reports the translation stored for a culture, if any.
type LookupFunc func(tag language.Tag) (string, bool)

// Lookup walks the resolved sequence and returns the first translation
// found with the culture it came from. Exhausting the chain is not an error.
func (c *Chain) Lookup(requested language.Tag, fn LookupFunc) (string, language.Tag, bool) {
	for _, tag := range c.Resolve(requested) {
		if value, ok := fn(tag); ok {
			return value, tag, true
		}
	}
	return "", Invariant, false
}
