package taxonomy

import "slices"

// ElementsByMapping returns the sorted names of every element that claims
// the external identifier among its mappings. Unknown identifiers yield
// an empty list.
func (t *Toolkit) ElementsByMapping(identifier string) []string {
	return slices.Clone(t.matchesFor(identifier))
}

// ResolveMapping resolves an external identifier to the single most
// specific element consistent with every match: the first element of the
// seed chain (first match, then its ancestors nearest first) that appears
// in every other match's own chain. The second result is false when no
// element matches or the matches share no chain element.
func (t *Toolkit) ResolveMapping(identifier string) (string, bool) {
	if cached, ok := t.resolved.get(identifier); ok {
		return cached.name, cached.ok
	}
	res := t.resolved.put(identifier, t.resolveMapping(identifier))
	return res.name, res.ok
}

func (t *Toolkit) resolveMapping(identifier string) resolution {
	matches := t.matchesFor(identifier)
	if len(matches) == 0 {
		return resolution{}
	}

	// Seed with the first match's self-plus-ancestors chain, then keep
	// only entries present in every other match's chain, preserving
	// seed order.
	shared := append([]string{matches[0]}, t.ancestorsOf(matches[0])...)
	for _, match := range matches[1:] {
		chain := make(map[string]bool)
		chain[match] = true
		for _, a := range t.ancestorsOf(match) {
			chain[a] = true
		}
		kept := shared[:0]
		for _, name := range shared {
			if chain[name] {
				kept = append(kept, name)
			}
		}
		shared = kept
		if len(shared) == 0 {
			return resolution{}
		}
	}
	return resolution{name: shared[0], ok: true}
}

// matchesFor returns the memoized sorted match list. The cached slice is
// shared; exported callers clone before returning.
func (t *Toolkit) matchesFor(identifier string) []string {
	if cached, ok := t.matches.get(identifier); ok {
		return cached
	}
	var out []string
	for _, name := range t.idx.Names() {
		if t.idx.Element(name).HasMapping(identifier) {
			out = append(out, name)
		}
	}
	return t.matches.put(identifier, out)
}
