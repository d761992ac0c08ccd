package module

import "github.com/google/uuid"

// Generations tracks the load generation UUID stamped on each namespace
// the last time its loader ran successfully (see NativeLoader and
// JoyLoader). Zero value is ready to use.
type Generations struct {
	m map[string]uuid.UUID
}

// Set stamps ns with id, replacing any previous stamp.
func (g *Generations) Set(ns string, id uuid.UUID) {
	if g.m == nil {
		g.m = map[string]uuid.UUID{}
	}
	g.m[ns] = id
}

// Get returns the generation UUID last stamped on ns, if any.
func (g *Generations) Get(ns string) (uuid.UUID, bool) {
	if g.m == nil {
		return uuid.UUID{}, false
	}
	id, ok := g.m[ns]
	return id, ok
}

// Reset clears every recorded generation, invalidating stale cached
// lookups a test might be holding onto.
func (g *Generations) Reset() {
	g.m = nil
}
