package refresh

import "sync"

// Pass tracks which item ids the current refresh pass has already processed.
// It is the only state shared across concurrent refresh invocations; Visit
// is an atomic insert-if-absent so concurrent refreshes of the same item
// collapse to a single winner.
type Pass struct {
	mu      sync.Mutex
	visited map[string]struct{}
}

// NewPass returns an empty pass.
func NewPass() *Pass {
	return &Pass{visited: make(map[string]struct{})}
}

// Visit marks the id as processed and reports whether this call was the
// first visit.
func (p *Pass) Visit(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, seen := p.visited[id]; seen {
		return false
	}
	p.visited[id] = struct{}{}
	return true
}

// Reset clears the whole visited set. Invoked on the external stalled
// signal; there is no partial invalidation.
func (p *Pass) Reset() {
	p.mu.Lock()
	p.visited = make(map[string]struct{})
	p.mu.Unlock()
}

// Len reports how many items the pass has visited.
func (p *Pass) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.visited)
}
