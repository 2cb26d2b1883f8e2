package workflow

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/mwhardin/probata/internal/estate"
	"github.com/mwhardin/probata/internal/fault"
	"github.com/mwhardin/probata/internal/rules"
)

// Registry holds live engines for concurrent callers. Estates are
// independent aggregates, so the registry only guards its own map globally
// and serializes work on each estate behind a per-estate mutex; the engine
// itself stays single-writer.
type Registry struct {
	table *rules.Table

	mu      sync.RWMutex
	engines map[uuid.UUID]*entry
}

type entry struct {
	mu  sync.Mutex
	eng *Engine
}

func NewRegistry(table *rules.Table) *Registry {
	return &Registry{
		table:   table,
		engines: make(map[uuid.UUID]*entry),
	}
}

// Open creates a new estate and registers its engine.
func (r *Registry) Open(p estate.CreateParams) (uuid.UUID, error) {
	eng, err := New(p, r.table)
	if err != nil {
		return uuid.Nil, err
	}

	id := eng.Estate().ID

	r.mu.Lock()
	r.engines[id] = &entry{eng: eng}
	r.mu.Unlock()

	return id, nil
}

// Adopt registers an already restored engine, e.g. from a snapshot.
func (r *Registry) Adopt(eng *Engine) {
	r.mu.Lock()
	r.engines[eng.Estate().ID] = &entry{eng: eng}
	r.mu.Unlock()
}

// Do runs fn with exclusive access to one estate's engine. All reads and
// writes go through here; the per-estate lock is what makes the engine's
// single-writer assumption hold under concurrent HTTP traffic.
func (r *Registry) Do(id uuid.UUID, fn func(*Engine) error) error {
	r.mu.RLock()
	ent, ok := r.engines[id]
	r.mu.RUnlock()

	if !ok {
		return fault.Reference("workflow.Registry", "unknown estate %s", id)
	}

	ent.mu.Lock()
	defer ent.mu.Unlock()

	return fn(ent.eng)
}

// IDs lists the registered estate ids in stable order.
func (r *Registry) IDs() []uuid.UUID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]uuid.UUID, 0, len(r.engines))
	for id := range r.engines {
		out = append(out, id)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].String() < out[j].String()
	})

	return out
}
