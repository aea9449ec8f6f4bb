package catalog

import (
	"context"
	"fmt"
	"sync"
)

// Listener observes every state produced by a Store.
type Listener func(next State, action Action)

// Store owns the current State of one vertical. Readers get whole snapshots,
// so a dispatch that lands mid-request never exposes a partial list.
type Store struct {
	vertical Vertical

	mu        sync.RWMutex
	state     State
	listeners []Listener
}

func NewStore(vertical Vertical, vendors []Vendor) *Store {
	return &Store{
		vertical: vertical,
		state:    State{Vertical: vertical, Vendors: Normalize(vertical, vendors)},
	}
}

func (s *Store) Vertical() Vertical {
	return s.vertical
}

// Snapshot returns the current State. Callers must not modify its vendors.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch reduces the action into a new State and notifies listeners after
// the lock is released.
func (s *Store) Dispatch(action Action) State {
	action = s.normalize(action)

	s.mu.Lock()
	next := Reduce(s.state, action)
	s.state = next
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	for _, l := range listeners {
		l(next, action)
	}
	return next
}

// normalize applies the boundary defaults to vendors carried by an action.
func (s *Store) normalize(action Action) Action {
	switch a := action.(type) {
	case Replace:
		return Replace{Vendors: Normalize(s.vertical, a.Vendors)}
	case Upsert:
		return Upsert{Vendor: Normalize(s.vertical, []Vendor{a.Vendor})[0]}
	}
	return action
}

func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Query runs the filter pipeline over the current snapshot.
func (s *Store) Query(f Filter) []Vendor {
	return Apply(s.Snapshot().Vendors, f)
}

// Vendor returns a copy of one vendor for the detail view.
func (s *Store) Vendor(id string) (Vendor, bool) {
	for _, v := range s.Snapshot().Vendors {
		if v.ID == id {
			return v.Clone(), true
		}
	}
	return Vendor{}, false
}

// Offering finds an offering and its owning vendor.
func (s *Store) Offering(id string) (Vendor, Offering, bool) {
	for _, v := range s.Snapshot().Vendors {
		if o, ok := v.Offering(id); ok {
			return v.Clone(), o.clone(), true
		}
	}
	return Vendor{}, Offering{}, false
}

// Reload fetches the vertical again from src and replaces the state.
func (s *Store) Reload(ctx context.Context, src Source) (State, error) {
	vendors, err := src.Load(ctx, s.Vertical())
	if err != nil {
		return State{}, fmt.Errorf("reload %s: %w", s.Vertical(), err)
	}
	return s.Dispatch(Replace{Vendors: vendors}), nil
}

// Source loads the raw vendors of a vertical.
type Source interface {
	Load(ctx context.Context, vertical Vertical) ([]Vendor, error)
}

// Registry holds one Store per vertical.
type Registry struct {
	stores map[Vertical]*Store
}

func NewRegistry(stores ...*Store) *Registry {
	r := &Registry{stores: make(map[Vertical]*Store, len(stores))}
	for _, s := range stores {
		r.stores[s.Vertical()] = s
	}
	return r
}

// LoadRegistry builds a Store for every vertical from src.
func LoadRegistry(ctx context.Context, src Source) (*Registry, error) {
	var stores []*Store
	for _, v := range Verticals() {
		vendors, err := src.Load(ctx, v)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", v, err)
		}
		stores = append(stores, NewStore(v, vendors))
	}
	return NewRegistry(stores...), nil
}

func (r *Registry) Store(v Vertical) (*Store, bool) {
	s, ok := r.stores[v]
	return s, ok
}

// Lookup resolves a vertical name as it appears in a URL.
func (r *Registry) Lookup(name string) (*Store, bool) {
	v, ok := ParseVertical(name)
	if !ok {
		return nil, false
	}
	return r.Store(v)
}

// All returns the stores in vertical display order.
func (r *Registry) All() []*Store {
	out := make([]*Store, 0, len(r.stores))
	for _, v := range Verticals() {
		if s, ok := r.stores[v]; ok {
			out = append(out, s)
		}
	}
	return out
}

// Subscribe registers l on every store.
func (r *Registry) Subscribe(l Listener) {
	for _, s := range r.All() {
		s.Subscribe(l)
	}
}
