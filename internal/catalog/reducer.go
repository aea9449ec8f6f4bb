package catalog

import "math/rand"

// State is one immutable snapshot of a vertical's raw catalog. Version grows
// by one with every applied action.
type State struct {
	Vertical Vertical `json:"vertical"`
	Vendors  []Vendor `json:"vendors"`
	Version  uint64   `json:"version"`
}

// Action is an explicit change to a catalog State.
type Action interface {
	// Reason names the action in logs and live events.
	Reason() string
	apply(State) []Vendor
}

// Shuffle reorders vendors for cosmetic variety. The same seed always gives
// the same order.
type Shuffle struct {
	Seed int64
}

func (Shuffle) Reason() string { return "shuffle" }

func (a Shuffle) apply(s State) []Vendor {
	vendors := append([]Vendor(nil), s.Vendors...)
	rnd := rand.New(rand.NewSource(a.Seed))
	rnd.Shuffle(len(vendors), func(i, j int) {
		vendors[i], vendors[j] = vendors[j], vendors[i]
	})
	return vendors
}

// Replace swaps in a freshly loaded vendor list.
type Replace struct {
	Vendors []Vendor
}

func (Replace) Reason() string { return "reload" }

func (a Replace) apply(State) []Vendor {
	out := make([]Vendor, len(a.Vendors))
	for i, v := range a.Vendors {
		out[i] = v.Clone()
	}
	return out
}

// Upsert replaces the vendor with the same id in place, or appends it.
type Upsert struct {
	Vendor Vendor
}

func (Upsert) Reason() string { return "upsert" }

func (a Upsert) apply(s State) []Vendor {
	vendors := append([]Vendor(nil), s.Vendors...)
	for i := range vendors {
		if vendors[i].ID == a.Vendor.ID {
			vendors[i] = a.Vendor.Clone()
			return vendors
		}
	}
	return append(vendors, a.Vendor.Clone())
}

// Reduce applies action to s and returns the next State. s is left untouched.
func Reduce(s State, action Action) State {
	return State{
		Vertical: s.Vertical,
		Vendors:  action.apply(s),
		Version:  s.Version + 1,
	}
}
