package cases

// Store is an immutable collection of cases.
type Store struct {
	cases []Case
}

// NewStore creates a store holding copies of the given cases.
func NewStore(cs []Case) *Store {
	owned := make([]Case, len(cs))
	for i, c := range cs {
		owned[i] = c.Clone()
	}
	return &Store{cases: owned}
}

// Len returns the number of cases.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.cases)
}

// At returns a copy of the case at index i.
func (s *Store) At(i int) Case {
	return s.cases[i].Clone()
}

// All returns copies of every case in load order.
func (s *Store) All() []Case {
	out := make([]Case, len(s.cases))
	for i, c := range s.cases {
		out[i] = c.Clone()
	}
	return out
}

// Find returns a copy of the first case with the given id.
func (s *Store) Find(id string) (Case, bool) {
	for _, c := range s.cases {
		if c.ID == id {
			return c.Clone(), true
		}
	}
	return Case{}, false
}
