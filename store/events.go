// ABOUTME: Change notifications published after locally-visible mutations
package store

// Event describes one locally-visible change: which kind of entity, which
// operation, and which id. Subscribers use it to refresh views or trigger
// a sync pass.
type Event struct {
	Kind string
	Op   string
	ID   string
}

// Subscribe registers a callback for future events and returns a function
// that removes it. Callbacks run synchronously on the mutating goroutine
// and should return quickly.
func (s *Store) Subscribe(fn func(Event)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) publish(ev Event) {
	s.mu.Lock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}
