package editor

// Listener observes every dispatched action after it has been applied.
type Listener func(prev, next State, a Action)

type subscription struct {
	id int
	fn Listener
}

// Store owns the live State. It is the only place a State is replaced, and
// it is driven from a single goroutine (the UI loop).
type Store struct {
	state     State
	listeners []subscription
	nextID    int
}

func NewStore(initial State) *Store {
	return &Store{state: initial}
}

func (s *Store) State() State {
	return s.state
}

// Dispatch applies each action in order, notifying listeners after each.
func (s *Store) Dispatch(actions ...Action) {
	for _, a := range actions {
		if a == nil {
			continue
		}
		prev := s.state
		s.state = Reduce(prev, a)
		for _, sub := range s.listeners {
			sub.fn(prev, s.state, a)
		}
	}
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})
	return func() {
		for i, sub := range s.listeners {
			if sub.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}
