package reqstate

import "sync"

// Snapshot is one observable value of a request state. After a terminal
// transition exactly one of Error and Data is set.
type Snapshot[T any] struct {
	Loading bool    `json:"loading"`
	Error   *string `json:"error"`
	Data    *T      `json:"data"`
}

func (s Snapshot[T]) Failed() bool { return !s.Loading && s.Error != nil }

func (s Snapshot[T]) Succeeded() bool { return !s.Loading && s.Error == nil && s.Data != nil }

// State tracks one action. Re-entering Begin while loading is allowed and
// whichever transition lands last wins; there is no request sequencing.
type State[T any] struct {
	// notify держится на всё время перехода вместе с уведомлением
	notify    sync.Mutex
	mu        sync.RWMutex
	cur       Snapshot[T]
	observers []func(Snapshot[T])
}

func New[T any]() *State[T] {
	return &State[T]{}
}

// Observe registers fn to be called after every transition, in the order the
// transitions happened. fn must not start a transition on the same State.
func (s *State[T]) Observe(fn func(Snapshot[T])) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

func (s *State[T]) Begin() Snapshot[T] {
	return s.set(Snapshot[T]{Loading: true})
}

func (s *State[T]) Succeed(data T) Snapshot[T] {
	return s.set(Snapshot[T]{Data: &data})
}

func (s *State[T]) Fail(message string) Snapshot[T] {
	return s.set(Snapshot[T]{Error: &message})
}

func (s *State[T]) Snapshot() Snapshot[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

func (s *State[T]) set(next Snapshot[T]) Snapshot[T] {
	s.notify.Lock()
	defer s.notify.Unlock()

	s.mu.Lock()
	s.cur = next
	obs := s.observers
	s.mu.Unlock()

	for _, fn := range obs {
		fn(next)
	}
	return next
}
