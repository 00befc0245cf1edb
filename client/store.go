package client

import "sync"

// ActionKind names a state transition of a List.
type ActionKind int

const (
	Load ActionKind = iota
	Add
	Remove
	Replace
)

// Action is one transition. Load uses Items, Add and Replace use Item,
// Remove uses Key.
type Action[T any] struct {
	Kind  ActionKind
	Items []T
	Item  T
	Key   string
}

// List is a client-side collection changed only through Dispatch. Every
// subscriber receives the whole list after each change.
type List[T any] struct {
	mu    sync.Mutex
	key   func(T) string
	items []T
	subs  map[int]func([]T)
	next  int
}

// NewList creates an empty list whose entries are identified by key.
func NewList[T any](key func(T) string) *List[T] {
	return &List[T]{key: key, items: []T{}, subs: map[int]func([]T){}}
}

// Reduce returns the state after a, leaving state itself untouched.
func (l *List[T]) Reduce(state []T, a Action[T]) []T {
	switch a.Kind {
	case Load:
		return append([]T{}, a.Items...)
	case Add:
		return append(append([]T{}, state...), a.Item)
	case Remove:
		out := make([]T, 0, len(state))
		for _, item := range state {
			if l.key(item) != a.Key {
				out = append(out, item)
			}
		}
		return out
	case Replace:
		out := make([]T, len(state))
		for i, item := range state {
			if l.key(item) == l.key(a.Item) {
				item = a.Item
			}
			out[i] = item
		}
		return out
	default:
		return state
	}
}

// Dispatch applies a and notifies subscribers with a copy of the new state.
func (l *List[T]) Dispatch(a Action[T]) {
	l.mu.Lock()
	l.items = l.Reduce(l.items, a)
	snapshot := append([]T{}, l.items...)
	subs := make([]func([]T), 0, len(l.subs))
	for _, fn := range l.subs {
		subs = append(subs, fn)
	}
	l.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}

// Subscribe registers fn and returns a function that removes it.
func (l *List[T]) Subscribe(fn func([]T)) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	id := l.next
	l.next++
	l.subs[id] = fn
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.subs, id)
	}
}

// Items returns a copy of the current state.
func (l *List[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]T{}, l.items...)
}
