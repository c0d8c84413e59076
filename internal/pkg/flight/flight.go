package flight

import "sync"

type call[T any] struct {
	wg  sync.WaitGroup
	val T
	err error
}

// Group collapses concurrent calls with the same key into a single execution.
// All callers block until the one running fn settles and then observe the
// identical result, errors included. The key is removed as soon as the call
// settles, so a later Do with the same key starts fresh.
type Group[T any] struct {
	mu    sync.Mutex
	calls map[string]*call[T]
}

func NewGroup[T any]() *Group[T] {
	return &Group[T]{
		calls: make(map[string]*call[T]),
	}
}

// Do runs fn under key, or waits for the in-flight execution with the same
// key. The returned bool reports whether this caller attached to an execution
// started by someone else.
func (g *Group[T]) Do(key string, fn func() (T, error)) (T, bool, error) {
	g.mu.Lock()
	if c, ok := g.calls[key]; ok {
		g.mu.Unlock()
		c.wg.Wait()
		return c.val, true, c.err
	}

	c := new(call[T])
	c.wg.Add(1)
	g.calls[key] = c
	g.mu.Unlock()

	c.val, c.err = fn()

	g.mu.Lock()
	delete(g.calls, key)
	g.mu.Unlock()
	c.wg.Done()

	return c.val, false, c.err
}

// Pending reports how many keys currently have an in-flight execution.
func (g *Group[T]) Pending() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}
