package observability

import "sync"

// Inmem keeps the last N observations in memory. Good enough for the debug
// endpoint and for tests; a real metrics backend can replace it behind the
// same interface.
type Inmem struct {
	mu     sync.Mutex
	last   []any
	max    int
	totals struct {
		cacheHits, cacheMiss int
		coalesced            int
	}
}

func NewInmem(max int) *Inmem {
	return &Inmem{
		max: max,
	}
}

func (m *Inmem) push(v any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = append(m.last, v)
	if len(m.last) > m.max {
		m.last = m.last[1:]
	}
}

func (m *Inmem) ObserveSync(result string, durMs float64) {
	m.push(struct {
		Kind   string
		Result string
		Dur    float64
	}{"sync", result, durMs})
}

func (m *Inmem) ObserveLookup(source string, cacheMs, dbMs float64) {
	m.push(struct {
		Kind          string
		Source        string
		CacheMs, DbMs float64
	}{"lookup", source, cacheMs, dbMs})
}

func (m *Inmem) ObserveHTTP(method, route string, status int, durMs float64) {
	m.push(struct {
		Kind          string
		Method, Route string
		Status        int
		Dur           float64
	}{"http", method, route, status, durMs})
}

func (m *Inmem) ObserveKafka(processMs float64, ok bool) {
	m.push(struct {
		Kind string
		Dur  float64
		OK   bool
	}{"kafka", processMs, ok})
}

func (m *Inmem) IncCacheHit() {
	m.mu.Lock()
	m.totals.cacheHits++
	m.mu.Unlock()
}

func (m *Inmem) IncCacheMiss() {
	m.mu.Lock()
	m.totals.cacheMiss++
	m.mu.Unlock()
}

func (m *Inmem) IncCoalesced() {
	m.mu.Lock()
	m.totals.coalesced++
	m.mu.Unlock()
}

// Snapshot returns recent observations and counters for the debug endpoint.
func (m *Inmem) Snapshot() (last []any, cacheHits, cacheMiss, coalesced int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	last = append([]any(nil), m.last...)
	return last, m.totals.cacheHits, m.totals.cacheMiss, m.totals.coalesced
}
