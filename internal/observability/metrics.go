package observability

type Metrics interface {
	ObserveSync(result string, durMs float64)
	ObserveLookup(source string, cacheMs, dbMs float64)
	ObserveHTTP(method, route string, status int, durMs float64)
	ObserveKafka(processMs float64, ok bool)
	IncCacheHit()
	IncCacheMiss()
	IncCoalesced()
}

type Noop struct{}

func NewNoop() Noop { return Noop{} }

func (Noop) ObserveSync(string, float64)              {}
func (Noop) ObserveLookup(string, float64, float64)   {}
func (Noop) ObserveHTTP(string, string, int, float64) {}
func (Noop) ObserveKafka(float64, bool)               {}
func (Noop) IncCacheHit()                             {}
func (Noop) IncCacheMiss()                            {}
func (Noop) IncCoalesced()                            {}
