package perf

// store holds one mutable record per live session. Callers synchronise access.
type store struct {
	records map[string]*Metrics
}

func newStore() *store {
	return &store{records: make(map[string]*Metrics)}
}

func (s *store) get(key string) (*Metrics, bool) {
	m, ok := s.records[key]
	return m, ok
}

func (s *store) put(m *Metrics) {
	s.records[m.SessionKey] = m
}

func (s *store) delete(key string) {
	delete(s.records, key)
}

func (s *store) len() int {
	return len(s.records)
}
