package perf

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Observer is notified with every finalized session record.
type Observer interface {
	ObserveSession(m *Metrics)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(m *Metrics)

func (f ObserverFunc) ObserveSession(m *Metrics) {
	f(m)
}

// Option configures a Tracker.
type Option func(t *Tracker)

// WithClock replaces the clock used for session and phase timing.
func WithClock(clock Clock) Option {
	return func(t *Tracker) {
		t.clock = clock
	}
}

// WithMemoryReader replaces the source of memory snapshots.
func WithMemoryReader(reader MemoryReader) Option {
	return func(t *Tracker) {
		t.readMemory = reader
	}
}

// WithLogger sets the logger used for budget warnings and summaries.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracker) {
		t.logger = logger
	}
}

// WithSessionScopedPhases gives every session its own phase stack.
func WithSessionScopedPhases() Option {
	return func(t *Tracker) {
		t.phases = newPhaseStacks(true)
	}
}

// WithObserver registers an observer for finalized sessions.
func WithObserver(observer Observer) Option {
	return func(t *Tracker) {
		t.observers = append(t.observers, observer)
	}
}

// Tracker records metrics for concurrent tracking sessions. It is safe for concurrent use.
type Tracker struct {
	mu         sync.Mutex
	store      *store
	phases     *phaseStacks
	clock      Clock
	readMemory MemoryReader
	logger     *slog.Logger
	observers  []Observer

	seq            uint64
	phaseConflicts int64
}

// New creates a Tracker. Without options it uses the system clock, the Go runtime memory
// statistics, a discarding logger and one phase stack shared by all sessions.
func New(opts ...Option) *Tracker {
	t := &Tracker{
		store:      newStore(),
		phases:     newPhaseStacks(false),
		clock:      systemClock{},
		readMemory: ReadMemoryStats,
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start opens a session for ruleName running against filePath and returns its key.
func (t *Tracker) Start(ruleName, filePath string, budget *Budget) string {
	if budget != nil {
		if res := ValidateBudget(budget); !res.Valid {
			t.logger.Warn("invalid performance budget, continuing with it as configured",
				slog.String("rule", ruleName),
				slog.String("file", filePath),
				slog.Any("errors", res.Errors))
		}
	}

	mem := t.readMemory()
	now := t.clock.Now()

	t.mu.Lock()
	defer t.mu.Unlock()

	t.seq++
	key := fmt.Sprintf("%s:%s:%d-%d", ruleName, filePath, now.UnixNano(), t.seq)

	m := &Metrics{
		SessionKey:      key,
		RuleName:        ruleName,
		FilePath:        filePath,
		StartTime:       now,
		OperationCounts: make(map[string]int64),
		MemoryAtStart:   mem,
		PhaseDurations:  make(map[string]time.Duration),
		CustomMetrics:   make(map[string]any),
		Budget:          budget.Clone(),
	}
	t.store.put(m)

	if budget == nil || !budget.EnableMetrics {
		t.startPhaseLocked(m, "total", now)
	}

	return key
}

// IncrementNode counts one visited node. A non-empty nodeType is also counted as an operation.
// Node budgets are not checked here.
func (t *Tracker) IncrementNode(key, nodeType string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	m, ok := t.store.get(key)
	if !ok {
		return
	}

	m.NodeCount++
	if nodeType != "" {
		m.OperationCounts[nodeType]++
	}
}

// TrackOperation adds count to the named operation. Once the cumulative count passes the
// operation's cap it returns a *LimitExceededError. Negative counts are ignored.
func (t *Tracker) TrackOperation(key, name string, count int) error {
	if count < 0 {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	m, ok := t.store.get(key)
	if !ok {
		return nil
	}

	m.OperationCounts[name] += int64(count)
	actual := m.OperationCounts[name]

	if limit, ok := m.Budget.OperationLimit(name); ok && actual > limit {
		m.ExceededBudget = true
		return &LimitExceededError{
			Metric: name,
			Limit:  limit,
			Actual: actual,
		}
	}

	return nil
}

// StartPhase opens the named phase. If the phase is already open for the session it is closed
// first and its partial duration recorded.
func (t *Tracker) StartPhase(key, name string) {
	now := t.clock.Now()

	t.mu.Lock()
	defer t.mu.Unlock()

	m, ok := t.store.get(key)
	if !ok {
		return
	}

	t.startPhaseLocked(m, name, now)
}

func (t *Tracker) startPhaseLocked(m *Metrics, name string, now time.Time) {
	if open, ok := t.phases.remove(m.SessionKey, name); ok {
		m.PhaseDurations[name] += now.Sub(open.startTime)
	}

	t.phases.push(phaseEntry{
		sessionKey: m.SessionKey,
		phaseName:  name,
		startTime:  now,
	})

	if _, ok := m.PhaseDurations[name]; !ok {
		m.PhaseDurations[name] = 0
	}
}

// EndPhase closes the named phase when it is the most recently opened one. If the top of the
// stack belongs to another session, or to another phase of this session, the entry is left in
// place and nothing is recorded.
func (t *Tracker) EndPhase(key, name string) {
	now := t.clock.Now()

	t.mu.Lock()
	defer t.mu.Unlock()

	m, ok := t.store.get(key)
	if !ok {
		return
	}
	if _, ok := m.PhaseDurations[name]; !ok {
		return
	}

	entry, ok := t.phases.pop(key)
	if !ok {
		return
	}

	if entry.sessionKey != key {
		t.phases.push(entry)
		t.phaseConflicts++
		t.logger.Debug("refusing to close phase owned by another session",
			slog.String("session", key),
			slog.String("phase", name),
			slog.String("owner", entry.sessionKey),
			slog.String("owner_phase", entry.phaseName))
		return
	}
	if entry.phaseName != name {
		t.phases.push(entry)
		t.logger.Debug("refusing to close phase out of order",
			slog.String("session", key),
			slog.String("phase", name),
			slog.String("open_phase", entry.phaseName))
		return
	}

	m.PhaseDurations[name] += now.Sub(entry.startTime)
}

// RecordMetric stores an arbitrary value under name, replacing any previous value.
func (t *Tracker) RecordMetric(key, name string, value any) {
	t.mu.Lock()
	defer t.mu.Unlock()

	m, ok := t.store.get(key)
	if !ok {
		return
	}

	m.CustomMetrics[name] = value
}

// Stop finalizes the session, evaluates its budget and removes it from the tracker. It returns
// nil for unknown or already stopped sessions.
func (t *Tracker) Stop(key string) *Metrics {
	mem := t.readMemory()
	now := t.clock.Now()

	t.mu.Lock()

	m, ok := t.store.get(key)
	if !ok {
		t.mu.Unlock()
		return nil
	}

	for _, open := range t.phases.removeSession(key) {
		m.PhaseDurations[open.phaseName] += now.Sub(open.startTime)
	}

	m.EndTime = now
	m.Duration = now.Sub(m.StartTime)
	m.MemoryAtStop = &mem

	evaluateBudget(m)

	t.store.delete(key)
	observers := t.observers

	t.mu.Unlock()

	if m.Budget != nil && m.Budget.LogMetrics {
		t.logMetrics(m)
	}

	for _, o := range observers {
		o.ObserveSession(m)
	}

	return m
}

// evaluateBudget checks time, node and memory limits in that order.
func evaluateBudget(m *Metrics) {
	b := m.Budget

	if limit, ok := b.TimeLimit(); ok {
		if elapsed := m.DurationMillis(); elapsed > limit {
			m.ExceededBudget = true
			m.BudgetExceededBy += elapsed - limit
		}
	}

	if limit, ok := b.NodeLimit(); ok && m.NodeCount > limit {
		m.ExceededBudget = true
		m.NodesExceededBy = m.NodeCount - limit
	}

	if limit, ok := b.MemoryLimit(); ok && m.MemoryAtStop != nil {
		used := m.MemoryAtStop.HeapUsed
		if limit < 0 || used > uint64(limit) {
			m.ExceededBudget = true
			m.MemoryExceededBy = int64(used) - limit
		}
	}
}

func (t *Tracker) logMetrics(m *Metrics) {
	attrs := []any{
		slog.String("rule", m.RuleName),
		slog.String("file", m.FilePath),
	}

	if limit, ok := m.Budget.TimeLimit(); ok && m.BudgetExceededBy > 0 {
		t.logger.Warn("time budget exceeded", append(attrs,
			slog.Float64("limit_ms", limit),
			slog.Float64("over_ms", m.BudgetExceededBy))...)
	}
	if limit, ok := m.Budget.NodeLimit(); ok && m.NodesExceededBy > 0 {
		t.logger.Warn("node budget exceeded", append(attrs,
			slog.Int64("limit", limit),
			slog.Int64("over", m.NodesExceededBy))...)
	}
	if limit, ok := m.Budget.MemoryLimit(); ok && m.MemoryExceededBy > 0 {
		t.logger.Warn("memory budget exceeded", append(attrs,
			slog.Int64("limit", limit),
			slog.String("over", FormatBytes(uint64(m.MemoryExceededBy), 2)))...)
	}

	var heapUsed uint64
	if m.MemoryAtStop != nil {
		heapUsed = m.MemoryAtStop.HeapUsed
	}
	t.logger.Info("rule performance", append(attrs,
		slog.Float64("duration_ms", m.DurationMillis()),
		slog.Int64("nodes", m.NodeCount),
		slog.String("heap_used", FormatBytes(heapUsed, 2)),
		slog.Int64("heap_delta", m.MemoryDelta()),
		slog.Bool("exceeded_budget", m.ExceededBudget))...)
}

// Snapshot returns a copy of a live session record.
func (t *Tracker) Snapshot(key string) (Metrics, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	m, ok := t.store.get(key)
	if !ok {
		return Metrics{}, false
	}
	return m.clone(), true
}

// Active returns the number of live sessions.
func (t *Tracker) Active() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.store.len()
}

// OpenPhases returns the number of open phases across all sessions.
func (t *Tracker) OpenPhases() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.phases.depth()
}

// PhaseConflicts returns how many EndPhase calls were refused because another session's phase
// was on top of the shared stack.
func (t *Tracker) PhaseConflicts() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.phaseConflicts
}

// exceedNodeBudget flags the session once its node count passes limit.
func (t *Tracker) exceedNodeBudget(key string, limit int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	m, ok := t.store.get(key)
	if !ok || m.NodeCount <= limit {
		return false
	}
	m.ExceededBudget = true
	return true
}
