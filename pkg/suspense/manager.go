package suspense

import "sync"

// Manager suspends boundaries on behalf of one resource. It remembers how
// many suspensions it added to each boundary so that Unsuspend removes
// exactly those and nothing more.
type Manager struct {
	mu     sync.Mutex
	data   *Data
	counts map[*Data]int
}

// NewManager creates a Manager bound to the boundary current at the call.
// Outside any boundary the Manager does nothing.
func NewManager() *Manager {
	return &Manager{
		data:   Current(),
		counts: make(map[*Data]int),
	}
}

// Boundary returns the boundary the Manager suspends, or nil.
func (m *Manager) Boundary() *Data {
	return m.data
}

// Suspend adds one suspension to the Manager's boundary.
func (m *Manager) Suspend() {
	m.Change(m.data, 1)
}

// Unsuspend removes every suspension the Manager added.
func (m *Manager) Unsuspend() {
	m.mu.Lock()
	held := make(map[*Data]int, len(m.counts))
	for d, n := range m.counts {
		held[d] = n
	}
	m.mu.Unlock()

	for d, n := range held {
		m.Change(d, -n)
	}
}

// Change adjusts the Manager's tally for data by n and forwards the
// effective difference to data. The tally is clamped at zero.
func (m *Manager) Change(data *Data, n int) {
	if data == nil || n == 0 {
		return
	}

	m.mu.Lock()
	prev := m.counts[data]
	next := prev + n
	if next < 0 {
		next = 0
	}
	if next == 0 {
		delete(m.counts, data)
	} else {
		m.counts[data] = next
	}
	m.mu.Unlock()

	switch delta := next - prev; {
	case delta > 0:
		data.Increment(delta)
	case delta < 0:
		data.Decrement(-delta)
	}
}

// Held returns how many suspensions the Manager holds on data.
func (m *Manager) Held(data *Data) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[data]
}
