package accounting

import (
	"sort"
	"strconv"
	"sync"
)

// PortUsage is the accumulated traffic of one local port.
type PortUsage struct {
	Port            string `json:"port" yaml:"port"`
	SentBytes       uint64 `json:"sent_bytes" yaml:"sent_bytes"`
	ReceivedBytes   uint64 `json:"received_bytes" yaml:"received_bytes"`
	SentPackets     uint64 `json:"sent_packets" yaml:"sent_packets"`
	ReceivedPackets uint64 `json:"received_packets" yaml:"received_packets"`
}

// TotalBytes returns sent plus received bytes.
func (u PortUsage) TotalBytes() uint64 {
	return u.SentBytes + u.ReceivedBytes
}

// Table is an in-memory Accountant. It is safe for concurrent use: the
// capture loop writes while reporters read snapshots.
type Table struct {
	mu    sync.RWMutex
	ports map[string]*PortUsage
}

// NewTable creates an empty Table.
func NewTable() *Table {
	return &Table{ports: make(map[string]*PortUsage)}
}

// AccountBytes implements Accountant.
func (t *Table) AccountBytes(port string, bytes int, isSource bool) {
	if bytes < 0 {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	u, ok := t.ports[port]
	if !ok {
		u = &PortUsage{Port: port}
		t.ports[port] = u
	}
	if isSource {
		u.SentBytes += uint64(bytes)
		u.SentPackets++
	} else {
		u.ReceivedBytes += uint64(bytes)
		u.ReceivedPackets++
	}
}

// Len returns the number of ports seen.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.ports)
}

// Get returns the usage of port.
func (t *Table) Get(port string) (PortUsage, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	u, ok := t.ports[port]
	if !ok {
		return PortUsage{}, false
	}
	return *u, true
}

// Snapshot returns a copy of all rows ordered by total bytes, descending,
// with ties broken by numeric port.
func (t *Table) Snapshot() []PortUsage {
	t.mu.RLock()
	rows := make([]PortUsage, 0, len(t.ports))
	for _, u := range t.ports {
		rows = append(rows, *u)
	}
	t.mu.RUnlock()

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalBytes() != rows[j].TotalBytes() {
			return rows[i].TotalBytes() > rows[j].TotalBytes()
		}
		return portLess(rows[i].Port, rows[j].Port)
	})
	return rows
}

// Reset clears all accumulated usage.
func (t *Table) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ports = make(map[string]*PortUsage)
}

func portLess(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return na < nb
	}
	return a < b
}
