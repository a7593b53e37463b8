package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	PersonsAdded        uint64
	PersonsUpdated      uint64
	PersonsDeleted      uint64
	CountriesAdded      uint64
	CountriesImported   uint64
	ExportCount         map[string]uint64
	LoginAttempts       map[string]uint64
	EventsPublished     uint64
	EventsDropped       uint64
	HTTPRequestCount    uint64
	HTTPDurationTotalNs int64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	personsAdded        uint64
	personsUpdated      uint64
	personsDeleted      uint64
	countriesAdded      uint64
	countriesImported   uint64
	eventsPublished     uint64
	eventsDropped       uint64
	httpRequestCount    uint64
	httpDurationTotalNs int64

	mu            sync.Mutex
	exportCount   map[string]uint64
	loginAttempts map[string]uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		exportCount:   make(map[string]uint64),
		loginAttempts: make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	exports := make(map[string]uint64, len(m.exportCount))
	for k, v := range m.exportCount {
		exports[k] = v
	}
	logins := make(map[string]uint64, len(m.loginAttempts))
	for k, v := range m.loginAttempts {
		logins[k] = v
	}
	m.mu.Unlock()

	return Snapshot{
		PersonsAdded:        atomic.LoadUint64(&m.personsAdded),
		PersonsUpdated:      atomic.LoadUint64(&m.personsUpdated),
		PersonsDeleted:      atomic.LoadUint64(&m.personsDeleted),
		CountriesAdded:      atomic.LoadUint64(&m.countriesAdded),
		CountriesImported:   atomic.LoadUint64(&m.countriesImported),
		ExportCount:         exports,
		LoginAttempts:       logins,
		EventsPublished:     atomic.LoadUint64(&m.eventsPublished),
		EventsDropped:       atomic.LoadUint64(&m.eventsDropped),
		HTTPRequestCount:    atomic.LoadUint64(&m.httpRequestCount),
		HTTPDurationTotalNs: atomic.LoadInt64(&m.httpDurationTotalNs),
	}
}

// IncPersonAdded increments the person added counter.
func (m *InMemoryRecorder) IncPersonAdded() {
	atomic.AddUint64(&m.personsAdded, 1)
}

// IncPersonUpdated increments the person updated counter.
func (m *InMemoryRecorder) IncPersonUpdated() {
	atomic.AddUint64(&m.personsUpdated, 1)
}

// IncPersonDeleted increments the person deleted counter.
func (m *InMemoryRecorder) IncPersonDeleted() {
	atomic.AddUint64(&m.personsDeleted, 1)
}

// IncCountryAdded increments the country added counter.
func (m *InMemoryRecorder) IncCountryAdded() {
	atomic.AddUint64(&m.countriesAdded, 1)
}

// AddCountriesImported adds n spreadsheet-imported countries.
func (m *InMemoryRecorder) AddCountriesImported(n int) {
	if n > 0 {
		atomic.AddUint64(&m.countriesImported, uint64(n))
	}
}

// ObserveExportDuration counts an export of the given format.
func (m *InMemoryRecorder) ObserveExportDuration(format string, duration time.Duration) {
	m.mu.Lock()
	m.exportCount[format]++
	m.mu.Unlock()
}

// IncLoginAttempt counts a login attempt by outcome.
func (m *InMemoryRecorder) IncLoginAttempt(status string) {
	m.mu.Lock()
	m.loginAttempts[status]++
	m.mu.Unlock()
}

// IncEventPublished counts a published or dropped event.
func (m *InMemoryRecorder) IncEventPublished(status string) {
	if status == "dropped" {
		atomic.AddUint64(&m.eventsDropped, 1)
		return
	}
	atomic.AddUint64(&m.eventsPublished, 1)
}

// ObserveHTTPRequest records request count and duration.
func (m *InMemoryRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	atomic.AddUint64(&m.httpRequestCount, 1)
	atomic.AddInt64(&m.httpDurationTotalNs, duration.Nanoseconds())
}
