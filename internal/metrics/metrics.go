// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
type Recorder interface {
	// Person management metrics
	IncPersonAdded()
	IncPersonUpdated()
	IncPersonDeleted()

	// Country metrics
	IncCountryAdded()
	AddCountriesImported(n int)

	// Export metrics; format is "csv", "xlsx" or "pdf"
	ObserveExportDuration(format string, duration time.Duration)

	// Account metrics; status is "success", "failed" or "limited"
	IncLoginAttempt(status string)

	// Event pipeline metrics; status is "success" or "dropped"
	IncEventPublished(status string)

	// HTTP metrics
	ObserveHTTPRequest(method, route string, status int, duration time.Duration)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
