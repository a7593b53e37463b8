package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

func (n *NoopRecorder) IncPersonAdded() {}
func (n *NoopRecorder) IncPersonUpdated() {}
func (n *NoopRecorder) IncPersonDeleted() {}
func (n *NoopRecorder) IncCountryAdded() {}
func (n *NoopRecorder) AddCountriesImported(int) {}
func (n *NoopRecorder) ObserveExportDuration(string, time.Duration) {}
func (n *NoopRecorder) IncLoginAttempt(string) {}
func (n *NoopRecorder) IncEventPublished(string) {}
func (n *NoopRecorder) ObserveHTTPRequest(string, string, int, time.Duration) {}
