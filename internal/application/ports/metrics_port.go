package ports

import "time"

// Metrics contadores de negocio que los casos de uso reportan.
type Metrics interface {
	RecordMovement(movementType string, ok bool)
	RecordOrderCreated()
	RecordJobRun(job string, d time.Duration, success bool)
}

// NopMetrics descarta todo; para tests y binarios sin /metrics.
type NopMetrics struct{}

func (NopMetrics) RecordMovement(string, bool) {}
func (NopMetrics) RecordOrderCreated() {}
func (NopMetrics) RecordJobRun(string, time.Duration, bool) {}
