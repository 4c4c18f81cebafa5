package domain

import "time"

// DeliveryRecord is one finalized transmission outcome, journaled after the
// retry budget for a sample is settled one way or the other.
type DeliveryRecord struct {
	ID           string     `json:"id"`
	SourceID     string     `json:"sourceId"`
	CapturedAt   time.Time  `json:"capturedAt"`
	Level        float64    `json:"level"`
	PowerState   PowerState `json:"powerState"`
	LowPowerMode bool       `json:"lowPowerModeActive"`
	Delivered    bool       `json:"delivered"`
	Detail       string     `json:"detail,omitempty"`
	RecordedAt   time.Time  `json:"recordedAt"`
}
