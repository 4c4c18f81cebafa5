package domain

import "time"

// CollectionStatistics aggregates delivery outcomes. It is owned and mutated
// exclusively by the collection orchestrator.
type CollectionStatistics struct {
	Active         bool      `json:"active"`
	LastSampleAt   time.Time `json:"lastSampleAt"`
	TotalDelivered int64     `json:"totalDelivered"`
	TotalFailed    int64     `json:"totalFailed"`
}

// Attempts returns the number of finalized transmission attempts.
func (s CollectionStatistics) Attempts() int64 {
	return s.TotalDelivered + s.TotalFailed
}

// SuccessRate returns the delivered percentage, 100 when nothing was attempted.
func (s CollectionStatistics) SuccessRate() float64 {
	attempts := s.Attempts()
	if attempts == 0 {
		return 100
	}
	return float64(s.TotalDelivered) / float64(attempts) * 100
}

// Summary is a derived, read-only view of the statistics.
type Summary struct {
	Active         bool      `json:"active"`
	LastSampleAt   time.Time `json:"lastSampleAt"`
	TotalDelivered int64     `json:"totalDelivered"`
	TotalFailed    int64     `json:"totalFailed"`
	SuccessRate    float64   `json:"successRate"`
}

// NewSummary derives a Summary from the current statistics.
func NewSummary(s CollectionStatistics) Summary {
	return Summary{
		Active:         s.Active,
		LastSampleAt:   s.LastSampleAt,
		TotalDelivered: s.TotalDelivered,
		TotalFailed:    s.TotalFailed,
		SuccessRate:    s.SuccessRate(),
	}
}
