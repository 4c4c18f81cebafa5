package domain

// CollectionPhase enumerates the states of the collection state machine.
type CollectionPhase string

const (
	// PhaseIdle means collection is stopped.
	PhaseIdle CollectionPhase = "idle"
	// PhaseCollecting means collection is active and waiting for the next sample.
	PhaseCollecting CollectionPhase = "collecting"
	// PhaseTransmitting means a sample is being delivered to the collector.
	PhaseTransmitting CollectionPhase = "transmitting"
	// PhaseSucceeded means the last delivery completed successfully.
	PhaseSucceeded CollectionPhase = "succeeded"
	// PhaseFailed means the last delivery exhausted its retry budget.
	PhaseFailed CollectionPhase = "failed"
)

// CollectionStatus is the published state of the collection pipeline.
// Exactly one status is current at any instant; late subscribers receive the
// latest value plus future updates, never history.
type CollectionStatus struct {
	Phase   CollectionPhase `json:"phase"`
	Message string          `json:"message,omitempty"`
}

// StatusIdle returns the stopped status.
func StatusIdle() CollectionStatus {
	return CollectionStatus{Phase: PhaseIdle}
}

// StatusCollecting returns the waiting-for-sample status.
func StatusCollecting() CollectionStatus {
	return CollectionStatus{Phase: PhaseCollecting}
}

// StatusTransmitting returns the delivery-in-progress status.
func StatusTransmitting() CollectionStatus {
	return CollectionStatus{Phase: PhaseTransmitting}
}

// StatusSucceeded returns a success status carrying the delivery detail.
func StatusSucceeded(message string) CollectionStatus {
	return CollectionStatus{Phase: PhaseSucceeded, Message: message}
}

// StatusFailed returns a failure status carrying the final error detail.
func StatusFailed(message string) CollectionStatus {
	return CollectionStatus{Phase: PhaseFailed, Message: message}
}
