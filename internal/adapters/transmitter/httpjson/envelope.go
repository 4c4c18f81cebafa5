// Package httpjson delivers power samples to the remote collector as JSON
// envelopes over HTTP.
package httpjson

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Root48/DataCollectionModule/internal/domain"
)

// Envelope field constants are fixed by the collector's ingestion contract.
const (
	EnvelopeTitle = "power_state_sample"
	EnvelopeUser  = "telemetry-agent"
)

// Envelope is the wire-level structure carrying one encoded sample. The body
// is the base64-encoded JSON serialization of the sample.
type Envelope struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	UserID    string `json:"userId"`
	Timestamp string `json:"timestamp"`
}

// EncodeSample wraps the sample's JSON serialization in a transport envelope
// stamped with the provided send time.
func EncodeSample(s domain.Sample, at time.Time) (Envelope, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", domain.ErrEncodingFailure, err)
	}
	return Envelope{
		Title:     EnvelopeTitle,
		Body:      base64.StdEncoding.EncodeToString(raw),
		UserID:    EnvelopeUser,
		Timestamp: at.UTC().Format(time.RFC3339),
	}, nil
}

// DecodeSample recovers the sample carried by an envelope.
func DecodeSample(env Envelope) (domain.Sample, error) {
	raw, err := base64.StdEncoding.DecodeString(env.Body)
	if err != nil {
		return domain.Sample{}, fmt.Errorf("decode body: %w", err)
	}
	var s domain.Sample
	if err := json.Unmarshal(raw, &s); err != nil {
		return domain.Sample{}, fmt.Errorf("unmarshal sample: %w", err)
	}
	return s, nil
}
