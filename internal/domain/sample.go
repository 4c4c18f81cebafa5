package domain

import "time"

// PowerState enumerates the charging states a power source can report.
type PowerState string

const (
	// PowerUnknown means the probe could not determine the charging state.
	PowerUnknown PowerState = "unknown"
	// PowerUnplugged means the device is discharging on battery.
	PowerUnplugged PowerState = "unplugged"
	// PowerCharging means the device is connected to power and charging.
	PowerCharging PowerState = "charging"
	// PowerFull means the device is connected to power and fully charged.
	PowerFull PowerState = "full"
)

// LevelUnknown is the Level sentinel used when the charge fraction cannot be read.
const LevelUnknown float64 = -1

// Sample is one immutable power-state snapshot. It is created fresh on every
// sampling tick and never mutated afterwards.
type Sample struct {
	CapturedAt   time.Time  `json:"capturedAt"`
	Level        float64    `json:"level"`
	PowerState   PowerState `json:"powerState"`
	SourceID     string     `json:"sourceId"`
	LowPowerMode bool       `json:"lowPowerModeActive"`
}

// LevelKnown reports whether the charge fraction was actually read.
func (s Sample) LevelKnown() bool {
	return s.Level >= 0
}
