// Package sysfs reads battery readings from the Linux power-supply class tree.
package sysfs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/host"

	"github.com/Root48/DataCollectionModule/internal/domain"
	"github.com/Root48/DataCollectionModule/internal/ports"
)

const (
	defaultRoot        = "/sys/class/power_supply"
	defaultProfilePath = "/sys/firmware/acpi/platform_profile"
)

// ErrNoBattery is returned when no supply of type Battery exists under the root.
var ErrNoBattery = errors.New("no battery supply found")

// Probe samples the first battery supply found under the power-supply root.
// Readings it cannot parse degrade to the unknown level and state rather than
// failing the whole sample.
type Probe struct {
	root        string
	profilePath string
	sourceID    string
}

var _ ports.PowerProbe = (*Probe)(nil)

type Option func(*Probe)

// WithRoot points the probe at an alternate power-supply tree.
func WithRoot(root string) Option {
	return func(p *Probe) { p.root = root }
}

// WithProfilePath points the probe at an alternate platform-profile file.
func WithProfilePath(path string) Option {
	return func(p *Probe) { p.profilePath = path }
}

// WithSourceID overrides the host-derived source identifier.
func WithSourceID(id string) Option {
	return func(p *Probe) { p.sourceID = id }
}

// New builds a Probe over the standard sysfs paths. The source identifier
// defaults to the machine id reported by the host.
func New(opts ...Option) *Probe {
	p := &Probe{root: defaultRoot, profilePath: defaultProfilePath}
	for _, o := range opts {
		o(p)
	}
	if p.sourceID == "" {
		if id, err := host.HostID(); err == nil && id != "" {
			p.sourceID = id
		} else {
			p.sourceID = "unknown-host"
		}
	}
	return p
}

// CurrentSample reads capacity, charge status and the platform power profile.
func (p *Probe) CurrentSample(ctx context.Context) (domain.Sample, error) {
	if err := ctx.Err(); err != nil {
		return domain.Sample{}, err
	}
	dir, err := p.findBattery()
	if err != nil {
		return domain.Sample{}, err
	}

	s := domain.Sample{
		CapturedAt:   time.Now(),
		Level:        domain.LevelUnknown,
		PowerState:   domain.PowerUnknown,
		SourceID:     p.sourceID,
		LowPowerMode: p.lowPowerMode(),
	}
	if raw, err := readAttr(dir, "capacity"); err == nil {
		if pct, err := strconv.Atoi(raw); err == nil && pct >= 0 && pct <= 100 {
			s.Level = float64(pct) / 100
		}
	}
	if raw, err := readAttr(dir, "status"); err == nil {
		s.PowerState = mapStatus(raw)
	}
	return s, nil
}

// Events reports nil: sysfs offers no push notifications, only polling.
func (p *Probe) Events() <-chan struct{} { return nil }

func (p *Probe) findBattery() (string, error) {
	entries, err := os.ReadDir(p.root)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", p.root, err)
	}
	for _, e := range entries {
		dir := filepath.Join(p.root, e.Name())
		typ, err := readAttr(dir, "type")
		if err != nil {
			continue
		}
		if typ == "Battery" {
			return dir, nil
		}
	}
	return "", ErrNoBattery
}

func (p *Probe) lowPowerMode() bool {
	raw, err := os.ReadFile(p.profilePath)
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(raw)) == "low-power"
}

func readAttr(dir, name string) (string, error) {
	b, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func mapStatus(raw string) domain.PowerState {
	switch raw {
	case "Charging":
		return domain.PowerCharging
	case "Discharging", "Not charging":
		return domain.PowerUnplugged
	case "Full":
		return domain.PowerFull
	default:
		return domain.PowerUnknown
	}
}
