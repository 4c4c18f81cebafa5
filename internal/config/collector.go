package config

import (
	"flag"
	"fmt"
	"io"
	"net"
	"net/url"
	"strings"
	"time"
)

const (
	defaultListenAddr    = ":8080"
	defaultEndpoint      = "http://localhost:9090/api/telemetry"
	defaultProbe         = "sysfs"
	defaultSampleSeconds = 120
	defaultWindowSeconds = 30
	defaultAutostart     = false
)

// CollectorConfig holds the daemon's runtime settings.
type CollectorConfig struct {
	Address      string
	Endpoint     string
	DSN          string
	JournalFile  string
	Probe        string
	SampleEvery  time.Duration
	BudgetWindow time.Duration
	Autostart    bool
}

// ENV > CLI > defaults
func LoadCollectorConfig(args []string, out io.Writer) (CollectorConfig, error) {
	if out == nil {
		out = io.Discard
	}

	fs := flag.NewFlagSet("collector", flag.ContinueOnError)
	fs.SetOutput(out)

	var addrOpt string
	var endpointOpt string
	var dsnOpt string
	var fileOpt string
	var probeOpt string
	var sampleOpt int
	var windowOpt int
	var autostartOpt bool

	fs.StringVar(&addrOpt, "a", "", fmt.Sprintf("control API listen address, default: %s", defaultListenAddr))
	fs.StringVar(&endpointOpt, "e", "", fmt.Sprintf("collector endpoint URL, default: %s", defaultEndpoint))
	fs.StringVar(&dsnOpt, "d", "", "DATABASE_DSN for the Postgres delivery journal")
	fs.StringVar(&fileOpt, "f", "", "JOURNAL_FILE path for the NDJSON delivery journal")
	fs.StringVar(&probeOpt, "p", "", fmt.Sprintf("power probe kind (sysfs|sim), default: %s", defaultProbe))
	fs.IntVar(&sampleOpt, "i", -1, fmt.Sprintf("SAMPLE_INTERVAL seconds, default: %d", defaultSampleSeconds))
	fs.IntVar(&windowOpt, "w", -1, fmt.Sprintf("BUDGET_WINDOW seconds for the background lease, default: %d", defaultWindowSeconds))
	fs.BoolVar(&autostartOpt, "c", defaultAutostart, "start collecting immediately (AUTOSTART)")

	if err := fs.Parse(args); err != nil {
		return CollectorConfig{}, err
	}

	addr := normalizeListenAddr(FromEnvOrFlag("ADDRESS", addrOpt, defaultListenAddr))
	if _, port, err := net.SplitHostPort(addr); err != nil || port == "" {
		return CollectorConfig{}, fmt.Errorf("invalid listen address: %q", addr)
	}

	// The endpoint is deliberately not validated here; the transmitter
	// classifies a malformed endpoint at send time.
	endpoint := normalizeEndpointURL(FromEnvOrFlag("ENDPOINT", endpointOpt, defaultEndpoint))

	probe := strings.ToLower(FromEnvOrFlag("PROBE", probeOpt, defaultProbe))
	switch probe {
	case "sysfs", "sim":
	default:
		return CollectorConfig{}, fmt.Errorf("unknown probe kind: %q", probe)
	}

	sample, _ := FromEnvOrFlagDuration("SAMPLE_INTERVAL", sampleOpt, -1, defaultSampleSeconds)
	if sample <= 0 {
		return CollectorConfig{}, fmt.Errorf("sample interval must be > 0, got %v", sample)
	}

	window, _ := FromEnvOrFlagDuration("BUDGET_WINDOW", windowOpt, -1, defaultWindowSeconds)
	if window <= 0 {
		return CollectorConfig{}, fmt.Errorf("budget window must be > 0, got %v", window)
	}

	return CollectorConfig{
		Address:      addr,
		Endpoint:     endpoint,
		DSN:          FromEnvOrFlag("DATABASE_DSN", dsnOpt, ""),
		JournalFile:  FromEnvOrFlag("JOURNAL_FILE", fileOpt, ""),
		Probe:        probe,
		SampleEvery:  sample,
		BudgetWindow: window,
		Autostart:    FromEnvOrFlagBool("AUTOSTART", autostartOpt, defaultAutostart),
	}, nil
}

func normalizeListenAddr(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultListenAddr
	}
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		if u, err := url.Parse(s); err == nil && u.Host != "" {
			return u.Host
		}
	}
	if !strings.Contains(s, ":") {
		return ":" + s
	}
	return s
}

func normalizeEndpointURL(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return s
	}
	if strings.HasPrefix(s, ":") {
		return "http://localhost" + s
	}
	return "http://" + s
}
