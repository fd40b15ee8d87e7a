package buildinfo

import (
	"os"
	"runtime"
	"time"
)

// Service names this binary in health output and logs
const Service = "realtimesales"

// Build information variables set via ldflags during compilation
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

var startTime = time.Now()

// Info contains build and runtime information
type Info struct {
	Service   string        `json:"service" example:"realtimesales"`
	Version   string        `json:"version" example:"v1.0.0"`
	Commit    string        `json:"commit" example:"abc123def456"`
	BuildDate string        `json:"buildDate" example:"2025-11-22T10:00:00Z"`
	GoVersion string        `json:"goVersion" example:"go1.25.4"`
	Hostname  string        `json:"hostname" example:"app-server-01"`
	Uptime    time.Duration `json:"uptime" swaggertype:"integer" example:"3600000000000"`
}

func GetInfo() Info {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	return Info{
		Service:   Service,
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Hostname:  hostname,
		Uptime:    time.Since(startTime),
	}
}

// Fields returns the static part of Info as structured log fields
func (i Info) Fields() map[string]any {
	return map[string]any{
		"service":    i.Service,
		"version":    i.Version,
		"commit":     i.Commit,
		"build_date": i.BuildDate,
		"go_version": i.GoVersion,
		"hostname":   i.Hostname,
	}
}

// SetStartTime overrides the instant uptime is measured from
func SetStartTime(t time.Time) {
	startTime = t
}
