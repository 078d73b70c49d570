// Package config loads worker settings from TOML.
//
//	[worker]
//	name = "ingest"
//	history_capacity = 200
//	auto_start = true
//
//	[log]
//	level = "debug"   # debug | info | warn | error
//	backend = "zap"   # std | zap | none
//
//	[metrics]
//	enabled = true
//	namespace = "ingest"
//	duration_buckets = [0.01, 0.1, 1]
//	poll_interval = "5s"
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/Swind/go-task-queue/core"
	"github.com/Swind/go-task-queue/logging/zaplog"
	taskprom "github.com/Swind/go-task-queue/observability/prometheus"
	prom "github.com/prometheus/client_golang/prometheus"
)

// Log backends.
const (
	BackendStd  = "std"
	BackendZap  = "zap"
	BackendNone = "none"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// File is the decoded TOML document.
type File struct {
	Worker  WorkerSection  `toml:"worker"`
	Log     LogSection     `toml:"log"`
	Metrics MetricsSection `toml:"metrics"`
}

type WorkerSection struct {
	Name            string `toml:"name"`
	HistoryCapacity int    `toml:"history_capacity"`
	AutoStart       bool   `toml:"auto_start"`
}

type LogSection struct {
	Level   string `toml:"level"`
	Backend string `toml:"backend"`
}

type MetricsSection struct {
	Enabled         bool      `toml:"enabled"`
	Namespace       string    `toml:"namespace"`
	DurationBuckets []float64 `toml:"duration_buckets"`
	PollInterval    Duration  `toml:"poll_interval"`
}

// Duration decodes TOML strings such as "250ms" or "5s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the settings used for keys a file leaves out.
func Default() *File {
	return &File{
		Worker: WorkerSection{
			Name:            "task-queue-worker",
			HistoryCapacity: 100,
		},
		Log: LogSection{
			Level:   "info",
			Backend: BackendStd,
		},
		Metrics: MetricsSection{
			Namespace:    "taskqueue",
			PollInterval: Duration{time.Second},
		},
	}
}

// Load reads and validates the TOML file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return f, nil
}

// Parse decodes and validates TOML data on top of Default().
func Parse(data []byte) (*File, error) {
	f := Default()
	md, err := toml.Decode(string(data), f)
	if err != nil {
		return nil, fmt.Errorf("decode toml: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%w: unknown key %q", ErrInvalidConfig, undecoded[0].String())
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Validate checks value ranges and enumerations.
func (f *File) Validate() error {
	if f.Worker.HistoryCapacity < 0 {
		return fmt.Errorf("%w: worker.history_capacity must be >= 0, got %d", ErrInvalidConfig, f.Worker.HistoryCapacity)
	}
	if _, err := core.ParseLogLevel(f.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %v", ErrInvalidConfig, err)
	}
	switch f.Log.Backend {
	case "", BackendStd, BackendZap, BackendNone:
	default:
		return fmt.Errorf("%w: log.backend must be std, zap or none, got %q", ErrInvalidConfig, f.Log.Backend)
	}
	if f.Metrics.PollInterval.Duration < 0 {
		return fmt.Errorf("%w: metrics.poll_interval must not be negative", ErrInvalidConfig)
	}
	for i := 1; i < len(f.Metrics.DurationBuckets); i++ {
		if f.Metrics.DurationBuckets[i] <= f.Metrics.DurationBuckets[i-1] {
			return fmt.Errorf("%w: metrics.duration_buckets must be increasing", ErrInvalidConfig)
		}
	}
	return nil
}

// BuildLogger builds the configured logger backend.
func (f *File) BuildLogger() (core.Logger, error) {
	level, err := core.ParseLogLevel(f.Log.Level)
	if err != nil {
		return nil, err
	}
	switch f.Log.Backend {
	case "", BackendStd:
		return core.NewDefaultLoggerWithLevel(level), nil
	case BackendZap:
		l, err := zaplog.NewProduction(level)
		if err != nil {
			return nil, fmt.Errorf("build zap logger: %w", err)
		}
		return l, nil
	case BackendNone:
		return core.NewNoOpLogger(), nil
	default:
		return nil, fmt.Errorf("%w: unknown log backend %q", ErrInvalidConfig, f.Log.Backend)
	}
}

// BuildMetrics registers a MetricsExporter on reg when metrics are enabled;
// otherwise it returns core.NilMetrics.
func (f *File) BuildMetrics(reg prom.Registerer) (core.Metrics, error) {
	if !f.Metrics.Enabled {
		return &core.NilMetrics{}, nil
	}
	exporter, err := taskprom.NewMetricsExporter(f.Metrics.Namespace, reg, taskprom.ExporterOptions{
		DurationBuckets: f.Metrics.DurationBuckets,
	})
	if err != nil {
		return nil, err
	}
	return exporter, nil
}

// WorkerConfig assembles a core.WorkerConfig from the file. Metrics
// collectors are registered on reg (nil means the Prometheus default registerer).
func (f *File) WorkerConfig(reg prom.Registerer) (*core.WorkerConfig, error) {
	logger, err := f.BuildLogger()
	if err != nil {
		return nil, err
	}
	metrics, err := f.BuildMetrics(reg)
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	return &core.WorkerConfig{
		Name:            f.Worker.Name,
		HistoryCapacity: f.Worker.HistoryCapacity,
		AutoStart:       f.Worker.AutoStart,
		Logger:          logger,
		Metrics:         metrics,
	}, nil
}

// SnapshotPoller returns a poller for w when metrics are enabled, or nil.
// A nil w yields a poller with no workers; add them with AddWorker.
// The caller starts and stops it.
func (f *File) SnapshotPoller(reg prom.Registerer, w *core.TaskQueueWorker) (*taskprom.SnapshotPoller, error) {
	if !f.Metrics.Enabled {
		return nil, nil
	}
	p, err := taskprom.NewSnapshotPoller(f.Metrics.Namespace, reg, f.Metrics.PollInterval.Duration)
	if err != nil {
		return nil, err
	}
	if w != nil {
		p.AddWorker(w.Name(), w)
	}
	return p, nil
}
