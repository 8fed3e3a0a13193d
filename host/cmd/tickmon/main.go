// tickmon attaches to a target board's serial port, decodes the counter
// report stream and prints timeline statistics: reconstructed tick count,
// observed tick rate against nominal, wrap count and report jitter.

package main

import (
	"bytes"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"tickhal/core"
	"tickhal/host/serial"
	"tickhal/host/trace"
	"tickhal/protocol"
)

type monConfig struct {
	Device      string `toml:"device,omitempty"`
	Baud        int    `toml:"baud,omitempty"`
	FrequencyHz uint32 `toml:"frequency_hz,omitempty"`
	MetricsAddr string `toml:"metrics_address,omitempty"`
	LogInterval string `toml:"log_interval,omitempty"`
}

// monOptions is the effective monitor configuration after flags and the
// configuration file are merged.
type monOptions struct {
	device      string
	baud        int
	freqHz      uint
	metricsAddr string
	logInterval time.Duration
}

// applyConfig fills opts from cfg for every setting the user did not pass
// as a flag. Flags always win; isSet reports whether a flag was given on
// the command line.
func applyConfig(opts *monOptions, cfg monConfig, isSet func(name string) bool) error {
	if cfg.Device != "" && !isSet("device") {
		opts.device = cfg.Device
	}
	if cfg.Baud != 0 && !isSet("baud") {
		opts.baud = cfg.Baud
	}
	if cfg.FrequencyHz != 0 && !isSet("freq") {
		opts.freqHz = uint(cfg.FrequencyHz)
	}
	if cfg.MetricsAddr != "" && !isSet("metrics") {
		opts.metricsAddr = cfg.MetricsAddr
	}
	if cfg.LogInterval != "" && !isSet("log-interval") {
		d, err := time.ParseDuration(cfg.LogInterval)
		if err != nil {
			return fmt.Errorf("bad log_interval: %w", err)
		}
		opts.logInterval = d
	}
	return nil
}

type monMetrics struct {
	frames    prometheus.Counter
	crcErrors prometheus.Counter
	seqGaps   prometheus.Counter
	overflows prometheus.Gauge
	rateHz    prometheus.Gauge
	drift     prometheus.Gauge
}

var log *zap.Logger

func initLogger(verbose bool) {
	c := zap.NewDevelopmentConfig()
	c.DisableStacktrace = true
	if !verbose {
		c.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	c.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	var err error
	log, err = c.Build()
	if err != nil {
		panic(err)
	}
}

func newMonMetrics() *monMetrics {
	return &monMetrics{
		frames: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tickmon_frames_total",
			Help: "Report frames decoded from the serial stream",
		}),
		crcErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tickmon_crc_errors_total",
			Help: "Frames discarded for CRC mismatch",
		}),
		seqGaps: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tickmon_seq_gaps_total",
			Help: "Frames lost according to sequence numbers",
		}),
		overflows: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "tickmon_counter_overflows",
			Help: "Counter overflows reported by the target",
		}),
		rateHz: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "tickmon_observed_rate_hz",
			Help: "Tick rate observed against host wall time",
		}),
		drift: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "tickmon_rate_drift",
			Help: "Relative error of observed rate against nominal",
		}),
	}
}

func loadConfig(configFile string) monConfig {
	var cfg monConfig
	if configFile == "" {
		return cfg
	}
	raw, err := os.ReadFile(configFile)
	if err != nil {
		log.Fatal("failed to load configuration", zap.Error(err))
	}
	err = toml.NewDecoder(bytes.NewReader(raw)).DisallowUnknownFields().Decode(&cfg)
	if err != nil {
		log.Fatal("failed to decode configuration", zap.Error(err))
	}
	return cfg
}

func runMetrics(addr string) {
	http.Handle("/metrics", promhttp.Handler())
	err := http.ListenAndServe(addr, nil)
	log.Fatal("failed to serve metrics", zap.Error(err))
}

func runMonitor(port serial.Port, freq core.Frequency, logInterval time.Duration, m *monMetrics) error {
	dec := protocol.NewDecoder()
	tracker := trace.NewTracker(freq)

	var prev protocol.DecoderStats
	nextLog := time.Now().Add(logInterval)

	buf := make([]byte, 512)
	for {
		n, err := port.Read(buf)
		if err != nil {
			return fmt.Errorf("serial read: %w", err)
		}
		now := time.Now()
		for _, r := range dec.Feed(buf[:n]) {
			tracker.Observe(now, r)
			m.overflows.Set(float64(r.Overflows))
		}

		ds := dec.Stats()
		m.frames.Add(float64(ds.Frames - prev.Frames))
		m.crcErrors.Add(float64(ds.CRCErrors - prev.CRCErrors))
		m.seqGaps.Add(float64(ds.SeqGaps - prev.SeqGaps))
		prev = ds

		if now.After(nextLog) {
			nextLog = now.Add(logInterval)
			s := tracker.Stats()
			m.rateHz.Set(s.ObservedHz)
			m.drift.Set(tracker.Drift())
			log.Info("timeline",
				zap.Uint64("ticks", s.ElapsedTicks),
				zap.Uint64("wraps", s.Wraps),
				zap.Uint32("overflows", s.Overflows),
				zap.Float64("observed_hz", s.ObservedHz),
				zap.Float64("drift", tracker.Drift()),
				zap.Duration("jitter_p50", s.JitterP50),
				zap.Duration("jitter_p99", s.JitterP99),
				zap.Uint64("frames", ds.Frames),
				zap.Uint64("crc_errors", ds.CRCErrors),
				zap.Uint64("seq_gaps", ds.SeqGaps),
			)
		}
	}
}

func main() {
	var (
		configFile string
		verbose    bool
		opts       monOptions
	)

	flag.StringVar(&configFile, "config", "", "TOML configuration file")
	flag.StringVar(&opts.device, "device", "", "serial device, e.g. /dev/ttyACM0")
	flag.IntVar(&opts.baud, "baud", 250000, "serial baud rate")
	flag.UintVar(&opts.freqHz, "freq", uint(core.Freq1MHz), "nominal counter frequency in Hz")
	flag.StringVar(&opts.metricsAddr, "metrics", "", "address to serve Prometheus metrics on")
	flag.DurationVar(&opts.logInterval, "log-interval", 5*time.Second, "interval between timeline log lines")
	flag.BoolVar(&verbose, "verbose", false, "enable debug logging")
	flag.Parse()

	initLogger(verbose)
	defer func() { _ = log.Sync() }()

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	cfg := loadConfig(configFile)
	if err := applyConfig(&opts, cfg, func(name string) bool { return set[name] }); err != nil {
		log.Fatal("bad configuration", zap.Error(err))
	}
	if opts.device == "" {
		log.Fatal("no serial device given; use -device or a configuration file")
	}

	m := newMonMetrics()
	if opts.metricsAddr != "" {
		go runMetrics(opts.metricsAddr)
	}

	port, err := serial.Open(&serial.Config{Device: opts.device, Baud: opts.baud})
	if err != nil {
		log.Fatal("failed to open serial port", zap.Error(err))
	}
	defer port.Close()

	log.Info("monitoring",
		zap.String("device", opts.device),
		zap.Int("baud", opts.baud),
		zap.Uint("frequency_hz", opts.freqHz),
	)

	if err := runMonitor(port, core.Frequency(opts.freqHz), opts.logInterval, m); err != nil {
		log.Fatal("monitor stopped", zap.Error(err))
	}
}
