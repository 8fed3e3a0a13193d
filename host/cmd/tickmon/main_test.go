package main

import (
	"testing"
	"time"
)

func isSetNone(string) bool { return false }

func TestApplyConfigFillsUnsetFlags(t *testing.T) {
	opts := monOptions{
		baud:        250000,
		freqHz:      1000000,
		logInterval: 5 * time.Second,
	}
	cfg := monConfig{
		Device:      "/dev/ttyACM0",
		Baud:        115200,
		FrequencyHz: 16000000,
		MetricsAddr: "127.0.0.1:9100",
		LogInterval: "2s",
	}

	if err := applyConfig(&opts, cfg, isSetNone); err != nil {
		t.Fatalf("applyConfig failed: %v", err)
	}
	if opts.device != "/dev/ttyACM0" {
		t.Errorf("device = %q, want /dev/ttyACM0", opts.device)
	}
	if opts.baud != 115200 {
		t.Errorf("baud = %d, want 115200", opts.baud)
	}
	if opts.freqHz != 16000000 {
		t.Errorf("freqHz = %d, want 16000000", opts.freqHz)
	}
	if opts.metricsAddr != "127.0.0.1:9100" {
		t.Errorf("metricsAddr = %q, want 127.0.0.1:9100", opts.metricsAddr)
	}
	if opts.logInterval != 2*time.Second {
		t.Errorf("logInterval = %v, want 2s", opts.logInterval)
	}
}

func TestApplyConfigFlagsWin(t *testing.T) {
	opts := monOptions{
		device:      "/dev/ttyUSB1",
		baud:        115200,
		freqHz:      32768,
		metricsAddr: "127.0.0.1:9200",
		logInterval: time.Second,
	}
	cfg := monConfig{
		Device:      "/dev/ttyACM0",
		Baud:        250000,
		FrequencyHz: 1000000,
		MetricsAddr: "127.0.0.1:9100",
		LogInterval: "10s",
	}
	set := map[string]bool{
		"device": true, "baud": true, "freq": true,
		"metrics": true, "log-interval": true,
	}

	if err := applyConfig(&opts, cfg, func(name string) bool { return set[name] }); err != nil {
		t.Fatalf("applyConfig failed: %v", err)
	}
	if opts.device != "/dev/ttyUSB1" {
		t.Errorf("device = %q, flag value should win", opts.device)
	}
	if opts.baud != 115200 {
		t.Errorf("baud = %d, flag value should win", opts.baud)
	}
	if opts.freqHz != 32768 {
		t.Errorf("freqHz = %d, flag value should win", opts.freqHz)
	}
	if opts.metricsAddr != "127.0.0.1:9200" {
		t.Errorf("metricsAddr = %q, flag value should win", opts.metricsAddr)
	}
	if opts.logInterval != time.Second {
		t.Errorf("logInterval = %v, flag value should win", opts.logInterval)
	}
}

func TestApplyConfigBadInterval(t *testing.T) {
	var opts monOptions
	cfg := monConfig{LogInterval: "soon"}
	if err := applyConfig(&opts, cfg, isSetNone); err == nil {
		t.Fatal("expected error for unparseable log_interval")
	}
}
