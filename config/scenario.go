// Package config loads and validates the YAML scenario file describing one
// simulation run: PON physical/protocol constants, traffic profile, grant
// policy selection, and the per-load measurement sweep.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is the top-level configuration document, grounded on
// conf_001.h's compile-time constants and test_001.h's sweep parameters —
// both made runtime-configurable here instead of requiring a recompile per
// scenario.
type Scenario struct {
	NumLLID    int `yaml:"num_llid"`
	BufferSize int `yaml:"buffer_size"`
	MaxSlot    int `yaml:"max_slot"`

	OLTHWProcessDelay int64 `yaml:"olt_hw_process_delay_ns"`
	ONUHWProcessDelay int64 `yaml:"onu_hw_process_delay_ns"`
	GuardBandTime     int64 `yaml:"guard_band_time_ns"`

	PONMinLinkDistance int   `yaml:"pon_min_link_distance_m"`
	PONMaxLinkDistance int   `yaml:"pon_max_link_distance_m"`
	FiberDelay         int64 `yaml:"fiber_delay_ns_per_m"`

	PONByteTime int64 `yaml:"pon_byte_time_ns"`
	UNIByteTime int64 `yaml:"uni_byte_time_ns"`

	PacketOverhead int `yaml:"packet_overhead"`
	MinPacketSize  int `yaml:"min_packet_size"`
	MaxPacketSize  int `yaml:"max_packet_size"`
	MPCPPacketSize int `yaml:"mpcp_packet_size"`

	LLIDLoad      float64 `yaml:"llid_load"`
	BurstPoolSize int     `yaml:"burst_pool_size"`
	MeanBurstSize float64 `yaml:"mean_burst_size"`

	// TrafficType selects the ON/OFF stream variant: "pareto", "exponential",
	// "cbr", or "video".
	TrafficType string `yaml:"traffic_type"`

	// GrantPolicy selects one of epon's six GrantPolicy implementations by
	// name: "fixed", "gated", "limited", "constant_credit", "linear_credit",
	// "elastic".
	GrantPolicy string `yaml:"grant_policy"`

	NumONU      int     `yaml:"num_onu"`
	Seed        int64   `yaml:"seed"`
	NumTest     int     `yaml:"num_test"`
	MinLoad     float64 `yaml:"min_load"`
	MaxLoad     float64 `yaml:"max_load"`
	PacketLimit int     `yaml:"packet_limit"`
	WarmupTime  int64   `yaml:"warmup_time_ns"`

	StopOnWarning bool `yaml:"stop_on_warning"`
}

// Default returns the reference scenario from conf_001.h/test_001.h.
func Default() *Scenario {
	return &Scenario{
		NumLLID:    16,
		BufferSize: 1 << 20,
		MaxSlot:    15500,

		OLTHWProcessDelay: 16384,
		ONUHWProcessDelay: 16384,
		GuardBandTime:     1000,

		PONMinLinkDistance: 500,
		PONMaxLinkDistance: 20000,
		FiberDelay:         5,

		PONByteTime: 8,
		UNIByteTime: 80,

		PacketOverhead: 20,
		MinPacketSize:  64,
		MaxPacketSize:  1518,
		MPCPPacketSize: 64,

		LLIDLoad:      0.05,
		BurstPoolSize: 128,
		MeanBurstSize: 3200,

		TrafficType: "pareto",
		GrantPolicy: "limited",

		NumONU:      16,
		Seed:        12345,
		NumTest:     18,
		MinLoad:     0.05,
		MaxLoad:     0.90,
		PacketLimit: 1000000,
		WarmupTime:  10_000_000_000, // 10 seconds, at 1 tick == 1ns

		StopOnWarning: false,
	}
}

// Load reads a YAML scenario file at path, filling every unset field from
// Default, and returns an error the caller can present directly (a
// malformed scenario file is a caller-correctable condition, not a panic).
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	s := Default()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return s, nil
}

// Validate checks range and positivity constraints a malformed YAML
// document could otherwise smuggle past construction.
func (s *Scenario) Validate() error {
	switch {
	case s.NumLLID <= 0:
		return fmt.Errorf("num_llid must be positive, got %d", s.NumLLID)
	case s.NumONU <= 0 || s.NumONU > s.NumLLID:
		return fmt.Errorf("num_onu must be in (0, num_llid], got %d", s.NumONU)
	case s.BufferSize <= 0:
		return fmt.Errorf("buffer_size must be positive, got %d", s.BufferSize)
	case s.MaxSlot <= 0:
		return fmt.Errorf("max_slot must be positive, got %d", s.MaxSlot)
	case s.MinPacketSize <= 0 || s.MaxPacketSize < s.MinPacketSize:
		return fmt.Errorf("min_packet_size/max_packet_size out of order: %d/%d", s.MinPacketSize, s.MaxPacketSize)
	case s.NumTest <= 0:
		return fmt.Errorf("num_test must be positive, got %d", s.NumTest)
	case s.MinLoad <= 0 || s.MaxLoad <= s.MinLoad || s.MaxLoad >= 1:
		return fmt.Errorf("min_load/max_load out of range: %v/%v", s.MinLoad, s.MaxLoad)
	case s.PacketLimit <= 0:
		return fmt.Errorf("packet_limit must be positive, got %d", s.PacketLimit)
	case s.BurstPoolSize <= 0:
		return fmt.Errorf("burst_pool_size must be positive, got %d", s.BurstPoolSize)
	}
	switch s.TrafficType {
	case "pareto", "exponential", "cbr", "video":
	default:
		return fmt.Errorf("unknown traffic_type %q", s.TrafficType)
	}
	switch s.GrantPolicy {
	case "fixed", "gated", "limited", "constant_credit", "linear_credit", "elastic":
	default:
		return fmt.Errorf("unknown grant_policy %q", s.GrantPolicy)
	}
	return nil
}
