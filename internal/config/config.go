// Package config defines pipeline configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Policy holds the fixed rule-change constants under study. They live in
// one block so a sensitivity run can swap them without touching code.
type Policy struct {
	// BottomFraction and TopFraction define the proportional zone as
	// fractions of batter height.
	BottomFraction float64 `koanf:"bottom_fraction"`
	TopFraction    float64 `koanf:"top_fraction"`

	// PlateWidthIn is the plate width used for zone area.
	PlateWidthIn float64 `koanf:"plate_width_in"`

	// PlateHalfWidthIn is the horizontal half-width used for in-zone checks.
	PlateHalfWidthIn float64 `koanf:"plate_half_width_in"`

	// MinSample excludes small groups from ranked output.
	MinSample int `koanf:"min_sample"`

	// RankK caps ranked output to the top/bottom K groups.
	RankK int `koanf:"rank_k"`

	// QualifyingDescription selects the pitch outcome used for
	// outcome-statistic aggregation.
	QualifyingDescription string `koanf:"qualifying_description"`
}

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// SourceURL is the base URL of the pitch-tracking CSV search endpoint.
	SourceURL string `koanf:"source_url"`

	// StartDate and EndDate bound the fetch, inclusive, as YYYY-MM-DD.
	StartDate string `koanf:"start_date"`
	EndDate   string `koanf:"end_date"`

	// ChunkDays is the sub-range size the fetch is partitioned into.
	ChunkDays int `koanf:"chunk_days"`

	// FetchConcurrency bounds parallel sub-range requests.
	FetchConcurrency int `koanf:"fetch_concurrency"`

	// IdentityCSV is the path to the identity register
	// (mlbam_id,key_bbref,name_last,name_first).
	IdentityCSV string `koanf:"identity_csv"`

	// BiometricCSV is the path to the height table (key_bbref,height_in).
	BiometricCSV string `koanf:"biometric_csv"`

	// ExportPath is where the enriched classified table is written.
	ExportPath string `koanf:"export_path"`

	// MetricsAddr exposes Prometheus metrics when non-empty, e.g. ":9090".
	MetricsAddr string `koanf:"metrics_addr"`

	// Zone holds the rule-change policy constants.
	Zone Policy `koanf:"zone"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		SourceURL:        "https://baseballsavant.mlb.com/statcast_search/csv",
		StartDate:        "2024-03-28",
		EndDate:          "2024-09-29",
		ChunkDays:        7,
		FetchConcurrency: runtime.NumCPU(),
		IdentityCSV:      "data/register.csv",
		BiometricCSV:     "data/heights.csv",
		ExportPath:       "out/classified.csv",
		Zone: Policy{
			BottomFraction:        0.27,
			TopFraction:           0.535,
			PlateWidthIn:          17,
			PlateHalfWidthIn:      8.5,
			MinSample:             300,
			RankK:                 10,
			QualifyingDescription: "hit_into_play",
		},
	}
}
