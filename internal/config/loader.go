package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const dateLayout = "2006-01-02"

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if ZONESHIFT_CONFIG is set
//  3. env (prefix ZONESHIFT_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("ZONESHIFT_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: ZONESHIFT_SOURCE_URL, ZONESHIFT_CHUNK_DAYS, ...
	// Map env keys like ZONESHIFT_CHUNK_DAYS -> chunk_days (flat keys).
	// Nested policy keys use a double underscore: ZONESHIFT_ZONE__MIN_SAMPLE.
	envProvider := env.Provider("ZONESHIFT_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "zoneshift_")
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.SourceURL == "" {
		return fmt.Errorf("%w: source_url must not be empty", ErrInvalidConfig)
	}
	start, err := time.Parse(dateLayout, c.StartDate)
	if err != nil {
		return fmt.Errorf("%w: start_date: %w", ErrInvalidConfig, err)
	}
	end, err := time.Parse(dateLayout, c.EndDate)
	if err != nil {
		return fmt.Errorf("%w: end_date: %w", ErrInvalidConfig, err)
	}
	if end.Before(start) {
		return fmt.Errorf("%w: end_date precedes start_date", ErrInvalidConfig)
	}
	if c.ChunkDays <= 0 {
		return fmt.Errorf("%w: chunk_days must be positive", ErrInvalidConfig)
	}
	if c.FetchConcurrency <= 0 {
		return fmt.Errorf("%w: fetch_concurrency must be positive", ErrInvalidConfig)
	}
	z := c.Zone
	if z.BottomFraction <= 0 || z.TopFraction <= z.BottomFraction {
		return fmt.Errorf("%w: zone fractions must satisfy 0 < bottom < top", ErrInvalidConfig)
	}
	if z.PlateWidthIn <= 0 || z.PlateHalfWidthIn <= 0 {
		return fmt.Errorf("%w: plate dimensions must be positive", ErrInvalidConfig)
	}
	if z.MinSample < 0 || z.RankK <= 0 {
		return fmt.Errorf("%w: min_sample must be non-negative and rank_k positive", ErrInvalidConfig)
	}
	return nil
}

// DateRange returns the parsed start and end dates. Load guarantees they
// parse, so errors only occur on a hand-built Config.
func (c *Config) DateRange() (time.Time, time.Time, error) {
	start, err := time.Parse(dateLayout, c.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start_date: %w", ErrInvalidConfig, err)
	}
	end, err := time.Parse(dateLayout, c.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end_date: %w", ErrInvalidConfig, err)
	}
	return start, end, nil
}
