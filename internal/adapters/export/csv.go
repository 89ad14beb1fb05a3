// Package export writes the enriched classified pitch table as flat CSV,
// the sole artifact the pipeline commits to producing.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/statcraft/zoneshift/internal/domain/model"
)

// Base columns, in fixed order. Uninterpreted source columns follow,
// sorted by name, so identical input always produces identical bytes.
var baseColumns = []string{
	"batter_id",
	"game_pk",
	"at_bat_number",
	"plate_x_in",
	"plate_z_in",
	"batter_height_in",
	"legacy_bottom_in",
	"legacy_top_in",
	"legacy_height_in",
	"legacy_area_sqin",
	"prop_bottom_in",
	"prop_top_in",
	"prop_height_in",
	"prop_area_sqin",
	"in_legacy",
	"in_proportional",
	"transition",
	"description",
	"events",
	"estimated_woba",
	"delta_run_exp",
	"release_speed",
	"inning_topbot",
	"home_team",
	"away_team",
}

// num renders a float at full precision, with missing values rendered
// as blanks rather than "NaN".
func num(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// extraColumns returns the sorted union of uninterpreted column names.
func extraColumns(pitches []model.ClassifiedPitch) []string {
	seen := make(map[string]struct{})
	for _, p := range pitches {
		for k := range p.Extras {
			seen[k] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Write emits the classified table to w, one row per pitch.
func Write(w io.Writer, pitches []model.ClassifiedPitch) error {
	extras := extraColumns(pitches)
	cw := csv.NewWriter(w)

	header := append(append([]string{}, baseColumns...), extras...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}

	row := make([]string, 0, len(header))
	for _, p := range pitches {
		row = row[:0]
		row = append(row,
			strconv.Itoa(p.BatterID),
			strconv.FormatInt(p.GamePK, 10),
			strconv.Itoa(p.AtBat),
			num(p.PlateXIn),
			num(p.PlateZIn),
			num(p.BatterHeightIn),
			num(p.Legacy.Bottom),
			num(p.Legacy.Top),
			num(p.Legacy.Height),
			num(p.Legacy.Area),
			num(p.Proportional.Bottom),
			num(p.Proportional.Top),
			num(p.Proportional.Height),
			num(p.Proportional.Area),
			strconv.FormatBool(p.InLegacy),
			strconv.FormatBool(p.InProportional),
			p.Transition.String(),
			p.Description,
			p.Event,
			num(p.EstimatedWOBA),
			num(p.DeltaRunExp),
			num(p.ReleaseSpeed),
			p.InningTopBot,
			p.HomeTeam,
			p.AwayTeam,
		)
		for _, k := range extras {
			row = append(row, p.Extras[k])
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("%w: %w", ErrWrite, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// WriteFile writes the classified table to path, creating parent
// directories as needed.
func WriteFile(path string, pitches []model.ClassifiedPitch) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: %w", ErrWrite, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	defer f.Close()

	if err := Write(f, pitches); err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}
