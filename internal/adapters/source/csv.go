package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/statcraft/zoneshift/internal/domain/model"
)

// Columns the pipeline interprets. Everything else in the feed passes
// through opaquely via Extras.
var interpreted = map[string]struct{}{
	"batter":                          {},
	"game_pk":                         {},
	"at_bat_number":                   {},
	"plate_x":                         {},
	"plate_z":                         {},
	"sz_bot":                          {},
	"sz_top":                          {},
	"description":                     {},
	"events":                          {},
	"estimated_woba_using_speedangle": {},
	"delta_run_exp":                   {},
	"release_speed":                   {},
	"inning_topbot":                   {},
	"home_team":                       {},
	"away_team":                       {},
}

// floatOrNaN parses a float field, mapping blanks and junk to NaN so
// missing values stay visibly missing.
func floatOrNaN(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// ParseCSV decodes a per-pitch CSV page into Pitch records. The header
// drives column lookup; column order and extra columns are tolerated.
// Rows without a numeric batter id are unusable and skipped.
func ParseCSV(r io.Reader) ([]model.Pitch, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	head, err := cr.Read()
	if err == io.EOF {
		return nil, nil // empty page, not an error
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadCSV, err)
	}
	cols := make([]string, len(head))
	idx := make(map[string]int, len(head))
	for i, name := range head {
		name = strings.TrimSpace(strings.ToLower(name))
		cols[i] = name
		idx[name] = i
	}
	if _, ok := idx["batter"]; !ok {
		return nil, fmt.Errorf("%w: missing column %q", ErrBadCSV, "batter")
	}

	field := func(record []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	var pitches []model.Pitch
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadCSV, err)
		}

		batter, err := strconv.Atoi(strings.TrimSpace(field(record, "batter")))
		if err != nil {
			continue
		}
		gamePK, _ := strconv.ParseInt(strings.TrimSpace(field(record, "game_pk")), 10, 64)
		atBat, _ := strconv.Atoi(strings.TrimSpace(field(record, "at_bat_number")))

		p := model.Pitch{
			BatterID:      batter,
			GamePK:        gamePK,
			AtBat:         atBat,
			PlateX:        floatOrNaN(field(record, "plate_x")),
			PlateZ:        floatOrNaN(field(record, "plate_z")),
			SZBot:         floatOrNaN(field(record, "sz_bot")),
			SZTop:         floatOrNaN(field(record, "sz_top")),
			Description:   strings.TrimSpace(field(record, "description")),
			Event:         strings.TrimSpace(field(record, "events")),
			EstimatedWOBA: floatOrNaN(field(record, "estimated_woba_using_speedangle")),
			DeltaRunExp:   floatOrNaN(field(record, "delta_run_exp")),
			ReleaseSpeed:  floatOrNaN(field(record, "release_speed")),
			InningTopBot:  strings.TrimSpace(field(record, "inning_topbot")),
			HomeTeam:      strings.TrimSpace(field(record, "home_team")),
			AwayTeam:      strings.TrimSpace(field(record, "away_team")),
		}

		for i, name := range cols {
			if _, known := interpreted[name]; known || i >= len(record) {
				continue
			}
			if p.Extras == nil {
				p.Extras = make(map[string]string)
			}
			p.Extras[name] = record[i]
		}
		pitches = append(pitches, p)
	}
	return pitches, nil
}
