// Package model contains domain models passed between pipeline stages.
package model

import (
	"fmt"
	"math"
)

// Pitch represents one tracked pitch as returned by the tracking source.
// Positional fields are in the source's native unit (feet).
// Continuous metrics that the source left blank are NaN, never zero.
// A Pitch is immutable once fetched; enrichment happens on copies.
type Pitch struct {
	BatterID int   // numeric batter identifier from the tracking source
	GamePK   int64 // game identifier
	AtBat    int   // at-bat number within the game

	PlateX float64 // horizontal position at the plate, feet, 0 = plate center
	PlateZ float64 // vertical position at the plate, feet
	SZBot  float64 // reported strike-zone bottom for this batter, feet
	SZTop  float64 // reported strike-zone top for this batter, feet

	Description   string  // pitch outcome, e.g. "hit_into_play", "called_strike"
	Event         string  // result of the play, e.g. "single", "field_out"
	EstimatedWOBA float64 // expected wOBA from contact quality, NaN when missing
	DeltaRunExp   float64 // change in run expectancy, NaN when missing
	ReleaseSpeed  float64 // mph, NaN when missing

	InningTopBot string // "Top" or "Bot"
	HomeTeam     string
	AwayTeam     string

	// Extras carries source columns the pipeline does not interpret.
	// They are preserved verbatim for downstream consumers.
	Extras map[string]string
}

// PlateAppearanceID returns the compound game/at-bat identifier.
func (p Pitch) PlateAppearanceID() string {
	return fmt.Sprintf("%d-%d", p.GamePK, p.AtBat)
}

// BattingTeam resolves the team at bat from the inning-half flag.
// The away team bats in the top of the inning.
func (p Pitch) BattingTeam() string {
	if p.InningTopBot == "Top" {
		return p.AwayTeam
	}
	return p.HomeTeam
}

// HasBounds reports whether both reported zone bounds are present.
func (p Pitch) HasBounds() bool {
	return !math.IsNaN(p.SZBot) && !math.IsNaN(p.SZTop)
}

// Identity is a canonical subject record from the identity register.
type Identity struct {
	BatterID    int    // numeric id used by the tracking source
	SecondaryID string // legacy id used by the biometric table
	DisplayName string // "Last, First"
}

// Zone is one strike-zone definition in inches. Bottom and Top are the
// vertical bounds; Height and Area are derived at construction and a
// valid zone always has Height > 0.
type Zone struct {
	Bottom float64
	Top    float64
	Height float64
	Area   float64
}

// Enriched is a Pitch with resolved height and both zone definitions,
// all converted to inches.
type Enriched struct {
	Pitch

	BatterHeightIn float64 // batter height, inches
	PlateXIn       float64 // horizontal position, inches
	PlateZIn       float64 // vertical position, inches

	Legacy       Zone // zone as reported by the tracking source
	Proportional Zone // zone derived from batter height
}

// Transition categorizes how a pitch's zone membership changes between
// the two definitions.
type Transition int

const (
	// StillOut: outside both zones.
	StillOut Transition = iota
	// StillIn: inside both zones.
	StillIn
	// NewlyExcluded: inside the legacy zone, outside the proportional one.
	NewlyExcluded
	// NewlyIncluded: outside the legacy zone, inside the proportional one.
	NewlyIncluded
)

// String returns the export label for the transition category.
func (t Transition) String() string {
	switch t {
	case StillOut:
		return "still_out"
	case StillIn:
		return "still_in"
	case NewlyExcluded:
		return "newly_excluded"
	case NewlyIncluded:
		return "newly_included"
	default:
		return "unknown"
	}
}

// ClassifiedPitch is the terminal record of the enrichment pipeline:
// one row per pitch that survived every stage.
type ClassifiedPitch struct {
	Enriched

	InLegacy       bool
	InProportional bool
	Transition     Transition
}
