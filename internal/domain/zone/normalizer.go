// Package zone converts raw pitch measurements to inches and derives the
// two strike-zone definitions per batter.
package zone

import (
	"fmt"

	"github.com/statcraft/zoneshift/internal/domain/model"
)

const inchesPerFoot = 12.0

// Option applies a configuration option to the Normalizer.
type Option func(*Normalizer)

// WithFractions sets the proportional-zone height fractions.
func WithFractions(bottom, top float64) Option {
	return func(n *Normalizer) {
		if bottom > 0 && top > bottom {
			n.bottomFraction = bottom
			n.topFraction = top
		}
	}
}

// WithPlateWidth sets the plate width used for zone area.
func WithPlateWidth(width float64) Option {
	return func(n *Normalizer) {
		if width > 0 {
			n.plateWidth = width
		}
	}
}

// Normalizer derives per-batter zone geometry. The fractions are the
// policy being studied; defaults match the proposed rule.
type Normalizer struct {
	bottomFraction float64
	topFraction    float64
	plateWidth     float64
}

// New creates a Normalizer with the default rule constants.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		bottomFraction: 0.27,
		topFraction:    0.535,
		plateWidth:     17,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// build constructs a Zone from vertical bounds in inches, rejecting
// malformed geometry.
func (n *Normalizer) build(bottom, top float64) (model.Zone, error) {
	if top <= bottom {
		return model.Zone{}, fmt.Errorf("%w: bottom=%.3f top=%.3f", ErrMalformedZone, bottom, top)
	}
	h := top - bottom
	return model.Zone{
		Bottom: bottom,
		Top:    top,
		Height: h,
		Area:   h * n.plateWidth,
	}, nil
}

// Normalize converts the pitch's raw measurements to inches and attaches
// both zone definitions. heightIn is the batter's height in inches and
// must come from the biometric join; callers must not pass a default.
//
// Pitches missing either reported zone bound are rejected with
// ErrMissingBounds. Full floating precision is retained; nothing is
// rounded.
func (n *Normalizer) Normalize(p model.Pitch, heightIn float64) (model.Enriched, error) {
	if !p.HasBounds() {
		return model.Enriched{}, ErrMissingBounds
	}
	if heightIn <= 0 {
		return model.Enriched{}, fmt.Errorf("%w: height=%.1f", ErrInvalidHeight, heightIn)
	}

	legacy, err := n.build(p.SZBot*inchesPerFoot, p.SZTop*inchesPerFoot)
	if err != nil {
		return model.Enriched{}, err
	}
	prop, err := n.build(n.bottomFraction*heightIn, n.topFraction*heightIn)
	if err != nil {
		return model.Enriched{}, err
	}

	return model.Enriched{
		Pitch:          p,
		BatterHeightIn: heightIn,
		PlateXIn:       p.PlateX * inchesPerFoot,
		PlateZIn:       p.PlateZ * inchesPerFoot,
		Legacy:         legacy,
		Proportional:   prop,
	}, nil
}
