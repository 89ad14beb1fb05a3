// Package classify labels enriched pitches against both zone definitions.
package classify

import (
	"github.com/statcraft/zoneshift/internal/domain/model"
)

// Option applies a configuration option to the Classifier.
type Option func(*Classifier)

// WithHalfWidth sets the horizontal half-width of the zone in inches.
func WithHalfWidth(halfWidth float64) Option {
	return func(c *Classifier) {
		if halfWidth > 0 {
			c.halfWidth = halfWidth
		}
	}
}

// Classifier evaluates zone membership. The horizontal check is a fixed
// half-width centered on plate x = 0; all bounds are exclusive, so a
// pitch exactly on a line is out.
type Classifier struct {
	halfWidth float64
}

// New creates a Classifier with the regulation half-width.
func New(opts ...Option) *Classifier {
	c := &Classifier{halfWidth: 8.5}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// inZone reports strict membership of the position in the zone.
func (c *Classifier) inZone(xIn, zIn float64, z model.Zone) bool {
	return xIn > -c.halfWidth && xIn < c.halfWidth &&
		zIn > z.Bottom && zIn < z.Top
}

// transition derives the zone-change category from the two flags.
func transition(inLegacy, inProportional bool) model.Transition {
	switch {
	case inLegacy && !inProportional:
		return model.NewlyExcluded
	case !inLegacy && inProportional:
		return model.NewlyIncluded
	case inLegacy:
		return model.StillIn
	default:
		return model.StillOut
	}
}

// Classify evaluates one enriched pitch against both zone definitions.
// The two flags are independent; a pitch may be in neither, either, or
// both.
func (c *Classifier) Classify(e model.Enriched) model.ClassifiedPitch {
	inLegacy := c.inZone(e.PlateXIn, e.PlateZIn, e.Legacy)
	inProp := c.inZone(e.PlateXIn, e.PlateZIn, e.Proportional)
	return model.ClassifiedPitch{
		Enriched:       e,
		InLegacy:       inLegacy,
		InProportional: inProp,
		Transition:     transition(inLegacy, inProp),
	}
}

// ClassifyAll classifies a batch, preserving input order.
func (c *Classifier) ClassifyAll(enriched []model.Enriched) []model.ClassifiedPitch {
	out := make([]model.ClassifiedPitch, 0, len(enriched))
	for _, e := range enriched {
		out = append(out, c.Classify(e))
	}
	return out
}
