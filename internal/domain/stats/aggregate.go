// Package stats aggregates classified pitches into grouped differential
// outcome statistics under the two zone definitions.
package stats

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/statcraft/zoneshift/internal/domain/model"
)

// Metric identifies one of the continuous outcome metrics.
type Metric int

const (
	MetricEstimatedValue Metric = iota // expected wOBA
	MetricRunDelta                     // change in run expectancy
	MetricSpeed                        // release speed
)

// String returns the export label for the metric.
func (m Metric) String() string {
	switch m {
	case MetricEstimatedValue:
		return "estimated_woba"
	case MetricRunDelta:
		return "delta_run_exp"
	case MetricSpeed:
		return "release_speed"
	default:
		return "unknown"
	}
}

// value selects the metric from a classified pitch. Missing values are NaN.
func (m Metric) value(p model.ClassifiedPitch) float64 {
	switch m {
	case MetricEstimatedValue:
		return p.EstimatedWOBA
	case MetricRunDelta:
		return p.DeltaRunExp
	case MetricSpeed:
		return p.ReleaseSpeed
	default:
		return math.NaN()
	}
}

// Mean is a mean over the non-missing observations of a group. OK is
// false when the group had no usable observations; Value must not be
// read in that case.
type Mean struct {
	Value float64
	N     int
	OK    bool
}

// MeanOf computes the mean ignoring NaN entries. An empty or all-missing
// input yields OK=false, never zero.
func MeanOf(values []float64) Mean {
	kept := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			kept = append(kept, v)
		}
	}
	if len(kept) == 0 {
		return Mean{}
	}
	return Mean{Value: stat.Mean(kept, nil), N: len(kept), OK: true}
}

// ZoneSummary holds per-zone outcome means for one group.
type ZoneSummary struct {
	Count          int // pitches in-zone under this definition
	EstimatedValue Mean
	RunDelta       Mean
	Speed          Mean
}

// Comparison is a two-sided mean difference with its significance label.
// OK is false when either side is undefined; such comparisons never
// enter a ranking.
type Comparison struct {
	Delta float64 // proportional − legacy
	P     float64
	Tier  string
	OK    bool
}

// Row is one aggregate output row for a grouping key.
type Row struct {
	Key          string
	Count        int // qualifying pitches in the group
	Legacy       ZoneSummary
	Proportional ZoneSummary
	Diffs        map[Metric]Comparison
}

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithMinSample sets the minimum qualifying-event count for ranking.
func WithMinSample(n int) Option {
	return func(a *Aggregator) {
		if n >= 0 {
			a.minSample = n
		}
	}
}

// WithRankK sets how many groups ranked output returns.
func WithRankK(k int) Option {
	return func(a *Aggregator) {
		if k > 0 {
			a.k = k
		}
	}
}

// WithQualifying sets the outcome descriptor that marks a qualifying event.
func WithQualifying(description string) Option {
	return func(a *Aggregator) {
		if description != "" {
			a.qualifying = description
		}
	}
}

// Aggregator computes grouped differential statistics.
type Aggregator struct {
	minSample  int
	k          int
	qualifying string
}

// New creates an Aggregator with the fixed reference policy.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{
		minSample:  300,
		k:          10,
		qualifying: "hit_into_play",
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Qualifying filters to pitches whose outcome descriptor marks a
// completed ball in play.
func (a *Aggregator) Qualifying(pitches []model.ClassifiedPitch) []model.ClassifiedPitch {
	out := make([]model.ClassifiedPitch, 0, len(pitches))
	for _, p := range pitches {
		if p.Description == a.qualifying {
			out = append(out, p)
		}
	}
	return out
}

// KeyFunc maps a classified pitch to its grouping key.
type KeyFunc func(model.ClassifiedPitch) string

// ByBatter groups by the numeric batter id.
func ByBatter() KeyFunc {
	return func(p model.ClassifiedPitch) string {
		return fmt.Sprintf("%d", p.BatterID)
	}
}

// ByBatterName groups by display name where known, falling back to the
// numeric id.
func ByBatterName(identities map[int]model.Identity) KeyFunc {
	return func(p model.ClassifiedPitch) string {
		if id, ok := identities[p.BatterID]; ok {
			return id.DisplayName
		}
		return fmt.Sprintf("%d", p.BatterID)
	}
}

// ByTeam groups by the team at bat.
func ByTeam() KeyFunc {
	return func(p model.ClassifiedPitch) string {
		return p.BattingTeam()
	}
}

// ByBatterTransition groups by batter and zone-transition category.
func ByBatterTransition() KeyFunc {
	return func(p model.ClassifiedPitch) string {
		return fmt.Sprintf("%d/%s", p.BatterID, p.Transition)
	}
}

// summarize computes the per-zone summary over one side of a group.
func summarize(pitches []model.ClassifiedPitch, inZone func(model.ClassifiedPitch) bool) (ZoneSummary, map[Metric][]float64) {
	side := make([]model.ClassifiedPitch, 0, len(pitches))
	for _, p := range pitches {
		if inZone(p) {
			side = append(side, p)
		}
	}
	values := make(map[Metric][]float64, 3)
	for _, m := range []Metric{MetricEstimatedValue, MetricRunDelta, MetricSpeed} {
		vs := make([]float64, 0, len(side))
		for _, p := range side {
			vs = append(vs, m.value(p))
		}
		values[m] = vs
	}
	return ZoneSummary{
		Count:          len(side),
		EstimatedValue: MeanOf(values[MetricEstimatedValue]),
		RunDelta:       MeanOf(values[MetricRunDelta]),
		Speed:          MeanOf(values[MetricSpeed]),
	}, values
}

func (s ZoneSummary) mean(m Metric) Mean {
	switch m {
	case MetricEstimatedValue:
		return s.EstimatedValue
	case MetricRunDelta:
		return s.RunDelta
	case MetricSpeed:
		return s.Speed
	default:
		return Mean{}
	}
}

// Rows groups qualifying pitches by key and computes both zone summaries
// plus per-metric comparisons (proportional − legacy). A side with no
// usable observations yields an undefined mean and an undefined
// comparison; neither is ever coerced to zero. Output is sorted by key
// so repeated runs are byte-identical.
func (a *Aggregator) Rows(pitches []model.ClassifiedPitch, key KeyFunc) []Row {
	groups := make(map[string][]model.ClassifiedPitch)
	for _, p := range pitches {
		k := key(p)
		groups[k] = append(groups[k], p)
	}

	rows := make([]Row, 0, len(groups))
	for k, group := range groups {
		legacy, legacyValues := summarize(group, func(p model.ClassifiedPitch) bool { return p.InLegacy })
		prop, propValues := summarize(group, func(p model.ClassifiedPitch) bool { return p.InProportional })

		diffs := make(map[Metric]Comparison, 3)
		for _, m := range []Metric{MetricEstimatedValue, MetricRunDelta, MetricSpeed} {
			diffs[m] = compare(legacy.mean(m), prop.mean(m), legacyValues[m], propValues[m])
		}

		rows = append(rows, Row{
			Key:          k,
			Count:        len(group),
			Legacy:       legacy,
			Proportional: prop,
			Diffs:        diffs,
		})
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].Key < rows[j].Key })
	return rows
}

// compare builds the signed difference and significance label for one
// metric. Undefined on either side disables the comparison; the t-test
// additionally needs two observations per side and nonzero variance.
func compare(legacy, prop Mean, legacyValues, propValues []float64) Comparison {
	if !legacy.OK || !prop.OK {
		return Comparison{}
	}
	c := Comparison{
		Delta: prop.Value - legacy.Value,
		OK:    true,
	}
	if p, ok := welchTTest(propValues, legacyValues); ok {
		c.P = p
		c.Tier = tier(p)
	} else {
		// Test undefined: the p-value stays NaN and the tier stays empty
		// rather than masquerading as "not significant".
		c.P = math.NaN()
	}
	return c
}
