// Package app wires the enrichment pipeline: fetch, identity resolution,
// biometric join, normalization, and classification.
package app

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/statcraft/zoneshift/internal/adapters/reference"
	"github.com/statcraft/zoneshift/internal/adapters/source"
	"github.com/statcraft/zoneshift/internal/domain/classify"
	"github.com/statcraft/zoneshift/internal/domain/model"
	"github.com/statcraft/zoneshift/internal/domain/zone"
	"github.com/statcraft/zoneshift/pkg/logger"
	"github.com/statcraft/zoneshift/pkg/metrics"
)

// Fetcher abstracts the raw-pitch source so tests can stub it.
type Fetcher interface {
	Fetch(ctx context.Context, start, end time.Time) source.Result
}

// Output is the pipeline's terminal artifact: the fully enriched,
// classified pitch table plus the lookup maps and drop accounting.
type Output struct {
	Pitches    []model.ClassifiedPitch
	Identities map[int]model.Identity
	Heights    map[int]float64
	Accounting Accounting
}

// Option applies a configuration option to the Pipeline.
type Option func(*Pipeline)

// WithFetcher sets the raw-pitch source.
func WithFetcher(f Fetcher) Option {
	return func(p *Pipeline) {
		if f != nil {
			p.fetcher = f
		}
	}
}

// WithIdentityTable sets the identity register.
func WithIdentityTable(t *reference.IdentityTable) Option {
	return func(p *Pipeline) {
		if t != nil {
			p.identities = t
		}
	}
}

// WithBiometricTable sets the height table.
func WithBiometricTable(t *reference.BiometricTable) Option {
	return func(p *Pipeline) {
		if t != nil {
			p.biometrics = t
		}
	}
}

// WithNormalizer sets the geometry normalizer.
func WithNormalizer(n *zone.Normalizer) Option {
	return func(p *Pipeline) {
		if n != nil {
			p.normalizer = n
		}
	}
}

// WithClassifier sets the zone classifier.
func WithClassifier(c *classify.Classifier) Option {
	return func(p *Pipeline) {
		if c != nil {
			p.classifier = c
		}
	}
}

// WithLogger sets a custom logger for the pipeline.
func WithLogger(log logger.Logger) Option {
	return func(p *Pipeline) {
		if log != nil {
			p.log = log
		}
	}
}

// Pipeline runs the enrichment stages in order over in-memory data.
type Pipeline struct {
	fetcher    Fetcher
	identities *reference.IdentityTable
	biometrics *reference.BiometricTable
	normalizer *zone.Normalizer
	classifier *classify.Classifier
	log        logger.Logger
}

// New constructs a Pipeline. Defaults cover the pure stages; the fetcher
// and reference tables must be provided.
func New(opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		normalizer: zone.New(),
		classifier: classify.New(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.fetcher == nil {
		return nil, ErrNoFetcher
	}
	if p.identities == nil || p.biometrics == nil {
		return nil, ErrNoReference
	}
	return p, nil
}

// Run executes the full pipeline for the date range. The pipeline
// completes on whatever data is completely enrichable; per-pitch losses
// are counted in the accounting, never silent.
func (p *Pipeline) Run(ctx context.Context, start, end time.Time) (*Output, error) {
	acct := Accounting{RunID: uuid.New()}

	fetchStart := time.Now()
	res := p.fetcher.Fetch(ctx, start, end)
	metrics.ObserveStage("fetch", time.Since(fetchStart))

	acct.ChunksFailed = len(res.Failures)
	acct.Fetched = len(res.Pitches)
	p.info(ctx, "fetch complete",
		logger.String("run_id", acct.RunID.String()),
		logger.Int("pitches", acct.Fetched),
		logger.Int("failed_chunks", acct.ChunksFailed))

	resolveStart := time.Now()
	identities := p.identities.Resolve(reference.DistinctBatters(res.Pitches))
	heights := reference.JoinHeights(identities, p.biometrics)
	metrics.ObserveStage("resolve", time.Since(resolveStart))

	enrichStart := time.Now()
	classified := make([]model.ClassifiedPitch, 0, len(res.Pitches))
	for _, pitch := range res.Pitches {
		if !pitch.HasBounds() {
			acct.DroppedMissingBounds++
			metrics.RecordDrop(metrics.DropMissingBounds, 1)
			continue
		}
		if _, ok := identities[pitch.BatterID]; !ok {
			acct.DroppedNoIdentity++
			metrics.RecordDrop(metrics.DropNoIdentity, 1)
			continue
		}
		height, ok := heights[pitch.BatterID]
		if !ok {
			acct.DroppedNoHeight++
			metrics.RecordDrop(metrics.DropNoHeight, 1)
			continue
		}
		enriched, err := p.normalizer.Normalize(pitch, height)
		if err != nil {
			acct.DroppedMalformedZone++
			metrics.RecordDrop(metrics.DropMalformedZone, 1)
			p.warn(ctx, "rejected malformed geometry",
				logger.Int("batter", pitch.BatterID),
				logger.String("pa", pitch.PlateAppearanceID()),
				logger.Error(err))
			continue
		}
		classified = append(classified, p.classifier.Classify(enriched))
	}
	metrics.ObserveStage("enrich", time.Since(enrichStart))

	acct.Classified = len(classified)
	metrics.RecordClassified(acct.Classified)
	p.info(ctx, "pipeline complete",
		logger.String("run_id", acct.RunID.String()),
		logger.Int("classified", acct.Classified),
		logger.Int("dropped", acct.Dropped()))

	return &Output{
		Pitches:    classified,
		Identities: identities,
		Heights:    heights,
		Accounting: acct,
	}, nil
}

func (p *Pipeline) info(ctx context.Context, msg string, fields ...logger.Field) {
	if p.log != nil {
		p.log.Info(ctx, msg, fields...)
	}
}

func (p *Pipeline) warn(ctx context.Context, msg string, fields ...logger.Field) {
	if p.log != nil {
		p.log.Warn(ctx, msg, fields...)
	}
}
