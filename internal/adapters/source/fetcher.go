// Package source fetches raw per-pitch records from the tracking
// source's CSV search endpoint in bounded-size date chunks.
package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/statcraft/zoneshift/internal/domain/model"
	"github.com/statcraft/zoneshift/pkg/logger"
	"github.com/statcraft/zoneshift/pkg/metrics"
)

const (
	defaultChunkDays   = 7
	defaultConcurrency = 4
	defaultHTTPTimeout = 2 * time.Minute
	dateLayout         = "2006-01-02"
)

// Chunk is one fetch sub-range. Start and End are inclusive dates.
type Chunk struct {
	Index int
	Start time.Time
	End   time.Time
}

// Failure records a sub-range that could not be fetched. Failures are
// data, not control flow: they never abort the rest of the fetch.
type Failure struct {
	Chunk Chunk
	Err   error
}

// Result is the outcome of a whole-range fetch: the concatenation of
// all successful chunks in chronological order, plus the failures.
type Result struct {
	Pitches  []model.Pitch
	Failures []Failure
}

// ProgressFunc is called once per chunk attempted, in completion order.
type ProgressFunc func(chunk Chunk, fetched int, err error)

// Option applies a configuration option to the Fetcher.
type Option func(*Fetcher)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// WithChunkDays sets the sub-range size in days.
func WithChunkDays(days int) Option {
	return func(f *Fetcher) {
		if days > 0 {
			f.chunkDays = days
		}
	}
}

// WithConcurrency bounds the number of parallel chunk requests.
func WithConcurrency(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.concurrency = n
		}
	}
}

// WithLogger sets a custom logger for the fetcher.
func WithLogger(log logger.Logger) Option {
	return func(f *Fetcher) {
		if log != nil {
			f.log = log
		}
	}
}

// WithProgress sets the per-chunk progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(f *Fetcher) {
		f.progress = fn
	}
}

// Fetcher retrieves per-pitch CSV pages from the tracking source.
type Fetcher struct {
	baseURL     string
	client      *http.Client
	chunkDays   int
	concurrency int
	log         logger.Logger
	progress    ProgressFunc

	mu sync.Mutex // serializes the progress callback
}

// New creates a Fetcher for the given base URL.
func New(baseURL string, opts ...Option) *Fetcher {
	f := &Fetcher{
		baseURL:     baseURL,
		client:      &http.Client{Timeout: defaultHTTPTimeout},
		chunkDays:   defaultChunkDays,
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// chunks partitions [start, end] into fixed-size sub-ranges in
// chronological order.
func (f *Fetcher) chunks(start, end time.Time) []Chunk {
	var out []Chunk
	for cur := start; !cur.After(end); {
		chunkEnd := cur.AddDate(0, 0, f.chunkDays-1)
		if chunkEnd.After(end) {
			chunkEnd = end
		}
		out = append(out, Chunk{Index: len(out), Start: cur, End: chunkEnd})
		cur = chunkEnd.AddDate(0, 0, 1)
	}
	return out
}

// Fetch retrieves all pitches in [start, end]. Chunks are requested with
// bounded parallelism; a failing chunk is logged, recorded, and skipped.
// Results are reassembled by chunk index, so the concatenation is
// chronological regardless of completion order.
func (f *Fetcher) Fetch(ctx context.Context, start, end time.Time) Result {
	chunks := f.chunks(start, end)
	perChunk := make([][]model.Pitch, len(chunks))
	perErr := make([]error, len(chunks))

	var g errgroup.Group
	g.SetLimit(f.concurrency)
	for _, c := range chunks {
		c := c
		g.Go(func() error {
			pitches, err := f.fetchChunk(ctx, c)
			perChunk[c.Index] = pitches
			perErr[c.Index] = err
			f.report(c, len(pitches), err)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; failures live in perErr

	var result Result
	for i, c := range chunks {
		metrics.RecordChunk(perErr[i] != nil)
		if perErr[i] != nil {
			result.Failures = append(result.Failures, Failure{Chunk: c, Err: perErr[i]})
			continue
		}
		result.Pitches = append(result.Pitches, perChunk[i]...)
	}
	metrics.RecordFetchedPitches(len(result.Pitches))
	return result
}

// report invokes the progress callback and logs the chunk outcome.
func (f *Fetcher) report(c Chunk, fetched int, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.log != nil {
		if err != nil {
			f.log.Warn(context.Background(), "chunk fetch failed; skipping",
				logger.String("start", c.Start.Format(dateLayout)),
				logger.String("end", c.End.Format(dateLayout)),
				logger.Error(err))
		} else {
			f.log.Info(context.Background(), "chunk fetched",
				logger.String("start", c.Start.Format(dateLayout)),
				logger.String("end", c.End.Format(dateLayout)),
				logger.Int("pitches", fetched))
		}
	}
	if f.progress != nil {
		f.progress(c, fetched, err)
	}
}

// fetchChunk requests one sub-range and parses the CSV body.
func (f *Fetcher) fetchChunk(ctx context.Context, c Chunk) ([]model.Pitch, error) {
	u, err := url.Parse(f.baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadURL, err)
	}
	q := u.Query()
	q.Set("all", "true")
	q.Set("type", "details")
	q.Set("game_date_gt", c.Start.Format(dateLayout))
	q.Set("game_date_lt", c.End.Format(dateLayout))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequest, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrBadStatus, resp.StatusCode)
	}
	pitches, err := ParseCSV(resp.Body)
	if err != nil {
		return nil, err
	}
	return pitches, nil
}
