package main

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/statcraft/zoneshift/internal/adapters/export"
	"github.com/statcraft/zoneshift/internal/adapters/reference"
	"github.com/statcraft/zoneshift/internal/adapters/source"
	app "github.com/statcraft/zoneshift/internal/app"
	"github.com/statcraft/zoneshift/internal/config"
	"github.com/statcraft/zoneshift/internal/domain/classify"
	"github.com/statcraft/zoneshift/internal/domain/stats"
	"github.com/statcraft/zoneshift/internal/domain/zone"
	"github.com/statcraft/zoneshift/pkg/logger"
	"github.com/statcraft/zoneshift/pkg/metrics"
)

const metricsReadHeaderTimeout = 5 * time.Second

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "pipeline failed", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	start, end, err := cfg.DateRange()
	if err != nil {
		return err
	}

	identities, err := reference.LoadIdentities(cfg.IdentityCSV)
	if err != nil {
		return err
	}
	biometrics, err := reference.LoadBiometrics(cfg.BiometricCSV)
	if err != nil {
		return err
	}
	log.Info(ctx, "reference tables loaded",
		logger.Int("identities", identities.Len()),
		logger.Int("biometrics", biometrics.Len()))

	if cfg.MetricsAddr != "" {
		go serveMetrics(ctx, cfg.MetricsAddr, log)
	}

	fetcher := source.New(cfg.SourceURL,
		source.WithChunkDays(cfg.ChunkDays),
		source.WithConcurrency(cfg.FetchConcurrency),
		source.WithLogger(log.Named("fetcher")),
	)

	pipeline, err := app.New(
		app.WithFetcher(fetcher),
		app.WithIdentityTable(identities),
		app.WithBiometricTable(biometrics),
		app.WithNormalizer(zone.New(
			zone.WithFractions(cfg.Zone.BottomFraction, cfg.Zone.TopFraction),
			zone.WithPlateWidth(cfg.Zone.PlateWidthIn),
		)),
		app.WithClassifier(classify.New(
			classify.WithHalfWidth(cfg.Zone.PlateHalfWidthIn),
		)),
		app.WithLogger(log.Named("pipeline")),
	)
	if err != nil {
		return err
	}

	out, err := pipeline.Run(ctx, start, end)
	if err != nil {
		return err
	}

	if err := export.WriteFile(cfg.ExportPath, out.Pitches); err != nil {
		return err
	}
	log.Info(ctx, "classified table exported",
		logger.String("path", cfg.ExportPath),
		logger.Int("rows", len(out.Pitches)))

	report(cfg, out)
	return nil
}

// report prints the ranked differential aggregates and the drop
// accounting to stdout.
func report(cfg *config.Config, out *app.Output) {
	agg := stats.New(
		stats.WithMinSample(cfg.Zone.MinSample),
		stats.WithRankK(cfg.Zone.RankK),
		stats.WithQualifying(cfg.Zone.QualifyingDescription),
	)

	qualifying := agg.Qualifying(out.Pitches)
	batterRows := agg.Rows(qualifying, stats.ByBatterName(out.Identities))
	teamRows := agg.Rows(qualifying, stats.ByTeam())

	printRanked("largest xwOBA gains (proportional - legacy)",
		agg.Rank(batterRows, stats.MetricEstimatedValue, true))
	printRanked("largest xwOBA losses (proportional - legacy)",
		agg.Rank(batterRows, stats.MetricEstimatedValue, false))
	printRanked("team-level xwOBA differential",
		agg.Rank(teamRows, stats.MetricEstimatedValue, true))

	fmt.Println(out.Accounting.String())
}

func printRanked(title string, rows []stats.Row) {
	fmt.Println(title)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "rank\tgroup\tn\tlegacy\tproportional\tdiff\tp\tsig")
	for i, r := range rows {
		d := r.Diffs[stats.MetricEstimatedValue]
		fmt.Fprintf(w, "%d\t%s\t%d\t%.3f\t%.3f\t%+.3f\t%s\t%s\n",
			i+1, r.Key, r.Count,
			r.Legacy.EstimatedValue.Value,
			r.Proportional.EstimatedValue.Value,
			d.Delta, formatP(d.P), formatTier(d.Tier))
	}
	_ = w.Flush()
	fmt.Println()
}

func formatP(p float64) string {
	if math.IsNaN(p) {
		return "-"
	}
	return fmt.Sprintf("%.4g", p)
}

func formatTier(tier string) string {
	if tier == "" {
		return "-"
	}
	return tier
}

// serveMetrics exposes the Prometheus registry until the context ends.
func serveMetrics(ctx context.Context, addr string, log logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: metricsReadHeaderTimeout,
	}
	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()
	log.Info(ctx, "serving metrics", logger.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Warn(ctx, "metrics server stopped", logger.Error(err))
	}
}
