package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"imovelweb-scraper/config"
	"imovelweb-scraper/models"
	"imovelweb-scraper/observability"
	"imovelweb-scraper/scraper/imovelweb"
	"imovelweb-scraper/services"
	"imovelweb-scraper/storage"
	"imovelweb-scraper/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Invalid configuration: %v", err)
		os.Exit(1)
	}
	logger.SetDebug(cfg.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runID := uuid.NewString()
	logger.Info("=== imovelweb scraper starting (run %s) ===", runID)
	logger.Info("Config, pages: %d-%d | headless: %v | cooldown: %v-%v",
		cfg.StartPage, cfg.EndPage-1, cfg.Headless, cfg.CooldownMin, cfg.CooldownMax)

	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	if cfg.MetricsAddr != "" {
		srv := observability.Serve(cfg.MetricsAddr, reg)
		defer srv.Close()
		logger.Info("Metrics on http://%s/metrics", cfg.MetricsAddr)
	}

	sink, err := storage.NewCSVSink(cfg.OutputDir, time.Now())
	if err != nil {
		logger.Error("Failed to prepare CSV output: %v", err)
		os.Exit(1)
	}
	logger.Info("Writing rows to %s", sink.Path())

	browser := imovelweb.NewChromeBrowser(imovelweb.ChromeOptions{
		ExecPath:    cfg.ChromeBin,
		Headless:    cfg.Headless,
		PageTimeout: cfg.PageTimeout,
	})
	logger.Info("Using browser binary: %s", browser.ExecPath())

	var robots *imovelweb.RobotsChecker
	if cfg.RespectRobots {
		robots = imovelweb.NewRobotsChecker(cfg.RobotsAgent, nil, logger)
	}

	scraper, err := imovelweb.New(cfg, logger, imovelweb.Options{
		Browser:  browser,
		Sink:     sink,
		Agents:   imovelweb.RandomUserAgent{},
		Cooldown: imovelweb.UniformDelay{Min: cfg.CooldownMin, Max: cfg.CooldownMax},
		Solved:   imovelweb.LineSignal(ctx, os.Stdin),
		Robots:   robots,
		Metrics:  metrics,
	})
	if err != nil {
		logger.Error("Failed to build scraper: %v", err)
		os.Exit(1)
	}

	ds, scrapeErr := scraper.Scrape(ctx)
	if scrapeErr != nil {
		if errors.Is(scrapeErr, context.Canceled) {
			logger.Warn("Scrape interrupted, finalizing the %d rows collected so far", ds.Len())
		} else {
			logger.Error("Scrape stopped early: %v", scrapeErr)
		}
	}

	finalizer := services.NewFinalizer(logger)
	final, stats := finalizer.Finalize(ds)

	if err := sink.Rewrite(final); err != nil {
		logger.Error("CSV rewrite failed: %v", err)
		os.Exit(1)
	}
	logger.Info("Final dataset saved to %s", sink.Path())

	services.NewReportPrinter(os.Stdout, 15).Print(stats, final)

	if cfg.PostgresDSN != "" {
		// The run may have been interrupted; the mirror still gets a short window.
		mirrorCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Minute)
		mirror(mirrorCtx, cfg.PostgresDSN, runID, final, logger)
		cancel()
	}

	fmt.Printf("\n  Done. CSV → %s\n\n", sink.Path())
	if scrapeErr != nil && !errors.Is(scrapeErr, context.Canceled) {
		os.Exit(1)
	}
}

// mirror copies the finalized dataset into PostgreSQL. Failures are logged
// only; the CSV file remains the output of record.
func mirror(ctx context.Context, dsn, runID string, ds *models.Dataset, logger *utils.Logger) {
	pg, err := storage.NewPostgresWriter(ctx, dsn)
	if err != nil {
		logger.Error("Failed to connect to PostgreSQL: %v", err)
		return
	}
	defer pg.Close()

	inserted, err := pg.WriteDataset(ctx, runID, ds)
	if err != nil {
		logger.Error("PostgreSQL write failed: %v", err)
		return
	}
	stored, err := pg.CountRun(ctx, runID)
	if err != nil {
		logger.Warn("Could not verify the mirrored rows: %v", err)
	}
	logger.Info("Mirrored %d new rows into PostgreSQL (table: apartments, run %s, %d rows)", inserted, runID, stored)
}
