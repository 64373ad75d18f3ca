package bot

import (
	"context"
	"log"
	"log/slog"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"

	"github.com/Trai60/Reddit-to-Discord-Bot/scanner"
)

var c *cron.Cron

// startScheduler starts the cron jobs: the poll cycle, the consistency sweep
// and the daily subscription cleanup. Jobs skip a run instead of piling up
// when the previous one is still going.
func startScheduler(sc *scanner.Scanner) {
	slog.Info("initializing scheduler")
	c = cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	interval := viper.GetString("scanner.interval")
	if _, err := c.AddFunc(interval, func() {
		sc.ScanAll(context.Background())
	}); err != nil {
		log.Fatalf("Could not set up poll cron job: %v", err)
	}

	if _, err := c.AddFunc("@every 3h", func() {
		sc.ConsistencyCheck(context.Background())
	}); err != nil {
		log.Fatalf("Could not set up consistency cron job: %v", err)
	}

	if _, err := c.AddFunc("@every 24h", func() {
		sc.CleanupSubscriptions(context.Background())
	}); err != nil {
		log.Fatalf("Could not set up cleanup cron job: %v", err)
	}

	c.Start()
	slog.Info("scheduler started", "poll_interval", interval)

	// Perform an initial scan on startup based on config.
	if viper.GetBool("scanner.scanAtStartup") {
		go func() {
			slog.Info("performing initial scan on startup")
			sc.ScanAll(context.Background())
		}()
	} else {
		slog.Info("skipping initial scan on startup as per configuration")
	}
}

// stopScheduler stops the cron jobs.
func stopScheduler() {
	if c != nil {
		c.Stop()
		slog.Info("scheduler stopped")
	}
}
