package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"go-seasonal-jobs/internal/config"
	"go-seasonal-jobs/internal/dedup"
	"go-seasonal-jobs/internal/logger"
	"go-seasonal-jobs/internal/scraper"
	"go-seasonal-jobs/internal/snapshot"
	"go-seasonal-jobs/internal/telegram"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML config")
	yesterday := flag.String("yesterday", "", "previous snapshot (default: yesterday's dated file)")
	today := flag.String("today", "", "current snapshot (default: today's dated file)")
	out := flag.String("out", "", "output file (default output.dir/output.diff_file)")
	notify := flag.Bool("notify", false, "send new postings to Telegram")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	now := time.Now()
	if *yesterday == "" {
		*yesterday = filepath.Join(cfg.Output.Dir, snapshot.DatedName(now.AddDate(0, 0, -1)))
	}
	if *today == "" {
		*today = filepath.Join(cfg.Output.Dir, snapshot.DatedName(now))
	}
	if *out == "" {
		*out = filepath.Join(cfg.Output.Dir, cfg.Output.DiffFile)
	}

	fresh, err := diff(*yesterday, *today, *out)
	if err != nil {
		log.Error("❌ diff failed", "err", err)
		os.Exit(1)
	}
	fmt.Printf("%d new records saved to %s\n", len(fresh), *out)

	if *notify {
		send(cfg, fresh, log)
	}
}

// diff writes the today records missing from yesterday to out.
func diff(yesterdayPath, todayPath, outPath string) ([]scraper.JobRecord, error) {
	yesterday, err := snapshot.Load(yesterdayPath)
	if err != nil {
		return nil, err
	}
	today, err := snapshot.Load(todayPath)
	if err != nil {
		return nil, err
	}
	fresh := dedup.NewRecords(yesterday, today)
	if err := snapshot.Save(outPath, fresh); err != nil {
		return nil, err
	}
	return fresh, nil
}

func send(cfg *config.Config, records []scraper.JobRecord, log *slog.Logger) {
	if !cfg.Telegram.Enabled() {
		log.Warn("telegram not configured, skipping notification")
		return
	}
	bot, err := telegram.NewBot(cfg.Telegram.Token, cfg.Telegram.ChatID)
	if err != nil {
		log.Warn("⚠️ telegram unavailable", "err", err)
		return
	}
	if err := bot.SendNewPostings(context.Background(), records, 20); err != nil {
		log.Warn("⚠️ failed to send new postings", "err", err)
	}
}
