package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go-seasonal-jobs/internal/browser"
	"go-seasonal-jobs/internal/config"
	"go-seasonal-jobs/internal/database"
	"go-seasonal-jobs/internal/dedup"
	"go-seasonal-jobs/internal/logger"
	"go-seasonal-jobs/internal/scraper"
	"go-seasonal-jobs/internal/scraper/seasonal"
	"go-seasonal-jobs/internal/snapshot"
	"go-seasonal-jobs/internal/telegram"
	"go-seasonal-jobs/utils"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML config")
	start := flag.Int("start", -1, "first entry index (default from config)")
	end := flag.Int("end", -1, "last entry index, inclusive (default from config)")
	out := flag.String("out", "", "output file (default output.dir/output.file)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		return 1
	}
	log := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	if *start < 0 {
		*start = cfg.Range.Start
	}
	if *end < 0 {
		*end = cfg.Range.End
	}
	if *out == "" {
		*out = filepath.Join(cfg.Output.Dir, cfg.Output.File)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var bot *telegram.Bot
	if cfg.Telegram.Enabled() {
		bot, err = telegram.NewBot(cfg.Telegram.Token, cfg.Telegram.ChatID)
		if err != nil {
			log.Warn("telegram disabled", "err", err)
		}
	}

	res, runErr := extract(ctx, cfg, *start, *end, log)
	if res == nil {
		log.Error("❌ extraction failed", "err", runErr)
		notifyError(bot, runErr, log)
		return 1
	}
	if runErr != nil {
		log.Warn("extraction interrupted, saving partial batch", "err", runErr, "records", len(res.Records))
	}

	now := time.Now()
	for _, path := range snapshotPaths(cfg.Output.Dir, *out, now) {
		if err := snapshot.Save(path, res.Records); err != nil {
			log.Error("❌ failed to save snapshot", "path", path, "err", err)
			notifyError(bot, err, log)
			return 1
		}
		log.Info("📁 snapshot saved", "path", path, "records", len(res.Records))
	}

	if cfg.DatabaseURL != "" {
		persist(ctx, cfg.DatabaseURL, now, res.Records, bot, log)
	}

	summary := telegram.RunSummary{
		RunID:     res.RunID,
		Start:     *start,
		End:       *end,
		Extracted: len(res.Records),
		Failed:    res.Failed,
		Available: res.Available,
		Reloads:   res.Reloads,
		File:      *out,
	}
	fmt.Println(telegram.FormatSummary(summary))
	if bot != nil {
		if err := bot.SendSummary(summary); err != nil {
			log.Warn("⚠️ failed to send summary", "err", err)
		}
	}

	if runErr != nil {
		return 1
	}
	return 0
}

// extract owns the browser for the duration of one session run.
func extract(ctx context.Context, cfg *config.Config, start, end int, log *slog.Logger) (*seasonal.Result, error) {
	pm, err := browser.NewPlaywright(ctx, browser.Options{
		Headless:       cfg.Browser.Headless,
		UserAgent:      cfg.Browser.UserAgent,
		ViewportWidth:  cfg.Browser.ViewportWidth,
		ViewportHeight: cfg.Browser.ViewportHeight,
		LockPath:       cfg.Browser.LockPath,
	})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := pm.Close(); err != nil {
			log.Warn("browser shutdown", "err", err)
		}
	}()

	cookies, err := browser.LoadCookies(cfg.Browser.CookiesPath)
	if err != nil {
		log.Warn("⚠️ could not load cookies, continuing without", "err", err)
	} else if len(cookies) > 0 {
		log.Info("🍪 cookies loaded", "count", len(cookies))
	}

	bctx, err := pm.NewContext(cookies)
	if err != nil {
		return nil, err
	}
	raw, err := bctx.NewPage()
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	log.Info("✅ browser ready")

	session := seasonal.NewSession(browser.NewPage(raw, cfg.Timeouts.Wait), seasonal.Options{
		ListingURL: cfg.ListingURL,
		Selectors: seasonal.Selectors{
			Entry:    cfg.Selectors.Entry,
			Detail:   cfg.Selectors.Detail,
			LoadMore: cfg.Selectors.LoadMore,
			Close:    cfg.Selectors.Close,
		},
		Paginator: seasonal.PaginatorOptions{
			Timeout:      cfg.Timeouts.Wait,
			Settle:       cfg.Timeouts.Settle,
			PollInterval: cfg.Timeouts.PollInterval,
			MaxStagnant:  cfg.Pagination.MaxStagnant,
		},
		Wait:       cfg.Timeouts.Wait,
		EntryPause: cfg.Timeouts.EntryPause,
		Jitter:     cfg.Timeouts.Jitter,
	}, log)

	if cfg.Debug.Capture {
		dbg, err := utils.NewScreenShotDebugger(cfg.Debug.Dir, raw, log)
		if err != nil {
			log.Warn("debug capture disabled", "err", err)
		} else {
			session.OnFailure(dbg.Capture)
		}
	}

	return session.Run(ctx, start, end)
}

// persist stores the batch and announces postings the database has not
// seen on the previous day. Failures are logged only: the file snapshot
// is the primary output.
func persist(ctx context.Context, url string, day time.Time, records []scraper.JobRecord, bot *telegram.Bot, log *slog.Logger) {
	// a cancelled run still gets its partial batch stored
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Minute)
	defer cancel()

	repo, err := database.ConnectDB(ctx, url)
	if err != nil {
		log.Warn("⚠️ database unavailable", "err", err)
		return
	}
	defer repo.Close()

	if err := repo.EnsureSchema(ctx); err != nil {
		log.Warn("⚠️ database schema", "err", err)
		return
	}
	seen, err := repo.CaseNumbersOn(ctx, day.AddDate(0, 0, -1))
	if err != nil {
		log.Warn("⚠️ could not read previous day", "err", err)
	}
	saved, err := repo.SaveSnapshot(ctx, day, records)
	if err != nil {
		log.Warn("⚠️ database save incomplete", "saved", saved, "err", err)
	} else {
		log.Info("💾 snapshot stored in database", "rows", saved)
	}

	if bot == nil {
		return
	}
	fresh, ok := sinceYesterday(seen, records)
	if !ok {
		log.Info("no postings stored for the previous day, skipping announcement")
		return
	}
	log.Info("🔍 new postings since yesterday", "count", len(fresh))
	if err := bot.SendNewPostings(ctx, fresh, 10); err != nil {
		log.Warn("⚠️ failed to send new postings", "err", err)
	}
}

// snapshotPaths lists where a batch is written: the requested output and
// the dated copy in dir, which is where diff and the API look for it.
func snapshotPaths(dir, out string, now time.Time) []string {
	dated := filepath.Join(dir, snapshot.DatedName(now))
	if filepath.Clean(out) == dated {
		return []string{out}
	}
	return []string{out, dated}
}

// sinceYesterday reports the records absent from seen. An empty seen means
// there is no previous day to compare with, so nothing is worth announcing.
func sinceYesterday(seen dedup.Set, records []scraper.JobRecord) ([]scraper.JobRecord, bool) {
	if len(seen) == 0 {
		return nil, false
	}
	return dedup.Unseen(seen, records), true
}

func notifyError(bot *telegram.Bot, err error, log *slog.Logger) {
	if bot == nil || err == nil {
		return
	}
	if errors.Is(err, browser.ErrSessionLocked) {
		return
	}
	if sendErr := bot.SendError(err); sendErr != nil {
		log.Warn("⚠️ failed to send error", "err", sendErr)
	}
}
