package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"go-seasonal-jobs/internal/logger"
	"go-seasonal-jobs/internal/scraper"
	"go-seasonal-jobs/internal/scraper/htmldoc"
	"go-seasonal-jobs/internal/scraper/seasonal"
)

func main() {
	htmlPath := flag.String("html", "", "saved page with an open detail panel (e.g. a debug dump)")
	detail := flag.String("detail", seasonal.DefaultSelectors().Detail, "detail container selector")
	level := flag.String("log-level", "warn", "log level")
	flag.Parse()

	if *htmlPath == "" {
		fmt.Fprintln(os.Stderr, "usage: extract -html page.html")
		os.Exit(2)
	}
	log := logger.New(logger.Config{Level: *level})

	f, err := os.Open(*htmlPath)
	if err != nil {
		log.Error("❌ open page", "err", err)
		os.Exit(1)
	}
	defer f.Close()

	rec, err := extract(context.Background(), f, *detail)
	if err != nil {
		log.Error("❌ extraction failed", "path", *htmlPath, "err", err)
		os.Exit(1)
	}
	if err := write(os.Stdout, rec); err != nil {
		log.Error("❌ write record", "err", err)
		os.Exit(1)
	}
}

func extract(ctx context.Context, r io.Reader, detail string) (scraper.JobRecord, error) {
	doc, err := htmldoc.Parse(r)
	if err != nil {
		return scraper.JobRecord{}, err
	}
	return seasonal.NewExtractor(detail, logger.Discard()).Extract(ctx, doc)
}

func write(w io.Writer, rec scraper.JobRecord) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}
