package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go-seasonal-jobs/internal/config"
	"go-seasonal-jobs/internal/filter"
	"go-seasonal-jobs/internal/logger"
	"go-seasonal-jobs/internal/scraper"
	"go-seasonal-jobs/internal/snapshot"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML config")
	in := flag.String("in", "", "snapshot to filter (default output.dir/output.file)")
	out := flag.String("out", "", "output file (default output.dir/output.filter_file)")
	beginsWithin := flag.Int("begins-within", -1, "also require a begin date within N days from today")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	if *in == "" {
		*in = filepath.Join(cfg.Output.Dir, cfg.Output.File)
	}
	if *out == "" {
		*out = filepath.Join(cfg.Output.Dir, cfg.Output.FilterFile)
	}

	kept, err := run(*in, *out, predicates(*beginsWithin, time.Now())...)
	if err != nil {
		log.Error("❌ filter failed", "err", err)
		os.Exit(1)
	}
	fmt.Printf("%d job(s) without experience requirement saved to %s\n", len(kept), *out)
}

func predicates(beginsWithin int, now time.Time) []filter.Predicate {
	preds := []filter.Predicate{filter.NoExperience}
	if beginsWithin >= 0 {
		preds = append(preds, filter.BeginsWithin(beginsWithin, now))
	}
	return preds
}

func run(in, out string, preds ...filter.Predicate) ([]scraper.JobRecord, error) {
	records, err := snapshot.Load(in)
	if err != nil {
		return nil, err
	}
	kept := filter.Apply(records, preds...)
	if err := snapshot.Save(out, kept); err != nil {
		return nil, err
	}
	return kept, nil
}
