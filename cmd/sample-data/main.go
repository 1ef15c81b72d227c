package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/okian/formline/internal/sampledata"
	"github.com/okian/formline/pkg/logger"
)

// Default configuration constants.
const (
	defaultRaces   = 40
	defaultRunners = 8
	defaultWinRate = 0.3
	defaultDays    = 30
	defaultTimeout = 30 * time.Second
)

func main() {
	var (
		races   = flag.Int("races", defaultRaces, "Number of races to fabricate")
		runners = flag.Int("runners", defaultRunners, "Runners per race")
		winRate = flag.Float64("winrate", defaultWinRate, "Fraction of tipped runners that win")
		days    = flag.Int("days", defaultDays, "Number of race days to spread the races over")
		start   = flag.String("start", "", "First race day, YYYY-MM-DD (default: today minus the day span)")
		seed    = flag.Int64("seed", time.Now().UnixNano(), "Generator seed; reuse for a reproducible batch")
		outDir  = flag.String("out", "sample-data", "Directory for the generated CSV files")
		postURL = flag.String("url", "", "When set, post the batch to this analyzer instead of writing files")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()
	log := logger.Get()
	ctx := context.Background()

	startDate := time.Now().UTC().AddDate(0, 0, -*days).Truncate(24 * time.Hour)
	if *start != "" {
		parsed, err := time.ParseInLocation("2006-01-02", *start, time.UTC)
		if err != nil {
			log.Error(ctx, "invalid start date", logger.String("start", *start), logger.Error(err))
			os.Exit(1)
		}
		startDate = parsed
	}

	cfg := sampledata.Config{
		Races:     *races,
		Runners:   *runners,
		WinRate:   *winRate,
		StartDate: startDate,
		Days:      *days,
		Seed:      *seed,
		OutDir:    *outDir,
		PostURL:   *postURL,
		Timeout:   *timeout,
	}

	batch, err := sampledata.Generate(cfg)
	if err != nil {
		log.Error(ctx, "generation failed", logger.Error(err))
		os.Exit(1)
	}
	log.Info(ctx, "batch generated",
		logger.Int("races", cfg.Races),
		logger.Int("runners", cfg.Runners),
		logger.Any("seed", cfg.Seed),
	)

	if cfg.PostURL != "" {
		client := &http.Client{Timeout: cfg.Timeout}
		if _, err := sampledata.Post(ctx, client, cfg.PostURL, batch); err != nil {
			log.Error(ctx, "post failed", logger.Error(err))
			os.Exit(1)
		}
		return
	}

	if err := sampledata.WriteFiles(ctx, batch, cfg.OutDir); err != nil {
		log.Error(ctx, "write failed", logger.Error(err))
		os.Exit(1)
	}
}
