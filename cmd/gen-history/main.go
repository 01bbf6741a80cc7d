package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/foundermatch/internal/histgen"
	"github.com/okian/foundermatch/pkg/logger"
)

const defaultTimeout = 5 * time.Minute

func main() {
	def := histgen.DefaultConfig()
	var (
		format    = flag.String("format", histgen.FormatCSV, "Output format: csv or sqlite")
		out       = flag.String("out", "data", "Output directory (csv) or database file (sqlite)")
		people    = flag.Int("people", def.People, "Number of people to generate")
		founders  = flag.Float64("founders", def.FounderRatio, "Share of people holding a founder title")
		degrees   = flag.Int("degrees", def.DegreesPerPerson, "Maximum degrees per person")
		rounds    = flag.Int("rounds", def.RoundsPerCompany, "Maximum funding rounds per company")
		exits     = flag.Float64("exits", def.ExitRatio, "Share of companies with an acquisition or IPO")
		seed      = flag.Uint64("seed", def.Seed, "Random seed")
		logFormat = flag.String("log-format", logger.FormatText, "Log format: text or json")
	)
	flag.Parse()

	if err := logger.Init(logger.WithFormat(*logFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, defaultTimeout)
	defer cancelTimeout()

	cfg := def
	cfg.People = *people
	cfg.FounderRatio = *founders
	cfg.DegreesPerPerson = *degrees
	cfg.RoundsPerCompany = *rounds
	cfg.ExitRatio = *exits
	cfg.Seed = *seed

	log := logger.Get()
	if err := run(ctx, log, cfg, *format, *out); err != nil {
		log.Error(ctx, "history generation failed", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, log logger.Logger, cfg histgen.Config, format, out string) error {
	tables, err := histgen.Generate(cfg)
	if err != nil {
		return err
	}
	if err := histgen.Write(ctx, format, out, tables, histgen.WithLogger(log.Named("histgen"))); err != nil {
		return err
	}
	log.Info(ctx, "history written",
		logger.String("format", format),
		logger.String("out", out),
		logger.Int("people", len(tables.PeopleRows)),
		logger.Int("degrees", len(tables.EducationRows)),
		logger.Int("funding_rounds", len(tables.FundingRows)),
		logger.Int("acquisitions", len(tables.AcquisitionRows)),
		logger.Int("ipos", len(tables.IPORows)))
	return nil
}
