// cmd/tools/seed/main.go
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codr1/bagelshop/internal/availability"
	"github.com/codr1/bagelshop/internal/config"
	"github.com/codr1/bagelshop/internal/db"
	"github.com/codr1/bagelshop/internal/menu"
	"github.com/codr1/bagelshop/internal/seed"
)

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "Path to the YAML config")
		only       = flag.String("only", "", "Seed only \"schedules\" or \"menu\"")
	)
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	database, err := db.NewFromConfig(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if *only == "" || *only == "schedules" {
		svc := availability.NewService(db.NewAvailabilityStore(database),
			availability.WithLocation(cfg.Location()),
			availability.WithLogger(log.Logger),
		)
		if _, err := seed.Schedules(ctx, svc, log.Logger); err != nil {
			log.Fatal().Err(err).Msg("Failed to seed schedules")
		}
	}
	if *only == "" || *only == "menu" {
		svc := menu.NewService(db.NewMenuStore(database), menu.WithLogger(log.Logger))
		if _, err := seed.Menu(ctx, svc, log.Logger); err != nil {
			log.Fatal().Err(err).Msg("Failed to seed menu")
		}
	}
}
