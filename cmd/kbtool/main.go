package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/arpankumarde/neevtrace/internal/app"
	"github.com/arpankumarde/neevtrace/internal/config"
	"github.com/arpankumarde/neevtrace/internal/platform/logging"
)

// kbtool prepares the Postgres schema and loads the knowledge base from the
// seed file of PDF URLs.
func main() {
	recreate := flag.Bool("recreate", false, "drop the collection before loading")
	seeds := flag.String("seeds", "", "seed file (default KNOWLEDGE_SEED_PATH)")
	schemaOnly := flag.Bool("schema-only", false, "initialise the schema and exit")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	if cfg.Database.URL == "" {
		log.Fatal().Msg("DATABASE_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Info().Msg("Initializing database schema...")
	a, err := app.Build(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("schema initialization failed")
	}
	defer a.Close()
	log.Info().Msg("Schema ready.")

	if *schemaOnly {
		return
	}

	path := *seeds
	if path == "" {
		path = cfg.Knowledge.SeedPath
	}

	log.Info().Str("seeds", path).Bool("recreate", *recreate).Msg("Loading knowledge base...")
	if err := a.LoadSeeds(ctx, path, *recreate); err != nil {
		a.Close()
		log.Fatal().Err(err).Msg("knowledge load failed")
	}
	log.Info().Msg("Knowledge base ready.")
}
