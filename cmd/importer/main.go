package main

import (
	"context"
	"flag"
	"os"

	"github.com/rs/zerolog"

	"shopcore/internal/config"
	"shopcore/internal/db"
	"shopcore/internal/importer"
	productrepo "shopcore/internal/repository/product"
	stockrepo "shopcore/internal/repository/stock"
)

func main() {
	path := flag.String("file", "", "path to a product CSV export")
	flag.Parse()

	cfg := config.FromEnv()
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "importer").Logger()

	if *path == "" {
		logger.Fatal().Msg("missing -file argument")
	}

	f, err := os.Open(*path)
	if err != nil {
		logger.Fatal().Err(err).Str("file", *path).Msg("open import file")
	}
	defer f.Close()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect db")
	}
	defer pool.Close()

	imp := importer.NewCSVImporter(f, productrepo.NewPostgres(pool, logger), stockrepo.NewPostgres(pool, logger))
	count, err := imp.Run(ctx)
	if err != nil {
		logger.Fatal().Err(err).Int("imported", count).Msg("import failed")
	}

	logger.Info().Int("imported", count).Msg("import finished")
}
