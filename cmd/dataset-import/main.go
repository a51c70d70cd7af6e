// dataset-import validates the datasets in a directory and copies them into
// the PostgreSQL datasets table used by DATA_SOURCE=postgres.
package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/phcfinder/internal/db"
	"github.com/Nixie-Tech-LLC/phcfinder/internal/loader"
	"github.com/Nixie-Tech-LLC/phcfinder/internal/storage"
)

func main() {
	_ = godotenv.Load()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	dir := "./data"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal().Msg("DATABASE_URL is required")
	}
	migrations := os.Getenv("MIGRATIONS_PATH")
	if migrations == "" {
		migrations = "./migrations"
	}

	ctx := context.Background()
	local := storage.NewLocalStorage(dir)

	// refuse to import anything the server would fail to load
	if _, err := loader.New(local, loader.DefaultTimeout).Load(ctx); err != nil {
		log.Fatal().Err(err).Str("dir", dir).Msg("datasets are invalid")
	}

	if err := db.Init(dbURL); err != nil {
		log.Fatal().Err(err).Msg("db init")
	}
	if err := db.RunMigrations(db.DB, migrations); err != nil {
		log.Fatal().Err(err).Msg("db migrate")
	}
	store := db.NewStore(db.DB)

	for _, name := range []string{loader.FacilitiesFile, loader.SettingsFile, loader.ClinicsFile} {
		rc, err := local.Open(ctx, name)
		if err != nil {
			log.Fatal().Err(err).Str("dataset", name).Msg("open")
		}
		body, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			log.Fatal().Err(err).Str("dataset", name).Msg("read")
		}
		if err := store.PutDataset(ctx, name, body); err != nil {
			log.Fatal().Err(err).Str("dataset", name).Msg("import")
		}
		log.Info().Str("dataset", name).Int("bytes", len(body)).Msg("imported")
	}

	list, err := store.ListDatasets(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("list datasets")
	}
	for _, d := range list {
		log.Info().Str("dataset", d.Name).Time("updated_at", d.UpdatedAt).Msg("stored")
	}
}
