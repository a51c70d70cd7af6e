package main

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/phcfinder/internal/config"
	"github.com/Nixie-Tech-LLC/phcfinder/internal/db"
	"github.com/Nixie-Tech-LLC/phcfinder/internal/storage"
)

// InitStorage selects and returns the configured dataset backend
func InitStorage(env *config.Config) storage.Storage {
	switch env.DataSource {
	case config.SourceHTTP:
		httpStorage, err := storage.NewHTTPStorage(env.DataBaseURL, &http.Client{Timeout: env.DataLoadTimeout})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize http dataset storage")
		}
		log.Info().Str("base_url", env.DataBaseURL).Msg("Using remote datasets")
		return httpStorage

	case config.SourceSpaces:
		spacesStorage, err := storage.NewSpacesStorage(
			env.SpacesEndpoint,
			env.SpacesRegion,
			env.SpacesBucket,
			env.SpacesPrefix,
			env.SpacesAccessKey,
			env.SpacesSecretKey,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize Spaces storage")
		}
		log.Info().Str("bucket", env.SpacesBucket).Str("prefix", env.SpacesPrefix).Msg("Using DigitalOcean Spaces datasets")
		return spacesStorage

	case config.SourcePostgres:
		if err := db.Init(env.DatabaseURL); err != nil {
			log.Fatal().Err(err).Msg("db init")
		}
		if err := db.RunMigrations(db.DB, env.MigrationsPath); err != nil {
			log.Fatal().Err(err).Msg("db migrate")
		}
		db.DB.SetConnMaxIdleTime(5 * time.Minute)
		log.Info().Msg("Using datasets table in PostgreSQL")
		return db.NewStore(db.DB)
	}

	log.Info().Str("dir", env.DataDir).Msg("Using local datasets")
	return storage.NewLocalStorage(env.DataDir)
}
