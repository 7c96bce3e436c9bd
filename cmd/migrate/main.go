package main

import (
	"errors"
	"flag"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/shikshya/shikshya-backend/internal/config"
	"github.com/shikshya/shikshya-backend/internal/logger"
)

func main() {
	var (
		dir  = flag.String("dir", "migrations", "migrations directory")
		down = flag.Bool("down", false, "roll back one migration instead of migrating up")
	)
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	// golang-migrate's postgres driver uses lib/pq-style URLs; the pgx
	// pool URL works as-is.
	dbURL := cfg.DatabaseURL
	if !strings.Contains(dbURL, "sslmode") {
		if strings.Contains(dbURL, "?") {
			dbURL += "&sslmode=disable"
		} else {
			dbURL += "?sslmode=disable"
		}
	}

	m, err := migrate.New("file://"+*dir, dbURL)
	if err != nil {
		log.Fatal().Err(err).Msg("open migrations")
	}
	defer m.Close()

	if *down {
		err = m.Steps(-1)
	} else {
		err = m.Up()
	}

	if err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info().Msg("no pending migrations")
			return
		}
		log.Fatal().Err(err).Msg("migration failed")
	}

	version, dirty, _ := m.Version()
	log.Info().Uint("version", version).Bool("dirty", dirty).Msg("migrations applied")
}
