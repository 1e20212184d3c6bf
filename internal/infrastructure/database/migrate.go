package database

import (
	"errors"
	"fmt"

	"github.com/rabeeb-commits/spring-dental-clinic-sub001/config"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/infrastructure/database/migrations"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/sirupsen/logrus"
)

const (
	MigrateUp   = "up"
	MigrateDown = "down"
)

// RunMigrations applies (up) or rolls back one step of (down) the embedded schema migrations.
func RunMigrations(cfg config.DBConfig, direction string, log *logrus.Logger) error {
	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, cfg.URL())
	if err != nil {
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}
	defer m.Close()

	switch direction {
	case MigrateUp:
		err = m.Up()
	case MigrateDown:
		err = m.Steps(-1)
	default:
		return fmt.Errorf("unknown migration direction %q", direction)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration %s failed: %w", direction, err)
	}

	version, dirty, verr := m.Version()
	if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
		return verr
	}
	log.WithFields(logrus.Fields{"version": version, "dirty": dirty}).Infof("Migrations %s complete", direction)
	return nil
}
