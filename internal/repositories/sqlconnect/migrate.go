package sqlconnect

import (
	"database/sql"
	"embed"

	"expensor/pkg/utils"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations applies the embedded schema migrations to the
// connected database.
func RunMigrations(db *sql.DB) error {
	driver, err := mysql.WithInstance(db, &mysql.Config{})
	if err != nil {
		return utils.ErrorHandler(err, "create mysql driver")
	}

	d, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return utils.ErrorHandler(err, "load embedded migrations")
	}

	m, err := migrate.NewWithInstance("iofs", d, "mysql", driver)
	if err != nil {
		return utils.ErrorHandler(err, "create migrate instance")
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return utils.ErrorHandler(err, "apply migrations")
	}
	return nil
}
