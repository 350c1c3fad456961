package database

import (
	"database/sql"
	"errors"
	"fmt"

	migrate "github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// RunPostgresMigrations applies every pending up migration found in migrationsDir.
// It reports whether anything was applied. A dedicated database/sql handle is
// opened through the pgx stdlib driver and closed before returning.
func RunPostgresMigrations(databaseURL, migrationsDir string) (bool, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return false, fmt.Errorf("failed to open database connection for migrations: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return false, fmt.Errorf("failed to ping database for migrations: %w", err)
	}
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		_ = db.Close()
		return false, fmt.Errorf("could not create postgres driver instance for migrations: %w", err)
	}
	return runMigrations(migrationsDir, "postgres", driver)
}

// RunSQLiteMigrations applies every pending up migration to the sqlite file at path.
func RunSQLiteMigrations(path, migrationsDir string) (bool, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_foreign_keys=on", path))
	if err != nil {
		return false, fmt.Errorf("failed to open sqlite database for migrations: %w", err)
	}
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		_ = db.Close()
		return false, fmt.Errorf("could not create sqlite driver instance for migrations: %w", err)
	}
	return runMigrations(migrationsDir, "sqlite3", driver)
}

// runMigrations closes driver, and with it the handle it wraps.
func runMigrations(migrationsDir, databaseName string, driver migratedb.Driver) (bool, error) {
	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsDir, databaseName, driver)
	if err != nil {
		_ = driver.Close()
		return false, fmt.Errorf("could not create migrate instance: %w", err)
	}

	upErr := m.Up()

	sourceErr, dbErr := m.Close()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return false, fmt.Errorf("failed to apply migrations: %w", upErr)
	}
	if sourceErr != nil {
		return false, fmt.Errorf("migration source error: %w", sourceErr)
	}
	if dbErr != nil {
		return false, fmt.Errorf("migration database error: %w", dbErr)
	}
	return !errors.Is(upErr, migrate.ErrNoChange), nil
}
