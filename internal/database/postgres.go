package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type PgCampusRepository struct {
	conn *sql.DB
}

func NewPgCampusRepository(dsn string) (*PgCampusRepository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &PgCampusRepository{conn: db}, nil
}

// newPgCampusRepositoryFromDB wraps an already opened handle.
func newPgCampusRepositoryFromDB(db *sql.DB) *PgCampusRepository {
	return &PgCampusRepository{conn: db}
}

// RunMigrations applies the embedded schema migrations.
func (db *PgCampusRepository) RunMigrations() error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("migration source: %w", err)
	}

	driver, err := pgmigrate.WithInstance(db.conn, &pgmigrate.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}

	return nil
}

func (db *PgCampusRepository) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

func (db *PgCampusRepository) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}
