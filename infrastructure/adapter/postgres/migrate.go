package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fixora/expense-tracker/infrastructure/service/logger"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// Migrations returns the schema files shipped with the binary.
func Migrations() fs.FS {
	sub, err := fs.Sub(embeddedMigrations, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

type migrationFile struct {
	version int
	name    string
	path    string
	kind    Direction
}

// Migrate applies (Up) or reverts (Down) every pending migration in fsys,
// tracking versions in schema_migrations.
func Migrate(ctx context.Context, db *sql.DB, fsys fs.FS, direction Direction, log logger.Logger) error {
	if log == nil {
		log = logger.NewNopLogger()
	}
	if direction != Up && direction != Down {
		return fmt.Errorf("unknown migration direction: %q", direction)
	}

	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`); err != nil {
		return fmt.Errorf("failed to ensure schema_migrations: %w", err)
	}

	files, err := loadMigrationFiles(fsys, direction)
	if err != nil {
		return err
	}

	for _, f := range files {
		var applied bool
		err := db.QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)", f.version).Scan(&applied)
		if err != nil {
			return err
		}
		if applied == (direction == Up) {
			continue
		}

		body, err := fs.ReadFile(fsys, f.path)
		if err != nil {
			return err
		}

		log.Info(ctx, "Applying migration", map[string]interface{}{
			"version":   f.version,
			"name":      f.name,
			"direction": string(direction),
		})
		if err := applyMigration(ctx, db, f, string(body)); err != nil {
			return fmt.Errorf("migration %s failed: %w", f.path, err)
		}
	}
	return nil
}

func applyMigration(ctx context.Context, db *sql.DB, f migrationFile, body string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, body); err != nil {
		return err
	}
	if f.kind == Up {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO schema_migrations (version, name, applied_at) VALUES ($1, $2, $3)",
			f.version, f.name, time.Now())
	} else {
		_, err = tx.ExecContext(ctx, "DELETE FROM schema_migrations WHERE version = $1", f.version)
	}
	if err != nil {
		return err
	}
	return tx.Commit()
}

// loadMigrationFiles lists NNN_name.{up,down}.sql files for direction, in
// ascending version order for Up and descending for Down.
func loadMigrationFiles(fsys fs.FS, direction Direction) ([]migrationFile, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}

	suffix := "." + string(direction) + ".sql"
	var files []migrationFile
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(name), suffix) {
			continue
		}
		version, migName, err := parseVersionAndName(strings.TrimSuffix(name, name[len(name)-len(suffix):]))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		files = append(files, migrationFile{version: version, name: migName, path: name, kind: direction})
	}

	sort.Slice(files, func(i, j int) bool {
		if direction == Down {
			return files[i].version > files[j].version
		}
		return files[i].version < files[j].version
	})
	for i := 1; i < len(files); i++ {
		if files[i].version == files[i-1].version {
			return nil, fmt.Errorf("duplicate migration version %d", files[i].version)
		}
	}
	return files, nil
}

// parseVersionAndName splits "001_create_users" into (1, "create_users").
func parseVersionAndName(base string) (int, string, error) {
	parts := strings.SplitN(base, "_", 2)
	if len(parts) < 2 || parts[1] == "" {
		return 0, "", errors.New("expected NNN_name")
	}
	version, err := strconv.Atoi(parts[0])
	if err != nil || version <= 0 {
		return 0, "", errors.New("invalid version prefix")
	}
	return version, parts[1], nil
}
