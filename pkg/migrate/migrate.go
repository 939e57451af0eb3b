package migrate

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/pressly/goose/v3"
)

// DefaultDir is the on-disk migrations directory, relative to the repo root.
const DefaultDir = "pkg/migrate/migrations"

// EmbeddedDir selects the migrations compiled into the binary.
const EmbeddedDir = "migrations"

//go:embed migrations/*.sql
var embedded embed.FS

// Embedded exposes the compiled-in migrations.
func Embedded() embed.FS {
	return embedded
}

// Run applies up, down or status against a Postgres database and returns one
// line per migration it touched or inspected. dir is EmbeddedDir or a path.
func Run(ctx context.Context, db *sql.DB, dir, command string) ([]string, error) {
	provider, err := newProvider(db, dir)
	if err != nil {
		return nil, err
	}
	defer provider.Close()

	switch command {
	case "up":
		results, err := provider.Up(ctx)
		return describeResults(results), wrapGoose(command, err)
	case "down":
		result, err := provider.Down(ctx)
		return describeResults([]*goose.MigrationResult{result}), wrapGoose(command, err)
	case "status":
		statuses, err := provider.Status(ctx)
		if err != nil {
			return nil, wrapGoose(command, err)
		}
		lines := make([]string, 0, len(statuses))
		for _, st := range statuses {
			applied := "pending"
			if st.State == goose.StateApplied {
				applied = "applied " + st.AppliedAt.UTC().Format("2006-01-02 15:04:05")
			}
			lines = append(lines, fmt.Sprintf("%d %s %s", st.Source.Version, applied, st.Source.Path))
		}
		return lines, nil
	default:
		return nil, fmt.Errorf("unknown migrate command %q", command)
	}
}

// MigrateToVersion moves the schema up or down until targetVersion is current.
func MigrateToVersion(ctx context.Context, db *sql.DB, dir, targetVersion string) ([]string, error) {
	target, err := strconv.ParseInt(targetVersion, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid version %q (expected YYYYMMDDHHMMSS): %w", targetVersion, err)
	}
	provider, err := newProvider(db, dir)
	if err != nil {
		return nil, err
	}
	defer provider.Close()

	current, err := provider.GetDBVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf("get db version: %w", err)
	}

	var results []*goose.MigrationResult
	switch {
	case current < target:
		results, err = provider.UpTo(ctx, target)
	case current > target:
		results, err = provider.DownTo(ctx, target)
	}
	return describeResults(results), wrapGoose(fmt.Sprintf("migrate to %d", target), err)
}

func newProvider(db *sql.DB, dir string) (*goose.Provider, error) {
	if db == nil {
		return nil, errors.New("db is required")
	}
	fsys, err := migrationsFS(dir)
	if err != nil {
		return nil, err
	}
	// migrations are written for Postgres
	provider, err := goose.NewProvider(goose.DialectPostgres, db, fsys)
	if err != nil {
		return nil, fmt.Errorf("goose provider: %w", err)
	}
	return provider, nil
}

func migrationsFS(dir string) (fs.FS, error) {
	switch dir {
	case "":
		return nil, errors.New("dir is required")
	case EmbeddedDir:
		return fs.Sub(embedded, EmbeddedDir)
	default:
		return os.DirFS(dir), nil
	}
}

func describeResults(results []*goose.MigrationResult) []string {
	lines := make([]string, 0, len(results))
	for _, res := range results {
		if res == nil || res.Source == nil {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s %d %s (%s)", res.Direction, res.Source.Version, res.Source.Path, res.Duration.Round(time.Millisecond)))
	}
	return lines
}

func wrapGoose(action string, err error) error {
	if err == nil || errors.Is(err, goose.ErrNoNextVersion) {
		return nil
	}
	return fmt.Errorf("goose %s: %w", action, err)
}
