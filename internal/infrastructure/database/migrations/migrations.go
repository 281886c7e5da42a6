package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed sql/*.sql
var embedded embed.FS

const dir = "sql"

type Direction string

const (
	Up     Direction = "up"
	Down   Direction = "down"
	Status Direction = "status"
)

type gooseLogger struct {
	logger *slog.Logger
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

func (l gooseLogger) Fatalf(format string, v ...any) {
	l.logger.Error(fmt.Sprintf(format, v...))
}

func init() {
	goose.SetBaseFS(embedded)
}

// Run applies the embedded schema migrations through a database/sql handle
// that borrows connections from pool.
func Run(ctx context.Context, pool *pgxpool.Pool, direction Direction, logger *slog.Logger) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	return run(ctx, db, direction, logger)
}

func run(ctx context.Context, db *sql.DB, direction Direction, logger *slog.Logger) error {
	logger = logger.With("component", "Migrations")
	goose.SetLogger(gooseLogger{logger: logger})

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	logger.InfoContext(ctx, "Running database migrations", slog.String("direction", string(direction)))

	var err error
	switch direction {
	case Up:
		err = goose.UpContext(ctx, db, dir)
	case Down:
		err = goose.DownContext(ctx, db, dir)
	case Status:
		err = goose.StatusContext(ctx, db, dir)
	default:
		return fmt.Errorf("unknown migration direction %q", direction)
	}
	if err != nil {
		return fmt.Errorf("migration %s failed: %w", direction, err)
	}

	logger.InfoContext(ctx, "Database migrations finished", slog.String("direction", string(direction)))
	return nil
}
