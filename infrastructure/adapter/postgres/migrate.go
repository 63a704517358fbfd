package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"

	"github.com/campusdesk/students/migrations"
)

const migrationsTable = "schema_migrations"

// Migrate runs the embedded goose migrations in the given direction:
// up, down, reset or status.
func Migrate(ctx context.Context, db *sql.DB, direction string, log *logrus.Logger) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetTableName(migrationsTable)
	if log != nil {
		goose.SetLogger(&gooseLogger{log: log})
	}
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	var err error
	switch strings.ToLower(direction) {
	case "up":
		err = goose.UpContext(ctx, db, ".")
	case "down":
		err = goose.DownContext(ctx, db, ".")
	case "reset":
		err = goose.ResetContext(ctx, db, ".")
	case "status":
		err = goose.StatusContext(ctx, db, ".")
	default:
		return fmt.Errorf("unknown migration direction: %q", direction)
	}
	if err != nil {
		return fmt.Errorf("migration %s failed: %w", direction, err)
	}
	return nil
}

// gooseLogger keeps goose from calling os.Exit through Fatalf
type gooseLogger struct {
	log *logrus.Logger
}

func (l *gooseLogger) Fatalf(format string, v ...interface{}) {
	l.log.Errorf(strings.TrimSuffix(format, "\n"), v...)
}

func (l *gooseLogger) Printf(format string, v ...interface{}) {
	l.log.Infof(strings.TrimSuffix(format, "\n"), v...)
}
