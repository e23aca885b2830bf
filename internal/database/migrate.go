package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// gooseLogger routes goose output through zap.
type gooseLogger struct {
	log *zap.SugaredLogger
}

func (l gooseLogger) Printf(format string, v ...interface{}) { l.log.Infof(format, v...) }
func (l gooseLogger) Fatalf(format string, v ...interface{}) { l.log.Fatalf(format, v...) }

// Migrate applies every pending migration in dir for Up, or reverts all
// applied ones for Down. It returns the schema version it leaves behind.
func Migrate(ctx context.Context, db *sql.DB, dir string, direction Direction, log *zap.Logger) (int64, error) {
	if direction != Up && direction != Down {
		return 0, fmt.Errorf("unknown migration direction %q", direction)
	}

	goose.SetLogger(gooseLogger{log: log.Sugar()})
	if err := goose.SetDialect("postgres"); err != nil {
		return 0, fmt.Errorf("set goose dialect: %w", err)
	}

	var err error
	if direction == Up {
		err = goose.UpContext(ctx, db, dir)
	} else {
		err = goose.ResetContext(ctx, db, dir)
	}
	if err != nil {
		return 0, fmt.Errorf("migrate %s: %w", direction, err)
	}

	version, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}
