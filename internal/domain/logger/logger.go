package logger

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/ellavondegurechaff/healthquest/healthquest/config"
	"github.com/uptrace/bun"
)

// QueryLogger times one repository operation, which may span several
// statements. Successful operations log at debug unless they are slow.
type QueryLogger struct {
	Operation string
	Query     string
	Args      []interface{}
	StartTime time.Time
}

func NewQueryLogger(operation, query string, args ...any) *QueryLogger {
	return &QueryLogger{
		Operation: operation,
		Query:     query,
		Args:      args,
		StartTime: time.Now(),
	}
}

func (l *QueryLogger) Log(err error, rowsAffected int64) {
	logQuery(l.Operation, l.Query, l.Args, time.Since(l.StartTime), err, rowsAffected)
}

// QueryHook logs every statement bun runs with the same levels as
// QueryLogger. sql.ErrNoRows is not a failure.
type QueryHook struct{}

var _ bun.QueryHook = QueryHook{}

func (QueryHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (QueryHook) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	err := event.Err
	if errors.Is(err, sql.ErrNoRows) {
		err = nil
	}

	var rows int64
	if event.Result != nil {
		rows, _ = event.Result.RowsAffected()
	}
	logQuery(event.Operation(), event.Query, event.QueryArgs, time.Since(event.StartTime), err, rows)
}

func logQuery(operation, query string, args []interface{}, duration time.Duration, err error, rowsAffected int64) {
	if err != nil {
		slog.Error("Query failed",
			slog.String("type", "db"),
			slog.String("operation", operation),
			slog.String("query", query),
			slog.Any("args", args),
			slog.Duration("took", duration),
			slog.Any("error", err),
		)
		return
	}

	level := slog.LevelDebug
	if duration > config.SlowQueryThreshold {
		level = slog.LevelWarn
	}

	slog.Log(context.Background(), level, "Query executed",
		slog.String("type", "db"),
		slog.String("operation", operation),
		slog.String("query", query),
		slog.Any("args", args),
		slog.Duration("took", duration),
		slog.Int64("affected_rows", rowsAffected),
	)
}
