package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// QueryLogger routes GORM output through slog so SQL lines carry the
// request_id and user_id attributes of the calling request.
type QueryLogger struct {
	log   *slog.Logger
	level logger.LogLevel
	slow  time.Duration
}

// NewGormLogger returns a QueryLogger at level.
func NewGormLogger(l *slog.Logger, level logger.LogLevel) *QueryLogger {
	return &QueryLogger{log: l, level: level, slow: slowQueryThreshold}
}

func (l *QueryLogger) LogMode(level logger.LogLevel) logger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *QueryLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	l.printf(ctx, logger.Info, slog.LevelInfo, msg, data)
}

func (l *QueryLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	l.printf(ctx, logger.Warn, slog.LevelWarn, msg, data)
}

func (l *QueryLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	l.printf(ctx, logger.Error, slog.LevelError, msg, data)
}

func (l *QueryLogger) printf(ctx context.Context, floor logger.LogLevel, lvl slog.Level, msg string, data []interface{}) {
	if l.level < floor {
		return
	}
	l.log.Log(ctx, lvl, fmt.Sprintf(msg, data...))
}

// Trace logs failed and slow statements. Missing rows are an expected
// outcome for lookups and are not reported.
func (l *QueryLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	failed := err != nil && !errors.Is(err, gorm.ErrRecordNotFound)
	slow := l.slow > 0 && elapsed > l.slow

	var (
		lvl slog.Level
		msg string
	)
	switch {
	case failed && l.level >= logger.Error:
		lvl, msg = slog.LevelError, "sql failed"
	case slow && l.level >= logger.Warn:
		lvl, msg = slog.LevelWarn, "sql slow"
	case l.level >= logger.Info:
		lvl, msg = slog.LevelInfo, "sql"
	default:
		return
	}

	query, rows := fc()
	attrs := []any{
		slog.String("sql", query),
		slog.Int64("rows", rows),
		slog.Duration("elapsed", elapsed),
	}
	if failed {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	l.log.Log(ctx, lvl, msg, attrs...)
}
