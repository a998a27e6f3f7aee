package logger

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// maxLoggedSQL caps the statement text attached to a log entry.
const maxLoggedSQL = 1000

// gormLevels maps LOG_LEVEL to the GORM level. Statement tracing is only
// enabled at debug; info and warn keep errors and slow queries.
var gormLevels = map[string]gormlogger.LogLevel{
	"silent":  gormlogger.Silent,
	"error":   gormlogger.Error,
	"warn":    gormlogger.Warn,
	"warning": gormlogger.Warn,
	"info":    gormlogger.Warn,
	"debug":   gormlogger.Info,
}

// GormLogger forwards GORM output to zap, tagged with the request id of the
// calling context.
type GormLogger struct {
	log           *zap.Logger
	slowThreshold time.Duration
	level         gormlogger.LogLevel
}

// NewGormLogger creates a GORM logger writing to l under the "gorm" name.
// Unknown levels fall back to warn.
func NewGormLogger(l *zap.Logger, slowQuerySeconds float64, level string) *GormLogger {
	lvl, ok := gormLevels[strings.ToLower(level)]
	if !ok {
		lvl = gormlogger.Warn
	}
	return &GormLogger{
		log:           l.Named("gorm"),
		slowThreshold: time.Duration(slowQuerySeconds * float64(time.Second)),
		level:         lvl,
	}
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	cp := *l
	cp.level = level
	return &cp
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Info, zapcore.InfoLevel, msg, data)
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Warn, zapcore.WarnLevel, msg, data)
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Error, zapcore.ErrorLevel, msg, data)
}

func (l *GormLogger) printf(ctx context.Context, enabledAt gormlogger.LogLevel, lvl zapcore.Level, msg string, data []any) {
	if l.level >= enabledAt {
		WithContext(ctx, l.log).Sugar().Logf(lvl, msg, data...)
	}
}

// Trace logs a finished statement. Failed statements are logged at error,
// slow ones at warn, and the rest at debug when tracing is enabled.
// Missing rows and unique violations are expected outcomes and are not errors here.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	failed := err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && !errors.Is(err, gorm.ErrDuplicatedKey)
	slow := l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= gormlogger.Warn
	if !failed && !slow && l.level < gormlogger.Info {
		return
	}

	sql, rows := fc()
	if len(sql) > maxLoggedSQL {
		sql = sql[:maxLoggedSQL] + "..."
	}
	log := WithContext(ctx, l.log).With(
		zap.String("sql", sql),
		zap.Int64("rows", rows),
		zap.Duration("elapsed", elapsed),
	)

	switch {
	case failed:
		log.Error("query failed", zap.Error(err))
	case slow:
		log.Warn("slow query", zap.Duration("threshold", l.slowThreshold))
	default:
		log.Debug("query")
	}
}
