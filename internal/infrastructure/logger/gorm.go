package logger

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// GormConfig tunes statement logging.
type GormConfig struct {
	Level gormlogger.LogLevel
	// SlowThreshold marks statements as slow; zero disables the check
	SlowThreshold time.Duration
	// LogNotFound also reports gorm.ErrRecordNotFound as an SQL error
	LogNotFound bool
	// LogParams writes bound values (member names, personal ids) into the SQL
	LogParams bool
}

// GormLogger routes GORM statement logs through zap, tagged with the
// request correlation fields of the statement's context.
type GormLogger struct {
	base *zap.Logger
	cfg  GormConfig
}

// NewGormLogger logs at level with a 200ms slow threshold and no bound values.
func NewGormLogger(base *zap.Logger, level gormlogger.LogLevel) *GormLogger {
	return NewGormLoggerWithConfig(base, GormConfig{Level: level, SlowThreshold: 200 * time.Millisecond})
}

func NewGormLoggerWithConfig(base *zap.Logger, cfg GormConfig) *GormLogger {
	return &GormLogger{base: base.Named("gorm"), cfg: cfg}
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	cfg := l.cfg
	cfg.Level = level
	return &GormLogger{base: l.base, cfg: cfg}
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Info, msg, data)
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Warn, msg, data)
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Error, msg, data)
}

func (l *GormLogger) printf(ctx context.Context, level gormlogger.LogLevel, msg string, data []any) {
	if l.cfg.Level < level {
		return
	}
	sugar := WithLogger(ctx, l.base).Zap().Sugar()
	switch level {
	case gormlogger.Error:
		sugar.Errorf(msg, data...)
	case gormlogger.Warn:
		sugar.Warnf(msg, data...)
	default:
		sugar.Infof(msg, data...)
	}
}

// ParamsFilter drops bound values unless LogParams is set.
func (l *GormLogger) ParamsFilter(_ context.Context, sql string, params ...any) (string, []any) {
	if !l.cfg.LogParams {
		return sql, nil
	}
	return sql, params
}

// Trace reports failed statements at error, slow ones at warn and the rest
// at debug when the level is Info.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	level := l.cfg.Level
	if level <= gormlogger.Silent {
		return
	}
	if err != nil && !l.cfg.LogNotFound && errors.Is(err, gormlogger.ErrRecordNotFound) {
		err = nil
		if level < gormlogger.Info {
			return
		}
	}

	elapsed := time.Since(begin)
	slow := l.cfg.SlowThreshold > 0 && elapsed > l.cfg.SlowThreshold
	if err == nil && !slow && level < gormlogger.Info {
		return
	}

	sql, rows := fc()
	log := WithLogger(ctx, l.base).With(
		zap.String("sql", sql),
		zap.Int64("rows", rows),
		zap.Duration("elapsed", elapsed),
	)
	switch {
	case err != nil:
		if level >= gormlogger.Error {
			log.Error("SQL error", zap.Error(err))
		}
	case slow:
		if level >= gormlogger.Warn {
			log.Warn("Slow SQL", zap.Duration("threshold", l.cfg.SlowThreshold))
		}
	default:
		log.Debug("SQL query")
	}
}

// MapGormLogLevel maps a log level name to a GORM log level
func MapGormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info", "debug":
		return gormlogger.Info
	}
	return gormlogger.Warn
}
