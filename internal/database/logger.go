// internal/database/logger.go
package database

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// LogrusGormLogger routes gorm's SQL logging through logrus.
type LogrusGormLogger struct {
	Entry         *logrus.Entry
	LogLevel      logger.LogLevel
	SlowThreshold time.Duration
}

func NewLogrusGormLogger(entry *logrus.Entry, level string, slowThreshold time.Duration) *LogrusGormLogger {
	return &LogrusGormLogger{
		Entry:         entry,
		LogLevel:      parseGormLevel(level),
		SlowThreshold: slowThreshold,
	}
}

func parseGormLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info", "debug":
		return logger.Info
	default:
		return logger.Warn
	}
}

func (l *LogrusGormLogger) LogMode(level logger.LogLevel) logger.Interface {
	newLogger := *l
	newLogger.LogLevel = level
	return &newLogger
}

func (l *LogrusGormLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.LogLevel >= logger.Info {
		l.Entry.WithContext(ctx).Info(fmt.Sprintf(msg, args...))
	}
}

func (l *LogrusGormLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.LogLevel >= logger.Warn {
		l.Entry.WithContext(ctx).Warn(fmt.Sprintf(msg, args...))
	}
}

func (l *LogrusGormLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.LogLevel >= logger.Error {
		l.Entry.WithContext(ctx).Error(fmt.Sprintf(msg, args...))
	}
}

func (l *LogrusGormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	entry := l.Entry.WithContext(ctx).WithFields(logrus.Fields{
		"sql":        sql,
		"rows":       rows,
		"latency_ms": elapsed.Milliseconds(),
	})

	switch {
	case err != nil && l.LogLevel >= logger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		entry.WithField("source", l.getSource()).WithError(err).Error("sql_error")
	case elapsed > l.SlowThreshold && l.SlowThreshold != 0 && l.LogLevel >= logger.Warn:
		entry.WithFields(logrus.Fields{
			"source":         l.getSource(),
			"slow_threshold": l.SlowThreshold.String(),
		}).Warn("sql_slow")
	case l.LogLevel == logger.Info:
		entry.WithField("source", l.getSource()).Debug("sql")
	}
}

func (l *LogrusGormLogger) getSource() string {
	for i := 2; i < 15; i++ {
		_, file, line, ok := runtime.Caller(i)
		if ok && (!strings.Contains(file, "gorm.io") && !strings.HasSuffix(file, "internal/database/logger.go")) {
			return file + ":" + strconv.Itoa(line)
		}
	}
	return ""
}
