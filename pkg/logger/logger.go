package logger

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	gormlogger "gorm.io/gorm/logger"
)

// Logger is a structured JSON logger shared by every layer of the service.
type Logger struct {
	*logrus.Entry
}

// New builds a JSON logger writing to stdout at the given level name.
// Unknown level names fall back to info.
func New(level string) *Logger {
	return NewWithOutput(level, os.Stdout)
}

// NewWithOutput is New with an explicit destination.
func NewWithOutput(level string, out io.Writer) *Logger {
	base := logrus.New()
	base.SetOutput(out)
	base.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})
	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	base.SetLevel(lvl)
	return &Logger{Entry: logrus.NewEntry(base).WithField("source", "app")}
}

// Discard returns a logger that drops everything, for tests.
func Discard() *Logger {
	return NewWithOutput("panic", io.Discard)
}

// With returns a child logger carrying the given fields.
func (l *Logger) With(fields logrus.Fields) *Logger {
	return &Logger{Entry: l.Entry.WithFields(fields)}
}

// Gorm adapts the logger to GORM's logger interface.
func (l *Logger) Gorm() gormlogger.Interface {
	return &gormLogger{entry: l.Entry.WithField("source", "gorm"), level: gormlogger.Warn}
}

type gormLogger struct {
	entry *logrus.Entry
	level gormlogger.LogLevel
}

func (g *gormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *g
	clone.level = level
	return &clone
}

func (g *gormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if g.level >= gormlogger.Info {
		g.entry.WithField("data", data).Info(msg)
	}
}

func (g *gormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if g.level >= gormlogger.Warn {
		g.entry.WithField("data", data).Warn(msg)
	}
}

func (g *gormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if g.level >= gormlogger.Error {
		g.entry.WithField("data", data).Error(msg)
	}
}

func (g *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.level <= gormlogger.Silent {
		return
	}
	sql, rows := fc()
	fields := logrus.Fields{
		"elapsed": time.Since(begin).String(),
		"sql":     sql,
		"rows":    rows,
	}
	// Missing rows are an expected outcome for lookups.
	if err != nil && !errors.Is(err, gormlogger.ErrRecordNotFound) {
		g.entry.WithFields(fields).WithField("error", err.Error()).Error("SQL query error")
		return
	}
	g.entry.WithFields(fields).Debug("SQL query executed")
}
