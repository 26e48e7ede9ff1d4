package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

type Logger interface {
	Info(action, message, requestID string, details map[string]interface{})
	Debug(action, message, requestID string, details map[string]interface{})
	Warn(action, message, requestID string, details map[string]interface{})
	Error(action, message, requestID string, details map[string]interface{}, err error)
}

type jsonLogger struct {
	entry *logrus.Entry
}

// New returns a JSON logger writing to stdout at the given level
// ("debug", "info", "warn", "error"); unknown levels fall back to info.
func New(service, level string) Logger {
	return NewWithWriter(service, level, os.Stdout)
}

func NewWithWriter(service, level string, out io.Writer) Logger {
	base := logrus.New()
	base.SetOutput(out)
	base.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000000000Z07:00",
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "timestamp",
			logrus.FieldKeyMsg:  "message",
		},
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	base.SetLevel(lvl)

	hostname, _ := os.Hostname()
	return &jsonLogger{
		entry: base.WithFields(logrus.Fields{
			"service":  service,
			"hostname": hostname,
		}),
	}
}

// Discard returns a logger that drops everything; handy in tests.
func Discard() Logger {
	return NewWithWriter("discard", "error", io.Discard)
}

func (l *jsonLogger) Info(action, message, requestID string, details map[string]interface{}) {
	l.with(action, requestID, details).Info(message)
}

func (l *jsonLogger) Debug(action, message, requestID string, details map[string]interface{}) {
	l.with(action, requestID, details).Debug(message)
}

func (l *jsonLogger) Warn(action, message, requestID string, details map[string]interface{}) {
	l.with(action, requestID, details).Warn(message)
}

func (l *jsonLogger) Error(action, message, requestID string, details map[string]interface{}, err error) {
	entry := l.with(action, requestID, details)
	if err != nil {
		entry = entry.WithField("error", newErrorInfo(err))
	}
	entry.Error(message)
}

func (l *jsonLogger) with(action, requestID string, details map[string]interface{}) *logrus.Entry {
	fields := logrus.Fields{
		"action":     action,
		"request_id": requestID,
	}
	if len(details) > 0 {
		fields["details"] = details
	}
	return l.entry.WithFields(fields)
}
