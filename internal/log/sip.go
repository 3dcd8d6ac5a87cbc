package log

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"

	gosiplog "github.com/ghettovoice/gosip/log"
)

// SIPLogger adapts a slog.Logger to the gosip Logger interface so the SIP
// parser logs through the same handler as the rest of netvis.
type SIPLogger struct {
	logger *slog.Logger // nil follows slog.Default at each call
	attrs  []any
	prefix string
	fields gosiplog.Fields
	level  *slog.LevelVar
}

// NewSIPLogger wraps l, or the process default logger when l is nil. gosip
// is chatty at debug level, so the adapter starts at warn.
func NewSIPLogger(l *slog.Logger) *SIPLogger {
	lv := &slog.LevelVar{}
	lv.Set(slog.LevelWarn)
	return &SIPLogger{logger: l, fields: gosiplog.Fields{}, level: lv}
}

func (la *SIPLogger) base() *slog.Logger {
	if la.logger != nil {
		return la.logger
	}
	return slog.Default()
}

func (la *SIPLogger) log(level slog.Level, msg string) {
	if level < la.level.Level() {
		return
	}
	la.base().Log(context.Background(), level, msg, la.attrs...)
}

func (la *SIPLogger) with(attrs ...any) *SIPLogger {
	c := *la
	c.attrs = append(slices.Clip(la.attrs), attrs...)
	return &c
}

func (la *SIPLogger) Fields() gosiplog.Fields {
	return la.fields
}

func (la *SIPLogger) WithFields(fields map[string]interface{}) gosiplog.Logger {
	merged := make(gosiplog.Fields, len(la.fields)+len(fields))
	args := make([]any, 0, 2*len(fields))
	for k, v := range la.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
		args = append(args, k, v)
	}
	c := la.with(args...)
	c.fields = merged
	return c
}

func (la *SIPLogger) Prefix() string {
	return la.prefix
}

func (la *SIPLogger) WithPrefix(prefix string) gosiplog.Logger {
	c := la.with("prefix", prefix)
	c.prefix = prefix
	return c
}

func (la *SIPLogger) Print(args ...interface{}) { la.log(slog.LevelInfo, fmt.Sprint(args...)) }
func (la *SIPLogger) Printf(format string, args ...interface{}) {
	la.log(slog.LevelInfo, fmt.Sprintf(format, args...))
}

// slog has no trace level; trace goes to debug.
func (la *SIPLogger) Trace(args ...interface{}) { la.log(slog.LevelDebug, fmt.Sprint(args...)) }
func (la *SIPLogger) Tracef(format string, args ...interface{}) {
	la.log(slog.LevelDebug, fmt.Sprintf(format, args...))
}

func (la *SIPLogger) Debug(args ...interface{}) { la.log(slog.LevelDebug, fmt.Sprint(args...)) }
func (la *SIPLogger) Debugf(format string, args ...interface{}) {
	la.log(slog.LevelDebug, fmt.Sprintf(format, args...))
}

func (la *SIPLogger) Info(args ...interface{}) { la.log(slog.LevelInfo, fmt.Sprint(args...)) }
func (la *SIPLogger) Infof(format string, args ...interface{}) {
	la.log(slog.LevelInfo, fmt.Sprintf(format, args...))
}

func (la *SIPLogger) Warn(args ...interface{}) { la.log(slog.LevelWarn, fmt.Sprint(args...)) }
func (la *SIPLogger) Warnf(format string, args ...interface{}) {
	la.log(slog.LevelWarn, fmt.Sprintf(format, args...))
}

func (la *SIPLogger) Error(args ...interface{}) { la.log(slog.LevelError, fmt.Sprint(args...)) }
func (la *SIPLogger) Errorf(format string, args ...interface{}) {
	la.log(slog.LevelError, fmt.Sprintf(format, args...))
}

func (la *SIPLogger) Fatal(args ...interface{}) {
	la.base().Error(fmt.Sprint(args...), la.attrs...)
	os.Exit(1)
}

func (la *SIPLogger) Fatalf(format string, args ...interface{}) {
	la.base().Error(fmt.Sprintf(format, args...), la.attrs...)
	os.Exit(1)
}

func (la *SIPLogger) Panic(args ...interface{}) {
	msg := fmt.Sprint(args...)
	la.base().Error(msg, la.attrs...)
	panic(msg)
}

func (la *SIPLogger) Panicf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	la.base().Error(msg, la.attrs...)
	panic(msg)
}

// SetLevel takes a logrus-style level: 0 panic ... 6 trace.
func (la *SIPLogger) SetLevel(level uint32) {
	switch {
	case level <= 2:
		la.level.Set(slog.LevelError)
	case level == 3:
		la.level.Set(slog.LevelWarn)
	case level == 4:
		la.level.Set(slog.LevelInfo)
	default:
		la.level.Set(slog.LevelDebug)
	}
}
