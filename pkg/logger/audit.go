package logger

import (
	"fmt"

	"github.com/rs/zerolog"
)

// EnvProduction is the environment tag that suppresses debug records.
const EnvProduction = "production"

// stackTracer is implemented by faults that carry a captured stack trace.
// Plain errors do not; their records simply omit the stack field.
type stackTracer interface {
	StackTrace() string
}

// Audit is the structured audit logger. Every call emits exactly one record,
// synchronously, through the underlying zerolog logger: timestamp, level,
// source, message, code, environment, plus optional sanitized context and
// fault details. The context map is sanitized before emission so secrets
// never reach the sink.
type Audit struct {
	base zerolog.Logger
	env  string
}

// NewAudit wraps a base logger with an environment tag. The environment is
// stamped on every record and controls debug suppression.
func NewAudit(base zerolog.Logger, env string) *Audit {
	return &Audit{base: base, env: env}
}

// Debug emits a debug record. Suppressed entirely in production.
func (a *Audit) Debug(source, message, code string, ctx map[string]any) {
	if a.env == EnvProduction {
		return
	}
	a.emit(a.base.Debug(), source, message, code, ctx, nil)
}

// Info emits an info record.
func (a *Audit) Info(source, message, code string, ctx map[string]any) {
	a.emit(a.base.Info(), source, message, code, ctx, nil)
}

// Warn emits a warning record, optionally carrying an underlying fault.
func (a *Audit) Warn(source, message, code string, ctx map[string]any, err error) {
	a.emit(a.base.Warn(), source, message, code, ctx, err)
}

// Error emits an error record, optionally carrying an underlying fault.
func (a *Audit) Error(source, message, code string, ctx map[string]any, err error) {
	a.emit(a.base.Error(), source, message, code, ctx, err)
}

func (a *Audit) emit(ev *zerolog.Event, source, message, code string, ctx map[string]any, err error) {
	ev = ev.
		Str("source", source).
		Str("code", code).
		Str("environment", a.env)

	// Empty context omits the field entirely rather than emitting {}.
	if len(ctx) > 0 {
		ev = ev.Interface("context", Sanitize(ctx))
	}

	if err != nil {
		ev = ev.Err(err).Str("errorName", fmt.Sprintf("%T", err))
		if st, ok := err.(stackTracer); ok {
			ev = ev.Str("stack", st.StackTrace())
		}
	}

	ev.Msg(message)
}
