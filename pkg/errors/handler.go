package errors

import (
	"errors"
	"time"
)

// LogEntry is the structured form of an error written to the run log.
type LogEntry struct {
	Timestamp   time.Time              `json:"timestamp"`
	Code        ErrorCode              `json:"code"`
	Kind        ErrorKind              `json:"kind"`
	Severity    ErrorSeverity          `json:"severity"`
	Message     string                 `json:"message"`
	Cause       string                 `json:"cause,omitempty"`
	Context     map[string]interface{} `json:"context,omitempty"`
	Recoverable bool                   `json:"recoverable"`
}

// Entry converts any error into a LogEntry. Plain errors become internal errors.
func Entry(err error) LogEntry {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = Wrap(err, ErrCodeInternal, err.Error())
		appErr.Cause = nil
	}

	entry := LogEntry{
		Timestamp:   appErr.Timestamp,
		Code:        appErr.Code,
		Kind:        appErr.Kind(),
		Severity:    appErr.Severity,
		Message:     appErr.Message,
		Context:     appErr.Context,
		Recoverable: appErr.Recoverable,
	}
	if appErr.Cause != nil {
		entry.Cause = appErr.Cause.Error()
	}
	return entry
}

// Fields flattens the entry into log fields; context keys are prefixed with "ctx_".
func (e LogEntry) Fields() map[string]interface{} {
	fields := map[string]interface{}{
		"code":     string(e.Code),
		"kind":     string(e.Kind),
		"severity": string(e.Severity),
	}
	if e.Cause != "" {
		fields["cause"] = e.Cause
	}
	for k, v := range e.Context {
		fields["ctx_"+k] = v
	}
	return fields
}
