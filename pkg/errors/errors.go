package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"
)

// ErrorCode represents a unique error code for categorizing errors
type ErrorCode string

const (
	// Configuration errors (1xxx)
	ErrCodeConfigNotFound ErrorCode = "IMC1001"
	ErrCodeConfigInvalid  ErrorCode = "IMC1002"
	ErrCodeConfigMissing  ErrorCode = "IMC1003"

	// Spreadsheet errors (2xxx)
	ErrCodeSourceRead  ErrorCode = "IMC2001"
	ErrCodeTabNotFound ErrorCode = "IMC2002"
	ErrCodeSourceAuth  ErrorCode = "IMC2003"
	ErrCodeSheetLayout ErrorCode = "IMC2004"

	// Record validation errors (3xxx)
	ErrCodeValidationFailed ErrorCode = "IMC3001"
	ErrCodeInvalidDate      ErrorCode = "IMC3002"
	ErrCodeInvalidNumber    ErrorCode = "IMC3003"

	// Warehouse errors (4xxx)
	ErrCodeConnectionFailed     ErrorCode = "IMC4001"
	ErrCodeAuthenticationFailed ErrorCode = "IMC4002"
	ErrCodeStoreRead            ErrorCode = "IMC4003"
	ErrCodeStoreWrite           ErrorCode = "IMC4004"
	ErrCodeSQLTransaction       ErrorCode = "IMC4005"
	ErrCodeSQLPermission        ErrorCode = "IMC4006"
	ErrCodeSQLObjectNotFound    ErrorCode = "IMC4007"

	// Output errors (5xxx)
	ErrCodeOutputWrite ErrorCode = "IMC5001"
	ErrCodeEncoding    ErrorCode = "IMC5002"

	// Run errors (9xxx)
	ErrCodeInternal   ErrorCode = "IMC9001"
	ErrCodePartialRun ErrorCode = "IMC9002"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

const (
	SeverityCritical ErrorSeverity = "CRITICAL" // Run aborted
	SeverityError    ErrorSeverity = "ERROR"    // Operation failed
	SeverityWarning  ErrorSeverity = "WARNING"  // Operation succeeded with issues
	SeverityInfo     ErrorSeverity = "INFO"     // Informational, not an error
)

// ErrorKind is the coarse classification callers branch on.
type ErrorKind string

const (
	KindConfig     ErrorKind = "config"
	KindSourceRead ErrorKind = "source_read"
	KindValidation ErrorKind = "validation"
	KindStoreRead  ErrorKind = "store_read"
	KindStoreWrite ErrorKind = "store_write"
	KindConnection ErrorKind = "connection"
	KindOutput     ErrorKind = "output"
	KindInternal   ErrorKind = "internal"
)

// AppError represents a structured application error with context
type AppError struct {
	Code        ErrorCode
	Message     string
	Severity    ErrorSeverity
	Context     map[string]interface{}
	Cause       error
	Stack       string
	Timestamp   time.Time
	Recoverable bool
	Suggestions []string

	kind ErrorKind // set when the code alone does not decide the kind
}

// Error implements the error interface
func (e *AppError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s] %s: %s", e.Code, e.Severity, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\nCaused by: %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\nSuggestions:")
		for i, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  %d. %s", i+1, suggestion))
		}
	}

	return b.String()
}

// Unwrap returns the cause of the error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Kind maps the error code onto its classification.
func (e *AppError) Kind() ErrorKind {
	if e.kind != "" {
		return e.kind
	}
	switch {
	case strings.HasPrefix(string(e.Code), "IMC1"):
		return KindConfig
	case strings.HasPrefix(string(e.Code), "IMC2"):
		return KindSourceRead
	case strings.HasPrefix(string(e.Code), "IMC3"):
		return KindValidation
	case e.Code == ErrCodeConnectionFailed || e.Code == ErrCodeAuthenticationFailed:
		return KindConnection
	case e.Code == ErrCodeStoreRead:
		return KindStoreRead
	case strings.HasPrefix(string(e.Code), "IMC4"):
		return KindStoreWrite
	case strings.HasPrefix(string(e.Code), "IMC5"):
		return KindOutput
	default:
		return KindInternal
	}
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:        code,
		Message:     message,
		Severity:    SeverityError,
		Context:     make(map[string]interface{}),
		Stack:       captureStack(),
		Timestamp:   time.Now(),
		Recoverable: false,
	}
}

// Wrap wraps an existing error with AppError
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}

	appErr := New(code, message)
	appErr.Cause = err

	// If wrapping another AppError, inherit its context
	var ae *AppError
	if errors.As(err, &ae) {
		for k, v := range ae.Context {
			appErr.Context[k] = v
		}
	}

	return appErr
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithSeverity sets the error severity
func (e *AppError) WithSeverity(severity ErrorSeverity) *AppError {
	e.Severity = severity
	return e
}

// WithSuggestions adds recovery suggestions
func (e *AppError) WithSuggestions(suggestions ...string) *AppError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// AsRecoverable marks the error as recoverable
func (e *AppError) AsRecoverable() *AppError {
	e.Recoverable = true
	return e
}

func wrapOrNew(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return New(code, message)
	}
	return Wrap(err, code, message)
}

// captureStack captures the current stack trace
func captureStack() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])

	var b strings.Builder
	frames := runtime.CallersFrames(pcs[:n])

	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			b.WriteString(fmt.Sprintf("%s:%d %s\n", frame.File, frame.Line, frame.Function))
		}
		if !more {
			break
		}
	}

	return b.String()
}

// Common error constructors

// ConfigError creates a configuration-related error
func ConfigError(message string, field string) *AppError {
	return New(ErrCodeConfigInvalid, message).
		WithContext("field", field).
		WithSuggestions(
			fmt.Sprintf("Check the '%s' configuration value", field),
			"Run 'imc setup' to reconfigure",
		)
}

// MissingConfig reports a required configuration value that is empty
func MissingConfig(field string) *AppError {
	return New(ErrCodeConfigMissing, fmt.Sprintf("%s is required", field)).
		WithContext("field", field).
		WithSuggestions(
			fmt.Sprintf("Set '%s' in the config file or environment", field),
			"Run 'imc setup' to reconfigure",
		)
}

// SourceError creates a spreadsheet read error
func SourceError(message string, tab string, cause error) *AppError {
	return wrapOrNew(cause, ErrCodeSourceRead, message).
		WithContext("tab", tab)
}

// TabNotFound reports a spreadsheet tab that does not exist
func TabNotFound(tab string, cause error) *AppError {
	err := New(ErrCodeTabNotFound, fmt.Sprintf("tab %q not found", tab)).
		WithContext("tab", tab).
		WithSuggestions("Check the tab name in the spreadsheet, including spaces and punctuation")
	err.Cause = cause
	return err
}

// ConnectionError creates a connection-related error
func ConnectionError(message string, cause error) *AppError {
	return wrapOrNew(cause, ErrCodeConnectionFailed, message).
		WithSeverity(SeverityError).
		WithSuggestions(
			"Check your network connection",
			"Verify the Snowflake account identifier",
		)
}

// SQLError creates an SQL execution error. The code is refined from the message.
func SQLError(code ErrorCode, message string, query string, cause error) *AppError {
	err := wrapOrNew(cause, code, message).
		WithContext("query", truncateString(query, 200))

	text := strings.ToLower(message)
	if cause != nil {
		text += " " + strings.ToLower(cause.Error())
	}
	switch {
	case strings.Contains(text, "permission") || strings.Contains(text, "access denied") || strings.Contains(text, "insufficient privileges"):
		err.Code = ErrCodeSQLPermission
		_ = err.WithSuggestions(
			"Check that the configured role has the required privileges",
		)
	case strings.Contains(text, "does not exist"):
		err.Code = ErrCodeSQLObjectNotFound
		_ = err.WithSuggestions(
			"Verify the table exists in the configured database and schema",
		)
	}

	return err
}

// StoreReadError reports a failed warehouse query
func StoreReadError(message string, query string, cause error) *AppError {
	err := SQLError(ErrCodeStoreRead, message, query, cause)
	err.kind = KindStoreRead
	return err
}

// StoreWriteError reports a failed warehouse load
func StoreWriteError(message string, table string, cause error) *AppError {
	return wrapOrNew(cause, ErrCodeStoreWrite, message).
		WithContext("table", table)
}

// OutputError reports a failed artifact write
func OutputError(message string, path string, cause error) *AppError {
	return wrapOrNew(cause, ErrCodeOutputWrite, message).
		WithContext("path", path)
}

// ValidationError creates a per-record validation error
func ValidationError(field string, value interface{}, reason string) *AppError {
	return New(ErrCodeValidationFailed, fmt.Sprintf("Validation failed for %s: %s", field, reason)).
		WithContext("field", field).
		WithContext("value", value).
		WithSeverity(SeverityWarning).
		AsRecoverable()
}

// IsRecoverable checks if an error is recoverable
func IsRecoverable(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Recoverable
	}
	return false
}

// IsFatal reports whether err must abort the run.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return !(Kind(err) == KindValidation && IsRecoverable(err))
}

// Kind classifies any error; non-AppErrors are internal.
func Kind(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind()
	}
	return KindInternal
}

// GetErrorCode extracts the error code from an error
func GetErrorCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

// truncateString truncates a string to maxLen characters
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
