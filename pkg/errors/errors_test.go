package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestAppError(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name:     "basic error",
			err:      New(ErrCodeStoreWrite, "Load failed"),
			expected: "[IMC4004] ERROR: Load failed",
		},
		{
			name: "error with suggestions",
			err: New(ErrCodeStoreWrite, "Load failed").
				WithSuggestions("Check role", "Check warehouse"),
			expected: "[IMC4004] ERROR: Load failed\nSuggestions:\n  1. Check role\n  2. Check warehouse",
		},
		{
			name: "error with context",
			err: New(ErrCodeStoreWrite, "Load failed").
				WithContext("table", "PROMOTION_PLAN"),
			expected: "[IMC4004] ERROR: Load failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestErrorWrapping(t *testing.T) {
	baseErr := fmt.Errorf("connection refused")

	appErr := Wrap(baseErr, ErrCodeConnectionFailed, "Failed to connect to Snowflake")

	if appErr.Cause != baseErr {
		t.Error("Wrapped error should contain original error as cause")
	}
	if !errors.Is(appErr, baseErr) {
		t.Error("errors.Is should see the cause")
	}
	if Wrap(nil, ErrCodeInternal, "nothing") != nil {
		t.Error("Wrapping nil should return nil")
	}
}

func TestWrapInheritsContext(t *testing.T) {
	inner := New(ErrCodeSourceRead, "read failed").WithContext("tab", "plans")
	outer := Wrap(inner, ErrCodeInternal, "ingest failed")

	if outer.Context["tab"] != "plans" {
		t.Errorf("Expected inherited context, got %v", outer.Context)
	}
}

func TestConstructorsAcceptNilCause(t *testing.T) {
	errs := []*AppError{
		SourceError("read failed", "plans", nil),
		ConnectionError("connect failed", nil),
		StoreWriteError("load failed", "PROMOTION_PLAN", nil),
		OutputError("write failed", "data.json", nil),
		StoreReadError("query failed", "SELECT 1", nil),
	}
	for _, err := range errs {
		if err == nil {
			t.Fatal("constructor returned nil")
		}
		if err.Cause != nil {
			t.Errorf("Expected nil cause, got %v", err.Cause)
		}
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		err  error
		kind ErrorKind
	}{
		{MissingConfig("snowflake.account"), KindConfig},
		{ConfigError("bad", "sheets.header_row"), KindConfig},
		{SourceError("read failed", "plans", fmt.Errorf("boom")), KindSourceRead},
		{TabNotFound("plans", nil), KindSourceRead},
		{ValidationError("START_DATE", "invalid", "bad date"), KindValidation},
		{ConnectionError("down", fmt.Errorf("dial")), KindConnection},
		{StoreReadError("query failed", "SELECT 1", fmt.Errorf("boom")), KindStoreRead},
		{StoreWriteError("load failed", "T", fmt.Errorf("boom")), KindStoreWrite},
		{OutputError("write failed", "data.json", fmt.Errorf("boom")), KindOutput},
		{fmt.Errorf("plain"), KindInternal},
		{fmt.Errorf("wrapped: %w", MissingConfig("x")), KindConfig},
	}

	for _, tt := range tests {
		if got := Kind(tt.err); got != tt.kind {
			t.Errorf("Kind(%v) = %s, want %s", tt.err, got, tt.kind)
		}
	}
}

func TestIsFatal(t *testing.T) {
	if IsFatal(nil) {
		t.Error("nil must not be fatal")
	}
	if IsFatal(ValidationError("END_DATE", "", "bad date")) {
		t.Error("recoverable validation errors must not be fatal")
	}
	if !IsFatal(New(ErrCodeValidationFailed, "layout")) {
		t.Error("non-recoverable validation errors are fatal")
	}
	if !IsFatal(StoreWriteError("load failed", "T", fmt.Errorf("boom"))) {
		t.Error("store write errors are fatal")
	}
	if !IsFatal(fmt.Errorf("plain")) {
		t.Error("unclassified errors are fatal")
	}
}

func TestSQLErrorRefinesCode(t *testing.T) {
	err := StoreReadError("query failed", "SELECT * FROM X", fmt.Errorf("Object 'X' does not exist or not authorized"))
	if err.Code != ErrCodeSQLObjectNotFound {
		t.Errorf("Expected %s, got %s", ErrCodeSQLObjectNotFound, err.Code)
	}
	if err.Kind() != KindStoreRead {
		t.Errorf("Refined read errors stay %s, got %s", KindStoreRead, err.Kind())
	}

	err = StoreReadError("query failed", "SELECT 1", fmt.Errorf("Insufficient privileges to operate on table"))
	if err.Code != ErrCodeSQLPermission {
		t.Errorf("Expected %s, got %s", ErrCodeSQLPermission, err.Code)
	}

	long := strings.Repeat("x", 300)
	err = StoreReadError("query failed", long, fmt.Errorf("boom"))
	if q := err.Context["query"].(string); len(q) != 203 {
		t.Errorf("Expected truncated query, got length %d", len(q))
	}
}

func TestGetErrorCode(t *testing.T) {
	if code := GetErrorCode(TabNotFound("x", nil)); code != ErrCodeTabNotFound {
		t.Errorf("Expected %s, got %s", ErrCodeTabNotFound, code)
	}
	if code := GetErrorCode(fmt.Errorf("plain")); code != ErrCodeInternal {
		t.Errorf("Expected %s, got %s", ErrCodeInternal, code)
	}
	if !errors.Is(TabNotFound("a", nil), New(ErrCodeTabNotFound, "")) {
		t.Error("errors with equal codes should match with errors.Is")
	}
}
