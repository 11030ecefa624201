package errors

import (
	"errors"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	e := New(CategoryConfig, SeverityFatal, "missing project name")
	want := "config (fatal): missing project name"
	if e.Error() != want {
		t.Fatalf("Error() = %q, want %q", e.Error(), want)
	}
}

func TestWrapUnwrap(t *testing.T) {
	cause := errors.New("open failed")
	e := Wrap(cause, CategoryFileSystem, SeverityError, "cannot read config")
	if !errors.Is(e, cause) {
		t.Fatal("wrapped cause not reachable via errors.Is")
	}
	if got := e.Error(); got != "filesystem (error): cannot read config: open failed" {
		t.Fatalf("Error() = %q", got)
	}
}

func TestWithContext(t *testing.T) {
	e := New(CategoryExtract, SeverityWarning, "configure step exited non-zero").
		WithContext("exit_code", 2).
		WithContext("dir", "/tmp/cmake-build")
	if e.Context["exit_code"] != 2 {
		t.Fatalf("context exit_code = %v", e.Context["exit_code"])
	}
	if e.WithSeverity(SeverityError).Severity != SeverityError {
		t.Fatal("WithSeverity did not override severity")
	}
}
