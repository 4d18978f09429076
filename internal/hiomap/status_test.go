package hiomap

import (
	"errors"
	"testing"
)

type namedError struct {
	name string
}

func (e namedError) Error() string {
	return e.name
}

func (e namedError) ErrorName() string {
	return e.name
}

func TestTranslateErrorNamedCauses(t *testing.T) {
	cases := []struct {
		name string
		want Status
	}{
		{"System.Error.EBUSY", StatusBusy},
		{"System.Error.ENOTSUP", StatusInvalidCommand},
		{"org.freedesktop.DBus.Error.UnknownMethod", StatusInvalidCommand},
		{"System.Error.ETIMEDOUT", StatusTimeout},
		{"org.freedesktop.DBus.Error.NoReply", StatusTimeout},
		{"System.Error.ENOSPC", StatusOutOfSpace},
		{"System.Error.EINVAL", StatusParamOutOfRange},
		{"org.freedesktop.DBus.Error.InvalidArgs", StatusParamOutOfRange},
		{"System.Error.ENODEV", StatusSensorInvalid},
		{"System.Error.EPERM", StatusInsufficientPrivilege},
		{"System.Error.EACCES", StatusInsufficientPrivilege},
		{"org.freedesktop.DBus.Error.AccessDenied", StatusInsufficientPrivilege},
	}
	for _, tc := range cases {
		if got := TranslateError(namedError{tc.name}); got != tc.want {
			t.Fatalf("%s: got %#x want %#x", tc.name, got, tc.want)
		}
	}
}

func TestTranslateErrorWildcard(t *testing.T) {
	if got := TranslateError(namedError{"com.example.SomethingElse"}); got != StatusUnspecifiedError {
		t.Fatalf("unknown name: got %#x", got)
	}
	if got := TranslateError(errors.New("plain failure")); got != StatusUnspecifiedError {
		t.Fatalf("unnamed error: got %#x", got)
	}
}

func TestStatusTableWildcardIsLast(t *testing.T) {
	last := statusTable[len(statusTable)-1]
	if last.name != "" {
		t.Fatalf("wildcard entry is not last: %q", last.name)
	}
	if last.cc != StatusUnspecifiedError {
		t.Fatalf("wildcard maps to %#x", last.cc)
	}
	for _, entry := range statusTable[:len(statusTable)-1] {
		if entry.name == "" {
			t.Fatalf("wildcard entry before end of table")
		}
	}
}

func TestTranslateErrorWrappedNamer(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), namedError{"System.Error.EBUSY"})
	if got := TranslateError(wrapped); got != StatusBusy {
		t.Fatalf("wrapped: got %#x want %#x", got, StatusBusy)
	}
}
