package hiomap

import "errors"

// Status is the completion code returned to the host for every dispatched
// command.
type Status uint8

const (
	StatusOK                    Status = 0x00
	StatusBusy                  Status = 0xc0
	StatusInvalidCommand        Status = 0xc1
	StatusTimeout               Status = 0xc3
	StatusOutOfSpace            Status = 0xc4
	StatusRequestDataLenInvalid Status = 0xc7
	StatusParamOutOfRange       Status = 0xc9
	StatusSensorInvalid         Status = 0xcb
	StatusInvalidFieldRequest   Status = 0xcc
	StatusInsufficientPrivilege Status = 0xd4
	StatusUnspecifiedError      Status = 0xff
)

// ErrorNamer is implemented by backend errors that carry a D-Bus error name.
// The flash-mapping daemon reports call failures through sd-bus, which names
// errno-derived errors "System.Error.<ERRNO>" and transport-level failures
// with the standard org.freedesktop.DBus.Error.* names.
type ErrorNamer interface {
	ErrorName() string
}

// statusEntry maps one backend failure name to a completion code. An empty
// name is the wildcard tail and matches anything.
type statusEntry struct {
	name string
	cc   Status
}

// statusTable is consulted linearly, first match wins. The wildcard entry is
// always last and always matches, so no backend error reaches the host
// unmapped.
var statusTable = []statusEntry{
	{"System.Error.EBUSY", StatusBusy},
	{"System.Error.ENOTSUP", StatusInvalidCommand},
	{"org.freedesktop.DBus.Error.UnknownMethod", StatusInvalidCommand},
	{"System.Error.ETIMEDOUT", StatusTimeout},
	{"org.freedesktop.DBus.Error.Timeout", StatusTimeout},
	{"org.freedesktop.DBus.Error.NoReply", StatusTimeout},
	{"System.Error.ENOSPC", StatusOutOfSpace},
	{"org.freedesktop.DBus.Error.LimitsExceeded", StatusOutOfSpace},
	{"System.Error.EINVAL", StatusParamOutOfRange},
	{"org.freedesktop.DBus.Error.InvalidArgs", StatusParamOutOfRange},
	{"System.Error.ENODEV", StatusSensorInvalid},
	{"org.freedesktop.DBus.Error.ServiceUnknown", StatusSensorInvalid},
	{"org.freedesktop.DBus.Error.UnknownObject", StatusSensorInvalid},
	{"System.Error.EPERM", StatusInsufficientPrivilege},
	{"System.Error.EACCES", StatusInsufficientPrivilege},
	{"org.freedesktop.DBus.Error.AccessDenied", StatusInsufficientPrivilege},
	{"", StatusUnspecifiedError},
}

// TranslateError maps a backend call failure to the completion code reported
// to the host. This is the single point through which all backend failures
// surface.
func TranslateError(err error) Status {
	name := ""
	var namer ErrorNamer
	if errors.As(err, &namer) {
		name = namer.ErrorName()
	}
	for _, entry := range statusTable {
		if entry.name == name || entry.name == "" {
			return entry.cc
		}
	}
	return StatusUnspecifiedError
}
