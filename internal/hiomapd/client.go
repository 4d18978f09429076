// Package hiomapd is the D-Bus client for the flash-mapping daemon. It
// implements the hiomap.Backend RPC surface and the notification feed the
// bridge consumes.
package hiomapd

import (
	"errors"
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/openpower/hiobridge/internal/hiomap"
	"github.com/openpower/hiobridge/internal/observability"
)

// Well-known D-Bus addressing of the flash-mapping daemon. The base protocol
// interface carries Reset and GetInfo; everything else lives on the V2
// extension.
const (
	Service     = "xyz.openbmc_project.Hiomapd"
	Object      = dbus.ObjectPath("/xyz/openbmc_project/Hiomapd")
	Interface   = "xyz.openbmc_project.Hiomapd.Protocol"
	InterfaceV2 = Interface + ".V2"
)

// CallError is a failed daemon call. Name is the D-Bus error name the daemon
// replied with; the status translator matches on it.
type CallError struct {
	Method string
	Name   string
	Err    error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("hiomapd: %s failed: %s", e.Method, e.Name)
}

func (e *CallError) Unwrap() error {
	return e.Err
}

// ErrorName implements hiomap.ErrorNamer.
func (e *CallError) ErrorName() string {
	return e.Name
}

// Conn is the slice of a D-Bus connection the client needs. *dbus.Conn
// satisfies it.
type Conn interface {
	Object(dest string, path dbus.ObjectPath) dbus.BusObject
}

// Client implements hiomap.Backend against the daemon's bus object.
type Client struct {
	obj dbus.BusObject
}

var _ hiomap.Backend = (*Client)(nil)

// NewClient returns a client bound to the daemon's object on conn. An empty
// service falls back to the well-known name; overriding it serves test buses.
func NewClient(conn Conn, service string) *Client {
	if service == "" {
		service = Service
	}
	return &Client{obj: conn.Object(service, Object)}
}

// call issues one synchronous method call and stores the reply values into
// rets. Failures come back as *CallError so the translator can see the D-Bus
// error name.
func (c *Client) call(iface, method string, rets []interface{}, args ...interface{}) error {
	start := time.Now()
	call := c.obj.Call(iface+"."+method, 0, args...)
	observability.RecordBackendCall(method, time.Since(start), call.Err == nil)

	if call.Err != nil {
		var derr dbus.Error
		if errors.As(call.Err, &derr) {
			return &CallError{Method: method, Name: derr.Name, Err: call.Err}
		}
		return &CallError{Method: method, Name: "", Err: call.Err}
	}
	if len(rets) == 0 {
		return nil
	}
	if err := call.Store(rets...); err != nil {
		return fmt.Errorf("hiomapd: %s reply: %w", method, err)
	}
	return nil
}

func (c *Client) Reset() error {
	return c.call(Interface, "Reset", nil)
}

func (c *Client) GetInfo(version uint8) (hiomap.Info, error) {
	var info hiomap.Info
	err := c.call(Interface, "GetInfo",
		[]interface{}{&info.Version, &info.BlockSizeShift, &info.Timeout},
		version)
	return info, err
}

func (c *Client) GetFlashInfo() (hiomap.FlashInfo, error) {
	var info hiomap.FlashInfo
	err := c.call(InterfaceV2, "GetFlashInfo",
		[]interface{}{&info.FlashSize, &info.EraseSize})
	return info, err
}

func (c *Client) CreateReadWindow(offset, size uint16) (hiomap.Window, error) {
	return c.createWindow("CreateReadWindow", offset, size)
}

func (c *Client) CreateWriteWindow(offset, size uint16) (hiomap.Window, error) {
	return c.createWindow("CreateWriteWindow", offset, size)
}

func (c *Client) createWindow(method string, offset, size uint16) (hiomap.Window, error) {
	var win hiomap.Window
	err := c.call(InterfaceV2, method,
		[]interface{}{&win.LPCAddress, &win.Size, &win.Offset},
		offset, size)
	return win, err
}

func (c *Client) CloseWindow(flags uint8) error {
	return c.call(InterfaceV2, "CloseWindow", nil, flags)
}

func (c *Client) MarkDirty(offset, size uint16) error {
	return c.call(InterfaceV2, "MarkDirty", nil, offset, size)
}

func (c *Client) Flush() error {
	return c.call(InterfaceV2, "Flush", nil)
}

func (c *Client) Ack(mask uint8) error {
	return c.call(InterfaceV2, "Ack", nil, mask)
}

func (c *Client) Erase(offset, size uint16) error {
	return c.call(InterfaceV2, "Erase", nil, offset, size)
}
