package hiomap

import (
	"github.com/rs/zerolog/log"

	"github.com/openpower/hiobridge/internal/wire"
)

// handlerFunc executes one HIOMAP command. req and resp exclude the two-byte
// envelope header; the returned length is relative to resp. Handlers
// length-check their payload before any codec or backend activity, and on
// backend failure return the translated status with zero length.
type handlerFunc func(d *Dispatcher, req, resp []byte) (int, Status)

// commandTable is indexed by command id; index 0 is reserved and nil. Bounds
// rejection is the dispatcher's job, not this table's.
var commandTable = [...]handlerFunc{
	CmdReset:             (*Dispatcher).handleReset,
	CmdGetInfo:           (*Dispatcher).handleGetInfo,
	CmdGetFlashInfo:      (*Dispatcher).handleGetFlashInfo,
	CmdCreateReadWindow:  (*Dispatcher).handleCreateReadWindow,
	CmdCloseWindow:       (*Dispatcher).handleCloseWindow,
	CmdCreateWriteWindow: (*Dispatcher).handleCreateWriteWindow,
	CmdMarkDirty:         (*Dispatcher).handleMarkDirty,
	CmdFlush:             (*Dispatcher).handleFlush,
	CmdAck:               (*Dispatcher).handleAck,
	CmdErase:             (*Dispatcher).handleErase,
}

// failure translates a backend error into the completion code for cmd and
// logs it. No backend error propagates raw past this point.
func failure(cmd string, err error) Status {
	cc := TranslateError(err)
	log.Warn().
		Str("command", cmd).
		Uint8("cc", uint8(cc)).
		Err(err).
		Msg("backend call failed")
	return cc
}

func (d *Dispatcher) handleReset(req, resp []byte) (int, Status) {
	if err := d.backend.Reset(); err != nil {
		return 0, failure("reset", err)
	}
	return 0, StatusOK
}

func (d *Dispatcher) handleGetInfo(req, resp []byte) (int, Status) {
	if len(req) < 1 {
		return 0, StatusRequestDataLenInvalid
	}
	version, err := wire.ReadUint8(req, 0)
	if err != nil {
		return 0, StatusRequestDataLenInvalid
	}

	info, err := d.backend.GetInfo(version)
	if err != nil {
		return 0, failure("get_info", err)
	}

	if err := wire.WriteUint8(resp, 0, info.Version); err != nil {
		return 0, StatusUnspecifiedError
	}
	if err := wire.WriteUint8(resp, 1, info.BlockSizeShift); err != nil {
		return 0, StatusUnspecifiedError
	}
	if err := wire.WriteUint16(resp, 2, info.Timeout); err != nil {
		return 0, StatusUnspecifiedError
	}
	return 4, StatusOK
}

func (d *Dispatcher) handleGetFlashInfo(req, resp []byte) (int, Status) {
	info, err := d.backend.GetFlashInfo()
	if err != nil {
		return 0, failure("get_flash_info", err)
	}

	if err := wire.WriteUint16(resp, 0, info.FlashSize); err != nil {
		return 0, StatusUnspecifiedError
	}
	if err := wire.WriteUint16(resp, 2, info.EraseSize); err != nil {
		return 0, StatusUnspecifiedError
	}
	return 4, StatusOK
}

// createWindow is the shared marshaling for the read and write window
// commands, which differ only in the backend call.
func createWindow(req, resp []byte, create func(offset, size uint16) (Window, error), cmd string) (int, Status) {
	if len(req) < 4 {
		return 0, StatusRequestDataLenInvalid
	}
	offset, err := wire.ReadUint16(req, 0)
	if err != nil {
		return 0, StatusRequestDataLenInvalid
	}
	size, err := wire.ReadUint16(req, 2)
	if err != nil {
		return 0, StatusRequestDataLenInvalid
	}

	win, err := create(offset, size)
	if err != nil {
		return 0, failure(cmd, err)
	}

	if err := wire.WriteUint16(resp, 0, win.LPCAddress); err != nil {
		return 0, StatusUnspecifiedError
	}
	if err := wire.WriteUint16(resp, 2, win.Size); err != nil {
		return 0, StatusUnspecifiedError
	}
	if err := wire.WriteUint16(resp, 4, win.Offset); err != nil {
		return 0, StatusUnspecifiedError
	}
	return 6, StatusOK
}

func (d *Dispatcher) handleCreateReadWindow(req, resp []byte) (int, Status) {
	return createWindow(req, resp, d.backend.CreateReadWindow, "create_read_window")
}

func (d *Dispatcher) handleCreateWriteWindow(req, resp []byte) (int, Status) {
	return createWindow(req, resp, d.backend.CreateWriteWindow, "create_write_window")
}

func (d *Dispatcher) handleCloseWindow(req, resp []byte) (int, Status) {
	if len(req) < 1 {
		return 0, StatusRequestDataLenInvalid
	}
	flags, err := wire.ReadUint8(req, 0)
	if err != nil {
		return 0, StatusRequestDataLenInvalid
	}
	if err := d.backend.CloseWindow(flags); err != nil {
		return 0, failure("close_window", err)
	}
	return 0, StatusOK
}

// offsetSize is the shared marshaling for the commands whose payload is a
// 2-byte offset and 2-byte size with no reply payload.
func offsetSize(req []byte, call func(offset, size uint16) error, cmd string) (int, Status) {
	if len(req) < 4 {
		return 0, StatusRequestDataLenInvalid
	}
	offset, err := wire.ReadUint16(req, 0)
	if err != nil {
		return 0, StatusRequestDataLenInvalid
	}
	size, err := wire.ReadUint16(req, 2)
	if err != nil {
		return 0, StatusRequestDataLenInvalid
	}
	if err := call(offset, size); err != nil {
		return 0, failure(cmd, err)
	}
	return 0, StatusOK
}

func (d *Dispatcher) handleMarkDirty(req, resp []byte) (int, Status) {
	return offsetSize(req, d.backend.MarkDirty, "mark_dirty")
}

func (d *Dispatcher) handleFlush(req, resp []byte) (int, Status) {
	if err := d.backend.Flush(); err != nil {
		return 0, failure("flush", err)
	}
	return 0, StatusOK
}

func (d *Dispatcher) handleAck(req, resp []byte) (int, Status) {
	if len(req) < 1 {
		return 0, StatusRequestDataLenInvalid
	}
	acked, err := wire.ReadUint8(req, 0)
	if err != nil {
		return 0, StatusRequestDataLenInvalid
	}

	if err := d.backend.Ack(acked); err != nil {
		return 0, failure("ack", err)
	}

	// The signals carry no value, so the session mask is the only record of
	// pending bits. Clear only after the backend accepted the ack.
	d.session.clearEvents(acked)
	return 0, StatusOK
}

func (d *Dispatcher) handleErase(req, resp []byte) (int, Status) {
	return offsetSize(req, d.backend.Erase, "erase")
}
