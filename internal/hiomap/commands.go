// Package hiomap implements the host side of the HIOMAP flash-mapping
// protocol: the command dispatcher, the per-command wire marshaling, the
// session state shared with the notification bridge, and the translation of
// backend failures into completion codes.
//
// Ownership boundary:
// - envelope validation and sequence discipline
//
// - command routing
//
// - event mask folding and upstream event emission
//
// The package does not own transports: the command channel delivers raw
// envelopes to Dispatcher.Dispatch, and the Backend interface abstracts the
// flash-mapping daemon RPCs.
package hiomap

// HIOMAP command identifiers. Index 0 is reserved and invalid.
const (
	CmdReset             uint8 = 1
	CmdGetInfo           uint8 = 2
	CmdGetFlashInfo      uint8 = 3
	CmdCreateReadWindow  uint8 = 4
	CmdCloseWindow       uint8 = 5
	CmdCreateWriteWindow uint8 = 6
	CmdMarkDirty         uint8 = 7
	CmdFlush             uint8 = 8
	CmdAck               uint8 = 9
	CmdErase             uint8 = 10
)

// CmdEvent is the command id of the outbound event push to the host.
const CmdEvent uint8 = 0x0f

// EnvelopeLen is the two-byte header (command id, sequence) framing every
// request and successful response.
const EnvelopeLen = 2

// MaxResponseLen is the largest possible response: the envelope header plus
// the six-byte create-window reply.
const MaxResponseLen = EnvelopeLen + 6

// BMC-side event bits carried in the event status byte.
const (
	EventProtocolReset    uint8 = 1 << 0
	EventWindowReset      uint8 = 1 << 1
	EventFlashControlLost uint8 = 1 << 6
	EventDaemonReady      uint8 = 1 << 7
)

// EventBits returns the mapping from backend notification names to event
// mask bits. Names absent from this table are ignored by the bridge.
func EventBits() map[string]uint8 {
	return map[string]uint8{
		"DaemonReady":      EventDaemonReady,
		"FlashControlLost": EventFlashControlLost,
		"WindowReset":      EventWindowReset,
		"ProtocolReset":    EventProtocolReset,
	}
}

var commandNames = map[uint8]string{
	CmdReset:             "reset",
	CmdGetInfo:           "get_info",
	CmdGetFlashInfo:      "get_flash_info",
	CmdCreateReadWindow:  "create_read_window",
	CmdCloseWindow:       "close_window",
	CmdCreateWriteWindow: "create_write_window",
	CmdMarkDirty:         "mark_dirty",
	CmdFlush:             "flush",
	CmdAck:               "ack",
	CmdErase:             "erase",
}

// CommandName returns the metrics/logging label for a command id.
func CommandName(cmd uint8) string {
	if name, ok := commandNames[cmd]; ok {
		return name
	}
	return "unknown"
}
