package hiomap

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/openpower/hiobridge/internal/observability"
)

// Dispatcher routes inbound HIOMAP envelopes to command handlers. It owns
// envelope validation, sequence discipline and response framing; payload
// marshaling lives with the handlers.
type Dispatcher struct {
	session *Session
	backend Backend
}

func NewDispatcher(session *Session, backend Backend) *Dispatcher {
	return &Dispatcher{session: session, backend: backend}
}

// Session exposes the dispatcher's session for inspection surfaces.
func (d *Dispatcher) Session() *Session {
	return d.session
}

// versioned reports whether cmd is subject to the duplicate-sequence guard.
// Reset, GetInfo and Ack may be issued before a session exists and are
// exempt.
func versioned(cmd uint8) bool {
	return cmd != CmdReset && cmd != CmdGetInfo && cmd != CmdAck
}

// Dispatch handles one inbound envelope. req is the raw request (command id,
// sequence, payload); resp must have room for MaxResponseLen bytes. It
// returns the number of response bytes written and the completion code.
// Every non-OK path returns a zero length: error responses carry no payload
// and no header.
func (d *Dispatcher) Dispatch(req, resp []byte) (int, Status) {
	if len(req) < EnvelopeLen {
		return 0, StatusRequestDataLenInvalid
	}

	cmd := req[0]
	if cmd == 0 || int(cmd) >= len(commandTable) || commandTable[cmd] == nil {
		return 0, StatusParamOutOfRange
	}

	if !d.session.acceptSequence(req[1], versioned(cmd)) {
		log.Debug().
			Str("command", CommandName(cmd)).
			Uint8("seq", req[1]).
			Msg("duplicate sequence rejected")
		return 0, StatusInvalidFieldRequest
	}

	if len(resp) < MaxResponseLen {
		return 0, StatusUnspecifiedError
	}

	start := time.Now()
	n, cc := commandTable[cmd](d, req[EnvelopeLen:], resp[EnvelopeLen:])
	observability.RecordCommand(CommandName(cmd), uint8(cc), time.Since(start))

	if cc != StatusOK {
		return 0, cc
	}

	resp[0] = cmd
	resp[1] = d.session.LastSequence()
	return EnvelopeLen + n, StatusOK
}
