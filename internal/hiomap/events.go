package hiomap

import (
	"github.com/rs/zerolog/log"

	"github.com/openpower/hiobridge/internal/observability"
)

// EventSender carries the event command upstream to the host. Delivery is
// best effort: done reports the outcome and is used only for logging and
// metrics.
type EventSender interface {
	SendEvent(cmd uint8, events uint8, done func(delivered bool))
}

// Bridge folds backend state-change notifications into the session event
// mask and pushes the folded mask to the host after every update. Delivery
// failures are logged, never retried, and never mutate session state.
type Bridge struct {
	session *Session
	sender  EventSender
}

func NewBridge(session *Session, sender EventSender) *Bridge {
	return &Bridge{session: session, sender: sender}
}

// HandleProperties applies a property-change notification carrying named
// boolean values. Known names set or clear their bit per the value;
// unrecognized names are silently ignored.
func (b *Bridge) HandleProperties(values map[string]bool) {
	b.push(b.session.foldProperties(values))
}

// HandleSignal applies a bare named signal, which unconditionally sets the
// corresponding bit.
func (b *Bridge) HandleSignal(name string) {
	b.push(b.session.foldSignal(name))
}

func (b *Bridge) push(events uint8) {
	b.sender.SendEvent(CmdEvent, events, func(delivered bool) {
		observability.RecordEventPush(delivered)
		if !delivered {
			log.Error().
				Uint8("events", events).
				Msg("failed to deliver event command to host")
		}
	})
}
