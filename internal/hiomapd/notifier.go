package hiomapd

import (
	"context"
	"strings"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog/log"
)

const propertiesChanged = "org.freedesktop.DBus.Properties.PropertiesChanged"

// signalNames are the bare V2 signals the daemon emits. They carry no value;
// each one only ever sets its event bit.
var signalNames = []string{"WindowReset", "ProtocolReset"}

// Sink consumes decoded daemon notifications. *hiomap.Bridge satisfies it.
type Sink interface {
	HandleProperties(values map[string]bool)
	HandleSignal(name string)
}

// SignalConn is the subscription slice of a D-Bus connection. *dbus.Conn
// satisfies it.
type SignalConn interface {
	AddMatchSignal(options ...dbus.MatchOption) error
	Signal(ch chan<- *dbus.Signal)
}

// Notifier subscribes to the daemon's state-change notifications and feeds
// them to the sink.
type Notifier struct {
	conn SignalConn
	sink Sink
}

func NewNotifier(conn SignalConn, sink Sink) *Notifier {
	return &Notifier{conn: conn, sink: sink}
}

// Subscribe installs the bus match rules: property changes scoped to the V2
// interface on the daemon object, and the bare V2 signals.
func (n *Notifier) Subscribe() error {
	err := n.conn.AddMatchSignal(
		dbus.WithMatchObjectPath(Object),
		dbus.WithMatchInterface("org.freedesktop.DBus.Properties"),
		dbus.WithMatchMember("PropertiesChanged"),
		dbus.WithMatchArg(0, InterfaceV2),
	)
	if err != nil {
		return err
	}
	for _, member := range signalNames {
		err := n.conn.AddMatchSignal(
			dbus.WithMatchObjectPath(Object),
			dbus.WithMatchInterface(InterfaceV2),
			dbus.WithMatchMember(member),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// Run pumps signals into the sink until ctx is done or the signal channel
// closes (bus disconnect).
func (n *Notifier) Run(ctx context.Context) error {
	ch := make(chan *dbus.Signal, 16)
	n.conn.Signal(ch)

	for {
		select {
		case <-ctx.Done():
			return nil
		case sig, ok := <-ch:
			if !ok {
				log.Warn().Msg("bus signal channel closed")
				return nil
			}
			n.Handle(sig)
		}
	}
}

// Handle decodes one bus signal and applies it. Signals for other objects or
// interfaces are dropped.
func (n *Notifier) Handle(sig *dbus.Signal) {
	if sig.Path != Object {
		return
	}

	switch {
	case sig.Name == propertiesChanged:
		values, ok := decodePropertiesChanged(sig.Body)
		if !ok {
			return
		}
		n.sink.HandleProperties(values)
	case strings.HasPrefix(sig.Name, InterfaceV2+"."):
		n.sink.HandleSignal(strings.TrimPrefix(sig.Name, InterfaceV2+"."))
	}
}

// decodePropertiesChanged extracts the named booleans from a
// PropertiesChanged body (interface, changed map, invalidated list),
// accepting only changes scoped to the V2 interface. Non-boolean values are
// dropped.
func decodePropertiesChanged(body []interface{}) (map[string]bool, bool) {
	if len(body) < 2 {
		return nil, false
	}
	iface, ok := body[0].(string)
	if !ok || iface != InterfaceV2 {
		return nil, false
	}
	changed, ok := body[1].(map[string]dbus.Variant)
	if !ok {
		return nil, false
	}

	values := make(map[string]bool, len(changed))
	for name, variant := range changed {
		if v, ok := variant.Value().(bool); ok {
			values[name] = v
		}
	}
	return values, true
}
