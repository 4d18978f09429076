package hiomapd

import (
	"testing"

	"github.com/godbus/dbus/v5"

	"github.com/openpower/hiobridge/internal/testutil/testlog"
)

type fakeSink struct {
	properties []map[string]bool
	signals    []string
}

func (f *fakeSink) HandleProperties(values map[string]bool) {
	f.properties = append(f.properties, values)
}

func (f *fakeSink) HandleSignal(name string) {
	f.signals = append(f.signals, name)
}

func propertiesSignal(path dbus.ObjectPath, iface string, changed map[string]dbus.Variant) *dbus.Signal {
	return &dbus.Signal{
		Path: path,
		Name: propertiesChanged,
		Body: []interface{}{iface, changed, []string{}},
	}
}

func TestHandlePropertiesChanged(t *testing.T) {
	testlog.Start(t)
	sink := &fakeSink{}
	n := NewNotifier(nil, sink)

	n.Handle(propertiesSignal(Object, InterfaceV2, map[string]dbus.Variant{
		"FlashControlLost": dbus.MakeVariant(true),
		"DaemonReady":      dbus.MakeVariant(false),
	}))

	if len(sink.properties) != 1 {
		t.Fatalf("property deliveries %d want 1", len(sink.properties))
	}
	got := sink.properties[0]
	if got["FlashControlLost"] != true || got["DaemonReady"] != false {
		t.Fatalf("decoded values %v", got)
	}
}

func TestHandleBareSignal(t *testing.T) {
	testlog.Start(t)
	sink := &fakeSink{}
	n := NewNotifier(nil, sink)

	n.Handle(&dbus.Signal{Path: Object, Name: InterfaceV2 + ".WindowReset"})
	n.Handle(&dbus.Signal{Path: Object, Name: InterfaceV2 + ".ProtocolReset"})

	if len(sink.signals) != 2 {
		t.Fatalf("signal deliveries %d want 2", len(sink.signals))
	}
	if sink.signals[0] != "WindowReset" || sink.signals[1] != "ProtocolReset" {
		t.Fatalf("signals %v", sink.signals)
	}
}

func TestHandleDropsForeignObject(t *testing.T) {
	testlog.Start(t)
	sink := &fakeSink{}
	n := NewNotifier(nil, sink)

	n.Handle(&dbus.Signal{
		Path: dbus.ObjectPath("/some/other/object"),
		Name: InterfaceV2 + ".WindowReset",
	})
	n.Handle(propertiesSignal("/some/other/object", InterfaceV2, map[string]dbus.Variant{
		"DaemonReady": dbus.MakeVariant(true),
	}))

	if len(sink.signals) != 0 || len(sink.properties) != 0 {
		t.Fatalf("foreign object delivered: %v %v", sink.signals, sink.properties)
	}
}

func TestHandleDropsForeignInterfaceProperties(t *testing.T) {
	testlog.Start(t)
	sink := &fakeSink{}
	n := NewNotifier(nil, sink)

	n.Handle(propertiesSignal(Object, "org.example.Other", map[string]dbus.Variant{
		"DaemonReady": dbus.MakeVariant(true),
	}))

	if len(sink.properties) != 0 {
		t.Fatalf("foreign interface delivered: %v", sink.properties)
	}
}

func TestDecodePropertiesChangedFiltersNonBooleans(t *testing.T) {
	testlog.Start(t)

	values, ok := decodePropertiesChanged([]interface{}{
		InterfaceV2,
		map[string]dbus.Variant{
			"DaemonReady": dbus.MakeVariant(true),
			"Timeout":     dbus.MakeVariant(uint16(30)),
		},
		[]string{},
	})
	if !ok {
		t.Fatal("decode rejected valid body")
	}
	if len(values) != 1 || values["DaemonReady"] != true {
		t.Fatalf("values %v", values)
	}
}

func TestDecodePropertiesChangedMalformedBody(t *testing.T) {
	testlog.Start(t)

	bodies := [][]interface{}{
		nil,
		{InterfaceV2},
		{42, map[string]dbus.Variant{}},
		{InterfaceV2, "not a map"},
	}
	for _, body := range bodies {
		if _, ok := decodePropertiesChanged(body); ok {
			t.Fatalf("accepted malformed body %v", body)
		}
	}
}

func TestSubscribeInstallsMatches(t *testing.T) {
	testlog.Start(t)
	conn := &fakeSignalConn{}
	n := NewNotifier(conn, &fakeSink{})

	if err := n.Subscribe(); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	// one PropertiesChanged match plus one per bare signal
	if conn.matches != 1+len(signalNames) {
		t.Fatalf("match rules %d want %d", conn.matches, 1+len(signalNames))
	}
}

type fakeSignalConn struct {
	matches int
}

func (f *fakeSignalConn) AddMatchSignal(options ...dbus.MatchOption) error {
	f.matches++
	return nil
}

func (f *fakeSignalConn) Signal(ch chan<- *dbus.Signal) {}
