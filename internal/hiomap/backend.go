package hiomap

// Info is the GetInfo reply from the flash-mapping daemon.
type Info struct {
	Version        uint8
	BlockSizeShift uint8
	Timeout        uint16
}

// FlashInfo is the GetFlashInfo reply: sizes expressed in block-size units.
type FlashInfo struct {
	FlashSize uint16
	EraseSize uint16
}

// Window describes a granted flash window mapping.
type Window struct {
	LPCAddress uint16
	Size       uint16
	Offset     uint16
}

// Backend is the synchronous RPC surface of the flash-mapping daemon. Calls
// block until the daemon replies; a daemon-side timeout surfaces as an error
// carrying a D-Bus error name (see ErrorNamer), never as a local
// cancellation.
type Backend interface {
	Reset() error
	GetInfo(version uint8) (Info, error)
	GetFlashInfo() (FlashInfo, error)
	CreateReadWindow(offset, size uint16) (Window, error)
	CreateWriteWindow(offset, size uint16) (Window, error)
	CloseWindow(flags uint8) error
	MarkDirty(offset, size uint16) error
	Flush() error
	Ack(mask uint8) error
	Erase(offset, size uint16) error
}
