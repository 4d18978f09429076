// Package channel is the host command-channel binding: it frames HIOMAP
// envelopes over a stream transport, delivers inbound requests to the
// registered dispatcher, and carries outbound event pushes. The outer
// framing here is deployment plumbing; the HIOMAP envelope inside the
// payload is the compatibility surface and is owned by the hiomap package.
package channel

import (
	"encoding/binary"
	"errors"
	"io"
)

const (
	Magic          uint32 = 0x48494f4d
	Version        uint8  = 1
	FixedHeaderLen        = 8
)

// Frame types on the command channel.
const (
	TypeRequest  uint8 = 1
	TypeResponse uint8 = 2
	TypeEvent    uint8 = 3
)

var (
	ErrShortHeader        = errors.New("channel: short fixed header")
	ErrInvalidMagic       = errors.New("channel: invalid magic")
	ErrUnsupportedVersion = errors.New("channel: unsupported version")
	ErrPayloadTooLarge    = errors.New("channel: payload too large")
)

// Header is the fixed wire header. Header fields are big-endian; the HIOMAP
// payload inside remains little-endian as the protocol demands.
type Header struct {
	Magic      uint32
	Version    uint8
	Type       uint8
	PayloadLen uint16
}

// Frame is one complete channel message.
type Frame struct {
	Header  Header
	Payload []byte
}

// Limits constrains frame decode/encode memory use. HIOMAP payloads are a
// handful of bytes; anything larger than the default is a broken peer.
type Limits struct {
	MaxPayloadBytes uint16
}

func DefaultLimits() Limits {
	return Limits{MaxPayloadBytes: 64}
}

func ReadFrame(r io.Reader, limits Limits) (Frame, error) {
	var fixed [FixedHeaderLen]byte
	if _, err := io.ReadFull(r, fixed[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return Frame{}, ErrShortHeader
		}
		return Frame{}, err
	}

	h := DecodeHeader(fixed[:])
	if h.Magic != Magic {
		return Frame{}, ErrInvalidMagic
	}
	if h.Version != Version {
		return Frame{}, ErrUnsupportedVersion
	}
	if h.PayloadLen > limits.MaxPayloadBytes {
		return Frame{}, ErrPayloadTooLarge
	}

	payload := make([]byte, h.PayloadLen)
	if h.PayloadLen > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return Frame{}, err
		}
	}

	return Frame{Header: h, Payload: payload}, nil
}

func WriteFrame(w io.Writer, f Frame, limits Limits) error {
	if len(f.Payload) > int(limits.MaxPayloadBytes) {
		return ErrPayloadTooLarge
	}

	h := f.Header
	h.Magic = Magic
	h.Version = Version
	h.PayloadLen = uint16(len(f.Payload))

	buf := make([]byte, 0, FixedHeaderLen+len(f.Payload))
	buf = append(buf, EncodeHeader(h)...)
	buf = append(buf, f.Payload...)
	_, err := w.Write(buf)
	return err
}

func EncodeHeader(h Header) []byte {
	buf := make([]byte, FixedHeaderLen)
	binary.BigEndian.PutUint32(buf[0:4], h.Magic)
	buf[4] = h.Version
	buf[5] = h.Type
	binary.BigEndian.PutUint16(buf[6:8], h.PayloadLen)
	return buf
}

func DecodeHeader(b []byte) Header {
	return Header{
		Magic:      binary.BigEndian.Uint32(b[0:4]),
		Version:    b[4],
		Type:       b[5],
		PayloadLen: binary.BigEndian.Uint16(b[6:8]),
	}
}
