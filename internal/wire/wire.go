// Package wire packs and unpacks the little-endian integer fields of the
// HIOMAP protocol. Every access is bounds-checked against the buffer; there
// is no raw offset arithmetic anywhere else in the tree.
package wire

import (
	"encoding/binary"
	"errors"
)

var ErrOutOfRange = errors.New("wire: offset out of range")

// ReadUint8 reads one byte at off.
func ReadUint8(buf []byte, off int) (uint8, error) {
	if off < 0 || off+1 > len(buf) {
		return 0, ErrOutOfRange
	}
	return buf[off], nil
}

// ReadUint16 reads a little-endian uint16 at off.
func ReadUint16(buf []byte, off int) (uint16, error) {
	if off < 0 || off+2 > len(buf) {
		return 0, ErrOutOfRange
	}
	return binary.LittleEndian.Uint16(buf[off : off+2]), nil
}

// WriteUint8 writes one byte at off.
func WriteUint8(buf []byte, off int, v uint8) error {
	if off < 0 || off+1 > len(buf) {
		return ErrOutOfRange
	}
	buf[off] = v
	return nil
}

// WriteUint16 writes a little-endian uint16 at off.
func WriteUint16(buf []byte, off int, v uint16) error {
	if off < 0 || off+2 > len(buf) {
		return ErrOutOfRange
	}
	binary.LittleEndian.PutUint16(buf[off:off+2], v)
	return nil
}
