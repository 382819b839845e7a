package ws

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

type Opcode byte

const (
	OpcodeContinuation Opcode = 0x0
	OpcodeText         Opcode = 0x1
	OpcodeBinary       Opcode = 0x2
	OpcodeClose        Opcode = 0x8
	OpcodePing         Opcode = 0x9
	OpcodePong         Opcode = 0xA
)

// MaxFramePayload caps a single frame's payload. The JSON protocol never
// comes close; the limit exists so a hostile length field can't allocate
// gigabytes.
const MaxFramePayload = 1 << 20 // 1 MiB

var (
	// ErrUnmasked means a client frame arrived without the mask bit set.
	// RFC 6455 requires every client-to-server frame to be masked.
	ErrUnmasked = errors.New("PROTOCOL_ERROR: client frame not masked")

	// ErrFragmented means a frame arrived with FIN=0. Continuation frames
	// are not supported.
	ErrFragmented = errors.New("PROTOCOL_ERROR: fragmented frames not supported")

	// ErrFrameTooLarge means the declared payload length exceeds MaxFramePayload.
	ErrFrameTooLarge = errors.New("PROTOCOL_ERROR: frame payload exceeds limit")

	// ErrReservedOpcode means the frame used an opcode RFC 6455 reserves.
	ErrReservedOpcode = errors.New("PROTOCOL_ERROR: reserved opcode")
)

// Frame is one decoded WebSocket protocol unit.
type Frame struct {
	Fin     bool
	Opcode  Opcode
	Masked  bool
	MaskKey [4]byte
	Payload []byte
}

func validOpcode(op Opcode) bool {
	switch op {
	case OpcodeContinuation, OpcodeText, OpcodeBinary, OpcodeClose, OpcodePing, OpcodePong:
		return true
	default:
		return false
	}
}

// ReadFrame decodes a single client frame from r. Reads block until the full
// frame has arrived; closing the underlying connection unblocks them.
func ReadFrame(r io.Reader) (Frame, error) {
	var header [2]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return Frame{}, err
	}

	frame := Frame{
		Fin:    header[0]&0x80 != 0,
		Opcode: Opcode(header[0] & 0x0F),
		Masked: header[1]&0x80 != 0,
	}

	if !validOpcode(frame.Opcode) {
		return Frame{}, fmt.Errorf("%w: 0x%X", ErrReservedOpcode, byte(frame.Opcode))
	}
	if !frame.Fin {
		return Frame{}, ErrFragmented
	}
	if !frame.Masked {
		return Frame{}, ErrUnmasked
	}

	// Three-tier length encoding: 0-125 literal, 126 = next 2 bytes,
	// 127 = next 8 bytes, both big-endian. In the extended cases the 7
	// low bits are only a marker, never the length itself.
	length := uint64(header[1] & 0x7F)
	switch length {
	case 126:
		var ext [2]byte
		if _, err := io.ReadFull(r, ext[:]); err != nil {
			return Frame{}, err
		}
		length = uint64(binary.BigEndian.Uint16(ext[:]))
	case 127:
		var ext [8]byte
		if _, err := io.ReadFull(r, ext[:]); err != nil {
			return Frame{}, err
		}
		length = binary.BigEndian.Uint64(ext[:])
	}

	if length > MaxFramePayload {
		return Frame{}, ErrFrameTooLarge
	}

	if _, err := io.ReadFull(r, frame.MaskKey[:]); err != nil {
		return Frame{}, err
	}

	frame.Payload = make([]byte, length)
	if _, err := io.ReadFull(r, frame.Payload); err != nil {
		return Frame{}, err
	}
	mask(frame.Payload, frame.MaskKey)

	return frame, nil
}

// EncodeFrame builds a server-to-client frame: FIN always set, never masked
// (only clients mask), same three-tier length encoding as the decoder.
func EncodeFrame(op Opcode, payload []byte) []byte {
	first := byte(0x80) | byte(op&0x0F)

	var header []byte
	switch {
	case len(payload) <= 125:
		header = []byte{first, byte(len(payload))}
	case len(payload) <= 0xFFFF:
		header = make([]byte, 4)
		header[0] = first
		header[1] = 126
		binary.BigEndian.PutUint16(header[2:], uint16(len(payload)))
	default:
		header = make([]byte, 10)
		header[0] = first
		header[1] = 127
		binary.BigEndian.PutUint64(header[2:], uint64(len(payload)))
	}

	frame := make([]byte, 0, len(header)+len(payload))
	frame = append(frame, header...)
	frame = append(frame, payload...)
	return frame
}

// mask XORs payload in place with key cycled every 4 bytes. XOR is its own
// inverse, so the same routine masks and unmasks.
func mask(payload []byte, key [4]byte) {
	for i := range payload {
		payload[i] ^= key[i%4]
	}
}
