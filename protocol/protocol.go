// Package protocol implements the framing used to stream dimmer trace data
// from the firmware to a host. Frames follow the Klipper message block
// layout: length, sequence, payload, CRC16 and a trailing sync byte.
package protocol

// Frame layout constants
const (
	FrameHeaderSize  = 2 // length + sequence
	FrameTrailerSize = 3 // crc16 + sync
	FrameMin         = FrameHeaderSize + FrameTrailerSize
	FrameMax         = 64
	FramePayloadMax  = FrameMax - FrameMin

	FramePositionLen = 0
	FramePositionSeq = 1
	FrameTrailerCRC  = 3
	FrameTrailerSync = 1
	FrameValueSync   = 0x7E

	// Sequence byte: fixed high nibble, rolling low nibble.
	FrameDest    = 0x10
	FrameSeqMask = 0x0F
)
