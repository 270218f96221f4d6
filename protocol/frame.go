package protocol

import "errors"

var (
	ErrFrameTooLarge = errors.New("frame payload too large")
	ErrBadFrame      = errors.New("malformed frame")
	ErrBadCRC        = errors.New("frame CRC mismatch")
)

// CRC16 calculates the CRC16-CCITT checksum used by Klipper message blocks
func CRC16(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		b = b ^ uint8(crc&0xFF)
		b = b ^ (b << 4)
		b16 := uint16(b)
		crc = (b16<<8 | crc>>8) ^ (b16 >> 4) ^ (b16 << 3)
	}
	return crc
}

// SeqByte returns the sequence byte for frame number n.
func SeqByte(n uint8) uint8 {
	return FrameDest | (n & FrameSeqMask)
}

// EncodeFrame appends one frame to output. The payload callback writes the
// frame body; a body longer than FramePayloadMax is rolled back and reported.
func EncodeFrame(output OutputBuffer, seq uint8, payload func(OutputBuffer)) error {
	cursor := output.CurPosition()

	// Length placeholder and sequence
	output.Output([]byte{0, SeqByte(seq)})

	payload(output)

	frameLen := len(output.DataSince(cursor)) + FrameTrailerSize
	if frameLen > FrameMax {
		rewind(output, cursor)
		return ErrFrameTooLarge
	}
	output.Update(cursor, uint8(frameLen))

	crc := CRC16(output.DataSince(cursor))
	output.Output([]byte{
		uint8((crc & 0xFF00) >> 8),
		uint8(crc & 0xFF),
		FrameValueSync,
	})
	return nil
}

// rewind drops everything written after pos when the buffer supports it.
func rewind(output OutputBuffer, pos int) {
	if s, ok := output.(*ScratchOutput); ok && pos <= s.pos {
		s.pos = pos
	}
}

// FrameHandler receives the sequence number and body of each valid frame.
// The payload slice is only valid during the call.
type FrameHandler func(seq uint8, payload []byte)

// FrameDecoder reassembles frames from an unaligned byte stream, resyncing
// on the next sync byte after any corruption.
type FrameDecoder struct {
	buf          []byte
	synchronized bool
	haveSeq      bool
	lastSeq      uint8

	// Counters for the host to report link quality.
	Frames    uint32
	BadFrames uint32
	SeqGaps   uint32
}

// NewFrameDecoder creates a decoder that assumes the stream starts on a
// frame boundary.
func NewFrameDecoder() *FrameDecoder {
	return &FrameDecoder{synchronized: true}
}

// Feed consumes data and calls fn for each complete, valid frame.
func (d *FrameDecoder) Feed(data []byte, fn FrameHandler) {
	d.buf = append(d.buf, data...)
	buf := d.buf

	for len(buf) > 0 {
		if !d.synchronized {
			// Skip to just past the next sync byte
			syncPos := -1
			for i, b := range buf {
				if b == FrameValueSync {
					syncPos = i
					break
				}
			}
			if syncPos < 0 {
				buf = nil
				break
			}
			buf = buf[syncPos+1:]
			d.synchronized = true
			continue
		}

		// Skip leading sync bytes
		if buf[0] == FrameValueSync {
			buf = buf[1:]
			continue
		}

		if len(buf) < FrameMin {
			break
		}

		frameLen := int(buf[FramePositionLen])
		seq := buf[FramePositionSeq]
		if frameLen < FrameMin || frameLen > FrameMax || seq&^FrameSeqMask != FrameDest {
			d.desync()
			continue
		}

		if len(buf) < frameLen {
			break
		}

		if err := checkFrame(buf[:frameLen]); err != nil {
			d.desync()
			continue
		}

		d.Frames++
		seqNum := seq & FrameSeqMask
		if d.haveSeq && seqNum != (d.lastSeq+1)&FrameSeqMask {
			d.SeqGaps++
		}
		d.lastSeq = seqNum
		d.haveSeq = true

		fn(seqNum, buf[FrameHeaderSize:frameLen-FrameTrailerSize])
		buf = buf[frameLen:]
	}

	// Keep the unconsumed tail at the front of the buffer.
	n := copy(d.buf, buf)
	d.buf = d.buf[:n]
}

func (d *FrameDecoder) desync() {
	d.BadFrames++
	d.synchronized = false
}

// checkFrame validates the trailer of a complete frame.
func checkFrame(frame []byte) error {
	n := len(frame)
	if frame[n-FrameTrailerSync] != FrameValueSync {
		return ErrBadFrame
	}
	want := uint16(frame[n-FrameTrailerCRC])<<8 | uint16(frame[n-FrameTrailerCRC+1])
	if CRC16(frame[:n-FrameTrailerSize]) != want {
		return ErrBadCRC
	}
	return nil
}
