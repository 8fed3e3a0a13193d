// Package protocol implements the tick report wire format spoken between a
// counter peripheral and the host monitor: a framed byte stream of
// VLQ-encoded counter samples, bounded so the firmware side can encode into
// a fixed scratch buffer without allocating.
package protocol

// Frame layout: [len][seq][payload...][crc hi][crc lo][sync]. The length
// byte covers the whole frame; the CRC covers everything before the trailer.
// The sequence byte carries a fixed marker in its high nibble so the decoder
// can resynchronize on corrupted streams.
const (
	FrameHeaderSize  = 2
	FrameTrailerSize = 3
	FrameLengthMin   = FrameHeaderSize + FrameTrailerSize
	FrameLengthMax   = 64

	SyncByte = 0x7E
	SeqMask  = 0x0F
	seqDest  = 0x10

	flagRunning = 1 << 0
)

// Report is one counter telemetry sample: the wrapped clock value, the
// number of full-width overflows seen since the counter started, and the
// run state.
type Report struct {
	Clock     uint32
	Overflows uint32
	Running   bool
}

// AppendFrame appends one framed report to dst and returns the extended
// slice. Firmware passes a slice backed by a fixed array (dst[:0]) to keep
// the encode path allocation free.
func AppendFrame(dst []byte, seq uint8, r Report) []byte {
	start := len(dst)
	dst = append(dst, 0, seqDest|(seq&SeqMask))
	dst = AppendVLQUint(dst, r.Clock)
	dst = AppendVLQUint(dst, r.Overflows)
	var flags uint32
	if r.Running {
		flags |= flagRunning
	}
	dst = AppendVLQUint(dst, flags)
	dst[start] = byte(len(dst) - start + FrameTrailerSize)
	crc := CRC16(dst[start:])
	return append(dst, byte(crc>>8), byte(crc), SyncByte)
}

// DecoderStats counts what the decoder saw, including what it had to throw
// away.
type DecoderStats struct {
	Frames    uint64
	CRCErrors uint64
	Resyncs   uint64
	SeqGaps   uint64 // frames lost according to sequence numbers
}

// Decoder extracts report frames from a raw byte stream. Garbage between
// frames is tolerated: on any framing or CRC error the decoder drops bytes
// until the next sync byte and picks up from there.
type Decoder struct {
	buf     []byte
	synced  bool
	lastSeq uint8
	haveSeq bool
	stats   DecoderStats
}

// NewDecoder returns a decoder that assumes the stream starts on a frame
// boundary.
func NewDecoder() *Decoder {
	return &Decoder{synced: true}
}

// Stats returns a snapshot of the decoder counters.
func (d *Decoder) Stats() DecoderStats { return d.stats }

// Feed consumes raw bytes and returns the reports of any frames completed
// by them, in stream order.
func (d *Decoder) Feed(p []byte) []Report {
	d.buf = append(d.buf, p...)
	var out []Report

	for {
		if !d.synced {
			i := indexSync(d.buf)
			if i < 0 {
				d.buf = d.buf[:0]
				return out
			}
			d.buf = d.buf[i+1:]
			d.synced = true
			d.stats.Resyncs++
		}

		// Skip sync bytes between frames.
		for len(d.buf) > 0 && d.buf[0] == SyncByte {
			d.buf = d.buf[1:]
		}
		if len(d.buf) < FrameLengthMin {
			return out
		}

		frameLen := int(d.buf[0])
		if frameLen < FrameLengthMin || frameLen > FrameLengthMax {
			d.synced = false
			continue
		}
		if seq := d.buf[1]; seq&^SeqMask != seqDest {
			d.synced = false
			continue
		}
		if len(d.buf) < frameLen {
			return out
		}
		if d.buf[frameLen-1] != SyncByte {
			d.synced = false
			continue
		}

		wire := uint16(d.buf[frameLen-3])<<8 | uint16(d.buf[frameLen-2])
		if wire != CRC16(d.buf[:frameLen-FrameTrailerSize]) {
			d.stats.CRCErrors++
			d.synced = false
			continue
		}

		seq := d.buf[1] & SeqMask
		payload := d.buf[FrameHeaderSize : frameLen-FrameTrailerSize]
		d.buf = d.buf[frameLen:]

		r, err := parseReport(payload)
		if err != nil {
			d.synced = false
			continue
		}

		if d.haveSeq {
			if gap := (seq - d.lastSeq - 1) & SeqMask; gap != 0 {
				d.stats.SeqGaps += uint64(gap)
			}
		}
		d.lastSeq = seq
		d.haveSeq = true
		d.stats.Frames++
		out = append(out, r)
	}
}

func parseReport(payload []byte) (Report, error) {
	var r Report
	clock, err := DecodeVLQUint(&payload)
	if err != nil {
		return r, err
	}
	overflows, err := DecodeVLQUint(&payload)
	if err != nil {
		return r, err
	}
	flags, err := DecodeVLQUint(&payload)
	if err != nil {
		return r, err
	}
	r.Clock = clock
	r.Overflows = overflows
	r.Running = flags&flagRunning != 0
	return r, nil
}

func indexSync(p []byte) int {
	for i, b := range p {
		if b == SyncByte {
			return i
		}
	}
	return -1
}
