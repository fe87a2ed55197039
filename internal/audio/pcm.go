package audio

import (
	"encoding/binary"
	"io"
)

// BytesPerSample is the size of one mono s16le frame.
const BytesPerSample = 2

// PutFrames encodes as many samples as fit into dst as s16le and returns how
// many samples were written. A trailing odd byte in dst is left untouched.
func PutFrames(dst []byte, samples []int16) int {
	n := len(dst) / BytesPerSample
	if n > len(samples) {
		n = len(samples)
	}
	for i, s := range samples[:n] {
		binary.LittleEndian.PutUint16(dst[i*BytesPerSample:], uint16(s))
	}
	return n
}

// Reader streams a Buffer as s16le bytes without materializing the whole
// byte slice up front.
type Reader struct {
	samples []int16
	pos     int
}

// NewReader returns a Reader positioned at the first sample of b.
func NewReader(b Buffer) *Reader {
	return &Reader{samples: b.Samples}
}

// Read fills p with whole s16le frames.
func (r *Reader) Read(p []byte) (int, error) {
	if r.pos >= len(r.samples) {
		return 0, io.EOF
	}
	n := PutFrames(p, r.samples[r.pos:])
	r.pos += n
	return n * BytesPerSample, nil
}

// Remaining returns the number of samples not yet read.
func (r *Reader) Remaining() int {
	return len(r.samples) - r.pos
}
