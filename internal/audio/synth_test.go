package audio

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSineLength(t *testing.T) {
	cases := []struct {
		freq, dur float64
		rate      int
	}{
		{440, 1.0, 44100},
		{261.63, 0.1, 44100},
		{55, 0.025, 44100},
		{880, 0.333, 48000},
		{110, 0.0001, 8000},
	}
	for _, c := range cases {
		b := Sine(c.freq, c.dur, c.rate, DefaultVolume)
		want := int(math.Round(c.dur * float64(c.rate)))
		if b.Len() != want {
			t.Errorf("Sine(%v, %v, %d) len = %d, want %d", c.freq, c.dur, c.rate, b.Len(), want)
		}
		if b.SampleRate != c.rate {
			t.Errorf("sample rate = %d, want %d", b.SampleRate, c.rate)
		}
	}
}

func TestSineRangeAtFullVolume(t *testing.T) {
	b := Sine(1234.5, 0.5, 44100, 1.0)
	sawPeak := false
	for i, s := range b.Samples {
		if s < -FullScale || s > FullScale {
			t.Fatalf("sample %d = %d out of range", i, s)
		}
		if s > 32000 {
			sawPeak = true
		}
	}
	if !sawPeak {
		t.Error("expected near full-scale peaks at volume 1")
	}
}

func TestSineStartsAtZero(t *testing.T) {
	b := Sine(440, 0.01, 44100, DefaultVolume)
	if b.Samples[0] != 0 {
		t.Fatalf("first sample = %d, want 0", b.Samples[0])
	}
	// Quarter period of 441 Hz at 44.1 kHz lands exactly on sample 25.
	q := Sine(441, 0.01, 44100, DefaultVolume)
	want := int16(math.Round(DefaultVolume * FullScale))
	if q.Samples[25] != want {
		t.Fatalf("peak sample = %d, want %d", q.Samples[25], want)
	}
}

func TestQuantizeSaturates(t *testing.T) {
	if got := Quantize(2, 1); got != FullScale {
		t.Errorf("Quantize(2, 1) = %d, want %d", got, FullScale)
	}
	if got := Quantize(-2, 1); got != -FullScale {
		t.Errorf("Quantize(-2, 1) = %d, want %d", got, -FullScale)
	}
	if got := Quantize(0.5, 1); got != 16384 {
		t.Errorf("Quantize(0.5, 1) = %d, want 16384", got)
	}
}

func TestSilence(t *testing.T) {
	b := Silence(0.025, 44100)
	if b.Len() != SampleCount(0.025, 44100) {
		t.Fatalf("len = %d, want %d", b.Len(), SampleCount(0.025, 44100))
	}
	for i, s := range b.Samples {
		if s != 0 {
			t.Fatalf("sample %d = %d, want 0", i, s)
		}
	}
}

func TestConcat(t *testing.T) {
	a := Sine(440, 0.1, 44100, DefaultVolume)
	gap := Silence(0.05, 44100)
	b := Sine(220, 0.2, 44100, DefaultVolume)

	out := Concat(a, gap, b)
	if out.Len() != a.Len()+gap.Len()+b.Len() {
		t.Fatalf("len = %d, want %d", out.Len(), a.Len()+gap.Len()+b.Len())
	}
	if out.SampleRate != 44100 {
		t.Fatalf("sample rate = %d", out.SampleRate)
	}
	if out.Samples[a.Len()+gap.Len()+25] != b.Samples[25] {
		t.Error("tail samples do not match second tone")
	}
}

func TestDuration(t *testing.T) {
	b := Silence(1.5, 8000)
	if b.Duration() != 1500*time.Millisecond {
		t.Fatalf("Duration() = %v, want 1.5s", b.Duration())
	}
	if (Buffer{}).Duration() != 0 {
		t.Fatal("zero buffer should have zero duration")
	}
}

func TestReaderStreamsAllSamples(t *testing.T) {
	b := Sine(440, 0.01, 44100, DefaultVolume)
	r := NewReader(b)
	var got []byte
	chunk := make([]byte, 64)
	for {
		n, err := r.Read(chunk)
		got = append(got, chunk[:n]...)
		if err != nil {
			break
		}
	}
	samples := decodeFrames(got)
	if len(samples) != b.Len() {
		t.Fatalf("read %d samples, want %d", len(samples), b.Len())
	}
	for i := range samples {
		if samples[i] != b.Samples[i] {
			t.Fatalf("sample %d = %d, want %d", i, samples[i], b.Samples[i])
		}
	}
	if r.Remaining() != 0 {
		t.Fatalf("Remaining() = %d, want 0", r.Remaining())
	}
}

func TestWAVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	b := Concat(Sine(440, 0.05, 22050, 0.5), Silence(0.01, 22050))
	if err := WriteWAVFile(path, b); err != nil {
		t.Fatalf("WriteWAVFile() error = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	got, err := DecodeWAV(f)
	if err != nil {
		t.Fatalf("DecodeWAV() error = %v", err)
	}
	if got.SampleRate != 22050 {
		t.Errorf("sample rate = %d, want 22050", got.SampleRate)
	}
	if got.Len() != b.Len() {
		t.Fatalf("len = %d, want %d", got.Len(), b.Len())
	}
	for i := range b.Samples {
		if got.Samples[i] != b.Samples[i] {
			t.Fatalf("sample %d = %d, want %d", i, got.Samples[i], b.Samples[i])
		}
	}
}

func decodeFrames(data []byte) []int16 {
	samples := make([]int16, len(data)/BytesPerSample)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(data[i*BytesPerSample:]))
	}
	return samples
}

func TestPutFrames(t *testing.T) {
	samples := []int16{0, 1, -1, FullScale, -FullScale}
	dst := make([]byte, 7) // room for three frames and a spare byte
	dst[6] = 0xEE
	n := PutFrames(dst, samples)
	if n != 3 {
		t.Fatalf("PutFrames() = %d, want 3", n)
	}
	got := decodeFrames(dst[:6])
	for i, want := range samples[:3] {
		if got[i] != want {
			t.Errorf("frame %d = %d, want %d", i, got[i], want)
		}
	}
	if dst[6] != 0xEE {
		t.Error("odd trailing byte was overwritten")
	}
	if dst[2] != 0x01 || dst[3] != 0x00 {
		t.Errorf("1 should encode little-endian as 01 00, got % x", dst[2:4])
	}
}
