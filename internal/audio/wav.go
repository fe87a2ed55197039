package audio

import (
	"fmt"
	"io"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	wavBitDepth = 16
	wavPCM      = 1
)

// EncodeWAV writes b as a 16-bit mono PCM WAV stream.
func EncodeWAV(w io.WriteSeeker, b Buffer) error {
	data := make([]int, len(b.Samples))
	for i, s := range b.Samples {
		data[i] = int(s)
	}
	enc := wav.NewEncoder(w, b.SampleRate, wavBitDepth, 1, wavPCM)
	buf := &goaudio.IntBuffer{
		Data:           data,
		Format:         &goaudio.Format{SampleRate: b.SampleRate, NumChannels: 1},
		SourceBitDepth: wavBitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("write wav samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalize wav: %w", err)
	}
	return nil
}

// WriteWAVFile renders b into a new WAV file at path.
func WriteWAVFile(path string, b Buffer) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := EncodeWAV(f, b); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// DecodeWAV reads a 16-bit mono WAV stream back into a Buffer.
func DecodeWAV(r io.ReadSeeker) (Buffer, error) {
	dec := wav.NewDecoder(r)
	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return Buffer{}, fmt.Errorf("read wav samples: %w", err)
	}
	if dec.NumChans != 1 || dec.BitDepth != wavBitDepth {
		return Buffer{}, fmt.Errorf("unsupported wav layout: %d channels, %d bits", dec.NumChans, dec.BitDepth)
	}
	samples := make([]int16, len(pcm.Data))
	for i, v := range pcm.Data {
		samples[i] = int16(v)
	}
	return Buffer{Samples: samples, SampleRate: int(dec.SampleRate)}, nil
}
