// Package audio wraps raw model audio output in a playable container.
package audio

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"errors"
)

// Fixed output format of the speech model. Not negotiated.
const (
	Channels      = 1
	SampleRate    = 24000
	BitsPerSample = 16
)

// ErrInvalidPCM indicates the payload cannot be 16-bit samples.
var ErrInvalidPCM = errors.New("audio: pcm byte count not aligned to 16-bit samples")

const wavHeaderSize = 44

// EncodeWAV wraps raw linear PCM (mono, 24 kHz, 16-bit) in a RIFF/WAVE
// container. The output is fully determined by the input bytes.
func EncodeWAV(pcm []byte) ([]byte, error) {
	if len(pcm)%(BitsPerSample/8) != 0 {
		return nil, ErrInvalidPCM
	}
	blockAlign := Channels * BitsPerSample / 8
	byteRate := SampleRate * blockAlign

	buf := bytes.NewBuffer(make([]byte, 0, wavHeaderSize+len(pcm)))
	buf.WriteString("RIFF")
	writeUint32(buf, uint32(36+len(pcm)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	writeUint32(buf, 16)
	writeUint16(buf, 1) // PCM, no compression
	writeUint16(buf, Channels)
	writeUint32(buf, SampleRate)
	writeUint32(buf, uint32(byteRate))
	writeUint16(buf, uint16(blockAlign))
	writeUint16(buf, BitsPerSample)

	buf.WriteString("data")
	writeUint32(buf, uint32(len(pcm)))
	buf.Write(pcm)
	return buf.Bytes(), nil
}

// EncodeWAVDataURI returns the container as a base64 data URI suitable for
// direct playback.
func EncodeWAVDataURI(pcm []byte) (string, error) {
	wav, err := EncodeWAV(pcm)
	if err != nil {
		return "", err
	}
	return "data:audio/wav;base64," + base64.StdEncoding.EncodeToString(wav), nil
}

func writeUint16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}
