// Package audio handles the narration audio returned by the speech model:
// little-endian 16-bit mono PCM at 24kHz.
package audio

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
)

const (
	// SampleRate is the speech model's fixed output rate.
	SampleRate = 24000
	// Channels is always mono.
	Channels = 1
	// BitsPerSample is always 16.
	BitsPerSample = 16
)

// Clip is one narration.
type Clip struct {
	PCM []byte
}

// DecodeBase64 builds a Clip from the base64 payload of an inline audio part.
func DecodeBase64(s string) (*Clip, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode audio payload: %w", err)
	}
	return &Clip{PCM: data}, nil
}

// Samples converts the PCM data to floats in [-1, 1). A trailing odd byte is ignored.
func (c *Clip) Samples() []float32 {
	return DecodePCM16(c.PCM)
}

// Duration returns the playing time in seconds.
func (c *Clip) Duration() float64 {
	return float64(len(c.PCM)/2) / SampleRate
}

// DecodePCM16 converts little-endian signed 16-bit samples by dividing by 32768.
func DecodePCM16(data []byte) []float32 {
	out := make([]float32, len(data)/2)
	for i := range out {
		v := int16(binary.LittleEndian.Uint16(data[2*i:]))
		out[i] = float32(v) / 32768.0
	}
	return out
}

// WAV frames the clip as a RIFF/WAVE file a browser can play.
func (c *Clip) WAV() []byte {
	pcm := c.PCM
	if len(pcm)%2 == 1 {
		pcm = pcm[:len(pcm)-1]
	}
	blockAlign := Channels * BitsPerSample / 8
	byteRate := SampleRate * blockAlign

	var buf bytes.Buffer
	buf.Grow(44 + len(pcm))
	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	_ = binary.Write(&buf, binary.LittleEndian, uint16(Channels))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(SampleRate))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(BitsPerSample))
	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)
	return buf.Bytes()
}
