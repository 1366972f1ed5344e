package audio

import (
	"encoding/base64"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePCM16(t *testing.T) {
	data := []byte{
		0x00, 0x00, // 0
		0xff, 0x7f, // 32767
		0x00, 0x80, // -32768
		0x00, 0x40, // 16384
		0x01, // dangling byte
	}

	samples := DecodePCM16(data)
	require.Len(t, samples, 4)
	assert.Equal(t, float32(0), samples[0])
	assert.InDelta(t, 32767.0/32768.0, samples[1], 1e-7)
	assert.Equal(t, float32(-1), samples[2])
	assert.Equal(t, float32(0.5), samples[3])
}

func TestDecodeBase64(t *testing.T) {
	pcm := make([]byte, SampleRate*2) // one second
	clip, err := DecodeBase64(base64.StdEncoding.EncodeToString(pcm))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, clip.Duration(), 1e-9)

	_, err = DecodeBase64("%%%")
	assert.Error(t, err)
}

func TestWAVHeader(t *testing.T) {
	clip := &Clip{PCM: []byte{1, 2, 3, 4, 5}}
	wav := clip.WAV()

	require.Len(t, wav, 44+4)
	assert.Equal(t, "RIFF", string(wav[0:4]))
	assert.Equal(t, "WAVE", string(wav[8:12]))
	assert.Equal(t, uint32(SampleRate), binary.LittleEndian.Uint32(wav[24:28]))
	assert.Equal(t, uint32(4), binary.LittleEndian.Uint32(wav[40:44]))
}
