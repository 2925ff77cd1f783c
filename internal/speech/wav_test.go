package speech

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeWAV(t *testing.T) {
	pcm := []byte{1, 2, 3, 4}
	wav := encodeWAV(pcm, 24000)

	require.Len(t, wav, 48)
	assert.Equal(t, "RIFF", string(wav[0:4]))
	assert.Equal(t, uint32(40), binary.LittleEndian.Uint32(wav[4:8]))
	assert.Equal(t, "WAVE", string(wav[8:12]))
	assert.Equal(t, "fmt ", string(wav[12:16]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(wav[20:22]), "PCM format")
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(wav[22:24]), "mono")
	assert.Equal(t, uint32(24000), binary.LittleEndian.Uint32(wav[24:28]))
	assert.Equal(t, uint32(48000), binary.LittleEndian.Uint32(wav[28:32]))
	assert.Equal(t, uint16(16), binary.LittleEndian.Uint16(wav[34:36]))
	assert.Equal(t, "data", string(wav[36:40]))
	assert.Equal(t, uint32(4), binary.LittleEndian.Uint32(wav[40:44]))
	assert.Equal(t, pcm, wav[44:])
}

func TestPCMSampleRate(t *testing.T) {
	assert.Equal(t, 24000, pcmSampleRate("audio/L16;codec=pcm;rate=24000"))
	assert.Equal(t, 16000, pcmSampleRate("audio/L16; rate=16000"))
	assert.Equal(t, defaultSampleRate, pcmSampleRate("audio/L16"))
	assert.Equal(t, defaultSampleRate, pcmSampleRate(";;;"))
}

func TestIsWAV(t *testing.T) {
	assert.True(t, isWAV("audio/wav"))
	assert.True(t, isWAV("audio/x-wav"))
	assert.False(t, isWAV("audio/L16;rate=24000"))
}
