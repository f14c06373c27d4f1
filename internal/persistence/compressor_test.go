package persistence

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dmrmonitor/internal/structures"
)

func TestZstdCompression_Roundtrip(t *testing.T) {
	c, err := NewZstdCompressor(&structures.Config{})
	require.NoError(t, err)
	defer c.Close()

	original := []byte(`{"version":1,"events":["2024-05-01 12:00:00 UTC: UNKNOWN LOG MESSAGE"]}`)
	compressed, err := c.Compress(original)
	require.NoError(t, err)
	assert.NotEqual(t, original, compressed)

	decompressed, err := c.Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, original, decompressed)
}

func TestZstdCompression_EmptyData(t *testing.T) {
	c, err := NewZstdCompressor(&structures.Config{})
	require.NoError(t, err)
	defer c.Close()

	compressed, err := c.Compress([]byte{})
	require.NoError(t, err)

	decompressed, err := c.Decompress(compressed)
	require.NoError(t, err)
	assert.Empty(t, decompressed)
}

func TestZstdCompression_RepetitiveDataShrinks(t *testing.T) {
	c, err := NewZstdCompressor(&structures.Config{})
	require.NoError(t, err)
	defer c.Close()

	original := bytes.Repeat([]byte("Group Voice,End,312000,312100,W1AW,TS2,TG3100,USA\n"), 500)
	compressed, err := c.Compress(original)
	require.NoError(t, err)
	assert.Less(t, len(compressed), len(original)/10)

	decompressed, err := c.Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, original, decompressed)
}

func TestZstdCompression_Garbage(t *testing.T) {
	c, err := NewZstdCompressor(&structures.Config{})
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Decompress([]byte("definitely not zstd"))
	assert.Error(t, err)
}

func TestZstdCompression_Levels(t *testing.T) {
	original := bytes.Repeat([]byte("GROUP VOICE END: IPSC: NET1 PEER: 312100 TS: 1 TGID: 3100\n"), 200)
	for _, level := range []string{"fastest", "default", "better", "best"} {
		t.Run(level, func(t *testing.T) {
			conf := &structures.Config{Persistence: structures.Persistence{CompressionLevel: level}}
			c, err := NewZstdCompressor(conf)
			require.NoError(t, err)
			defer c.Close()

			compressed, err := c.Compress(original)
			require.NoError(t, err)
			assert.Less(t, len(compressed), len(original))

			decompressed, err := c.Decompress(compressed)
			require.NoError(t, err)
			assert.Equal(t, original, decompressed)
		})
	}
}

func TestZstdCompression_UnknownLevel(t *testing.T) {
	conf := &structures.Config{Persistence: structures.Persistence{CompressionLevel: "ultra"}}
	c, err := NewZstdCompressor(conf)
	assert.Error(t, err)
	assert.Nil(t, c)
}
