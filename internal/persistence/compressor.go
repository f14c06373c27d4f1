package persistence

import (
	"fmt"

	"github.com/klauspost/compress/zstd"

	"dmrmonitor/internal/persistence/interfaces"
	"dmrmonitor/internal/structures"
)

var compressionLevels = map[string]zstd.EncoderLevel{
	"fastest": zstd.SpeedFastest,
	"default": zstd.SpeedDefault,
	"better":  zstd.SpeedBetterCompression,
	"best":    zstd.SpeedBestCompression,
}

// ZstdCompression packs the state file. One encoder and one decoder are
// shared by every save and restore.
type ZstdCompression struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func (z *ZstdCompression) Compress(state []byte) ([]byte, error) {
	return z.encoder.EncodeAll(state, make([]byte, 0, len(state)/2)), nil
}

func (z *ZstdCompression) Decompress(packed []byte) ([]byte, error) {
	return z.decoder.DecodeAll(packed, nil)
}

// Close is called once on shutdown, after the final save.
func (z *ZstdCompression) Close() {
	_ = z.encoder.Close()
	z.decoder.Close()
}

// NewZstdCompressor builds the state file codec at persistence.compressionLevel.
// An empty level means "default".
func NewZstdCompressor(conf *structures.Config) (interfaces.CompressorInterface, error) {
	name := conf.Persistence.CompressionLevel
	if name == "" {
		name = "default"
	}
	level, ok := compressionLevels[name]
	if !ok {
		return nil, fmt.Errorf("unknown compression level %q", name)
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(level))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		_ = encoder.Close()
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return &ZstdCompression{encoder: encoder, decoder: decoder}, nil
}
