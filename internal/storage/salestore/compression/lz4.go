package compression

import (
	"fmt"

	"github.com/pierrec/lz4"
)

// NoCompressor is a pass-through compressor.
type NoCompressor struct{}

// Name returns the name of the compressor.
func (c *NoCompressor) Name() string {
	return "none"
}

// Compress returns a copy of the data unchanged.
func (c *NoCompressor) Compress(data []byte, level int) ([]byte, error) {
	result := make([]byte, len(data))
	copy(result, data)
	return result, nil
}

// Decompress returns a copy of the data unchanged.
func (c *NoCompressor) Decompress(data []byte, originalSize int) ([]byte, error) {
	result := make([]byte, len(data))
	copy(result, data)
	return result, nil
}

// MaxCompressedSize returns the input size unchanged.
func (c *NoCompressor) MaxCompressedSize(uncompressedSize int) int {
	return uncompressedSize
}

// LZ4Compressor implements LZ4 block compression.
type LZ4Compressor struct{}

// Name returns the name of the compressor.
func (c *LZ4Compressor) Name() string {
	return "lz4"
}

// Compress compresses data using LZ4 block mode. Incompressible input
// yields an empty block; callers should store such records raw.
func (c *LZ4Compressor) Compress(data []byte, level int) ([]byte, error) {
	if len(data) == 0 {
		return []byte{}, nil
	}

	compressed := make([]byte, lz4.CompressBlockBound(len(data)))
	n, err := lz4.CompressBlock(data, compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("lz4 compression failed: %w", err)
	}
	return compressed[:n], nil
}

// Decompress decompresses an LZ4 block of a known original size.
func (c *LZ4Compressor) Decompress(data []byte, originalSize int) ([]byte, error) {
	if len(data) == 0 {
		return []byte{}, nil
	}
	if originalSize < 0 {
		return nil, fmt.Errorf("lz4 decompression failed: negative original size")
	}

	decompressed := make([]byte, originalSize)
	n, err := lz4.UncompressBlock(data, decompressed)
	if err != nil {
		return nil, fmt.Errorf("lz4 decompression failed: %w", err)
	}
	return decompressed[:n], nil
}

// MaxCompressedSize returns the LZ4 worst-case block bound.
func (c *LZ4Compressor) MaxCompressedSize(uncompressedSize int) int {
	return lz4.CompressBlockBound(uncompressedSize)
}
