package store

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Sample blobs use a fixed self-describing layout so the stored bytes stay
// portable and inspectable:
//
//	4 bytes  magic "FCEV"
//	1 byte   format version
//	2 bytes  embedding dimension (uint16, little endian)
//	2 bytes  sample count (uint16, little endian)
//	N bytes  count * dim float32 values (little endian)
//
// Changing the layout is a breaking change and requires a version bump.
const (
	blobMagic   = "FCEV"
	blobVersion = 1

	blobHeaderSize = 9
)

var (
	ErrCodecMagic   = errors.New("sample blob: bad magic")
	ErrCodecVersion = errors.New("sample blob: unsupported version")
)

// EncodeSamples serializes a non-empty sample set into a versioned blob.
// All samples must share the same dimension.
func EncodeSamples(samples [][]float32) ([]byte, error) {
	if len(samples) == 0 {
		return nil, errors.New("sample blob: no samples to encode")
	}
	dim := len(samples[0])
	if dim == 0 || dim > math.MaxUint16 {
		return nil, fmt.Errorf("sample blob: invalid dimension %d", dim)
	}
	if len(samples) > math.MaxUint16 {
		return nil, fmt.Errorf("sample blob: too many samples (%d)", len(samples))
	}

	buf := make([]byte, blobHeaderSize, blobHeaderSize+len(samples)*dim*4)
	copy(buf, blobMagic)
	buf[4] = blobVersion
	binary.LittleEndian.PutUint16(buf[5:7], uint16(dim))
	binary.LittleEndian.PutUint16(buf[7:9], uint16(len(samples)))

	for i, sample := range samples {
		if len(sample) != dim {
			return nil, fmt.Errorf("sample blob: sample %d has dimension %d, want %d", i, len(sample), dim)
		}
		for _, v := range sample {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
		}
	}
	return buf, nil
}

// DecodeSamples parses a blob produced by EncodeSamples.
func DecodeSamples(blob []byte) ([][]float32, error) {
	if len(blob) < blobHeaderSize {
		return nil, fmt.Errorf("sample blob: truncated header (%d bytes)", len(blob))
	}
	if string(blob[:4]) != blobMagic {
		return nil, ErrCodecMagic
	}
	if blob[4] != blobVersion {
		return nil, fmt.Errorf("%w: %d", ErrCodecVersion, blob[4])
	}

	dim := int(binary.LittleEndian.Uint16(blob[5:7]))
	count := int(binary.LittleEndian.Uint16(blob[7:9]))
	if dim == 0 || count == 0 {
		return nil, fmt.Errorf("sample blob: invalid header (dim=%d count=%d)", dim, count)
	}

	body := blob[blobHeaderSize:]
	if len(body) != count*dim*4 {
		return nil, fmt.Errorf("sample blob: body has %d bytes, want %d", len(body), count*dim*4)
	}

	samples := make([][]float32, count)
	for i := range samples {
		sample := make([]float32, dim)
		for j := range sample {
			off := (i*dim + j) * 4
			sample[j] = math.Float32frombits(binary.LittleEndian.Uint32(body[off : off+4]))
		}
		samples[i] = sample
	}
	return samples, nil
}
