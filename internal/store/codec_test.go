package store

import (
	"errors"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	samples := [][]float32{
		{1.5, -2.25, 0, 3.125},
		{0.001, 42, -7.5, 1e6},
		{-0, 1, 2, 3},
	}

	blob, err := EncodeSamples(samples)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	decoded, err := DecodeSamples(blob)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if len(decoded) != len(samples) {
		t.Fatalf("expected %d samples, got %d", len(samples), len(decoded))
	}
	for i := range samples {
		if len(decoded[i]) != len(samples[i]) {
			t.Fatalf("sample %d: expected dim %d, got %d", i, len(samples[i]), len(decoded[i]))
		}
		for j := range samples[i] {
			if decoded[i][j] != samples[i][j] {
				t.Errorf("sample %d[%d]: expected %v, got %v", i, j, samples[i][j], decoded[i][j])
			}
		}
	}
}

func TestEncodeEmptySamples(t *testing.T) {
	if _, err := EncodeSamples(nil); err == nil {
		t.Error("expected error encoding empty sample set")
	}
}

func TestEncodeMixedDimensions(t *testing.T) {
	samples := [][]float32{{1, 2, 3}, {1, 2}}
	if _, err := EncodeSamples(samples); err == nil {
		t.Error("expected error encoding mixed-dimension samples")
	}
}

func TestDecodeBadMagic(t *testing.T) {
	blob, err := EncodeSamples([][]float32{{1, 2}})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	blob[0] = 'X'

	if _, err := DecodeSamples(blob); !errors.Is(err, ErrCodecMagic) {
		t.Errorf("expected ErrCodecMagic, got %v", err)
	}
}

func TestDecodeUnsupportedVersion(t *testing.T) {
	blob, err := EncodeSamples([][]float32{{1, 2}})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	blob[4] = 99

	if _, err := DecodeSamples(blob); !errors.Is(err, ErrCodecVersion) {
		t.Errorf("expected ErrCodecVersion, got %v", err)
	}
}

func TestDecodeTruncated(t *testing.T) {
	blob, err := EncodeSamples([][]float32{{1, 2, 3, 4}})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	for _, cut := range []int{0, 4, blobHeaderSize, len(blob) - 1} {
		if _, err := DecodeSamples(blob[:cut]); err == nil {
			t.Errorf("expected error decoding blob truncated to %d bytes", cut)
		}
	}
}
