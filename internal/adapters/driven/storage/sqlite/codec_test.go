package sqlite

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MordecaiM24/recall-sub000/internal/core/domain"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	vectors := [][]float32{
		{0, 1, -1, 0.5},
		{math.MaxFloat32, -math.MaxFloat32, math.SmallestNonzeroFloat32, 0},
		{float32(math.Copysign(0, -1)), 1e-38, -1e-38, 3.14159},
	}

	for _, vec := range vectors {
		blob := EncodeEmbedding(vec)
		require.Len(t, blob, len(vec)*4)

		decoded, err := DecodeEmbedding(blob, len(vec))
		require.NoError(t, err)

		// Bit-exact comparison: -0 and 0 must not be conflated.
		for i := range vec {
			assert.Equal(t, math.Float32bits(vec[i]), math.Float32bits(decoded[i]),
				"component %d", i)
		}
	}
}

func TestEncodeEmpty(t *testing.T) {
	assert.Nil(t, EncodeEmbedding(nil))
	assert.Nil(t, EncodeEmbedding([]float32{}))
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name string
		blob []byte
		dim  int
	}{
		{name: "not multiple of 4", blob: []byte{1, 2, 3}, dim: 1},
		{name: "wrong dimension", blob: make([]byte, 8), dim: 4},
		{name: "empty blob nonzero dim", blob: nil, dim: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeEmbedding(tt.blob, tt.dim)
			assert.ErrorIs(t, err, domain.ErrMalformedBlob)
		})
	}
}
