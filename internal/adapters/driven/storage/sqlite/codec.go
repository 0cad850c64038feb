package sqlite

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/MordecaiM24/recall-sub000/internal/core/domain"
)

// EncodeEmbedding converts a vector to its storage form: each component
// written as 4 bytes, IEEE-754 little-endian, in index order.
func EncodeEmbedding(vec []float32) []byte {
	if len(vec) == 0 {
		return nil
	}
	buf := make([]byte, len(vec)*4)
	for i, f := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// DecodeEmbedding is the inverse of EncodeEmbedding. It fails with
// domain.ErrMalformedBlob when the blob length is not a multiple of 4
// or does not match the expected dimension.
func DecodeEmbedding(data []byte, dim int) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("blob length %d not a multiple of 4: %w",
			len(data), domain.ErrMalformedBlob)
	}
	if len(data)/4 != dim {
		return nil, fmt.Errorf("blob holds %d components, expected %d: %w",
			len(data)/4, dim, domain.ErrMalformedBlob)
	}
	vec := make([]float32, dim)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vec, nil
}
