package cache

import (
	"database/sql/driver"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func float32Blob(vs ...float32) []byte {
	buf := make([]byte, len(vs)*4)
	for i, v := range vs {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func TestVecDistanceCos_IdenticalVectorsAreZero(t *testing.T) {
	a := float32Blob(1, 0, 0)
	got, err := vecDistanceCos(nil, []driver.Value{a, a})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, got.(float64), 0.0001)
}

func TestVecDistanceCos_OrthogonalVectorsAreOne(t *testing.T) {
	a := float32Blob(1, 0)
	b := float32Blob(0, 1)
	got, err := vecDistanceCos(nil, []driver.Value{a, b})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, got.(float64), 0.0001)
}

func TestVecDistanceCos_EmptyVectorReturnsMaxDistance(t *testing.T) {
	got, err := vecDistanceCos(nil, []driver.Value{[]byte{}, float32Blob(1, 0)})
	require.NoError(t, err)
	assert.Equal(t, float64(1), got)
}

func TestVecDistanceCos_DimensionMismatchErrors(t *testing.T) {
	_, err := vecDistanceCos(nil, []driver.Value{float32Blob(1, 0), float32Blob(1, 0, 0)})
	assert.Error(t, err)
}

func TestVecDistanceCos_WrongArgCountErrors(t *testing.T) {
	_, err := vecDistanceCos(nil, []driver.Value{float32Blob(1)})
	assert.Error(t, err)
}

func TestDecodeFloat32_FromBytesAndString(t *testing.T) {
	blob := float32Blob(1.5, -2.5)
	got, err := decodeFloat32(blob)
	require.NoError(t, err)
	assert.Equal(t, []float32{1.5, -2.5}, got)

	got, err = decodeFloat32(string(blob))
	require.NoError(t, err)
	assert.Equal(t, []float32{1.5, -2.5}, got)
}

func TestDecodeFloat32_Nil(t *testing.T) {
	got, err := decodeFloat32(nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDecodeFloat32_MisalignedBlobErrors(t *testing.T) {
	_, err := decodeFloat32([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestDecodeFloat32_UnsupportedTypeErrors(t *testing.T) {
	_, err := decodeFloat32(42)
	assert.Error(t, err)
}

func TestCoerceBlob(t *testing.T) {
	got, err := coerceBlob([]byte{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, got)

	got, err = coerceBlob("abc")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)

	_, err = coerceBlob(42)
	assert.Error(t, err)
}

func TestToString(t *testing.T) {
	assert.Equal(t, "", toString(nil))
	assert.Equal(t, "abc", toString("abc"))
	assert.Equal(t, "abc", toString([]byte("abc")))
	assert.Equal(t, "42", toString(42))
}
