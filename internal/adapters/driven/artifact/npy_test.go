package artifact

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadNpy_Dtypes(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6}
	for _, descr := range []string{"<f8", "<f4", "<i8", "<i4", "<u8", "<u4"} {
		t.Run(descr, func(t *testing.T) {
			a, err := readNpy(bytes.NewReader(encodeNpy(t, descr, []int{2, 3}, false, values)))
			require.NoError(t, err)
			assert.Equal(t, []int{2, 3}, a.shape)
			assert.Equal(t, values, a.Float64s())

			ids, err := a.Int64s()
			require.NoError(t, err)
			assert.Equal(t, []int64{1, 2, 3, 4, 5, 6}, ids)
		})
	}
}

func TestReadNpy_FortranOrder(t *testing.T) {
	// [[1 2 3] [4 5 6]] stored column by column.
	data := encodeNpy(t, "<f8", []int{2, 3}, true, []float64{1, 4, 2, 5, 3, 6})

	a, err := readNpy(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, a.Float64s())
	assert.False(t, a.fortran)
}

func TestReadNpy_Versions(t *testing.T) {
	for _, major := range []byte{2, 3} {
		data := encodeNpyVersion(t, major, "<f8", []int{2}, false, []float64{0.5, 1.5})
		a, err := readNpy(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, []float64{0.5, 1.5}, a.Float64s())
	}
}

func TestReadNpy_Errors(t *testing.T) {
	valid := encodeNpy(t, "<f8", []int{2, 2}, false, []float64{1, 2, 3, 4})

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"bad magic", append([]byte("NOTNPY"), valid[6:]...)},
		{"big endian", encodeNpy(t, ">f8", []int{2}, false, []float64{1, 2})},
		{"object dtype", encodeNpy(t, "|O", []int{2}, false, []float64{1, 2})},
		{"truncated data", valid[:len(valid)-4]},
		{"unknown version", append(append([]byte{}, valid[:6]...), append([]byte{9, 0}, valid[8:]...)...)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readNpy(bytes.NewReader(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestReadNpy_ShapeLargerThanData(t *testing.T) {
	data := encodeNpy(t, "<f8", []int{1 << 20, 1 << 20}, false, []float64{1, 2})

	_, err := readNpy(bytes.NewReader(data))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data truncated")
	assert.Contains(t, err.Error(), "file has 16")
}

func TestReadNpy_ShapeOverflow(t *testing.T) {
	data := encodeNpy(t, "<f8", []int{1 << 32, 1 << 32}, false, nil)

	_, err := readNpy(bytes.NewReader(data))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overflows")

	_, err = parseNpyHeader("{'descr': '<f8', 'fortran_order': False, 'shape': (4611686018427387904,), }")
	assert.ErrorContains(t, err, "overflows", "element count fits but byte count does not")
}

func TestParseNpyHeader(t *testing.T) {
	h, err := parseNpyHeader("{'descr': '<f4', 'fortran_order': False, 'shape': (10,), }")
	require.NoError(t, err)
	assert.Equal(t, "<f4", h.descr)
	assert.Equal(t, []int{10}, h.shape)
	assert.False(t, h.fortran)

	h, err = parseNpyHeader("{'descr': '<f8', 'fortran_order': True, 'shape': (), }")
	require.NoError(t, err)
	assert.Empty(t, h.shape)
	assert.Equal(t, 1, h.count(), "a scalar holds one element")

	_, err = parseNpyHeader("{'descr': '<f8', 'fortran_order': False}")
	assert.Error(t, err)
	_, err = parseNpyHeader("{'descr': '<f8', 'shape': (2, x)}")
	assert.Error(t, err)
}

func TestInt64s_RejectsFractions(t *testing.T) {
	a, err := readNpy(bytes.NewReader(encodeNpy(t, "<f8", []int{2}, false, []float64{1, 2.5})))
	require.NoError(t, err)

	_, err = a.Int64s()
	assert.Error(t, err)
}
