package artifact

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// encodeNpy builds a version 1 .npy file. values are written in the given
// order, so Fortran order callers pass column-major data.
func encodeNpy(t *testing.T, descr string, shape []int, fortran bool, values []float64) []byte {
	t.Helper()
	return encodeNpyVersion(t, 1, descr, shape, fortran, values)
}

func encodeNpyVersion(t *testing.T, major byte, descr string, shape []int, fortran bool, values []float64) []byte {
	t.Helper()

	dims := make([]string, len(shape))
	for i, d := range shape {
		dims[i] = fmt.Sprint(d)
	}
	shapeStr := strings.Join(dims, ", ")
	if len(shape) == 1 {
		shapeStr += ","
	}
	order := "False"
	if fortran {
		order = "True"
	}
	header := fmt.Sprintf("{'descr': '%s', 'fortran_order': %s, 'shape': (%s), }", descr, order, shapeStr)

	prefixLen := 10
	if major > 1 {
		prefixLen = 12
	}
	pad := 64 - (prefixLen+len(header)+1)%64
	header += strings.Repeat(" ", pad%64) + "\n"

	var buf bytes.Buffer
	buf.Write(npyMagic)
	buf.WriteByte(major)
	buf.WriteByte(0)
	if major == 1 {
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint16(len(header))))
	} else {
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint32(len(header))))
	}
	buf.WriteString(header)

	le := binary.LittleEndian
	for _, v := range values {
		var b []byte
		switch descr {
		case "<f8":
			b = le.AppendUint64(nil, math.Float64bits(v))
		case "<f4":
			b = le.AppendUint32(nil, math.Float32bits(float32(v)))
		case "<i8", "<u8":
			b = le.AppendUint64(nil, uint64(int64(v)))
		case "<i4", "<u4":
			b = le.AppendUint32(nil, uint32(int32(v)))
		default:
			b = le.AppendUint64(nil, math.Float64bits(v))
		}
		buf.Write(b)
	}
	return buf.Bytes()
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

// writeModel writes a complete three-node model under dir/name.
func writeModel(t *testing.T, dir, name string) string {
	t.Helper()
	modelDir := filepath.Join(dir, name)
	writeFile(t, filepath.Join(modelDir, IndexFile),
		encodeNpy(t, "<i8", []int{3}, false, []float64{101, 102, 103}))
	writeFile(t, filepath.Join(modelDir, RelevanceFile),
		encodeNpy(t, "<f8", []int{3, 3}, false, []float64{
			1, .2, .9,
			.2, 1, .1,
			.9, .1, 1,
		}))
	writeFile(t, filepath.Join(modelDir, NodesFile), []byte(
		"id,row,document_id,is_leaf\n"+
			"101,0,1,true\n"+
			"102,1,2,true\n"+
			"103,2,3,false\n"))
	return modelDir
}
