package artifact

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
)

var npyMagic = []byte("\x93NUMPY")

var (
	npyDescrRe   = regexp.MustCompile(`'descr'\s*:\s*'([^']*)'`)
	npyFortranRe = regexp.MustCompile(`'fortran_order'\s*:\s*(True|False)`)
	npyShapeRe   = regexp.MustCompile(`'shape'\s*:\s*\(([^)]*)\)`)
)

// npyHeader is the parsed header of a .npy file.
type npyHeader struct {
	descr   string
	fortran bool
	shape   []int
}

// count returns the number of elements described by the shape.
func (h npyHeader) count() int {
	n := 1
	for _, d := range h.shape {
		n *= d
	}
	return n
}

// itemSize returns the element width in bytes for supported dtypes.
func (h npyHeader) itemSize() (int, error) {
	switch h.descr {
	case "<f8", "<i8", "<u8":
		return 8, nil
	case "<f4", "<i4", "<u4":
		return 4, nil
	default:
		return 0, fmt.Errorf("unsupported dtype %q", h.descr)
	}
}

// npyArray is a decoded .npy array in C order.
type npyArray struct {
	npyHeader
	raw []byte
}

// readNpyHeader parses the magic, version and header dict.
func readNpyHeader(r io.Reader) (npyHeader, error) {
	prefix := make([]byte, len(npyMagic)+2)
	if _, err := io.ReadFull(r, prefix); err != nil {
		return npyHeader{}, fmt.Errorf("read magic: %w", err)
	}
	if !bytes.Equal(prefix[:len(npyMagic)], npyMagic) {
		return npyHeader{}, fmt.Errorf("not a .npy file")
	}

	var headerLen int
	switch major := prefix[len(npyMagic)]; major {
	case 1:
		var n uint16
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return npyHeader{}, fmt.Errorf("read header length: %w", err)
		}
		headerLen = int(n)
	case 2, 3:
		var n uint32
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return npyHeader{}, fmt.Errorf("read header length: %w", err)
		}
		headerLen = int(n)
	default:
		return npyHeader{}, fmt.Errorf("unsupported .npy version %d", major)
	}

	header := make([]byte, headerLen)
	if _, err := io.ReadFull(r, header); err != nil {
		return npyHeader{}, fmt.Errorf("read header: %w", err)
	}
	return parseNpyHeader(string(header))
}

// parseNpyHeader reads the Python dict literal of a .npy header.
func parseNpyHeader(s string) (npyHeader, error) {
	var h npyHeader

	m := npyDescrRe.FindStringSubmatch(s)
	if m == nil {
		return h, fmt.Errorf("header has no descr")
	}
	h.descr = m[1]
	if _, err := h.itemSize(); err != nil {
		return h, err
	}

	if m = npyFortranRe.FindStringSubmatch(s); m != nil {
		h.fortran = m[1] == "True"
	}

	m = npyShapeRe.FindStringSubmatch(s)
	if m == nil {
		return h, fmt.Errorf("header has no shape")
	}
	h.shape = []int{}
	for _, part := range strings.Split(m[1], ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := strconv.Atoi(strings.TrimSuffix(part, "L"))
		if err != nil || d < 0 {
			return h, fmt.Errorf("bad shape dimension %q", part)
		}
		h.shape = append(h.shape, d)
	}
	if _, err := h.byteLen(); err != nil {
		return h, err
	}
	return h, nil
}

// byteLen returns the size of the data section, rejecting shapes whose
// element or byte count overflows int.
func (h npyHeader) byteLen() (int, error) {
	size, err := h.itemSize()
	if err != nil {
		return 0, err
	}
	n := 1
	for _, d := range h.shape {
		if d != 0 && n > math.MaxInt/d {
			return 0, fmt.Errorf("shape %v overflows", h.shape)
		}
		n *= d
	}
	if n > math.MaxInt/size {
		return 0, fmt.Errorf("shape %v overflows", h.shape)
	}
	return n * size, nil
}

// readNpy decodes a whole .npy stream.
func readNpy(r io.Reader) (*npyArray, error) {
	h, err := readNpyHeader(r)
	if err != nil {
		return nil, err
	}
	size, _ := h.itemSize()
	want, err := h.byteLen()
	if err != nil {
		return nil, err
	}

	// Grow with the bytes actually present rather than the declared shape.
	raw, err := io.ReadAll(io.LimitReader(r, int64(want)))
	if err != nil {
		return nil, fmt.Errorf("read %d elements: %w", h.count(), err)
	}
	if len(raw) < want {
		return nil, fmt.Errorf("data truncated: shape %v needs %d bytes, file has %d", h.shape, want, len(raw))
	}

	a := &npyArray{npyHeader: h, raw: raw}
	if h.fortran && len(h.shape) == 2 {
		a.raw = transposeRaw(raw, h.shape[1], h.shape[0], size)
		a.fortran = false
	} else if h.fortran && len(h.shape) > 2 {
		return nil, fmt.Errorf("fortran order is only supported up to 2 dimensions")
	}
	return a, nil
}

// readNpyFile opens and decodes a .npy file.
func readNpyFile(path string) (*npyArray, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readNpy(bufio.NewReader(f))
}

// readNpyFileHeader reads only the header of a .npy file.
func readNpyFileHeader(path string) (npyHeader, error) {
	f, err := os.Open(path)
	if err != nil {
		return npyHeader{}, err
	}
	defer f.Close()
	return readNpyHeader(bufio.NewReader(f))
}

// transposeRaw converts a rows x cols row-major element buffer into its
// cols x rows transpose.
func transposeRaw(raw []byte, rows, cols, size int) []byte {
	out := make([]byte, len(raw))
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			src := (i*cols + j) * size
			dst := (j*rows + i) * size
			copy(out[dst:dst+size], raw[src:src+size])
		}
	}
	return out
}

// Float64s returns the elements as float64.
func (a *npyArray) Float64s() []float64 {
	n := a.count()
	out := make([]float64, n)
	le := binary.LittleEndian
	for i := 0; i < n; i++ {
		switch a.descr {
		case "<f8":
			out[i] = math.Float64frombits(le.Uint64(a.raw[i*8:]))
		case "<f4":
			out[i] = float64(math.Float32frombits(le.Uint32(a.raw[i*4:])))
		case "<i8":
			out[i] = float64(int64(le.Uint64(a.raw[i*8:])))
		case "<i4":
			out[i] = float64(int32(le.Uint32(a.raw[i*4:])))
		case "<u8":
			out[i] = float64(le.Uint64(a.raw[i*8:]))
		case "<u4":
			out[i] = float64(le.Uint32(a.raw[i*4:]))
		}
	}
	return out
}

// Int64s returns the elements as int64. Float elements must be integral.
func (a *npyArray) Int64s() ([]int64, error) {
	n := a.count()
	out := make([]int64, n)
	if a.descr == "<f8" || a.descr == "<f4" {
		for i, f := range a.Float64s() {
			if f != math.Trunc(f) || math.IsInf(f, 0) {
				return nil, fmt.Errorf("element %d is not an integer: %v", i, f)
			}
			out[i] = int64(f)
		}
		return out, nil
	}

	le := binary.LittleEndian
	for i := 0; i < n; i++ {
		switch a.descr {
		case "<i8":
			out[i] = int64(le.Uint64(a.raw[i*8:]))
		case "<i4":
			out[i] = int64(int32(le.Uint32(a.raw[i*4:])))
		case "<u8":
			v := le.Uint64(a.raw[i*8:])
			if v > math.MaxInt64 {
				return nil, fmt.Errorf("element %d overflows int64", i)
			}
			out[i] = int64(v)
		case "<u4":
			out[i] = int64(le.Uint32(a.raw[i*4:]))
		}
	}
	return out, nil
}
