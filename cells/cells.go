// Package cells decodes the CEL1 point-cloud format: per-particle target
// coordinates and colors sampled from a source image on a fixed cell grid.
package cells

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
)

// Magic identifies a CEL1 buffer ("CEL1", read little-endian).
const Magic = 0x43454C31

const (
	headerSize = 16
	entrySize  = 12
)

// ErrBadMagic marks a buffer that is not CEL1 at all, as opposed to one
// that is CEL1 but truncated.
var ErrBadMagic = errors.New("cells: bad magic")

// Set is one decoded target buffer. V is already flipped to bottom-origin.
type Set struct {
	Count int
	GridW int
	GridH int
	Block int
	Flags int

	U, V       []float32
	R, G, B, A []uint8
}

// Load reads and decodes one CEL1 file.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cells: read %s: %w", path, err)
	}
	s, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("cells: decode %s: %w", path, err)
	}
	return s, nil
}

// Decode parses a CEL1 buffer. The stored v is top-origin; it is flipped on
// load (v' = 1-v) so formed images read upright on the formation plane.
func Decode(data []byte) (*Set, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("cells: truncated header: %d bytes", len(data))
	}
	if m := binary.LittleEndian.Uint32(data[0:4]); m != Magic {
		return nil, fmt.Errorf("%w: 0x%08X", ErrBadMagic, m)
	}
	count := int(binary.LittleEndian.Uint32(data[4:8]))
	s := &Set{
		Count: count,
		GridW: int(binary.LittleEndian.Uint16(data[8:10])),
		GridH: int(binary.LittleEndian.Uint16(data[10:12])),
		Block: int(binary.LittleEndian.Uint16(data[12:14])),
		Flags: int(binary.LittleEndian.Uint16(data[14:16])),
	}

	need := headerSize + count*entrySize
	if len(data) < need {
		return nil, fmt.Errorf("cells: truncated body: have %d bytes, want %d for %d entries", len(data), need, count)
	}

	s.U = make([]float32, count)
	s.V = make([]float32, count)
	s.R = make([]uint8, count)
	s.G = make([]uint8, count)
	s.B = make([]uint8, count)
	s.A = make([]uint8, count)

	off := headerSize
	for i := 0; i < count; i++ {
		s.U[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[off : off+4]))
		v := math.Float32frombits(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		s.V[i] = 1 - v
		s.R[i] = data[off+8]
		s.G[i] = data[off+9]
		s.B[i] = data[off+10]
		s.A[i] = data[off+11]
		off += entrySize
	}
	return s, nil
}

// Synthesize builds the fallback set substituted when an asset is missing or
// malformed: count points on a golden-angle disc with a warm placeholder
// tint, shaped like a real decoded buffer.
func Synthesize(count, gridW, gridH int) *Set {
	if count <= 0 {
		count = 4096
	}
	if gridW <= 0 {
		gridW = 64
	}
	if gridH <= 0 {
		gridH = 64
	}
	s := &Set{
		Count: count,
		GridW: gridW,
		GridH: gridH,
		Block: 1,
		U:     make([]float32, count),
		V:     make([]float32, count),
		R:     make([]uint8, count),
		G:     make([]uint8, count),
		B:     make([]uint8, count),
		A:     make([]uint8, count),
	}
	// golden-angle placement: sqrt radius spreads the points evenly
	const golden = 2.3999632297286533
	for i := 0; i < count; i++ {
		r := 0.42 * math.Sqrt(float64(i)/float64(count))
		a := float64(i) * golden
		s.U[i] = float32(0.5 + r*math.Cos(a))
		s.V[i] = float32(0.5 + r*math.Sin(a))
		s.R[i] = 235
		s.G[i] = 200
		s.B[i] = 160
		s.A[i] = 255
	}
	return s
}
