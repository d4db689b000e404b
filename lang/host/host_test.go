package host_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/crosscut/lang/host"
)

func TestNumPixelBytesMatchesItsFactors(t *testing.T) {
	require.Equal(t, host.TilesPerAxis*host.TilesPerAxis*host.PixelsPerTile*host.PixelsPerTile*host.Channels, host.NumPixelBytes)
}

// memoryHost is a minimal in-memory Host used only to confirm the
// interface is implementable with plain state — the real adapter lives
// outside this module.
type memoryHost struct {
	frame  host.Frame
	input  int8
	random int8
}

func (h *memoryHost) SetPixel(frame host.Frame, x, y, color uint8) {
	tile := (int(y)*host.TilesPerAxis + int(x)) * host.PixelsPerTile * host.PixelsPerTile * host.Channels
	for i := 0; i < host.PixelsPerTile*host.PixelsPerTile; i++ {
		off := tile + i*host.Channels
		frame[off] = color
		frame[off+1] = color
		frame[off+2] = color
		frame[off+3] = 0xff
	}
}

func (h *memoryHost) SubmitFrame(frame host.Frame) { copy(h.frame, frame) }
func (h *memoryHost) ReadInput() int8              { return h.input }
func (h *memoryHost) Random() int8                 { return h.random }

func TestMemoryHostSetPixelWritesWholeTile(t *testing.T) {
	var h memoryHost
	frame := make(host.Frame, host.NumPixelBytes)
	h.SetPixel(frame, 0, 0, 7)
	require.Equal(t, byte(7), frame[0])
	require.Equal(t, byte(0xff), frame[3])

	var _ host.Host = &h
}
