// Package host declares the contract between the core and the external
// party that drives it (spec §6's Host ABI): a pixel buffer the core
// writes to on SubmitFrame, and the provider of input and randomness
// behind read_input/random. The concrete adapter — an actual window,
// file descriptor, or test double — is out of scope for this module;
// only the interface it must satisfy lives here, the way api/wasm.go in
// the WebAssembly runtime example declares Module and Function as
// contracts without providing a concrete implementation.
package host

// NumPixelBytes is the size of the frame buffer the core writes to
// when handling SubmitFrame (spec §6: "32 tiles per axis, 8 pixels per
// tile, 4 channels").
const NumPixelBytes = 32 * 32 * 8 * 8 * 4

// TilesPerAxis, PixelsPerTile and Channels are the factors composing
// NumPixelBytes, named individually since set_pixel's x/y operands are
// tile coordinates, not raw pixel offsets.
const (
	TilesPerAxis  = 32
	PixelsPerTile = 8
	Channels      = 4
)

// Frame is the RGBA pixel buffer the core writes into on SubmitFrame.
// Its length is always NumPixelBytes.
type Frame []byte

// Host is what a Machine's effect queue ultimately talks to: the
// provider of pixel output, input and randomness named in spec §6's
// Host ABI. A debugger or protocol adapter sits between a Machine and a
// concrete Host, translating effects to calls and replies back to
// effect.Effect.Reply; the Machine itself never imports this package.
type Host interface {
	// SetPixel writes one tile's color into frame at (x, y). x and y are
	// tile coordinates in [0, TilesPerAxis); color is written to every
	// pixel of the tile across all four channels.
	SetPixel(frame Frame, x, y, color uint8)

	// SubmitFrame is called once frame has been fully written for the
	// current tick, so the host can present it.
	SubmitFrame(frame Frame)

	// ReadInput returns the host's current input value.
	ReadInput() int8

	// Random returns the next value from the host's random source.
	Random() int8
}
