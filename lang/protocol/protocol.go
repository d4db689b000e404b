// Package protocol implements the debugger ↔ runtime wire protocol (spec
// §6): serialized commands from the debugger and serialized snapshots from
// the runtime, encoded with gopkg.in/yaml.v3 (RON is the original
// implementation's choice; YAML is this stack's equivalent structured,
// human-readable text format). Every wire type uses only exported fields of
// plain scalars, slices and maps — no custom binary framing — matching
// spec §6's "all over-the-wire structures are fully serializable" and
// "location types serialize deterministically" requirements.
package protocol

// Buffer size bounds (spec §6: "Buffers are sized to a fixed upper bound
// (e.g. 1 MiB for updates, 1 KiB for commands).").
const (
	MaxCommandBytes = 1 << 10
	MaxUpdateBytes  = 1 << 20
)
