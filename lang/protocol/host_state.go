package protocol

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/mna/crosscut/lang/ast"
	"github.com/mna/crosscut/lang/compiler"
	"github.com/mna/crosscut/lang/machine"
)

// Memory is the wire form of spec §6's Memory update: "Memory{bytes}", a
// host-supplied 256-byte snapshot opaque to the core.
type Memory [256]byte

// HostState bundles a Code, Runtime and Memory update into a single
// envelope so the debugger applies one message per tick rather than three
// (modeled on the original implementation's protocol/src/host_state.rs
// HostState enum, generalized here to always carry every section — the
// debugger side is free to diff against its last snapshot and ignore what
// did not change).
type HostState struct {
	Code    CodeSnapshot    `yaml:"code"`
	Runtime RuntimeSnapshot `yaml:"runtime"`
	Memory  Memory          `yaml:"memory"`
}

// SnapshotHostState bundles the current state of prog/code/m/mem into one
// envelope.
func SnapshotHostState(prog *ast.Program, code *compiler.Program, m *machine.Machine, mem Memory) HostState {
	return HostState{
		Code:    SnapshotCode(prog, code),
		Runtime: SnapshotRuntime(m),
		Memory:  mem,
	}
}

// Encode serializes hs, refusing to produce a buffer over MaxUpdateBytes
// (spec §6).
func (hs HostState) Encode() ([]byte, error) {
	b, err := yaml.Marshal(hs)
	if err != nil {
		return nil, fmt.Errorf("encode host state: %w", err)
	}
	if len(b) > MaxUpdateBytes {
		return nil, fmt.Errorf("encode host state: %d bytes exceeds the %d-byte update limit", len(b), MaxUpdateBytes)
	}
	return b, nil
}

// DecodeHostState parses a HostState off the wire.
func DecodeHostState(b []byte) (HostState, error) {
	if len(b) > MaxUpdateBytes {
		return HostState{}, fmt.Errorf("decode host state: %d bytes exceeds the %d-byte update limit", len(b), MaxUpdateBytes)
	}
	var hs HostState
	if err := yaml.Unmarshal(b, &hs); err != nil {
		return HostState{}, fmt.Errorf("decode host state: %w", err)
	}
	return hs, nil
}
