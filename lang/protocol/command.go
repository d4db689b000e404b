package protocol

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/mna/crosscut/lang/compiler"
)

// CommandKind is the tag of a Command (spec §6: "Commands from debugger:
// Continue, Stop, Reset, Step, BreakpointSet{address}, BreakpointClear
// {address}, UpdateCode{instructions}").
type CommandKind string

const (
	CommandContinue        CommandKind = "continue"
	CommandStop            CommandKind = "stop"
	CommandReset           CommandKind = "reset"
	CommandStep            CommandKind = "step"
	CommandBreakpointSet   CommandKind = "breakpoint_set"
	CommandBreakpointClear CommandKind = "breakpoint_clear"
	CommandUpdateCode      CommandKind = "update_code"
)

// Command is one message from the debugger to the runtime. Only the fields
// relevant to Kind are populated.
type Command struct {
	Kind CommandKind `yaml:"kind"`

	// BreakpointSet, BreakpointClear
	Address compiler.Address `yaml:"address,omitempty"`

	// UpdateCode
	Code *CodeSnapshot `yaml:"code,omitempty"`
}

// Encode serializes c, refusing to produce a buffer over MaxCommandBytes
// (spec §6).
func (c Command) Encode() ([]byte, error) {
	b, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode command: %w", err)
	}
	if len(b) > MaxCommandBytes {
		return nil, fmt.Errorf("encode command: %d bytes exceeds the %d-byte command limit", len(b), MaxCommandBytes)
	}
	return b, nil
}

// DecodeCommand parses a Command off the wire, rejecting anything over
// MaxCommandBytes before even attempting to unmarshal it.
func DecodeCommand(b []byte) (Command, error) {
	if len(b) > MaxCommandBytes {
		return Command{}, fmt.Errorf("decode command: %d bytes exceeds the %d-byte command limit", len(b), MaxCommandBytes)
	}
	var c Command
	if err := yaml.Unmarshal(b, &c); err != nil {
		return Command{}, fmt.Errorf("decode command: %w", err)
	}
	return c, nil
}
