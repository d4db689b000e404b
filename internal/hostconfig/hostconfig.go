// Package hostconfig collects the host-tunable runtime limits that the
// core does not hard-code: frame pacing, pixel buffer dimensions and
// debugger buffer sizes (SPEC_FULL.md's AMBIENT STACK Configuration
// section). It is populated from the environment the same way
// nenuphar's indirect dependency on caarlos0/env implies its own
// configuration layer would be.
package hostconfig

import (
	"fmt"

	"github.com/caarlos0/env/v6"

	"github.com/mna/crosscut/lang/host"
	"github.com/mna/crosscut/lang/protocol"
)

// RunConfig is the set of environment-tunable limits a host adapter
// reads once at startup.
type RunConfig struct {
	// MaxStepsPerFrame bounds how many Machine.Step calls run_until_end_of
	// _frame executes before yielding control back to the host, even if
	// the program never calls submit_frame (spec §6, §7's "never panic the
	// core" guarantee against a runaway program).
	MaxStepsPerFrame int `env:"CROSSCUT_MAX_STEPS_PER_FRAME" envDefault:"100000"`

	// PixelBufferBytes is the size of the frame buffer passed to
	// run_until_end_of_frame. Defaults to host.NumPixelBytes, and Validate
	// rejects any other value.
	PixelBufferBytes int `env:"CROSSCUT_PIXEL_BUFFER_BYTES" envDefault:"262144"`

	// MaxCommandBytes and MaxUpdateBytes mirror protocol.MaxCommandBytes
	// and protocol.MaxUpdateBytes, overridable for a host adapter that
	// needs tighter or looser wire limits than the module defaults.
	MaxCommandBytes int `env:"CROSSCUT_MAX_COMMAND_BYTES" envDefault:"1024"`
	MaxUpdateBytes  int `env:"CROSSCUT_MAX_UPDATE_BYTES" envDefault:"1048576"`

	// DebounceMillis is a quiet period, in milliseconds, for an edit-watch
	// loop (internal/debounce). The watch subcommand does not read it; it
	// uses a fixed 150ms.
	DebounceMillis int `env:"CROSSCUT_DEBOUNCE_MILLIS" envDefault:"150"`
}

// Load reads a RunConfig from the environment, defaulting every field
// per its envDefault tag.
func Load() (RunConfig, error) {
	var cfg RunConfig
	if err := env.Parse(&cfg); err != nil {
		return RunConfig{}, fmt.Errorf("load run config: %w", err)
	}
	return cfg, nil
}

// Validate reports whether cfg's values are usable, the way mainer.Cmd
// implementations validate their flags before running.
func (cfg RunConfig) Validate() error {
	if cfg.MaxStepsPerFrame <= 0 {
		return fmt.Errorf("max steps per frame must be positive, got %d", cfg.MaxStepsPerFrame)
	}
	if cfg.PixelBufferBytes != host.NumPixelBytes {
		return fmt.Errorf("pixel buffer bytes must be %d, got %d", host.NumPixelBytes, cfg.PixelBufferBytes)
	}
	if cfg.MaxCommandBytes <= 0 || cfg.MaxCommandBytes > protocol.MaxCommandBytes {
		return fmt.Errorf("max command bytes must be in (0, %d], got %d", protocol.MaxCommandBytes, cfg.MaxCommandBytes)
	}
	if cfg.MaxUpdateBytes <= 0 || cfg.MaxUpdateBytes > protocol.MaxUpdateBytes {
		return fmt.Errorf("max update bytes must be in (0, %d], got %d", protocol.MaxUpdateBytes, cfg.MaxUpdateBytes)
	}
	if cfg.DebounceMillis < 0 {
		return fmt.Errorf("debounce millis must not be negative, got %d", cfg.DebounceMillis)
	}
	return nil
}
