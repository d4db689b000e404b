package hostconfig_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/crosscut/internal/hostconfig"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := hostconfig.Load()
	require.NoError(t, err)
	require.Equal(t, 100000, cfg.MaxStepsPerFrame)
	require.Equal(t, 262144, cfg.PixelBufferBytes)
	require.NoError(t, cfg.Validate())
}

func TestLoadHonorsEnvOverride(t *testing.T) {
	t.Setenv("CROSSCUT_MAX_STEPS_PER_FRAME", "10")
	cfg, err := hostconfig.Load()
	require.NoError(t, err)
	require.Equal(t, 10, cfg.MaxStepsPerFrame)
}

func TestValidateRejectsNonPositiveSteps(t *testing.T) {
	cfg := hostconfig.RunConfig{MaxStepsPerFrame: 0, PixelBufferBytes: 262144, MaxCommandBytes: 1024, MaxUpdateBytes: 1 << 20}
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsWrongPixelBufferSize(t *testing.T) {
	cfg := hostconfig.RunConfig{MaxStepsPerFrame: 1, PixelBufferBytes: 1, MaxCommandBytes: 1024, MaxUpdateBytes: 1 << 20}
	require.Error(t, cfg.Validate())
}
