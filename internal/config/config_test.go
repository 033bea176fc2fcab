package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"drive/internal/sim"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "drive.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
	assert.Equal(t, sim.DefaultParams(), cfg.Params())
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
physics:
  maxSpeed: 0.8
  turnSpeed: 0.06
world:
  seed: 1234
  trees: 10
window:
  title: test
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.8, cfg.Physics.MaxSpeed)
	assert.Equal(t, 0.06, cfg.Physics.TurnSpeed)
	assert.Equal(t, sim.DefaultAcceleration, cfg.Physics.Acceleration)
	assert.Equal(t, uint64(1234), cfg.World.Seed)
	assert.Equal(t, 10, cfg.World.Trees)
	assert.Equal(t, sim.DefaultRocks, cfg.World.Rocks)
	assert.Equal(t, "test", cfg.Window.Title)
	assert.Equal(t, 1280, cfg.Window.Width)

	p := cfg.Params()
	assert.Equal(t, 0.8, p.MaxSpeed)
	assert.Equal(t, -0.4, p.MinSpeed())
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "world:\n  seed: 5\n")
	t.Setenv("DRIVE_WORLD_SEED", "77")
	t.Setenv("DRIVE_CAMERA_SMOOTHING", "0.25")
	t.Setenv("DRIVE_AUDIO_ENABLED", "false")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(77), cfg.World.Seed)
	assert.Equal(t, 0.25, cfg.Camera.Smoothing)
	assert.False(t, cfg.Audio.Enabled)
	assert.Equal(t, uint64(77), cfg.EnvOptions().Seed)
}

func TestZeroSeedUsesClock(t *testing.T) {
	cfg := Default()
	opts := cfg.EnvOptions()
	assert.NotZero(t, opts.Seed)
	assert.Equal(t, sim.DefaultTrees, opts.Trees)
	assert.Equal(t, sim.DefaultClearShift, opts.ClearShift)
}

func TestBounceLimitsAccepted(t *testing.T) {
	cfg, err := Load(writeConfig(t, "physics:\n  restitution: 1\n  pushback: 0\n"))
	require.NoError(t, err)
	p := cfg.Params()

	// Full reverse into a wall must not come out faster than the forward limit.
	v := sim.NewVehicle(nil)
	v.Speed = p.MinSpeed()
	v.Bounce(p)
	assert.LessOrEqual(t, v.Speed, p.MaxSpeed)
}

func TestKeyHoldOutlastsAutoRepeatDelay(t *testing.T) {
	assert.GreaterOrEqual(t, Default().Term.KeyHoldMs, 500)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"zero max speed", "physics:\n  maxSpeed: 0\n"},
		{"growing coast", "physics:\n  deceleration: 1.2\n"},
		{"bouncy restitution", "physics:\n  restitution: 2.5\n"},
		{"negative restitution", "physics:\n  restitution: -0.1\n"},
		{"negative pushback", "physics:\n  pushback: -1\n"},
		{"zero key hold", "term:\n  keyHoldMs: 0\n"},
		{"frozen camera", "camera:\n  smoothing: 0\n"},
		{"negative trees", "world:\n  trees: -1\n"},
		{"empty window", "window:\n  width: 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestWriteDefaultRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDefault(&buf))
	assert.Contains(t, buf.String(), "maxSpeed: 0.5")

	var back Config
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, Default(), back)

	cfg, err := Load(writeConfig(t, buf.String()))
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
}
