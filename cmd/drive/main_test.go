package main

import (
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args ...string) (*cli, string) {
	t.Helper()
	var c cli
	parser := kong.Must(&c, kong.Name("drive"))
	ctx, err := parser.Parse(args)
	require.NoError(t, err)
	return &c, ctx.Command()
}

func TestCommandGrammar(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no args drives", nil, "run"},
		{"explicit run", []string{"run"}, "run"},
		{"terminal", []string{"term"}, "term"},
		{"cube", []string{"cube"}, "cube"},
		{"config dump", []string{"config"}, "config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, cmd := parse(t, tt.args...)
			assert.Equal(t, tt.want, cmd)
		})
	}
}

func TestConfigFlagAndCommandCoexist(t *testing.T) {
	c, cmd := parse(t, "--config", "/tmp/drive.yaml", "--seed", "9", "term", "--log-file", "/tmp/drive.log")
	assert.Equal(t, "term", cmd)
	assert.Equal(t, "/tmp/drive.yaml", c.ConfigFile)
	assert.Equal(t, uint64(9), c.Seed)
	assert.Equal(t, "/tmp/drive.log", c.Term.LogFile)

	c, cmd = parse(t, "-c", "/tmp/other.yaml", "config")
	assert.Equal(t, "config", cmd)
	assert.Equal(t, "/tmp/other.yaml", c.ConfigFile)
}

func TestLoadConfigErrorIsReturned(t *testing.T) {
	c := &cli{ConfigFile: t.TempDir() + "/missing.yaml"}
	_, err := c.loadConfig()
	assert.Error(t, err)
	assert.Error(t, c.dispatch("term"))
}

func TestTermLoggerWithoutFile(t *testing.T) {
	_, closeLog, err := termLogger("")
	require.NoError(t, err)
	assert.NotPanics(t, closeLog)
}
