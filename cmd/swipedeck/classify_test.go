package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/phinze/swipedeck/internal/config"
	"github.com/phinze/swipedeck/internal/geom"
	"github.com/phinze/swipedeck/internal/swipe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runClassify(t *testing.T, args ...string) string {
	t.Helper()
	t.Setenv(config.EnvConfigPath, filepath.Join(t.TempDir(), "missing.yaml"))

	cmd := newClassifyCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestClassifyCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "right",
			args: []string{"--dx", "100", "--dy", "0"},
			want: "direction: right\nlength: 3.53 cm at 72 dpi\n",
		},
		{
			name: "below threshold",
			args: []string{"--dx", "5", "--dy", "5"},
			want: "direction: none (0.25 cm is below the 0.50 cm threshold)\n",
		},
		{
			name: "four-way tie goes to up",
			args: []string{"--dx", "100", "--dy", "100"},
			want: "direction: up\nlength: 4.99 cm at 72 dpi\n",
		},
		{
			name: "eight-way diagonal",
			args: []string{"--dx", "100", "--dy", "50", "--eight"},
			want: "direction: up-right\nlength: 3.94 cm at 72 dpi\n",
		},
		{
			name: "dpi and threshold flags",
			args: []string{"--dx=-30", "--dpi", "300", "--min-cm", "0.2"},
			want: "direction: left\nlength: 0.25 cm at 300 dpi\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, runClassify(t, tt.args...))
		})
	}
}

func TestClassifyUsesConfiguredTunables(t *testing.T) {
	t.Setenv(config.EnvEightDirections, "true")
	assert.Equal(t,
		"direction: down-left\nlength: 3.94 cm at 72 dpi\n",
		runClassify(t, "--dx=-100", "--dy=-50"))
}

func TestClassifyDisplacementZeroThreshold(t *testing.T) {
	c := classifyDisplacement(geom.Vector2{}, swipe.Config{})
	assert.True(t, c.Qualifies)
	assert.Equal(t, swipe.DefaultDPI, c.DPI)
	assert.Zero(t, c.LengthCm)
}
