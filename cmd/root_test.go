package cmd

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the shared root command with args and returns its output
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)

	err := cmd.Execute()

	// rootCmd is shared; flags parsed in one case must not leak into the next
	resetFlags(cmd)
	return buf.String(), err
}

func resetFlags(cmd *cobra.Command) {
	if f := cmd.Flags().Lookup("help"); f != nil {
		_ = f.Value.Set("false")
		f.Changed = false
	}
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantErr  bool
		contains []string
	}{
		{
			name:     "no args describes the service",
			args:     []string{},
			contains: []string{"WebAudio Studio API", "per-session directories"},
		},
		{
			name:     "help lists subcommands",
			args:     []string{"--help"},
			contains: []string{"Available Commands:", "serve", "migrate", "version"},
		},
		{
			name:    "unknown flag",
			args:    []string{"--invalid-flag"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
		})
	}
}

func TestLogFlags(t *testing.T) {
	cmd := NewRootCmd()

	level := cmd.PersistentFlags().Lookup("log-level")
	require.NotNil(t, level)
	assert.Empty(t, level.DefValue, "an unset level falls back to the config value")

	jsonLogs := cmd.PersistentFlags().Lookup("json-logs")
	require.NotNil(t, jsonLogs)
	assert.Equal(t, "false", jsonLogs.DefValue)
}
