package cmd

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateCommandHelp(t *testing.T) {
	tests := []struct {
		name           string
		args           []string
		expectedOutput string
	}{
		{"migrate command with help", []string{"migrate", "--help"}, "bookkeeping database"},
		{"migrate up subcommand", []string{"migrate", "up", "--help"}, "Create missing tables"},
		{"migrate status subcommand", []string{"migrate", "status", "--help"}, "lists every model table"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.NoError(t, err)
			assert.Contains(t, out, tt.expectedOutput)
		})
	}
}

func TestMigrateUpThenStatus(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "studio.db")

	run := func(args ...string) string {
		out, err := execute(t, args...)
		require.NoError(t, err)
		return out
	}

	before := run("migrate", "status", "--database", dbPath)
	assert.Contains(t, before, "Session")
	assert.Equal(t, 3, strings.Count(before, "missing"))

	up := run("migrate", "up", "--database", dbPath)
	assert.Contains(t, up, "Migrated 3 tables")

	after := run("migrate", "status", "--database", dbPath)
	assert.Equal(t, 3, strings.Count(after, "present"))
	assert.NotContains(t, after, "missing")
}
