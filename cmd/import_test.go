package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportThenQuerySQLite(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "dec-2024.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(scenarioCSV), 0o644))

	t.Setenv("VCDATA_STORE_DRIVER", "sqlite")
	t.Setenv("VCDATA_STORE_DATABASE_URL", filepath.Join(dir, "vc.db"))
	t.Setenv("VCDATA_LOG_LEVEL", "error")

	_, err := execute(t, "import", "--file", csvPath)
	require.NoError(t, err)

	// Re-importing replaces rather than duplicates.
	_, err = execute(t, "import", "--file", csvPath)
	require.NoError(t, err)

	out, err := execute(t, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Total Investors: 2")

	out, err = execute(t, "search", "--stage", "Seed")
	require.NoError(t, err)
	assert.Contains(t, out, "1. Acme VC")
}

func TestImportCommand_Errors(t *testing.T) {
	t.Setenv("VCDATA_LOG_LEVEL", "error")

	t.Run("unsupported driver", func(t *testing.T) {
		t.Setenv("VCDATA_STORE_DRIVER", "rest")
		_, err := execute(t, "import", "--file", "x.csv")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "import needs store.driver postgres or sqlite")
	})

	t.Run("unsupported format", func(t *testing.T) {
		t.Setenv("VCDATA_STORE_DRIVER", "sqlite")
		t.Setenv("VCDATA_STORE_DATABASE_URL", filepath.Join(t.TempDir(), "vc.db"))
		_, err := execute(t, "import", "--file", "snapshot.json")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported snapshot format")
	})

	t.Run("missing file flag", func(t *testing.T) {
		_, err := execute(t, "import")
		assert.Error(t, err)
	})
}
