package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"solo_legend/config"
	"solo_legend/story"
)

func TestOpenStoreMemory(t *testing.T) {
	store, closeFn, err := openStore(context.Background(), config.StoreConfig{Driver: config.DriverMemory}, zap.NewNop())
	require.NoError(t, err)
	defer closeFn()
	assert.Empty(t, store.List())
}

func TestOpenStoreRedisNeedsAddress(t *testing.T) {
	_, _, err := openStore(context.Background(), config.StoreConfig{Driver: config.DriverRedis}, zap.NewNop())
	assert.Error(t, err)
}

func TestSavesCommands(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "saves.db")
	t.Setenv("STORE_DRIVER", config.DriverSQLite)
	t.Setenv("SQLITE_PATH", dbPath)
	t.Setenv("LOG_LEVEL", "error")

	ctx := context.Background()
	store, closeFn, err := openStore(ctx, config.StoreConfig{Driver: config.DriverSQLite, SQLitePath: dbPath}, zap.NewNop())
	require.NoError(t, err)
	_, err = store.Put(ctx, story.GameSave{
		ID:        "save-1",
		World:     story.World{Name: "Yharnam"},
		Character: story.Character{Name: "Aria", Race: "Elf", Class: story.ClassRogue, Level: 2},
		GameState: story.GameState{LocationName: "Cathedral Ward"},
	})
	require.NoError(t, err)
	closeFn()

	run := func(args ...string) string {
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetArgs(append([]string{"--env-file", filepath.Join(dir, "missing.env")}, args...))
		require.NoError(t, rootCmd.ExecuteContext(ctx))
		return out.String()
	}

	listed := run("saves", "list")
	assert.Contains(t, listed, "Found 1 adventures")
	assert.Contains(t, listed, "save-1  Aria, level 2 Elf Rogue")
	assert.Contains(t, listed, "Cathedral Ward")

	pdfPath := filepath.Join(dir, "aria.pdf")
	run("saves", "export", "save-1", pdfPath)
	doc, err := os.ReadFile(pdfPath)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(doc[:4]))

	assert.Contains(t, run("saves", "delete", "save-1"), "Deleted save-1")
	assert.Contains(t, run("saves", "list"), "Found 0 adventures")
}
