package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/autom8ter/docseed"
	"github.com/autom8ter/docseed/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	cmd := rootCmd()
	out := bytes.NewBuffer(nil)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCLI(t *testing.T) {
	t.Run("init", func(t *testing.T) {
		dir := t.TempDir()
		out, err := execute(t, "init", "--path", dir, "--provider", "badger", "--project", "careers app")
		require.NoError(t, err)
		assert.Contains(t, out, "new project created")
		cfg, err := docseed.LoadConfig(filepath.Join(dir, "docseed.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "badger", cfg.Provider)
		assert.Equal(t, "./tmp", cfg.Params["storage_path"])
		assert.Equal(t, filepath.Join(dir, "fixtures"), cfg.FixturesDir)
		require.Len(t, cfg.Plans, 1)
		assert.Equal(t, "careers_app_careers", cfg.Plans[0].Name)
	})
	t.Run("run presets", func(t *testing.T) {
		dir := testutil.FixtureDir(t)
		out, err := execute(t, "run", "--all", "--provider", "badger", "--params", `{"storage_path": ""}`, "--fixtures-dir", dir, "--log-level", "error")
		require.NoError(t, err)
		assert.Contains(t, out, "careers: cleared 0, added 3 documents in 1 batches")
		assert.Contains(t, out, "quizzes: cleared 0, added 5 documents in 0 batches")
		assert.Contains(t, out, "resources: cleared 0, added 2 documents in 1 batches")
	})
	t.Run("run unknown plan", func(t *testing.T) {
		_, err := execute(t, "run", "users", "--provider", "memory")
		assert.Error(t, err)
	})
	t.Run("run without plans", func(t *testing.T) {
		_, err := execute(t, "run", "--provider", "memory")
		assert.Error(t, err)
	})
	t.Run("unknown provider", func(t *testing.T) {
		_, err := execute(t, "clear", "careers", "--provider", "mongo")
		assert.Error(t, err)
	})
	t.Run("clear", func(t *testing.T) {
		out, err := execute(t, "clear", "careers", "--provider", "memory", "--log-level", "error")
		require.NoError(t, err)
		assert.Contains(t, out, "careers: deleted 0 documents")
	})
	t.Run("presets", func(t *testing.T) {
		out, err := execute(t, "presets")
		require.NoError(t, err)
		assert.Contains(t, out, "sub_collection: questions")
		assert.Contains(t, out, "- publishDate")
	})
	t.Run("validate", func(t *testing.T) {
		dir := testutil.FixtureDir(t)
		cfgPath := testutil.WriteFile(t, dir, "docseed.yaml", []byte("provider: memory\n"))
		out, err := execute(t, "validate", "quizzes", "resources", "-c", cfgPath)
		require.NoError(t, err)
		assert.Contains(t, out, "quizzes: 5 records")
		assert.Contains(t, out, "resources: 2 records")
	})
}
