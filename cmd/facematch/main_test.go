package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the command tree with args against a fresh config.
func run(t *testing.T, cfg string, args ...string) error {
	t.Helper()
	saveName, purge, verbose, endpoint = "", false, false, ""
	rootCmd.SetArgs(append([]string{"--config", cfg}, args...))
	return rootCmd.ExecuteContext(context.Background())
}

func TestCLI_MatchSaveListExport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string][]string{
			"matches":     {"comparison_0.jpg"},
			"non_matches": {"comparison_1.jpg"},
		})
	}))
	defer server.Close()

	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.yaml")
	content := fmt.Sprintf("endpoint: %s/verify\nimages_dir: %s\nstore_path: %s\nlog_file: %s\n",
		server.URL, filepath.Join(dir, "images"), filepath.Join(dir, "store.json"), filepath.Join(dir, "log.json"))
	require.NoError(t, os.WriteFile(cfg, []byte(content), 0644))

	var picked []string
	for _, name := range []string{"me.jpg", "a.jpg", "b.jpg"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(name), 0644))
		picked = append(picked, p)
	}

	require.NoError(t, run(t, cfg, append([]string{"match", "--save", "Beach"}, picked...)...))
	require.NoError(t, run(t, cfg, "albums", "list"))
	require.NoError(t, run(t, cfg, "albums", "show", "Beach"))

	out := filepath.Join(dir, "out")
	require.NoError(t, run(t, cfg, "export", "Beach", out))
	assert.FileExists(t, filepath.Join(out, "Beach", "match_01.jpg"))

	require.NoError(t, run(t, cfg, "prune"))
	require.NoError(t, run(t, cfg, "albums", "delete", "Beach", "--purge"))
	assert.Error(t, run(t, cfg, "albums", "show", "Beach"))
}

func TestCLI_MatchNeedsTwoComparisons(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "config.yaml")
	assert.Error(t, run(t, cfg, "match", "me.jpg", "a.jpg"))
}
