package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()

	t.Run("full file overlays every field", func(t *testing.T) {
		path := writeTempJSON(t, dir, "full.json", map[string]any{
			"file":               "/data/disk.img",
			"folder":             "disk",
			"chunk_size_mb":      100,
			"sub_chunk_size_mib": 4,
			"initial_wait_ms":    250,
			"max_wait_sec":       120,
			"multiplier":         3,
			"s3_base_endpoint":   "http://minio:9000/",
			"s3_region":          "eu-west-1",
			"s3_bucket":          "archive",
			"s3_access_key":      "s3user",
			"s3_secret_key":      "s3password",
		})

		os.Args = []string{"testbin", "-c", path}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "/data/disk.img", cfg.File)
		assert.Equal(t, "disk", cfg.Folder)
		assert.Equal(t, 100, cfg.ChunkSizeMB)
		assert.Equal(t, 4, cfg.SubChunkSizeMiB)
		assert.Equal(t, 250*time.Millisecond, cfg.InitialWait)
		assert.Equal(t, 120*time.Second, cfg.MaxWait)
		assert.Equal(t, 3, cfg.Multiplier)
		assert.Equal(t, "http://minio:9000/", cfg.S3BaseEndpoint)
		assert.Equal(t, "eu-west-1", cfg.S3Region)
		assert.Equal(t, "archive", cfg.S3Bucket)
		assert.Equal(t, "s3user", cfg.S3AccessKey)
		assert.Equal(t, "s3password", cfg.S3SecretKey)
	})

	t.Run("partial file keeps defaults for omitted fields", func(t *testing.T) {
		path := writeTempJSON(t, dir, "partial.json", map[string]any{
			"folder":        "photos",
			"chunk_size_mb": 50,
		})

		os.Args = []string{"testbin", "-config", path}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "photos", cfg.Folder)
		assert.Equal(t, 50, cfg.ChunkSizeMB)
		assert.Equal(t, 1, cfg.SubChunkSizeMiB)
		assert.Equal(t, "chunkup", cfg.S3Bucket)
		assert.Equal(t, 500*time.Millisecond, cfg.InitialWait)
	})

	t.Run("no config flag leaves config untouched", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{}
		cfg.LoadDefaults()
		before := *cfg
		parseJson(cfg)

		assert.Equal(t, before, *cfg)
	})

	t.Run("invalid JSON panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})

	t.Run("missing file panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", filepath.Join(dir, "absent.json")}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}
