package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "Test1 OK", args: []string{"cmd",
			"-f", "/data/disk.img", "-n", "disk", "-s", "100", "-q", "4",
			"-w", "250", "-m", "120",
			"-e", "http://endpoint", "-g", "us-west-1", "-b", "bucket", "-u", "user", "-p", "password",
		}, expectPanic: false,
			expected: &Config{
				File:            "/data/disk.img",
				Folder:          "disk",
				ChunkSizeMB:     100,
				SubChunkSizeMiB: 4,
				InitialWait:     250 * time.Millisecond,
				MaxWait:         120 * time.Second,
				S3BaseEndpoint:  "http://endpoint",
				S3Region:        "us-west-1",
				S3Bucket:        "bucket",
				S3AccessKey:     "user",
				S3SecretKey:     "password",
			}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}

func TestParseFlags_KeepsDefaultsWhenAbsent(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"cmd", "-n", "photos"}

	config := &Config{}
	config.LoadDefaults()
	parseFlags(config)

	assert.Equal(t, "photos", config.Folder)
	assert.Equal(t, 250, config.ChunkSizeMB)
	assert.Equal(t, 500*time.Millisecond, config.InitialWait)
	assert.Equal(t, "chunkup", config.S3Bucket)
}
