package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/chunkup/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Wait fields
// are plain integers (milliseconds and seconds) and are converted to
// time.Duration when copied into the runtime Config.
type JsonConfig struct {
	File            string `json:"file"`
	Folder          string `json:"folder"`
	ChunkSizeMB     int    `json:"chunk_size_mb"`
	SubChunkSizeMiB int    `json:"sub_chunk_size_mib"`
	InitialWaitMS   int    `json:"initial_wait_ms"`
	MaxWaitSec      int    `json:"max_wait_sec"`
	Multiplier      int    `json:"multiplier"`
	S3BaseEndpoint  string `json:"s3_base_endpoint"`
	S3Region        string `json:"s3_region"`
	S3Bucket        string `json:"s3_bucket"`
	S3AccessKey     string `json:"s3_access_key"`
	S3SecretKey     string `json:"s3_secret_key"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// The file path comes from the -c or -config command-line flags via
// flagx.JsonConfigFlags; when neither is set, no JSON is loaded. Read and
// unmarshal errors panic, matching parseFlags. Zero-valued JSON fields are
// skipped so a partial file only overrides what it names.
//
// Intended usage is: defaults -> parseJson -> parseFlags, where later
// stages override earlier ones.
func parseJson(config *Config) {
	// Resolve file path from flags.
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.File != "" {
		config.File = jc.File
	}
	if jc.Folder != "" {
		config.Folder = jc.Folder
	}
	if jc.ChunkSizeMB > 0 {
		config.ChunkSizeMB = jc.ChunkSizeMB
	}
	if jc.SubChunkSizeMiB > 0 {
		config.SubChunkSizeMiB = jc.SubChunkSizeMiB
	}
	if jc.InitialWaitMS > 0 {
		config.InitialWait = time.Duration(jc.InitialWaitMS) * time.Millisecond
	}
	if jc.MaxWaitSec > 0 {
		config.MaxWait = time.Duration(jc.MaxWaitSec) * time.Second
	}
	if jc.Multiplier > 0 {
		config.Multiplier = jc.Multiplier
	}
	if jc.S3BaseEndpoint != "" {
		config.S3BaseEndpoint = jc.S3BaseEndpoint
	}
	if jc.S3Region != "" {
		config.S3Region = jc.S3Region
	}
	if jc.S3Bucket != "" {
		config.S3Bucket = jc.S3Bucket
	}
	if jc.S3AccessKey != "" {
		config.S3AccessKey = jc.S3AccessKey
	}
	if jc.S3SecretKey != "" {
		config.S3SecretKey = jc.S3SecretKey
	}
}
