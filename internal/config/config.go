// Package config handles configuration for the backup and restore
// commands, including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings shared by the backup and restore commands.
//
// Fields:
//   - File: path of the local file to back up or restore into.
//   - Folder: remote folder name; also the stem of every chunk object name.
//   - ChunkSizeMB: remote split granularity, decimal megabytes.
//   - SubChunkSizeMiB: wire transfer and hash read granularity, MiB.
//   - InitialWait / MaxWait / Multiplier: transfer retry backoff schedule.
//   - S3BaseEndpoint / S3Region / S3Bucket: object storage settings.
//   - S3AccessKey / S3SecretKey: credentials for the S3-compatible backend.
type Config struct {
	File            string
	Folder          string
	ChunkSizeMB     int
	SubChunkSizeMiB int
	InitialWait     time.Duration
	MaxWait         time.Duration
	Multiplier      int
	S3BaseEndpoint  string
	S3Region        string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: the S3 credentials are insecure and should be overridden.
func (c *Config) LoadDefaults() {
	c.File = "backup.bin"
	c.Folder = "backup"
	c.ChunkSizeMB = 250
	c.SubChunkSizeMiB = 1
	c.InitialWait = 500 * time.Millisecond
	c.MaxWait = 10 * time.Minute
	c.Multiplier = 2
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.S3Region = "us-east-1"
	c.S3Bucket = "chunkup"
	c.S3AccessKey = "admin"
	c.S3SecretKey = "secretpassword"
}

// ChunkSize returns the configured chunk size in bytes.
func (c *Config) ChunkSize() int64 {
	return int64(c.ChunkSizeMB) * 1000 * 1000
}

// SubChunkSize returns the configured sub-chunk size in bytes.
func (c *Config) SubChunkSize() int64 {
	return int64(c.SubChunkSizeMiB) * 1024 * 1024
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
