package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/chunkup/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-f string   path of the local file
//	-n string   remote folder name
//	-s int      chunk size, decimal megabytes
//	-q int      sub-chunk size, MiB
//	-w int      initial retry wait, milliseconds
//	-m int      maximum retry wait, seconds
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-g string   S3 region
//	-b string   S3 bucket name
//	-u string   S3 access key
//	-p string   S3 secret key
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes
//     using flagx.FilterArgs, avoiding collisions with other components.
//   - Wait flags are accepted as integers and converted to time.Duration.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-f", "-n", "-s", "-q", "-w", "-m", "-e", "-g", "-b", "-u", "-p"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.File, "f", config.File, "path of the local file")
	fs.StringVar(&config.Folder, "n", config.Folder, "remote folder name")
	fs.IntVar(&config.ChunkSizeMB, "s", config.ChunkSizeMB, "chunk size (in decimal megabytes)")
	fs.IntVar(&config.SubChunkSizeMiB, "q", config.SubChunkSizeMiB, "sub-chunk size (in MiB)")

	initialWait := fs.Int("w", int(config.InitialWait.Milliseconds()), "initial retry wait (in milliseconds)")
	maxWait := fs.Int("m", int(config.MaxWait.Seconds()), "maximum retry wait (in seconds)")

	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3AccessKey, "u", config.S3AccessKey, "S3 access key")
	fs.StringVar(&config.S3SecretKey, "p", config.S3SecretKey, "S3 secret key")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.InitialWait = time.Duration(*initialWait) * time.Millisecond
	config.MaxWait = time.Duration(*maxWait) * time.Second
}
