// Package app wires configuration, logging, the S3-backed chunk store and
// the transfer engine into the runnable backup and restore applications.
// It also handles graceful shutdown: an interrupt cancels the run context,
// which stops the engine at the next transfer step.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/chunkup/internal/config"
	"github.com/dmitrijs2005/chunkup/internal/logging"
	"github.com/dmitrijs2005/chunkup/internal/remote"
	"github.com/dmitrijs2005/chunkup/internal/transfer"
)

type App struct {
	config *config.Config
	logger logging.Logger
	engine *transfer.Engine
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewDefault()

	store, err := remote.NewS3Store(ctx, remote.S3Config{
		Endpoint:  c.S3BaseEndpoint,
		Region:    c.S3Region,
		Bucket:    c.S3Bucket,
		AccessKey: c.S3AccessKey,
		SecretKey: c.S3SecretKey,
	}, c.Folder, logger)
	if err != nil {
		return nil, fmt.Errorf("s3 init error: %w", err)
	}

	engine := transfer.NewEngine(store, logger, transfer.Options{
		Folder:       c.Folder,
		ChunkSize:    c.ChunkSize(),
		SubChunkSize: c.SubChunkSize(),
		InitialWait:  c.InitialWait,
		MaxWait:      c.MaxWait,
		Multiplier:   c.Multiplier,
	})

	return &App{config: c, logger: logger, engine: engine}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Backup uploads the configured file into the configured remote folder.
func (app *App) Backup(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	app.logger.Info(ctx, "starting backup",
		"file", app.config.File, "folder", app.config.Folder)
	return app.engine.Backup(ctx, app.config.File)
}

// Restore rebuilds the configured file from the configured remote folder.
func (app *App) Restore(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	app.logger.Info(ctx, "starting restore",
		"file", app.config.File, "folder", app.config.Folder)
	return app.engine.Restore(ctx, app.config.File)
}
