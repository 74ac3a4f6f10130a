package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/chunkup/internal/app"
	"github.com/dmitrijs2005/chunkup/internal/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	a, err := app.NewApp(ctx, cfg)

	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := a.Backup(ctx); err != nil {
		log.Fatalf("%v", err)
	}

}
