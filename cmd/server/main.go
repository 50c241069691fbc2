package main

import (
	"context"

	"github.com/keijiban-app/keijiban/internal/server"
	"github.com/keijiban-app/keijiban/internal/server/config"
)

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()

	server.NewApp(cfg).Run(ctx)
}
