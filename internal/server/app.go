// Package server initializes and runs the development board server. It wires
// the in-memory board store to the HTTP API and handles graceful shutdown.
package server

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/keijiban-app/keijiban/internal/logging"
	"github.com/keijiban-app/keijiban/internal/server/boards"
	"github.com/keijiban-app/keijiban/internal/server/config"
	"github.com/keijiban-app/keijiban/internal/server/httpapi"
)

type App struct {
	config       *config.Config
	logger       logging.Logger
	boardService *boards.Service
}

func NewApp(c *config.Config) *App {
	logger := logging.New(os.Stdout, c.LogLevel)

	repo := boards.NewMemoryRepository(boards.SeedBoards())
	bs := boards.NewService(repo, c.PageSize)

	return &App{config: c, logger: logger, boardService: bs}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewHTTPServer(app.config.EndpointAddr, app.logger, app.boardService)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
}
