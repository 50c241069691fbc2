package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/fatih/color"
	"github.com/keijiban-app/keijiban/internal/client/client"
	"github.com/keijiban-app/keijiban/internal/client/config"
	"github.com/keijiban-app/keijiban/internal/client/models"
	"github.com/keijiban-app/keijiban/internal/client/repositories/repomanager"
	"github.com/keijiban-app/keijiban/internal/client/services"
	"github.com/keijiban-app/keijiban/internal/client/storage"
	"github.com/keijiban-app/keijiban/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const (
	onlineCheckInterval = 10 * time.Second
	pingTimeout         = 3 * time.Second
	entriesPageSize     = 20
)

var (
	okColor   = color.New(color.FgGreen)
	errColor  = color.New(color.FgRed)
	headColor = color.New(color.FgCyan, color.Bold)
	dimColor  = color.New(color.Faint)
)

type App struct {
	db         *sql.DB
	gateway    client.Gateway
	log        logging.Logger
	boardSync  *services.BoardSyncService
	wordImages *services.WordImageService
	phrases    *services.PhraseService
	entries    *services.EntryService

	reader *bufio.Reader
	out    io.Writer
	mode   atomic.Value

	// results of the latest listings, for numeric references
	lastBoards  []models.Board
	lastWords   []models.WordImage
	lastPhrases []*models.Phrase
}

// NewApp validates c, opens the local store and connects the gateway.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	log := logging.New(os.Stderr, c.LogLevel)

	gw, err := client.NewHTTPClient(c.APIBaseURL, c.RequestTimeout, log)
	if err != nil {
		return nil, err
	}

	db, err := storage.Open(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	return newApp(db, gw, log, os.Stdin, os.Stdout), nil
}

func newApp(db *sql.DB, gw client.Gateway, log logging.Logger, in io.Reader, out io.Writer) *App {
	rm := repomanager.NewSQLiteRepositoryManager()
	return &App{
		db:         db,
		gateway:    gw,
		log:        log,
		boardSync:  services.NewBoardSyncService(db, rm, gw, log),
		wordImages: services.NewWordImageService(db, rm, nil, log),
		phrases:    services.NewPhraseService(db, rm, log),
		entries:    services.NewEntryService(db, rm, gw, log),
		reader:     bufio.NewReader(in),
		out:        out,
	}
}

// Run shows the REPL until the user leaves, then closes the store.
func (a *App) Run(ctx context.Context) {
	defer a.db.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	headColor.Fprintln(a.out, "Welcome to Keijiban CLI (type 'help' for commands)")

	a.checkOnline(ctx)
	go a.StartOnlineStatusWatcher(ctx, onlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) Mode() Mode {
	m, _ := a.mode.Load().(Mode)
	return m
}

func (a *App) setMode(mode Mode) {
	if old := a.mode.Swap(mode); old != mode {
		a.log.Info(context.Background(), "switched mode", "mode", mode)
	}
}

func (a *App) getStatus() string {
	if m := a.Mode(); m != "" {
		return fmt.Sprintf(" (%s)", m)
	}
	return ""
}

func (a *App) checkOnline(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := a.gateway.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return false
	}
	a.setMode(ModeOnline)
	return true
}

// StartOnlineStatusWatcher pings the service every interval until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// fail prints err and returns it.
func (a *App) fail(err error) error {
	errColor.Fprintln(a.out, "Error:", err)
	return err
}

func (a *App) usage(text string) error {
	fmt.Fprintln(a.out, "Usage:", text)
	return errUsage
}
