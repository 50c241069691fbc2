package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

const helpText = `Available commands:
  boards                       list boards
  sync                         refresh boards from the service
  entries <board> [before]     show entries, newest first
  words <board>                list word images of a board
  ingest <board> <image>       cut word images from a photo (needs <image>.words.json)
  phrase <word>...             compose a phrase from word images
  phrases [board]              list phrases
  rmphrase <phrase>            delete a phrase
  post <board> <phrase>        post a phrase to a board
  ping                         check the board service
  exit | quit                  leave the program`

// execIface is the command surface the REPL dispatches to. App implements
// it; tests use a stub.
type execIface interface {
	Boards(ctx context.Context, args []string) error
	Sync(ctx context.Context, args []string) error
	Entries(ctx context.Context, args []string) error
	Words(ctx context.Context, args []string) error
	Ingest(ctx context.Context, args []string) error
	CreatePhrase(ctx context.Context, args []string) error
	Phrases(ctx context.Context, args []string) error
	DeletePhrase(ctx context.Context, args []string) error
	Post(ctx context.Context, args []string) error
	Ping(ctx context.Context, args []string) error
}

// runREPL reads commands line by line from reader and dispatches them to a.
// Command prompts share the same reader, so input is never buffered twice.
// The loop exits on EOF, on "exit"/"quit", or when ctx is done.
//
// Errors returned by commands are ignored here; commands report their own.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for ctx.Err() == nil {
		printlnFn(fmt.Sprintf("keijiban%s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn(helpText)
		case "boards", "b":
			_ = a.Boards(ctx, args)
		case "sync":
			_ = a.Sync(ctx, args)
		case "entries", "e":
			_ = a.Entries(ctx, args)
		case "words", "w":
			_ = a.Words(ctx, args)
		case "ingest":
			_ = a.Ingest(ctx, args)
		case "phrase":
			_ = a.CreatePhrase(ctx, args)
		case "phrases", "p":
			_ = a.Phrases(ctx, args)
		case "rmphrase":
			_ = a.DeletePhrase(ctx, args)
		case "post":
			_ = a.Post(ctx, args)
		case "ping":
			_ = a.Ping(ctx, args)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
