package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/keijiban-app/keijiban/internal/client/recognizer"
)

func (a *App) Words(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.usage("words <board>")
	}
	boardID, err := a.boardRef(ctx, args[0])
	if err != nil {
		return a.fail(err)
	}

	list, err := a.wordImages.ListByBoard(ctx, boardID)
	if err != nil {
		return a.fail(err)
	}
	a.lastWords = list

	if len(list) == 0 {
		fmt.Fprintln(a.out, "No word images.")
		return nil
	}
	for i, w := range list {
		fmt.Fprintf(a.out, "%3d  %s  %s\n", i+1, headColor.Sprint(w.Text), dimColor.Sprint(w.ID))
	}
	return nil
}

// Ingest cuts the words listed in the image's manifest and stores them
// under the board.
func (a *App) Ingest(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return a.usage("ingest <board> <image>")
	}
	boardID, err := a.boardRef(ctx, args[0])
	if err != nil {
		return a.fail(err)
	}

	img, rec, err := recognizer.LoadFile(args[1])
	if err != nil {
		return a.fail(err)
	}

	svc := a.wordImages.WithRecognizer(rec)
	words, err := svc.Analyze(ctx, img)
	if err != nil {
		return a.fail(err)
	}

	res, err := svc.IngestBatch(ctx, words, boardID)
	if err != nil {
		return a.fail(err)
	}

	okColor.Fprintf(a.out, "Saved %d word images\n", len(res.Saved))
	for _, f := range res.Failed {
		errColor.Fprintf(a.out, "  skipped #%d %q: %v\n", f.Index+1, f.Text, errors.Unwrap(f))
	}
	a.lastWords = nil
	return nil
}
