package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

func (a *App) Boards(ctx context.Context, args []string) error {
	list, err := a.boardSync.ActiveBoards(ctx)
	if err != nil {
		return a.fail(err)
	}
	a.lastBoards = list

	if len(list) == 0 {
		fmt.Fprintln(a.out, "No boards yet. Run 'sync' first.")
		return nil
	}
	for i, b := range list {
		fmt.Fprintf(a.out, "%3d  %s  %s\n", i+1, headColor.Sprint(b.Name), dimColor.Sprint(b.ID))
	}

	if t, ok, err := a.boardSync.LastSyncedAt(ctx); err == nil && ok {
		fmt.Fprintln(a.out, dimColor.Sprint("last synced "+t.Local().Format(time.DateTime)))
	}
	return nil
}

func (a *App) Sync(ctx context.Context, args []string) error {
	fetched, err := a.boardSync.Refresh(ctx, false)
	if err != nil {
		return a.fail(err)
	}
	a.lastBoards = nil
	a.setMode(ModeOnline)
	okColor.Fprintf(a.out, "Synced %d boards\n", len(fetched))
	return nil
}

func (a *App) Entries(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return a.usage("entries <board> [before]")
	}
	boardID, err := a.boardRef(ctx, args[0])
	if err != nil {
		return a.fail(err)
	}

	var before *int64
	if len(args) == 2 {
		v, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return a.usage("entries <board> [before]; before is an epoch second")
		}
		before = &v
	}

	list, err := a.entries.ListEntries(ctx, boardID, before, entriesPageSize)
	if err != nil {
		return a.fail(err)
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No entries.")
		return nil
	}
	for _, e := range list {
		fmt.Fprintf(a.out, "%s  %s  ♥%d  %d images  %s\n",
			e.CreatedTime().Local().Format(time.DateTime),
			headColor.Sprint(e.AuthorName),
			e.LikeCount,
			len(e.WordImages),
			dimColor.Sprint(e.ID),
		)
	}
	if len(list) == entriesPageSize {
		fmt.Fprintf(a.out, "more: entries %s %d\n", args[0], list[len(list)-1].CreatedAt)
	}
	return nil
}

func (a *App) Ping(ctx context.Context, args []string) error {
	if a.checkOnline(ctx) {
		okColor.Fprintln(a.out, "Board service is reachable")
		return nil
	}
	errColor.Fprintln(a.out, "Board service is unreachable")
	return nil
}
