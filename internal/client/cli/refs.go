package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

var (
	errUsage     = errors.New("usage")
	errBadRef    = errors.New("unknown reference")
	errNoListing = errors.New("nothing listed yet")
)

// pick resolves ref as a 1-based position in a listing of n items, or as a
// UUID. Positions fail with errNoListing when n is zero.
func pick(ref string, n int, id func(i int) uuid.UUID) (uuid.UUID, error) {
	if pos, err := strconv.Atoi(ref); err == nil {
		if n == 0 {
			return uuid.Nil, fmt.Errorf("%w: %s", errNoListing, ref)
		}
		if pos < 1 || pos > n {
			return uuid.Nil, fmt.Errorf("%w: %d is not between 1 and %d", errBadRef, pos, n)
		}
		return id(pos - 1), nil
	}
	u, err := uuid.Parse(ref)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", errBadRef, ref)
	}
	return u, nil
}

// boardRef resolves a board by position in the active board list or by UUID.
func (a *App) boardRef(ctx context.Context, ref string) (uuid.UUID, error) {
	if len(a.lastBoards) == 0 {
		list, err := a.boardSync.ActiveBoards(ctx)
		if err != nil {
			return uuid.Nil, err
		}
		a.lastBoards = list
	}
	return pick(ref, len(a.lastBoards), func(i int) uuid.UUID { return a.lastBoards[i].ID })
}

func (a *App) wordRef(ref string) (uuid.UUID, error) {
	return pick(ref, len(a.lastWords), func(i int) uuid.UUID { return a.lastWords[i].ID })
}

func (a *App) phraseRef(ref string) (uuid.UUID, error) {
	return pick(ref, len(a.lastPhrases), func(i int) uuid.UUID { return a.lastPhrases[i].ID })
}
