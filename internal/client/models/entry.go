package models

import (
	"time"

	"github.com/google/uuid"
)

// EntryWordImage is one image of a posted entry as returned by the server.
type EntryWordImage struct {
	ID        uuid.UUID
	ImageData []byte
}

// Entry is a phrase posted on a board. Entries are server-authoritative and
// never stored locally.
type Entry struct {
	ID         uuid.UUID
	BoardID    uuid.UUID
	WordImages []EntryWordImage
	AuthorName string
	LikeCount  int

	// CreatedAt is in epoch seconds, as sent by the server.
	CreatedAt int64
}

func (e Entry) CreatedTime() time.Time {
	return time.Unix(e.CreatedAt, 0).UTC()
}

// FetchedBoard is a board together with its most recent entries.
type FetchedBoard struct {
	Board   Board
	Entries []Entry
}

// Boards projects fetched boards onto their Board records, keeping order.
func Boards(fetched []FetchedBoard) []Board {
	out := make([]Board, len(fetched))
	for i, f := range fetched {
		out[i] = f.Board
	}
	return out
}
