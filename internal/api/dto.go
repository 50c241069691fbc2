// Package api holds the JSON wire types of the board service shared by the
// HTTP gateway and the development server.
//
// Fields that the service may omit are pointers; the client rejects payloads
// with missing identifiers at its decode boundary.
package api

import "github.com/google/uuid"

// Board is an element of GET /boards.
type Board struct {
	ID      *uuid.UUID `json:"id"`
	Name    string     `json:"name"`
	Index   int        `json:"index"`
	Entries []Entry    `json:"entries,omitempty"`
}

// EntryWordImage is one image of an entry as returned by the service.
type EntryWordImage struct {
	ID                 *uuid.UUID `json:"id"`
	Base64EncodedImage string     `json:"base64EncodedImage"`
}

// Entry is an element of GET /boards/{id}/entries.
type Entry struct {
	ID         *uuid.UUID       `json:"id"`
	BoardID    uuid.UUID        `json:"boardId"`
	WordImages []EntryWordImage `json:"wordImages"`
	AuthorName string           `json:"authorName"`
	LikeCount  *int             `json:"likeCount"`

	// CreatedAt is in epoch seconds.
	CreatedAt *int64 `json:"createdAt"`
}

// PostWordImage is a thumbnail in a POST body. Index carries the position
// explicitly; receivers must order by it rather than by array position.
type PostWordImage struct {
	Base64EncodedImage string `json:"base64EncodedImage"`
	Index              int    `json:"index"`
}

// PostEntryRequest is the body of POST /boards/{id}/entries.
type PostEntryRequest struct {
	WordImages []PostWordImage `json:"wordImages"`
	AuthorName string          `json:"authorName"`
	DeleteKey  string          `json:"deleteKey"`
}

// Error is the body of a non-2xx response.
type Error struct {
	Error string `json:"error"`
}

// Query parameter names.
const (
	ParamWithEntries     = "withEntries"
	ParamOffsetCreatedAt = "offsetCreatedAt"
	ParamCount           = "count"
)
