package models

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Phrase is an ordered composition of word-images.
//
// Text and BoardIDs are derived once in NewPhrase and stored; they are not
// recomputed later.
type Phrase struct {
	ID        uuid.UUID
	Text      string
	BoardIDs  []uuid.UUID
	CreatedAt time.Time
	Relations []PhraseWordImage
}

// PhraseWordImage is the stored join between a phrase and one word-image.
// WordImageID is invalid once the word-image has been destroyed; WordImage is
// filled in by the store when the phrase is loaded.
type PhraseWordImage struct {
	ID          uuid.UUID
	PhraseID    uuid.UUID
	WordImageID uuid.NullUUID
	Order       int
	WordImage   *WordImage
}

// NewPhrase builds a phrase from wordImages in the given order. Duplicates
// are kept; each list position gets its own relation tagged with its 0-based
// position.
func NewPhrase(wordImages []WordImage, now time.Time) *Phrase {
	p := &Phrase{
		ID:        uuid.New(),
		CreatedAt: now,
		Relations: make([]PhraseWordImage, 0, len(wordImages)),
	}

	var sb strings.Builder
	seen := make(map[uuid.UUID]struct{})
	for i := range wordImages {
		w := wordImages[i]
		sb.WriteString(w.Text)

		if _, ok := seen[w.BoardID]; !ok {
			seen[w.BoardID] = struct{}{}
			p.BoardIDs = append(p.BoardIDs, w.BoardID)
		}

		p.Relations = append(p.Relations, PhraseWordImage{
			ID:          uuid.New(),
			PhraseID:    p.ID,
			WordImageID: uuid.NullUUID{UUID: w.ID, Valid: true},
			Order:       i,
			WordImage:   &w,
		})
	}
	p.Text = sb.String()

	return p
}

// OrderedWordImages returns the word-images sorted by relation order,
// skipping relations whose word-image no longer exists.
func (p *Phrase) OrderedWordImages() []WordImage {
	rels := make([]PhraseWordImage, len(p.Relations))
	copy(rels, p.Relations)
	sort.SliceStable(rels, func(i, j int) bool { return rels[i].Order < rels[j].Order })

	out := make([]WordImage, 0, len(rels))
	for _, r := range rels {
		if !r.WordImageID.Valid || r.WordImage == nil {
			continue
		}
		out = append(out, *r.WordImage)
	}
	return out
}

// HasBoard reports whether any of the phrase's word-images belongs to boardID.
func (p *Phrase) HasBoard(boardID uuid.UUID) bool {
	for _, id := range p.BoardIDs {
		if id == boardID {
			return true
		}
	}
	return false
}
