package cli

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/keijiban-app/keijiban/internal/client/models"
	"github.com/keijiban-app/keijiban/internal/shared"
)

const deleteKeyBytes = 8

func (a *App) CreatePhrase(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.usage("phrase <word>...  (numbers from the latest 'words' listing or UUIDs)")
	}

	ids := make([]uuid.UUID, len(args))
	for i, ref := range args {
		id, err := a.wordRef(ref)
		if err != nil {
			return a.fail(err)
		}
		ids[i] = id
	}

	p, err := a.phrases.CreatePhraseFromIDs(ctx, ids)
	if err != nil {
		return a.fail(err)
	}
	okColor.Fprintf(a.out, "Created phrase %q\n", p.Text)
	fmt.Fprintln(a.out, dimColor.Sprint(p.ID))
	a.lastPhrases = nil
	return nil
}

func (a *App) Phrases(ctx context.Context, args []string) error {
	var (
		list []*models.Phrase
		err  error
	)
	switch len(args) {
	case 0:
		list, err = a.phrases.ListAll(ctx)
	case 1:
		var boardID uuid.UUID
		if boardID, err = a.boardRef(ctx, args[0]); err != nil {
			return a.fail(err)
		}
		list, err = a.phrases.ListByBoard(ctx, boardID)
	default:
		return a.usage("phrases [board]")
	}
	if err != nil {
		return a.fail(err)
	}
	a.lastPhrases = list

	if len(list) == 0 {
		fmt.Fprintln(a.out, "No phrases.")
		return nil
	}
	for i, p := range list {
		fmt.Fprintf(a.out, "%3d  %s  (%d words)  %s\n", i+1, headColor.Sprint(p.Text), len(p.OrderedWordImages()), dimColor.Sprint(p.ID))
	}
	return nil
}

func (a *App) DeletePhrase(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.usage("rmphrase <phrase>")
	}
	id, err := a.phraseRef(args[0])
	if err != nil {
		return a.fail(err)
	}
	if err := a.phrases.DeletePhrase(ctx, id); err != nil {
		return a.fail(err)
	}
	okColor.Fprintln(a.out, "Phrase deleted")
	a.lastPhrases = nil
	return nil
}

// Post asks for an author name and a delete key, then posts the phrase. An
// empty delete key is replaced by a generated one, which is printed.
func (a *App) Post(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return a.usage("post <board> <phrase>")
	}
	boardID, err := a.boardRef(ctx, args[0])
	if err != nil {
		return a.fail(err)
	}
	phraseID, err := a.phraseRef(args[1])
	if err != nil {
		return a.fail(err)
	}
	phrase, err := a.phrases.GetPhrase(ctx, phraseID)
	if err != nil {
		return a.fail(err)
	}
	if !phrase.HasBoard(boardID) {
		dimColor.Fprintln(a.out, "Note: none of this phrase's words come from that board")
	}

	author, err := GetSimpleText(a.reader, "Author name", a.out)
	if err != nil {
		return a.fail(err)
	}
	key, err := GetSecret(a.out, "Delete key (empty to generate)")
	if err != nil {
		return a.fail(err)
	}
	if key == "" {
		if key, err = shared.RandomHex(deleteKeyBytes); err != nil {
			return a.fail(err)
		}
		fmt.Fprintln(a.out, "Delete key:", headColor.Sprint(key))
	}

	if err := a.entries.PostPhrase(ctx, boardID, phraseID, author, key); err != nil {
		return a.fail(err)
	}
	okColor.Fprintln(a.out, "Posted")
	return nil
}
