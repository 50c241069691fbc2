package client

import (
	"encoding/base64"
	"fmt"

	"github.com/keijiban-app/keijiban/internal/api"
	"github.com/keijiban-app/keijiban/internal/client/models"
	"github.com/keijiban-app/keijiban/internal/common"
)

// DecodeBoard converts a wire board. A missing id fails with
// common.ErrMissingIdentifier.
func DecodeBoard(dto api.Board) (models.Board, error) {
	if dto.ID == nil {
		return models.Board{}, fmt.Errorf("board %q: %w", dto.Name, common.ErrMissingIdentifier)
	}
	return models.Board{ID: *dto.ID, Name: dto.Name, Index: dto.Index}, nil
}

// DecodeBoards converts the whole list or nothing.
func DecodeBoards(dtos []api.Board) ([]models.Board, error) {
	out := make([]models.Board, 0, len(dtos))
	for _, dto := range dtos {
		b, err := DecodeBoard(dto)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// DecodeEntry converts a wire entry. Any word image with a missing id or
// undecodable base64 fails the entry as a whole.
func DecodeEntry(dto api.Entry) (models.Entry, error) {
	if dto.ID == nil {
		return models.Entry{}, fmt.Errorf("entry: %w", common.ErrMissingIdentifier)
	}
	if dto.LikeCount == nil {
		return models.Entry{}, fmt.Errorf("%w: entry %s: %w: likeCount is missing", common.ErrGateway, dto.ID, ErrMalformedPayload)
	}
	if dto.CreatedAt == nil {
		return models.Entry{}, fmt.Errorf("%w: entry %s: %w: createdAt is missing", common.ErrGateway, dto.ID, ErrMalformedPayload)
	}

	images := make([]models.EntryWordImage, 0, len(dto.WordImages))
	for i, w := range dto.WordImages {
		if w.ID == nil {
			return models.Entry{}, fmt.Errorf("entry %s word image %d: %w", dto.ID, i, common.ErrMissingIdentifier)
		}
		data, err := base64.StdEncoding.DecodeString(w.Base64EncodedImage)
		if err != nil {
			return models.Entry{}, fmt.Errorf("%w: entry %s word image %d: %w: %w", common.ErrGateway, dto.ID, i, ErrMalformedPayload, err)
		}
		images = append(images, models.EntryWordImage{ID: *w.ID, ImageData: data})
	}

	return models.Entry{
		ID:         *dto.ID,
		BoardID:    dto.BoardID,
		WordImages: images,
		AuthorName: dto.AuthorName,
		LikeCount:  *dto.LikeCount,
		CreatedAt:  *dto.CreatedAt,
	}, nil
}

func DecodeEntries(dtos []api.Entry) ([]models.Entry, error) {
	out := make([]models.Entry, 0, len(dtos))
	for _, dto := range dtos {
		e, err := DecodeEntry(dto)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// DecodeFetchedBoards converts boards together with their embedded entries.
func DecodeFetchedBoards(dtos []api.Board) ([]models.FetchedBoard, error) {
	out := make([]models.FetchedBoard, 0, len(dtos))
	for _, dto := range dtos {
		b, err := DecodeBoard(dto)
		if err != nil {
			return nil, err
		}
		entries, err := DecodeEntries(dto.Entries)
		if err != nil {
			return nil, err
		}
		out = append(out, models.FetchedBoard{Board: b, Entries: entries})
	}
	return out, nil
}
