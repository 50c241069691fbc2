package boards

import "github.com/google/uuid"

type Board struct {
	ID    uuid.UUID
	Name  string
	Index int
}

type Entry struct {
	ID      uuid.UUID
	BoardID uuid.UUID

	// WordImages are JPEG thumbnails in display order.
	WordImages [][]byte

	AuthorName    string
	LikeCount     int
	CreatedAt     int64
	DeleteKeyHash []byte
}

// PostedImage is a thumbnail as received, tagged with its position.
type PostedImage struct {
	Data  []byte
	Index int
}

// SeedBoards returns the boards the service starts with.
func SeedBoards() []Board {
	return []Board{
		{ID: uuid.MustParse("bec571c3-688e-0809-6016-f72b5f616599"), Name: "新聞・雑誌部", Index: 0},
		{ID: uuid.MustParse("c31feb82-21ea-6dda-bdc7-7e2f6f01d369"), Name: "手書き部", Index: 1},
		{ID: uuid.MustParse("4779bc64-d847-efc5-c03a-b8b137ae5af0"), Name: "風景部", Index: 2},
		{ID: uuid.MustParse("19e6655c-d191-54a6-c4af-6395cbcf4b1e"), Name: "作字部", Index: 3},
		{ID: uuid.MustParse("e1205869-830b-a243-d96f-3cb141286458"), Name: "フリースタイル部", Index: 4},
	}
}
