// Package phrases stores phrases composed of word-images.
//
// A phrase row holds only its text and creation time. Word order lives in
// phrase_word_images (one row per position, duplicates allowed) and board
// membership in phrase_boards. Deleting a phrase cascades to both tables;
// deleting a word-image nulls the relation's reference instead.
package phrases
