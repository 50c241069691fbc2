// Package wordimages stores recognized word crops together with the JPEG
// bytes they were cut from. Each word-image belongs to one board and is
// removed by the database when that board row is erased.
package wordimages
