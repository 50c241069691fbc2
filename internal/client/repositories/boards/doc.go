// Package boards stores the client's copy of the server board list.
//
// Boards are never physically removed by synchronization; a board that
// disappears from the server is kept with its deleted flag set so that
// word-images and phrases pointing at it stay valid. GetActive hides such
// tombstones, GetAll does not.
//
// SQLiteRepository works over dbx.DBTX and can therefore be bound either to
// the database or to a running transaction.
package boards
