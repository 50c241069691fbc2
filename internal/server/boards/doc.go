// Package boards is the domain layer of the development board service: a
// fixed set of boards, each holding entries made of word-image thumbnails.
// Entries are kept in memory and lost on restart.
package boards
