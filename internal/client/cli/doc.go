// Package cli provides the interactive Keijiban command-line client.
//
// It wires configuration, the local store, the board service gateway and the
// client services behind a small REPL. A background watcher pings the
// service and shows online/offline state in the prompt.
//
// Boards, word-images and phrases may be referenced by the number shown in
// the latest listing or by full UUID.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
