// Package cli provides the interactive ShareBox command-line client.
//
// It wires configuration, the gRPC client and an interactive REPL. A
// background watcher pings the server and flips the prompt between online
// and offline.
//
// Commands:
//   - register / login / logout
//   - upload <path>, list, info <id>
//   - share <id> <public|private|password>
//   - download <id>, fetch <link-or-id>
//   - delete <id>
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
