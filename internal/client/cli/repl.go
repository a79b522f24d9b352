package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Upload(ctx context.Context, args []string) error
	List(ctx context.Context) error
	Info(ctx context.Context, args []string) error
	Share(ctx context.Context, args []string) error
	Download(ctx context.Context, args []string) error
	Fetch(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
}

// runREPL reads commands line by line from reader and dispatches them to a
// until EOF, "exit" or "quit". fetch works without logging in; the other
// object commands need a session. Command errors are printed and the loop
// continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("sharebox (%s)> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: upload, (l)ist, info, share, download, fetch, delete, logout, exit")
			} else {
				printlnFn("Available commands: register, login, fetch, exit")
			}

		case "register":
			cmdErr = a.Register(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "fetch":
			cmdErr = a.Fetch(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		case "logout", "upload", "l", "list", "info", "share", "download", "delete":
			if !a.isLoggedIn() {
				printlnFn("Please login first")
				continue
			}
			cmdErr = dispatchOwned(ctx, a, cmd, args)

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr.Error())
		}
	}
}

func dispatchOwned(ctx context.Context, a execIface, cmd string, args []string) error {
	switch cmd {
	case "logout":
		return a.Logout(ctx)
	case "upload":
		return a.Upload(ctx, args)
	case "l", "list":
		return a.List(ctx)
	case "info":
		return a.Info(ctx, args)
	case "share":
		return a.Share(ctx, args)
	case "download":
		return a.Download(ctx, args)
	default:
		return a.Delete(ctx, args)
	}
}
