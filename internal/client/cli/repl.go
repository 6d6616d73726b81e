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
	Status(ctx context.Context) error
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	List(ctx context.Context) error
	Add(ctx context.Context) error
	Show(ctx context.Context, args []string) error
	Search(ctx context.Context, args []string) error
	Details(ctx context.Context) error
	Export(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the TaskKeeper CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Command prompts read from the same reader,
// so no input is buffered away from them. The loop exits on EOF or when the
// user types "exit" or "quit".
//
//	Not logged in:
//	  - help           - show available commands
//	  - register       - create an account
//	  - login          - authenticate
//	  - status         - show the session user and connectivity
//	  - exit | quit    - leave the program
//
//	Logged in:
//	  - (l)ist         - list your tasks
//	  - add            - add a task
//	  - show <id>      - show a single task
//	  - search <term>  - search your tasks by title
//	  - details        - list tasks with owner profiles
//	  - export         - export your tasks to object storage
//	  - logout         - log out
//
// Errors returned by command handlers are ignored here; handlers log their
// own errors.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("tk %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (l)ist, add, show <id>, search <term>, details, export, status, logout, exit")
			} else {
				printlnFn("Available commands: register, login, status, exit")
			}
			continue

		case "register":
			_ = a.Register(ctx)
			continue

		case "login":
			_ = a.Login(ctx)
			continue

		case "status":
			_ = a.Status(ctx)
			continue

		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		if !a.isLoggedIn() {
			switch cmd {
			case "l", "list", "add", "show", "search", "details", "export", "logout":
				printlnFn("Please log in first")
			default:
				printlnFn("Unknown command:", cmd)
			}
			continue
		}

		switch cmd {
		case "l", "list":
			_ = a.List(ctx)

		case "add":
			_ = a.Add(ctx)

		case "show":
			_ = a.Show(ctx, args)

		case "search":
			_ = a.Search(ctx, args)

		case "details":
			_ = a.Details(ctx)

		case "export":
			_ = a.Export(ctx)

		case "logout":
			_ = a.Logout(ctx)

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
