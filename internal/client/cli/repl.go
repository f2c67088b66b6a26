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
	WhoAmI(ctx context.Context) error
	OpenDialog(ctx context.Context, name string) error
	CloseDialogs(ctx context.Context)
	Click(ctx context.Context, id string) error
	ShowPage()
}

// runREPL starts a simple read–eval–print loop for the job board client.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Commands that prompt for input read from the
// same reader, so piped input is consumed line by line. Unknown commands are
// reported back to the user. The loop exits at EOF or when the user types
// "exit" or "quit".
//
// Commands
//
//	help                  show available commands
//	login                 open the login dialog and submit credentials
//	register              open the register dialog and create an account
//	logout                log out
//	open login|register   open a dialog
//	close                 close every dialog
//	click <element-id>    press the pointer on a page element
//	whoami                check the stored session with the server
//	page                  print the page state
//	exit | quit           leave the program
//
// Any errors returned by command handlers are ignored here; handlers report
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("fruitpie %s > ", statusFn()))
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
				printlnFn("Available commands: logout, whoami, page, open, close, click, exit")
			} else {
				printlnFn("Available commands: login, register, whoami, page, open, close, click, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "register":
			_ = a.Register(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "open":
			if len(args) != 1 {
				printlnFn("Usage: open login|register")
				continue
			}
			_ = a.OpenDialog(ctx, args[0])

		case "close":
			a.CloseDialogs(ctx)

		case "click":
			if len(args) != 1 {
				printlnFn("Usage: click <element-id>")
				continue
			}
			_ = a.Click(ctx, args[0])

		case "page":
			a.ShowPage()

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
