package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface the REPL drives. Tests can provide a stub.
type execIface interface {
	isLoggedIn() bool
	SignUp(ctx context.Context) error
	SignIn(ctx context.Context) error
	Me(ctx context.Context) error
	SignOut(ctx context.Context) error
}

// runREPL reads commands from r until EOF, "exit" or "quit".
//
//	help      show available commands
//	signup    create an account
//	signin    authenticate with handle or email
//	me        show the signed-in account
//	signout   forget the token
//	exit      leave the program
//
// Handler errors are reported by the handlers themselves; the loop keeps
// going.
func runREPL(ctx context.Context, a execIface, statusFn func() string, r *bufio.Reader, w io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}
		fmt.Fprintf(w, "hk%s> ", statusFn())

		line, err := r.ReadString('\n')
		parts := strings.Fields(line)
		if len(parts) == 0 {
			if err != nil {
				return
			}
			continue
		}

		switch parts[0] {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, "Available commands: me, signout, exit")
			} else {
				fmt.Fprintln(w, "Available commands: signup, signin, exit")
			}
		case "signup", "register":
			_ = a.SignUp(ctx)
		case "signin", "login":
			_ = a.SignIn(ctx)
		case "me", "whoami":
			_ = a.Me(ctx)
		case "signout", "logout":
			_ = a.SignOut(ctx)
		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return
		default:
			fmt.Fprintln(w, "Unknown command:", parts[0])
		}

		if err != nil {
			return
		}
	}
}
