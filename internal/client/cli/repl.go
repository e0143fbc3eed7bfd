package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context, email string) error
	Signup(ctx context.Context, login bool) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Scan(ctx context.Context, path, area string) error
	History(ctx context.Context, opts HistoryOptions) error
	More(ctx context.Context) error
	Show(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) error
	Export(ctx context.Context, path, format string, opts HistoryOptions) error
}

const (
	helpSignedOut = "Available commands: login [email], signup, help, exit"
	helpSignedIn  = `Available commands:
  scan <file> [area]        analyze a photo
  (h)istory                 list past scans
  more                      next page
  refresh                   reload history
  filter <all|benign|malignant|pending>
  sort <newest|oldest|confidence>
  show <id>                 scan details
  delete <id>               remove a scan
  stats                     counts per result
  export <file> [format]    save history as json, yaml or parquet
  whoami, logout, exit`
)

// runREPL starts a simple read–eval–print loop.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Errors returned by handlers are printed as
// user messages and the loop continues. The loop exits on EOF, when the
// context is done, or when the user types "exit" or "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}
		fmt.Fprintf(w, "skincheck %s> ", statusFn())

		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			fmt.Fprintln(w)
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
				fmt.Fprintln(w, helpSignedIn)
			} else {
				fmt.Fprintln(w, helpSignedOut)
			}

		case "login":
			cmdErr = a.Login(ctx, arg(args, 0))

		case "signup", "register":
			cmdErr = a.Signup(ctx, true)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "whoami":
			cmdErr = a.WhoAmI(ctx)

		case "scan":
			cmdErr = a.Scan(ctx, arg(args, 0), arg(args, 1))

		case "h", "history":
			cmdErr = a.History(ctx, HistoryOptions{})

		case "refresh":
			cmdErr = a.History(ctx, HistoryOptions{Refresh: true})

		case "more":
			cmdErr = a.More(ctx)

		case "filter":
			if len(args) == 0 {
				fmt.Fprintln(w, "Usage: filter <all|benign|malignant|pending>")
				continue
			}
			cmdErr = a.History(ctx, HistoryOptions{Filter: args[0]})

		case "sort":
			if len(args) == 0 {
				fmt.Fprintln(w, "Usage: sort <newest|oldest|confidence>")
				continue
			}
			cmdErr = a.History(ctx, HistoryOptions{Sort: args[0]})

		case "show":
			if len(args) == 0 {
				fmt.Fprintln(w, "Usage: show <id>")
				continue
			}
			cmdErr = a.Show(ctx, args[0])

		case "delete":
			if len(args) == 0 {
				fmt.Fprintln(w, "Usage: delete <id>")
				continue
			}
			cmdErr = a.Delete(ctx, args[0])

		case "stats":
			cmdErr = a.Stats(ctx)

		case "export":
			if len(args) == 0 {
				fmt.Fprintln(w, "Usage: export <file> [json|yaml|parquet]")
				continue
			}
			cmdErr = a.Export(ctx, args[0], arg(args, 1), HistoryOptions{})

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}

		if cmdErr != nil {
			fmt.Fprintln(w, describeError(cmdErr))
		}
	}
}

func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

// Shell runs the interactive REPL until exit or EOF.
func (a *App) Shell(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to SkinCheck CLI (type 'help' for commands)")
	if s, ok := a.sessions.Current(); ok {
		fmt.Fprintf(a.out, "Signed in as %s\n", s.Email)
	}
	runREPL(ctx, a, a.getStatus, a.reader, a.out)
}
