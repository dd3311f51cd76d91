package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this through replExec; tests can provide a
// lightweight stub.
type execIface interface {
	isLoggedIn(ctx context.Context) bool
	Login(ctx context.Context, mobile string) error
	Logout(ctx context.Context) error
	// Run executes one resource command line, e.g. "products list -p 2".
	Run(ctx context.Context, args []string) error
}

// runREPL starts a read-eval-print loop over lines read from in.
//
// The first token of each line selects the command. "login" and "logout"
// are handled directly; every other line is executed as a farmdash
// subcommand against the same App, so the cache survives between lines.
// The loop exits on EOF or when the user types "exit" or "quit".
//
// Errors returned by commands are printed and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, in *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("farmdash> %s > ", statusFn()))
		line, err := in.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn(ctx) {
				printlnFn("Available commands: categories, products, farmers, watch, unwatch, whoami, logout, exit")
				printlnFn(`Type "<command> --help" for details, e.g. "products list --help"`)
			} else {
				printlnFn("Available commands: login [mobile], whoami, exit")
			}

		case "login":
			mobile := ""
			if len(parts) > 1 {
				mobile = parts[1]
			}
			cmdErr = a.Login(ctx, mobile)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			cmdErr = a.Run(ctx, parts)
		}

		if cmdErr != nil {
			printlnFn(errorText(cmdErr))
		}
		if err != nil {
			return
		}
	}
}

// replExec adapts an App to execIface, running each line through a fresh
// command tree so flag values never leak from one line to the next.
type replExec struct {
	app *App
	out io.Writer
}

func (r *replExec) isLoggedIn(ctx context.Context) bool { return r.app.isLoggedIn(ctx) }

func (r *replExec) Login(ctx context.Context, mobile string) error {
	return r.app.Login(ctx, mobile)
}

func (r *replExec) Logout(ctx context.Context) error { return r.app.Logout(ctx) }

func (r *replExec) Run(ctx context.Context, args []string) error {
	root := &cobra.Command{
		Use:           "",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.AddCommand(newCommandTree(func() *App { return r.app }, true)...)
	root.SetArgs(args)
	root.SetOut(r.out)
	root.SetErr(r.out)
	return root.ExecuteContext(ctx)
}

func (a *App) status(ctx context.Context) string {
	s := "guest"
	if a.isLoggedIn(ctx) {
		s = "logged in"
	}
	if w := a.Watching(); len(w) > 0 {
		s += " | watching " + strings.Join(w, ",")
	}
	return s
}

func newReplCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session sharing one cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			app := s.App()
			go app.StartSweeper(ctx)

			runREPL(ctx, &replExec{app: app, out: s.out}, func() string { return app.status(ctx) }, s.in)
			return nil
		},
	}
}
