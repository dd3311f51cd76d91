package cli

import (
	"bufio"
	"context"
	"io"

	"github.com/dmitrijs2005/farmdash/internal/buildinfo"
	"github.com/dmitrijs2005/farmdash/internal/client/config"
	"github.com/dmitrijs2005/farmdash/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// newAppFn is a test seam for NewApp.
var newAppFn = NewApp

// session carries what one process invocation shares between the root
// command and its subcommands: the resolved App and the standard streams.
type session struct {
	v      *viper.Viper
	app    *App
	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer
}

func (s *session) App() *App { return s.app }

// open resolves the configuration and builds the App once per process.
func (s *session) open(cmd *cobra.Command) error {
	if s.app != nil {
		return nil
	}
	cfg, err := config.Load(s.v, cmd.Root().PersistentFlags())
	if err != nil {
		return err
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat, s.errOut)

	app, err := newAppFn(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	app.reader = s.in
	app.out = s.out
	s.app = app
	return nil
}

func (s *session) close() {
	if s.app == nil {
		return
	}
	if err := s.app.Close(); err != nil {
		s.app.log.Warn(context.Background(), "error closing app", "error", err)
	}
}

// newRootCmd builds the farmdash command with every subcommand attached.
func newRootCmd(s *session) *cobra.Command {
	root := &cobra.Command{
		Use:   "farmdash",
		Short: "Administer the farm produce marketplace from the terminal",
		Long: `farmdash manages categories, products and farmer profiles of the
marketplace through its REST API. Responses are cached for the lifetime of
the process; run "farmdash repl" to keep one cache across many commands.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if skipsApp(cmd) {
				return nil
			}
			return s.open(cmd)
		},
	}
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(newCommandTree(s.App, false)...)
	root.AddCommand(newReplCmd(s), &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			buildinfo.PrintBuildData(cmd.OutOrStdout())
		},
	})
	return root
}

// skipsApp reports whether cmd only prints help or completion scripts.
func skipsApp(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion", "version":
			return true
		}
	}
	return false
}

// Execute runs farmdash with args and returns the process exit code.
func Execute(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	s := &session{v: viper.New(), in: bufio.NewReader(in), out: out, errOut: errOut}
	defer s.close()

	root := newRootCmd(s)
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	if err := root.ExecuteContext(ctx); err != nil {
		printError(errOut, err)
		return 1
	}
	return 0
}
