package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/soyuz43/svninfo-go/internal/config"
	"github.com/soyuz43/svninfo-go/internal/svn"
	"github.com/soyuz43/svninfo-go/internal/utils/colorutils"
	"github.com/spf13/cobra"
)

// Color definitions
var (
	cyan   = colorutils.Cyan
	green  = colorutils.Green
	yellow = colorutils.Yellow
	red    = colorutils.Red
	bold   = colorutils.Bold
)

var (
	cfg    config.Config
	client *svn.Client

	// newRunner is swapped in tests for a fake svn.
	newRunner = func(c config.Config) (svn.Runner, error) {
		return c.NewRunner()
	}
)

// Root command
var rootCmd = &cobra.Command{
	Use:   "svninfo-go",
	Short: "svninfo-go: query Subversion working-copy metadata.",
	Long: `svninfo-go runs 'svn info' on a working copy and reports its revision number,
repository root, repository URL and last-changed author, for build scripts and humans.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
	RunE:              runRootCommand,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default svninfo.{yaml,toml,json} in . or ~/.config/svninfo)")
	pf.String(config.KeySVN, config.Default().SVN, "svn command, including any leading arguments")
	pf.String(config.KeyEncoding, config.Default().Encoding, "encoding of svn's output")
	pf.String(config.KeyLogLevel, config.Default().LogLevel, "log level (debug, info, warn, error)")
	pf.String(config.KeyLogFormat, config.Default().LogFormat, "log format (text or json)")
	pf.Duration(config.KeyTimeout, 0, "timeout per svn call (0 disables)")
	pf.String(config.KeyUsername, "", "username forwarded to svn")
	pf.String(config.KeyPassword, "", "password forwarded to svn")
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves flags, SVNINFO_* variables and the config file, then
// builds the shared client.
func loadConfig(cmd *cobra.Command, _ []string) error {
	v := config.New()
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return err
	}

	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = os.Getenv(config.EnvPrefix + "_CONFIG")
	}
	if err := config.ReadFile(v, configPath); err != nil {
		return err
	}

	loaded, err := config.Load(v)
	if err != nil {
		return err
	}
	if err := loaded.ConfigureLogger(logrus.StandardLogger()); err != nil {
		return err
	}

	runner, err := newRunner(loaded)
	if err != nil {
		return err
	}
	cfg = loaded
	client = svn.NewClient(runner, logrus.NewEntry(logrus.StandardLogger()))
	return nil
}

// pathArg returns the working-copy path argument, defaulting to ".".
func pathArg(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return "."
}

// queryContext applies the configured per-call timeout.
func queryContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	if cfg.Timeout > 0 {
		return context.WithTimeout(parent, cfg.Timeout)
	}
	return context.WithCancel(parent)
}

func printError(w io.Writer, err error) {
	fmt.Fprintln(w, red(fmt.Sprintf("Error: %v", err)))
	if hint := hintFor(err); hint != "" {
		fmt.Fprintln(w, yellow("Hint: "+hint))
	}
}

func hintFor(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "svn did not answer in time; raise --timeout or check connectivity to the repository."
	}
	switch svn.KindOf(err) {
	case svn.ToolNotFound:
		return "install the Subversion command-line client or point --svn (SVNINFO_SVN) at it."
	case svn.NotAWorkingCopy:
		return "run the command inside a checkout or pass the checkout's path."
	case svn.FieldNotFound:
		return "this svn client did not report the field; run 'svn info <path>' to see what it prints."
	case svn.ToolExecutionFailed:
		return "run 'svn info <path>' directly to see svn's own error message."
	}
	return ""
}
