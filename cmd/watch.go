// cmd/watch.go

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/soyuz43/svninfo-go/internal/watch"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Print the revision of a working copy whenever it changes.",
	Long: `Prints the current revision, then watches the working copy's .svn directory and
prints the revision again after every update, commit or switch that changes it. Stop with Ctrl+C.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		debounce, _ := cmd.Flags().GetDuration("debounce")
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runWatch(ctx, cmd, cmd.OutOrStdout(), pathArg(args), debounce)
	},
}

func init() {
	watchCmd.Flags().Duration("debounce", 250*time.Millisecond, "quiet period before re-querying after a change")
	rootCmd.AddCommand(watchCmd)
}

// revisionTracker prints a revision only when it differs from the last one.
type revisionTracker struct {
	out  io.Writer
	last string
}

func (t *revisionTracker) report(value string, err error) {
	if err != nil {
		printError(t.out, err)
		return
	}
	if value == t.last {
		return
	}
	t.last = value
	fmt.Fprintf(t.out, "[%s] %s %s\n", time.Now().Format("2006-01-02 15:04:05"), cyan("Revision:"), green(value))
}

func runWatch(ctx context.Context, cmd *cobra.Command, out io.Writer, path string, debounce time.Duration) error {
	tracker := &revisionTracker{out: out}
	value, err := revisionValue(cmd, path)
	if err != nil {
		return err
	}
	tracker.report(value, nil)

	opts := watch.Options{
		Debounce: debounce,
		Logger:   logrus.NewEntry(logrus.StandardLogger()),
	}
	return watch.WorkingCopy(ctx, path, opts, func() {
		tracker.report(revisionValue(cmd, path))
	})
}
