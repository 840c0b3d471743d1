// cmd/revision.go

package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var revisionCmd = &cobra.Command{
	Use:   "revision [path]",
	Short: "Print the revision number of a working copy.",
	Long:  `Runs 'svn info' on the working copy (default: current directory) and prints its Revision field as an integer.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := revisionValue(cmd, pathArg(args))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(revisionCmd)
}

func revisionValue(cmd *cobra.Command, path string) (string, error) {
	ctx, cancel := queryContext(cmd.Context())
	defer cancel()

	rev, err := client.GetRevisionNumber(ctx, path, cfg.Credentials())
	if err != nil {
		return "", err
	}
	return strconv.Itoa(rev), nil
}
