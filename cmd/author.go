package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var lastChangedAuthorCmd = &cobra.Command{
	Use:     "last-changed-author [path]",
	Aliases: []string{"author"},
	Short:   "Print the author of the last change to a working copy.",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := lastChangedAuthorValue(cmd, pathArg(args))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lastChangedAuthorCmd)
}

func lastChangedAuthorValue(cmd *cobra.Command, path string) (string, error) {
	ctx, cancel := queryContext(cmd.Context())
	defer cancel()
	return client.GetLastChangedAuthor(ctx, path, cfg.Credentials())
}
