// cmd/repository.go

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var repositoryRootCmd = &cobra.Command{
	Use:   "repository-root [path]",
	Short: "Print the repository root URL of a working copy.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := repositoryRootValue(cmd, pathArg(args))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	},
}

var repositoryURLCmd = &cobra.Command{
	Use:   "repository-url [path]",
	Short: "Print the URL a working copy is checked out from.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := repositoryURLValue(cmd, pathArg(args))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(repositoryRootCmd)
	rootCmd.AddCommand(repositoryURLCmd)
}

func repositoryRootValue(cmd *cobra.Command, path string) (string, error) {
	ctx, cancel := queryContext(cmd.Context())
	defer cancel()
	return client.GetRepositoryRoot(ctx, path, cfg.Credentials())
}

func repositoryURLValue(cmd *cobra.Command, path string) (string, error) {
	ctx, cancel := queryContext(cmd.Context())
	defer cancel()
	return client.GetRepositoryURL(ctx, path, cfg.Credentials())
}
