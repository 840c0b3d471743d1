// cmd/show.go

package cmd

import (
	"fmt"
	"io"

	"github.com/soyuz43/svninfo-go/internal/utils"
	"github.com/soyuz43/svninfo-go/internal/utils/colorutils"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// summary is the combined answer of the four queries.
type summary struct {
	Path              string `json:"path"`
	Revision          int    `json:"revision"`
	RepositoryRoot    string `json:"repository_root"`
	RepositoryURL     string `json:"repository_url"`
	LastChangedAuthor string `json:"last_changed_author"`
}

var showCmd = &cobra.Command{
	Use:   "show [path]",
	Short: "Print revision, repository root, URL and last-changed author together.",
	Long:  `Runs the four queries concurrently, one svn process each, and prints them as a table or, with --json, as JSON.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		return runShow(cmd, cmd.OutOrStdout(), pathArg(args), asJSON)
	},
}

func init() {
	showCmd.Flags().Bool("json", false, "print JSON instead of a table")
	rootCmd.AddCommand(showCmd)
}

func collectSummary(cmd *cobra.Command, path string) (summary, error) {
	ctx, cancel := queryContext(cmd.Context())
	defer cancel()

	s := summary{Path: path}
	creds := cfg.Credentials()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rev, err := client.GetRevisionNumber(ctx, path, creds)
		s.Revision = rev
		return err
	})
	g.Go(func() error {
		root, err := client.GetRepositoryRoot(ctx, path, creds)
		s.RepositoryRoot = root
		return err
	})
	g.Go(func() error {
		url, err := client.GetRepositoryURL(ctx, path, creds)
		s.RepositoryURL = url
		return err
	})
	g.Go(func() error {
		author, err := client.GetLastChangedAuthor(ctx, path, creds)
		s.LastChangedAuthor = author
		return err
	})
	if err := g.Wait(); err != nil {
		return summary{}, err
	}
	return s, nil
}

func runShow(cmd *cobra.Command, out io.Writer, path string, asJSON bool) error {
	s, err := collectSummary(cmd, path)
	if err != nil {
		return err
	}
	if asJSON {
		return utils.WriteJSON(out, s)
	}
	fmt.Fprintf(out, "%s %s\n", label("Path:"), s.Path)
	fmt.Fprintf(out, "%s %s\n", label("Revision:"), green(s.Revision))
	fmt.Fprintf(out, "%s %s\n", label("Repository Root:"), s.RepositoryRoot)
	fmt.Fprintf(out, "%s %s\n", label("URL:"), s.RepositoryURL)
	fmt.Fprintf(out, "%s %s\n", label("Last Changed Author:"), s.LastChangedAuthor)
	return nil
}

func label(name string) string {
	return colorutils.Label(name, 20)
}
