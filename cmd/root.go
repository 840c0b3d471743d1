package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// runRootCommand enters the interactive session when no sub-command is given.
func runRootCommand(cmd *cobra.Command, args []string) error {
	runInteractiveSession(cmd, cmd.InOrStdin(), cmd.OutOrStdout())
	return nil
}

func runInteractiveSession(cmd *cobra.Command, in io.Reader, out io.Writer) {
	fmt.Fprintln(out, cyan("[svninfo-go] Interactive mode. Paths default to the current directory."))
	printInteractiveHelp(out)

	reader := bufio.NewReader(in)
	for {
		fmt.Fprintf(out, "\n%s ", cyan(">"))
		input, err := reader.ReadString('\n')
		if err != nil && input == "" {
			// EOF ends the session like "exit".
			fmt.Fprintln(out)
			return
		}

		parts := strings.Fields(strings.TrimSpace(input))
		if len(parts) == 0 {
			continue
		}

		command := strings.ToLower(parts[0])
		path := pathArg(parts[1:])

		switch command {
		case "revision", "rev", "r":
			interactiveQuery(out, func() (string, error) { return revisionValue(cmd, path) })
		case "root":
			interactiveQuery(out, func() (string, error) { return repositoryRootValue(cmd, path) })
		case "url", "u":
			interactiveQuery(out, func() (string, error) { return repositoryURLValue(cmd, path) })
		case "author", "a":
			interactiveQuery(out, func() (string, error) { return lastChangedAuthorValue(cmd, path) })
		case "show", "s":
			if err := runShow(cmd, out, path, false); err != nil {
				printError(out, err)
			}
		case "help", "h":
			printInteractiveHelp(out)
		case "exit", "e", "quit", "q":
			fmt.Fprintln(out, cyan("Exiting..."))
			return
		default:
			fmt.Fprintln(out, red("Unknown command. Type 'help' for available commands."))
		}
	}
}

func interactiveQuery(out io.Writer, query func() (string, error)) {
	value, err := query()
	if err != nil {
		printError(out, err)
		return
	}
	fmt.Fprintln(out, green(value))
}

func printInteractiveHelp(out io.Writer) {
	fmt.Fprintln(out, bold("\nAvailable Commands:"))
	fmt.Fprintf(out, "   %s    - %s\n", green("revision [path]"), "Revision number of the working copy")
	fmt.Fprintf(out, "   %s        - %s\n", green("root [path]"), "Repository root URL")
	fmt.Fprintf(out, "   %s         - %s\n", green("url [path]"), "URL the working copy is checked out from")
	fmt.Fprintf(out, "   %s      - %s\n", green("author [path]"), "Author of the last change")
	fmt.Fprintf(out, "   %s        - %s\n", green("show [path]"), "All of the above")
	fmt.Fprintf(out, "   %s               - %s\n", green("help"), "Show this help information")
	fmt.Fprintf(out, "   %s               - %s\n", green("exit"), "Exit the tool")
}
