package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/soyuz43/svninfo-go/internal/config"
	"github.com/soyuz43/svninfo-go/internal/svn"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullInfo = `Path: .
URL: https://example.org/svn/proj/trunk
Repository Root: https://example.org/svn/proj
Revision: 4217
Last Changed Author: alice
`

// cannedRunner stands in for svn and records the argv it was given.
type cannedRunner struct {
	mu     sync.Mutex
	result svn.Result
	argv   [][]string
}

func (r *cannedRunner) Run(_ context.Context, path string, args svn.Arguments) (svn.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.argv = append(r.argv, svn.CommandLine(path, args))
	return r.result, nil
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func runCLI(t *testing.T, runner svn.Runner, stdin string, args ...string) (string, error) {
	t.Helper()
	previous := newRunner
	newRunner = func(config.Config) (svn.Runner, error) { return runner, nil }
	t.Cleanup(func() {
		newRunner = previous
		resetFlags(rootCmd)
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	if args == nil {
		// A nil slice makes cobra fall back to os.Args.
		args = []string{}
	}
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRevisionCommand(t *testing.T) {
	runner := &cannedRunner{result: svn.Result{Stdout: fullInfo}}

	out, err := runCLI(t, runner, "", "revision", "wc")
	require.NoError(t, err)
	assert.Equal(t, "4217\n", out)
	assert.Equal(t, [][]string{{"info", "wc"}}, runner.argv)
}

func TestStringCommands(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"repository-root"}, "https://example.org/svn/proj\n"},
		{[]string{"repository-url"}, "https://example.org/svn/proj/trunk\n"},
		{[]string{"last-changed-author"}, "alice\n"},
		{[]string{"author", "."}, "alice\n"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			out, err := runCLI(t, &cannedRunner{result: svn.Result{Stdout: fullInfo}}, "", tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestCredentialsFlagsAreForwarded(t *testing.T) {
	runner := &cannedRunner{result: svn.Result{Stdout: fullInfo}}

	_, err := runCLI(t, runner, "", "--username", "alice", "repository-url", "wc")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"info", "wc", "--username", "alice"}}, runner.argv)
}

func TestShowJSON(t *testing.T) {
	runner := &cannedRunner{result: svn.Result{Stdout: fullInfo}}

	out, err := runCLI(t, runner, "", "show", "--json", "wc")
	require.NoError(t, err)

	var got summary
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, summary{
		Path:              "wc",
		Revision:          4217,
		RepositoryRoot:    "https://example.org/svn/proj",
		RepositoryURL:     "https://example.org/svn/proj/trunk",
		LastChangedAuthor: "alice",
	}, got)
	// One svn process per field.
	assert.Len(t, runner.argv, 4)
}

func TestShowTable(t *testing.T) {
	out, err := runCLI(t, &cannedRunner{result: svn.Result{Stdout: fullInfo}}, "", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Revision:")
	assert.Contains(t, out, "4217")
	assert.Contains(t, out, "https://example.org/svn/proj/trunk")
}

func TestNotAWorkingCopyError(t *testing.T) {
	runner := &cannedRunner{result: svn.Result{ExitCode: 1, Stderr: "svn: E155007: '/tmp' is not a working copy"}}

	_, err := runCLI(t, runner, "", "revision", "/tmp")
	require.Error(t, err)
	assert.True(t, svn.IsKind(err, svn.NotAWorkingCopy))

	var buf bytes.Buffer
	printError(&buf, err)
	assert.Contains(t, buf.String(), "not a working copy")
	assert.Contains(t, buf.String(), "Hint: run the command inside a checkout")
}

func TestMissingFieldError(t *testing.T) {
	_, err := runCLI(t, &cannedRunner{result: svn.Result{Stdout: "URL: x\n"}}, "", "revision")
	assert.True(t, svn.IsKind(err, svn.FieldNotFound))
}

func TestInvalidConfigIsRejected(t *testing.T) {
	_, err := runCLI(t, &cannedRunner{}, "", "--log-level", "chatty", "revision")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log-level")
}

func TestInteractiveSession(t *testing.T) {
	runner := &cannedRunner{result: svn.Result{Stdout: fullInfo}}
	stdin := "revision\nurl wc\n\nbogus\nauthor\nexit\nrevision\n"

	out, err := runCLI(t, runner, stdin)
	require.NoError(t, err)
	assert.Contains(t, out, "Available Commands")
	assert.Contains(t, out, "4217")
	assert.Contains(t, out, "https://example.org/svn/proj/trunk")
	assert.Contains(t, out, "Unknown command")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "Exiting...")
	// The revision after exit never runs.
	assert.Len(t, runner.argv, 3)
	assert.Equal(t, []string{"info", "wc"}, runner.argv[1])
}

func TestInteractiveSessionEndsOnEOF(t *testing.T) {
	_, err := runCLI(t, &cannedRunner{result: svn.Result{Stdout: fullInfo}}, "revision")
	assert.NoError(t, err)
}

func TestRevisionTrackerPrintsOnlyChanges(t *testing.T) {
	var buf bytes.Buffer
	tracker := &revisionTracker{out: &buf}

	tracker.report("10", nil)
	tracker.report("10", nil)
	tracker.report("11", nil)

	assert.Equal(t, 2, strings.Count(buf.String(), "Revision:"))
	assert.Contains(t, buf.String(), "11")
}
