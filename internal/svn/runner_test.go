package svn

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFakeSvn writes a shell script standing in for the svn client.
func writeFakeSvn(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake svn scripts need a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "svn")
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("failed to write fake svn: %v", err)
	}
	return path
}

func TestExecRunnerMissingExecutable(t *testing.T) {
	runner, err := NewExecRunner(ExecConfig{Command: "svninfo-go-no-such-binary"})
	require.NoError(t, err)

	_, err = runner.Run(context.Background(), ".", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrToolNotFound))
	assert.Contains(t, err.Error(), "svninfo-go-no-such-binary")
}

func TestExecRunnerPassesArgv(t *testing.T) {
	svn := writeFakeSvn(t, `echo "Args: $*"
echo "Revision: 7"`)
	runner, err := NewExecRunner(ExecConfig{Command: "'" + svn + "' --non-interactive"})
	require.NoError(t, err)

	var args Arguments
	args.Set("username", "alice")
	args.Set("password", "")
	res, err := runner.Run(context.Background(), "wc", args)
	require.NoError(t, err)

	assert.Equal(t, 0, res.ExitCode)
	info := ParseInfo(res.Stdout)
	assert.Equal(t, "--non-interactive info wc --username alice", info.Fields["Args"])
	assert.Equal(t, "7", info.Fields["Revision"])
}

func TestExecRunnerReportsExitCode(t *testing.T) {
	svn := writeFakeSvn(t, `echo "svn: E155007: '$2' is not a working copy" >&2
exit 1`)
	runner, err := NewExecRunner(ExecConfig{Command: "'" + svn + "'"})
	require.NoError(t, err)

	res, err := runner.Run(context.Background(), "/tmp", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.ExitCode)
	assert.Contains(t, res.Stderr, "is not a working copy")
	assert.Empty(t, res.Stdout)

	_, err = NewClient(runner, nil).GetRevisionNumber(context.Background(), "/tmp", Credentials{})
	assert.True(t, IsKind(err, NotAWorkingCopy))
}

func TestExecRunnerDecodesOutput(t *testing.T) {
	svn := writeFakeSvn(t, `printf 'Last Changed Author: Ren\351\n'`)
	runner, err := NewExecRunner(ExecConfig{Command: "'" + svn + "'", Encoding: "windows-1252"})
	require.NoError(t, err)

	author, err := NewClient(runner, nil).GetLastChangedAuthor(context.Background(), "wc", Credentials{})
	require.NoError(t, err)
	assert.Equal(t, "René", author)
}

func TestExecRunnerCancelled(t *testing.T) {
	svn := writeFakeSvn(t, `sleep 5`)
	runner, err := NewExecRunner(ExecConfig{Command: "'" + svn + "'"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = NewClient(runner, nil).GetRevisionNumber(ctx, "wc", Credentials{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestExecRunnerDeadlineKillsChildren(t *testing.T) {
	// sleep runs as a child of the shell and inherits its stdout.
	svn := writeFakeSvn(t, `sleep 4
echo "Revision: 1"`)
	runner, err := NewExecRunner(ExecConfig{Command: "'" + svn + "'"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err = NewClient(runner, nil).GetRevisionNumber(ctx, "wc", Credentials{})
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.True(t, IsKind(err, ToolExecutionFailed))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Less(t, elapsed, 2*time.Second)
}

func TestParseCommand(t *testing.T) {
	argv, err := ParseCommand(`"/opt/Slik SVN/bin/svn" --non-interactive`)
	require.NoError(t, err)
	assert.Equal(t, []string{"/opt/Slik SVN/bin/svn", "--non-interactive"}, argv)

	_, err = ParseCommand("   ")
	assert.Error(t, err)

	_, err = ParseCommand(`svn "unterminated`)
	assert.Error(t, err)
}

func TestNewExecRunnerDefaultsToSvn(t *testing.T) {
	runner, err := NewExecRunner(ExecConfig{})
	require.NoError(t, err)
	assert.Equal(t, []string{DefaultCommand}, runner.Command())
}

func TestLookupEncoding(t *testing.T) {
	enc, err := LookupEncoding("")
	require.NoError(t, err)
	assert.Nil(t, enc)

	enc, err = LookupEncoding("UTF-8")
	require.NoError(t, err)
	assert.Nil(t, enc)

	enc, err = LookupEncoding("latin1")
	require.NoError(t, err)
	assert.NotNil(t, enc)

	_, err = LookupEncoding("klingon-8")
	assert.Error(t, err)
}
