// internal/svn/runner.go

package svn

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/mattn/go-shellwords"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// DefaultCommand is used when no svn command is configured.
const DefaultCommand = "svn"

// waitDelay bounds how long Run waits for output pipes after the context
// ends. Descendants of svn (ssh for svn+ssh://, wrapper scripts) can hold
// them open after the direct child is killed.
const waitDelay = time.Second

// Result is what one svn info invocation produced.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner runs `svn info` for a path and returns the exit status and captured
// text. A non-nil error means no exit status could be obtained at all.
type Runner interface {
	Run(ctx context.Context, path string, args Arguments) (Result, error)
}

// ExecRunner runs the svn client as a child process.
type ExecRunner struct {
	command  []string
	encoding encoding.Encoding
}

// ExecConfig configures an ExecRunner.
type ExecConfig struct {
	// Command is the executable plus any leading arguments, shell-word split,
	// e.g. "svn --non-interactive".
	Command string
	// Encoding names the charset svn writes in. Empty means UTF-8.
	Encoding string
}

// NewExecRunner validates cfg and returns a runner.
func NewExecRunner(cfg ExecConfig) (*ExecRunner, error) {
	raw := cfg.Command
	if strings.TrimSpace(raw) == "" {
		raw = DefaultCommand
	}
	command, err := ParseCommand(raw)
	if err != nil {
		return nil, err
	}
	enc, err := LookupEncoding(cfg.Encoding)
	if err != nil {
		return nil, err
	}
	return &ExecRunner{command: command, encoding: enc}, nil
}

// ParseCommand splits a configured command into argv.
func ParseCommand(raw string) ([]string, error) {
	argv, err := shellwords.Parse(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "parse svn command %q", raw)
	}
	if len(argv) == 0 {
		return nil, errors.New("svn command must contain at least the executable")
	}
	return argv, nil
}

// LookupEncoding resolves a WHATWG encoding label. UTF-8 and the empty
// label resolve to nil, meaning output is used as is.
func LookupEncoding(name string) (encoding.Encoding, error) {
	if strings.TrimSpace(name) == "" {
		return nil, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, errors.Wrapf(err, "unknown output encoding %q", name)
	}
	if canonical, _ := htmlindex.Name(enc); canonical == "utf-8" {
		return nil, nil
	}
	return enc, nil
}

// Command returns the executable and its leading arguments.
func (r *ExecRunner) Command() []string {
	return append([]string(nil), r.command...)
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, path string, args Arguments) (Result, error) {
	argv := append(append([]string(nil), r.command[1:]...), CommandLine(path, args)...)
	cmd := exec.CommandContext(ctx, r.command[0], argv...)
	cmd.WaitDelay = waitDelay
	killProcessGroup(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	res := Result{}
	var err error
	if res.Stdout, err = r.decode(stdout.Bytes()); err != nil {
		return res, err
	}
	if res.Stderr, err = r.decode(stderr.Bytes()); err != nil {
		return res, err
	}

	if runErr == nil {
		return res, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return res, errors.Wrapf(ctxErr, "svn info %s interrupted", path)
	}
	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	return res, &Error{Kind: ToolNotFound, Tool: r.command[0], Path: path, Err: runErr}
}

func (r *ExecRunner) decode(b []byte) (string, error) {
	if r.encoding == nil {
		return string(b), nil
	}
	s, err := r.encoding.NewDecoder().Bytes(b)
	if err != nil {
		return "", errors.Wrap(err, "decode svn output")
	}
	return string(s), nil
}
