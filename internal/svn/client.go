// internal/svn/client.go

package svn

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// notWorkingCopyMarkers identify svn's "not a working copy" failure
// (E155007). svn prints it on stderr; some wrappers fold it into stdout.
var notWorkingCopyMarkers = []string{"is not a working copy", "E155007"}

// Client answers working-copy metadata queries. It holds no mutable state
// and is safe for concurrent use; every call spawns its own process.
type Client struct {
	runner Runner
	logger *logrus.Entry
}

// NewClient returns a Client using runner. A nil logger logs through the
// logrus standard logger.
func NewClient(runner Runner, logger *logrus.Entry) *Client {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Client{
		runner: runner,
		logger: logger.WithField("component", "svn"),
	}
}

// QueryInfo runs svn info for path and parses its report.
func (c *Client) QueryInfo(ctx context.Context, path string, args Arguments) (Info, error) {
	log := c.logger.WithField("path", path)
	if user, ok := args.Get("username"); ok && user != "" {
		log = log.WithField("username", user)
	}
	if strings.TrimSpace(path) == "" {
		return Info{}, &Error{Kind: ToolExecutionFailed, Err: errors.New("empty working copy path")}
	}

	log.WithField("args", args.Redacted()).Debug("running svn info")
	res, err := c.runner.Run(ctx, path, args)
	if err != nil {
		var svnErr *Error
		if errors.As(err, &svnErr) {
			log.WithError(err).Warn("svn info could not be started")
			return Info{}, err
		}
		log.WithError(err).Warn("svn info did not complete")
		return Info{}, &Error{Kind: ToolExecutionFailed, Path: path, Output: res.Stdout, Err: err}
	}

	if res.ExitCode != 0 {
		log = log.WithField("exit_code", res.ExitCode)
		if isNotWorkingCopy(res) {
			log.Info("path is not a working copy")
			return Info{}, &Error{Kind: NotAWorkingCopy, Path: path, ExitCode: res.ExitCode, Output: res.Stdout}
		}
		log.WithField("stderr", strings.TrimSpace(res.Stderr)).Warn("svn info failed")
		return Info{}, &Error{Kind: ToolExecutionFailed, Path: path, ExitCode: res.ExitCode, Output: res.Stdout}
	}

	info := ParseInfo(res.Stdout)
	log.WithField("fields", len(info.Fields)).Debug("parsed svn info")
	return info, nil
}

func isNotWorkingCopy(res Result) bool {
	for _, marker := range notWorkingCopyMarkers {
		if strings.Contains(res.Stdout, marker) || strings.Contains(res.Stderr, marker) {
			return true
		}
	}
	return false
}

// GetField returns one field of the info report for path.
func (c *Client) GetField(ctx context.Context, path, field string, creds Credentials) (string, error) {
	info, err := c.QueryInfo(ctx, path, creds.Arguments())
	if err != nil {
		return "", err
	}
	v, err := info.Field(field)
	return v, withPath(err, path)
}

// GetRevisionNumber returns the revision of the working copy at path.
func (c *Client) GetRevisionNumber(ctx context.Context, path string, creds Credentials) (int, error) {
	info, err := c.QueryInfo(ctx, path, creds.Arguments())
	if err != nil {
		return 0, err
	}
	n, err := info.Int(FieldRevision)
	return n, withPath(err, path)
}

// GetRepositoryRoot returns the root URL of the repository path belongs to.
func (c *Client) GetRepositoryRoot(ctx context.Context, path string, creds Credentials) (string, error) {
	return c.GetField(ctx, path, FieldRepositoryRoot, creds)
}

// GetRepositoryURL returns the URL path is checked out from.
func (c *Client) GetRepositoryURL(ctx context.Context, path string, creds Credentials) (string, error) {
	return c.GetField(ctx, path, FieldURL, creds)
}

// GetLastChangedAuthor returns the author of the last change at path.
func (c *Client) GetLastChangedAuthor(ctx context.Context, path string, creds Credentials) (string, error) {
	return c.GetField(ctx, path, FieldLastChangedAuthor, creds)
}

func withPath(err error, path string) error {
	var svnErr *Error
	if errors.As(err, &svnErr) && svnErr.Path == "" {
		svnErr.Path = path
	}
	return err
}
