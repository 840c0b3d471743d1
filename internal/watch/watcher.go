package watch

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/soyuz43/svninfo-go/internal/svn"
)

// AdminDir is the administrative directory at a working copy's root.
const AdminDir = ".svn"

const defaultDebounce = 250 * time.Millisecond

// Options tune WorkingCopy.
type Options struct {
	// Debounce collapses a burst of events into one callback.
	Debounce time.Duration
	Logger   *logrus.Entry
}

// FindAdminDir returns the .svn directory governing path, searching path
// and then its parents.
func FindAdminDir(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, "resolve %s", path)
	}
	for dir := abs; ; {
		candidate := filepath.Join(dir, AdminDir)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", &svn.Error{Kind: svn.NotAWorkingCopy, Path: path}
		}
		dir = parent
	}
}

// WorkingCopy watches the administrative area of the working copy at path
// and calls onChange once per burst of changes (updates, commits, switches
// all rewrite it). It blocks until ctx is done.
func WorkingCopy(ctx context.Context, path string, opts Options, onChange func()) error {
	if opts.Debounce <= 0 {
		opts.Debounce = defaultDebounce
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	logger = logger.WithField("component", "watch")

	adminDir, err := FindAdminDir(path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create watcher")
	}
	defer watcher.Close()

	if err := watcher.Add(adminDir); err != nil {
		return errors.Wrapf(err, "watch %s", adminDir)
	}
	logger.WithField("dir", adminDir).Debug("watching working copy")

	timer := time.NewTimer(opts.Debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				logger.WithField("file", event.Name).Debug("detected change")
				timer.Reset(opts.Debounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.WithError(err).Warn("watcher error")
		case <-timer.C:
			onChange()
		}
	}
}
