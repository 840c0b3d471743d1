package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/soyuz43/svninfo-go/internal/svn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWorkingCopy(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, AdminDir), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "trunk", "src"), 0o755))
	return root
}

func TestFindAdminDirFromSubdirectory(t *testing.T) {
	root := newWorkingCopy(t)

	dir, err := FindAdminDir(filepath.Join(root, "trunk", "src"))
	require.NoError(t, err)

	want, err := filepath.Abs(filepath.Join(root, AdminDir))
	require.NoError(t, err)
	assert.Equal(t, want, dir)
}

func TestFindAdminDirOutsideWorkingCopy(t *testing.T) {
	_, err := FindAdminDir(t.TempDir())
	assert.True(t, svn.IsKind(err, svn.NotAWorkingCopy))
}

func TestWorkingCopyReportsChanges(t *testing.T) {
	root := newWorkingCopy(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- WorkingCopy(ctx, root, Options{Debounce: 50 * time.Millisecond}, func() { calls.Add(1) })
	}()

	// Give the watcher time to register before touching the directory.
	time.Sleep(200 * time.Millisecond)
	wcdb := filepath.Join(root, AdminDir, "wc.db")
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(wcdb, []byte{byte(i)}, 0o644))
	}

	require.Eventually(t, func() bool { return calls.Load() >= 1 }, 3*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}

func TestWorkingCopyRejectsPlainDirectory(t *testing.T) {
	err := WorkingCopy(context.Background(), t.TempDir(), Options{}, func() {})
	assert.True(t, svn.IsKind(err, svn.NotAWorkingCopy))
}
