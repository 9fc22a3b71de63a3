package notify

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docsync/internal/core/domain"
)

// --- Test helpers ---

func newTestWatcher(t *testing.T) *Watcher {
	t.Helper()
	w, err := New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })
	return w
}

// received pops one already-delivered change without waiting.
func received(w *Watcher) (domain.FileChange, bool) {
	select {
	case change := <-w.Events():
		return change, true
	default:
		return domain.FileChange{}, false
	}
}

// waitFor pumps delivered changes until one matches.
func waitFor(t *testing.T, w *Watcher, match func(domain.FileChange) bool) domain.FileChange {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case change, ok := <-w.Events():
			require.True(t, ok, "events channel closed while waiting")
			if match(change) {
				return change
			}
		case <-deadline:
			t.Fatal("expected change was not delivered")
		}
	}
}

func changeAt(path string, changeType domain.ChangeType) func(domain.FileChange) bool {
	return func(c domain.FileChange) bool {
		return c.Path == path && c.Type == changeType
	}
}

// --- Tests ---

func TestWatcher_Handle_TranslatesOps(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "note.md")
	require.NoError(t, os.WriteFile(file, []byte("# Note"), 0o644))

	tests := []struct {
		name     string
		op       fsnotify.Op
		expected domain.ChangeType
		dropped  bool
	}{
		{name: "create", op: fsnotify.Create, expected: domain.ChangeCreated},
		{name: "write", op: fsnotify.Write, expected: domain.ChangeModified},
		{name: "remove", op: fsnotify.Remove, expected: domain.ChangeDeleted},
		{name: "rename reports vacated name", op: fsnotify.Rename, expected: domain.ChangeRenamed},
		{name: "chmod dropped", op: fsnotify.Chmod, dropped: true},
		{name: "write with chmod", op: fsnotify.Write | fsnotify.Chmod, expected: domain.ChangeModified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWatcher(t)

			w.handle(fsnotify.Event{Name: file, Op: tt.op})

			change, ok := received(w)
			if tt.dropped {
				assert.False(t, ok, "expected no change")
				return
			}
			require.True(t, ok, "expected a change")
			assert.Equal(t, tt.expected, change.Type)
			assert.Equal(t, file, change.Path)
			assert.False(t, change.At.IsZero())
		})
	}
}

func TestWatcher_Handle_SkipsHiddenPaths(t *testing.T) {
	dir := t.TempDir()
	hidden := filepath.Join(dir, ".secret.md")
	require.NoError(t, os.WriteFile(hidden, []byte("x"), 0o644))
	w := newTestWatcher(t)

	w.handle(fsnotify.Event{Name: hidden, Op: fsnotify.Create})
	w.handle(fsnotify.Event{Name: filepath.Join(dir, ".git", "HEAD"), Op: fsnotify.Write})

	_, ok := received(w)
	assert.False(t, ok)
}

func TestWatcher_Handle_DirectoryCreateIsNotAChange(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "guides")
	require.NoError(t, os.Mkdir(sub, 0o755))
	w := newTestWatcher(t)

	w.handle(fsnotify.Event{Name: sub, Op: fsnotify.Create})

	_, ok := received(w)
	assert.False(t, ok)
}

func TestWatcher_Handle_NewDirectoryAnnouncesExistingFiles(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "imported")
	require.NoError(t, os.Mkdir(sub, 0o755))
	nested := filepath.Join(sub, "note.md")
	require.NoError(t, os.WriteFile(nested, []byte("# Note"), 0o644))
	w := newTestWatcher(t)

	// A directory moved into the root carries files that never produced
	// their own events.
	w.handle(fsnotify.Event{Name: sub, Op: fsnotify.Create})

	change, ok := received(w)
	require.True(t, ok)
	assert.Equal(t, domain.ChangeCreated, change.Type)
	assert.Equal(t, nested, change.Path)
}

func TestWatcher_Watch_DeliversFileEvents(t *testing.T) {
	dir := t.TempDir()
	w := newTestWatcher(t)
	require.NoError(t, w.Watch(dir))

	file := filepath.Join(dir, "note.md")
	require.NoError(t, os.WriteFile(file, []byte("# Note"), 0o644))
	waitFor(t, w, changeAt(file, domain.ChangeCreated))

	require.NoError(t, os.WriteFile(file, []byte("# Note edited"), 0o644))
	waitFor(t, w, changeAt(file, domain.ChangeModified))

	require.NoError(t, os.Remove(file))
	waitFor(t, w, changeAt(file, domain.ChangeDeleted))
}

func TestWatcher_Watch_RootInsideHiddenDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".vault", "docs")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	w := newTestWatcher(t)
	require.NoError(t, w.Watch(dir))

	// Only components below the root count as hidden.
	file := filepath.Join(dir, "note.md")
	require.NoError(t, os.WriteFile(file, []byte("# Note"), 0o644))

	waitFor(t, w, changeAt(file, domain.ChangeCreated))
}

func TestWatcher_Watch_PicksUpNewSubdirectories(t *testing.T) {
	dir := t.TempDir()
	w := newTestWatcher(t)
	require.NoError(t, w.Watch(dir))

	sub := filepath.Join(dir, "guides")
	require.NoError(t, os.Mkdir(sub, 0o755))
	time.Sleep(100 * time.Millisecond)

	nested := filepath.Join(sub, "setup.md")
	require.NoError(t, os.WriteFile(nested, []byte("# Setup"), 0o644))

	waitFor(t, w, changeAt(nested, domain.ChangeCreated))
}

func TestWatcher_Watch_RenameReportsBothNames(t *testing.T) {
	dir := t.TempDir()
	oldPath := filepath.Join(dir, "old.md")
	require.NoError(t, os.WriteFile(oldPath, []byte("# Old"), 0o644))
	w := newTestWatcher(t)
	require.NoError(t, w.Watch(dir))

	newPath := filepath.Join(dir, "new.md")
	require.NoError(t, os.Rename(oldPath, newPath))

	waitFor(t, w, changeAt(oldPath, domain.ChangeRenamed))
	waitFor(t, w, changeAt(newPath, domain.ChangeCreated))
}

func TestWatcher_Close_ClosesEventsChannel(t *testing.T) {
	dir := t.TempDir()
	w, err := New()
	require.NoError(t, err)
	require.NoError(t, w.Watch(dir))

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	select {
	case _, ok := <-w.Events():
		assert.False(t, ok, "events channel should be closed")
	case <-time.After(2 * time.Second):
		t.Fatal("events channel did not close")
	}
}

func TestIsHidden(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{".hidden", true},
		{"path/to/.hidden", true},
		{"/home/user/.ssh/id_rsa", true},
		{"dir/.git/config", true},
		{"file.txt", false},
		{"path/to/file.txt", false},
		{".", false},
		{"..", false},
		{"path/./file", false},
		{"path/../file", false},
		{"", false},
		{"file.hidden", false},
		{"directory.name/file", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, isHidden(tt.path))
		})
	}
}
