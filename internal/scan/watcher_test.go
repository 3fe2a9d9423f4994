package scan

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Watcher:
// - NewWatcher binds to the scanner root with the default debounce interval
// - File creation is picked up and written to the store
// - File deletion removes the stored record
// - Rapid changes are debounced into a single rescan batch
// - Ignored directories and non-code files do not reach the store
// - Stop is idempotent and does not deadlock after Start

func TestNewWatcher_Success(t *testing.T) {
	t.Parallel()

	rootDir := t.TempDir()
	scanner := newTestScanner(t, rootDir)

	watcher, err := NewWatcher(scanner)
	require.NoError(t, err)
	require.NotNil(t, watcher)
	// Start was never called, so Stop would block on the watch goroutine.
	defer watcher.watcher.Close()

	assert.Equal(t, rootDir, watcher.rootDir)
	assert.Equal(t, 500*time.Millisecond, watcher.debounceTime)
}

func TestWatcher_FileCreation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rootDir := t.TempDir()
	scanner := newTestScanner(t, rootDir)

	_, err := scanner.Scan(ctx)
	require.NoError(t, err)

	watcher, err := NewWatcher(scanner)
	require.NoError(t, err)
	defer watcher.Stop()

	watcher.Start(ctx)

	// Wait a bit for watcher to initialize
	time.Sleep(100 * time.Millisecond)

	writeTestFile(t, filepath.Join(rootDir, "new.py"), "def created():\n    pass\n")

	// Wait for debounce + processing
	time.Sleep(1 * time.Second)

	rec, err := scanner.Store().File("new.py")
	require.NoError(t, err)
	require.NotNil(t, rec, "new file should be stored after the watcher rescan")

	entries, err := scanner.Store().Entries("new.py")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "created", entries[0].Name)
}

func TestWatcher_FileDeletion(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rootDir := t.TempDir()
	target := filepath.Join(rootDir, "doomed.py")
	writeTestFile(t, target, "x = 1\n")

	scanner := newTestScanner(t, rootDir)

	_, err := scanner.Scan(ctx)
	require.NoError(t, err)

	watcher, err := NewWatcher(scanner)
	require.NoError(t, err)
	defer watcher.Stop()

	watcher.Start(ctx)
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.Remove(target))

	time.Sleep(1 * time.Second)

	rec, err := scanner.Store().File("doomed.py")
	require.NoError(t, err)
	assert.Nil(t, rec, "deleted file should be removed from the store")
}

func TestWatcher_DebouncesRapidChanges(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rootDir := t.TempDir()
	scanner := newTestScanner(t, rootDir)

	_, err := scanner.Scan(ctx)
	require.NoError(t, err)

	watcher, err := NewWatcher(scanner)
	require.NoError(t, err)
	defer watcher.Stop()

	watcher.Start(ctx)
	time.Sleep(100 * time.Millisecond)

	// Bursts inside the debounce window end up in one batch
	for i, name := range []string{"one.py", "two.py", "three.py"} {
		writeTestFile(t, filepath.Join(rootDir, name), "x = 1\n")
		if i < 2 {
			time.Sleep(50 * time.Millisecond) // Less than debounce time
		}
	}

	time.Sleep(1 * time.Second)

	stats, err := scanner.Store().Stats()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Files)
}

func TestWatcher_IgnoresIrrelevantFiles(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rootDir := t.TempDir()
	// Exists before the watcher starts, so it is excluded from the watch set
	require.NoError(t, os.MkdirAll(filepath.Join(rootDir, ".venv"), 0o755))

	scanner := newTestScanner(t, rootDir)

	_, err := scanner.Scan(ctx)
	require.NoError(t, err)

	watcher, err := NewWatcher(scanner)
	require.NoError(t, err)
	defer watcher.Stop()

	watcher.Start(ctx)
	time.Sleep(100 * time.Millisecond)

	writeTestFile(t, filepath.Join(rootDir, ".venv", "site.py"), "x = 1\n")
	writeTestFile(t, filepath.Join(rootDir, "notes.md"), "# notes\n")

	time.Sleep(1 * time.Second)

	stats, err := scanner.Store().Stats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Files)
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	t.Parallel()

	rootDir := t.TempDir()
	scanner := newTestScanner(t, rootDir)

	watcher, err := NewWatcher(scanner)
	require.NoError(t, err)

	watcher.Start(context.Background())
	time.Sleep(50 * time.Millisecond)

	watcher.Stop()
	watcher.Stop()
}
