package scan

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches the scan root for file changes and rescans the affected
// files after a debounce interval.
type Watcher struct {
	scanner      *Scanner
	rootDir      string
	watcher      *fsnotify.Watcher
	debounceTime time.Duration
	stopCh       chan struct{}
	doneCh       chan struct{}
	stopOnce     sync.Once
}

// NewWatcher creates a file watcher bound to the scanner's root directory.
func NewWatcher(scanner *Scanner) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		scanner:      scanner,
		rootDir:      scanner.rootDir,
		watcher:      watcher,
		debounceTime: 500 * time.Millisecond,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}

	// Add directories to watcher recursively
	if err := w.addDirectoriesRecursively(scanner.rootDir); err != nil {
		watcher.Close()
		return nil, err
	}

	return w, nil
}

// Start begins watching for file changes.
func (w *Watcher) Start(ctx context.Context) {
	go w.watch(ctx)
}

// Stop stops the file watcher.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		<-w.doneCh // Wait for goroutine to finish
		w.watcher.Close()
	})
}

// watch is the main event loop with debouncing logic.
func (w *Watcher) watch(ctx context.Context) {
	defer close(w.doneCh)

	var debounceTimer *time.Timer
	rescanCh := make(chan struct{}, 1)
	changedFiles := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case <-w.stopCh:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			// Filter events - only process relevant file operations
			if !w.shouldProcessEvent(event) {
				continue
			}

			relPath, _ := filepath.Rel(w.rootDir, event.Name)
			changedFiles[filepath.ToSlash(relPath)] = true

			// Handle new directories - add them to watcher
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if w.shouldWatchDirectory(event.Name) {
						if err := w.addDirectoriesRecursively(event.Name); err != nil {
							log.Printf("Warning: failed to watch new directory %s: %v", event.Name, err)
						}
					}
				}
			}

			// Reset debounce timer - properly stop and drain
			if debounceTimer != nil {
				if !debounceTimer.Stop() {
					// Timer already fired, drain the channel
					select {
					case <-debounceTimer.C:
					default:
					}
				}
			}

			// Create new timer that will trigger the rescan
			debounceTimer = time.AfterFunc(w.debounceTime, func() {
				// Send rescan signal (non-blocking)
				select {
				case rescanCh <- struct{}{}:
				default:
				}
			})

		case <-rescanCh:
			w.rescan(ctx, changedFiles)
			// Clear changed files map for next batch
			changedFiles = make(map[string]bool)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("File watcher error: %v", err)
		}
	}
}

// rescan brings the store up to date for the batch of changed files.
func (w *Watcher) rescan(ctx context.Context, changedFiles map[string]bool) {
	if len(changedFiles) == 0 {
		return
	}

	log.Printf("Rescanning %d changed file(s)...", len(changedFiles))
	start := time.Now()

	for relPath := range changedFiles {
		if err := w.scanner.ScanFile(ctx, relPath); err != nil {
			log.Printf("Error rescanning %s: %v", relPath, err)
		}
	}

	log.Printf("Rescan complete in %v", time.Since(start))
}

// shouldProcessEvent checks if an event should trigger a rescan.
func (w *Watcher) shouldProcessEvent(event fsnotify.Event) bool {
	// Only care about WRITE, CREATE, REMOVE and RENAME events
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}

	relPath, err := filepath.Rel(w.rootDir, event.Name)
	if err != nil {
		return false
	}

	// Normalize path separators for glob matching
	relPath = filepath.ToSlash(relPath)

	if w.scanner.discovery.shouldIgnore(relPath) {
		return false
	}

	// Directories pass through so new ones get added to the watch set
	if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
		return event.Op&fsnotify.Create != 0
	}

	return w.scanner.discovery.matchesAnyPattern(relPath, w.scanner.discovery.codePatterns)
}

// shouldWatchDirectory checks if a directory should be watched.
func (w *Watcher) shouldWatchDirectory(path string) bool {
	relPath, err := filepath.Rel(w.rootDir, path)
	if err != nil {
		return false
	}

	relPath = filepath.ToSlash(relPath)

	return !w.scanner.discovery.shouldIgnore(relPath)
}

// addDirectoriesRecursively adds all directories in the tree to the watcher.
func (w *Watcher) addDirectoriesRecursively(rootPath string) error {
	return filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			// Log but continue - don't fail the entire watch for one directory
			log.Printf("Warning: error accessing %s: %v", path, err)
			return nil
		}

		if !info.IsDir() {
			return nil
		}

		if !w.shouldWatchDirectory(path) {
			return filepath.SkipDir
		}

		if err := w.watcher.Add(path); err != nil {
			log.Printf("Warning: failed to watch directory %s: %v", path, err)
			return nil // Continue anyway
		}

		return nil
	})
}
