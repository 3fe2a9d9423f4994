// Package scan walks a project tree, extracts the code structure of every
// Python source file, and persists the results to a SQLite database. Scans
// are incremental: unchanged files are detected by mtime and content hash
// and skipped.
package scan

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/maypok86/otter"

	"github.com/caretml/caret/internal/analyzer"
)

// DefaultCacheSize bounds the in-memory summary cache when Options.CacheSize
// is not set.
const DefaultCacheSize = 1024

// Options configures a Scanner.
type Options struct {
	RootDir   string
	DBPath    string   // SQLite database location
	Code      []string // glob patterns selecting source files
	Ignore    []string // glob patterns to skip
	CacheSize int      // entries held by the in-memory summary cache
	Progress  ProgressReporter
}

// ScanStats reports what a scan pass did.
type ScanStats struct {
	FilesScanned   int // analyzed and written this pass
	FilesUnchanged int
	FilesDeleted   int
	ParseFailures  int // scanned files whose source failed to parse
	CacheHits      int // summaries served from the in-memory cache
	Duration       time.Duration
}

// Scanner coordinates discovery, structure extraction and storage.
type Scanner struct {
	rootDir   string
	discovery *Discovery
	store     *Store
	analyzer  *analyzer.Analyzer
	cache     otter.Cache[string, *analyzer.StructureSummary]
	progress  ProgressReporter
}

// NewScanner creates a scanner rooted at opts.RootDir, opening (or creating)
// the database at opts.DBPath.
func NewScanner(opts Options) (*Scanner, error) {
	discovery, err := NewDiscovery(opts.RootDir, opts.Code, opts.Ignore)
	if err != nil {
		return nil, err
	}

	store, err := OpenStore(opts.DBPath)
	if err != nil {
		return nil, err
	}

	cacheSize := opts.CacheSize
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := otter.MustBuilder[string, *analyzer.StructureSummary](cacheSize).Build()
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to build summary cache: %w", err)
	}

	progress := opts.Progress
	if progress == nil {
		progress = &NoOpProgressReporter{}
	}

	return &Scanner{
		rootDir:   opts.RootDir,
		discovery: discovery,
		store:     store,
		analyzer:  analyzer.New(),
		cache:     cache,
		progress:  progress,
	}, nil
}

// Store exposes the underlying store for read access.
func (s *Scanner) Store() *Store {
	return s.store
}

// Close releases the summary cache and the database.
func (s *Scanner) Close() error {
	s.cache.Close()
	return s.store.Close()
}

// Scan walks the tree, writes added and modified files, and removes stored
// files that no longer exist on disk.
func (s *Scanner) Scan(ctx context.Context) (*ScanStats, error) {
	start := time.Now()
	stats := &ScanStats{}

	s.progress.OnDiscoveryStart()
	files, err := s.discovery.Files()
	if err != nil {
		return nil, fmt.Errorf("file discovery failed: %w", err)
	}
	s.progress.OnDiscoveryComplete(len(files))

	stored, err := s.store.Files()
	if err != nil {
		return nil, err
	}

	s.progress.OnFileProcessingStart(len(files))

	seen := make(map[string]bool, len(files))
	for _, relPath := range files {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		seen[relPath] = true

		if err := s.scanOne(relPath, stored[relPath], stats); err != nil {
			// A file vanishing mid-scan is not fatal; the next pass
			// will record it as a deletion.
			log.Printf("Warning: failed to scan %s: %v", relPath, err)
		}
		s.progress.OnFileProcessed(relPath)
	}

	// Stored files that discovery no longer sees were deleted.
	for relPath := range stored {
		if seen[relPath] {
			continue
		}
		if err := s.store.DeleteFile(relPath); err != nil {
			return nil, err
		}
		stats.FilesDeleted++
	}

	if err := s.store.SetMetadata("last_scan", time.Now().UTC().Format(time.RFC3339)); err != nil {
		return nil, err
	}

	stats.Duration = time.Since(start)
	s.progress.OnScanComplete(stats)

	return stats, nil
}

// ScanFile rescans a single file in response to a filesystem event. Files
// that no longer exist are removed from the store; paths that do not match
// the code patterns are ignored.
func (s *Scanner) ScanFile(ctx context.Context, relPath string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	relPath = filepath.ToSlash(relPath)
	if !s.discovery.matchesCode(relPath) {
		return nil
	}

	absPath := s.discovery.Abs(relPath)
	if _, err := os.Stat(absPath); errors.Is(err, os.ErrNotExist) {
		return s.store.DeleteFile(relPath)
	}

	prev, err := s.store.File(relPath)
	if err != nil {
		return err
	}

	return s.scanOne(relPath, prev, &ScanStats{})
}

// scanOne brings the stored record for one file up to date. Unchanged files
// are detected by mtime first, then by content hash.
func (s *Scanner) scanOne(relPath string, prev *FileRecord, stats *ScanStats) error {
	absPath := s.discovery.Abs(relPath)

	info, err := os.Stat(absPath)
	if err != nil {
		return err
	}

	// Mtime fast-path: skip reading when the stored mtime matches.
	if prev != nil && prev.LastModified.Equal(info.ModTime()) {
		stats.FilesUnchanged++
		return nil
	}

	source, err := os.ReadFile(absPath)
	if err != nil {
		return err
	}

	hash := hashBytes(source)
	if prev != nil && prev.FileHash == hash {
		// Content unchanged, mtime drift only.
		stats.FilesUnchanged++
		return nil
	}

	summary := s.analyze(relPath, hash, source, stats)

	rec := &FileRecord{
		FilePath:     relPath,
		FileHash:     hash,
		SizeBytes:    info.Size(),
		LineCount:    countLines(source),
		ParseError:   summary.Error,
		LastModified: info.ModTime(),
		ScannedAt:    time.Now().UTC(),
	}

	if err := s.store.WriteFile(rec, entriesFromSummary(relPath, summary)); err != nil {
		return err
	}

	stats.FilesScanned++
	if summary.Failed() {
		stats.ParseFailures++
	}

	return nil
}

// analyze extracts the structure summary for a file, consulting the cache
// keyed by path and content hash first. Watcher bursts that rewrite the same
// content skip re-parsing entirely.
func (s *Scanner) analyze(relPath, hash string, source []byte, stats *ScanStats) *analyzer.StructureSummary {
	key := relPath + "@" + hash
	if summary, ok := s.cache.Get(key); ok {
		stats.CacheHits++
		return summary
	}

	summary := s.analyzer.Analyze(source)
	s.cache.Set(key, summary)

	return summary
}

// entriesFromSummary flattens a structure summary into storable entry rows.
func entriesFromSummary(relPath string, summary *analyzer.StructureSummary) []EntryRecord {
	var entries []EntryRecord

	add := func(kind, name string, line int, payload any) {
		detail, err := json.Marshal(payload)
		if err != nil {
			detail = []byte("{}")
		}
		entries = append(entries, EntryRecord{
			ID:       uuid.New().String(),
			FilePath: relPath,
			Kind:     kind,
			Name:     name,
			Line:     line,
			Detail:   string(detail),
		})
	}

	for _, class := range summary.Classes {
		add(entryKindClass, class.Name, class.Line, class)
	}
	for _, fn := range summary.Functions {
		add(entryKindFunction, fn.Name, fn.Line, fn)
	}
	for _, imp := range summary.Imports {
		add(entryKindImport, imp.Name, imp.Line, imp)
	}
	for _, v := range summary.Variables {
		add(entryKindVariable, v.Name, v.Line, v)
	}

	return entries
}

// hashBytes returns the SHA-256 of the given content as a hex string.
func hashBytes(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

func countLines(source []byte) int {
	if len(source) == 0 {
		return 0
	}
	n := bytes.Count(source, []byte("\n"))
	if source[len(source)-1] != '\n' {
		n++
	}
	return n
}
