package scan

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// compiledPattern holds both the pattern string and compiled glob
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// Discovery walks a project tree and finds Python source files using glob
// patterns and ignore rules.
type Discovery struct {
	rootDir        string
	codePatterns   []compiledPattern
	ignorePatterns []compiledPattern
}

// NewDiscovery creates a new file discovery instance.
func NewDiscovery(rootDir string, codePatterns, ignorePatterns []string) (*Discovery, error) {
	d := &Discovery{
		rootDir: rootDir,
	}

	// Compile glob patterns
	for _, pattern := range codePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		d.codePatterns = append(d.codePatterns, compiledPattern{pattern: pattern, glob: g})
	}

	for _, pattern := range ignorePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		d.ignorePatterns = append(d.ignorePatterns, compiledPattern{pattern: pattern, glob: g})
	}

	return d, nil
}

// Files walks the directory tree and returns the source files that match the
// code patterns, as paths relative to the root with forward slashes.
func (d *Discovery) Files() ([]string, error) {
	files := []string{}

	err := filepath.Walk(d.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// Skip directories
		if info.IsDir() {
			return nil
		}

		// Get relative path for pattern matching
		relPath, err := filepath.Rel(d.rootDir, path)
		if err != nil {
			return err
		}

		// Normalize path separators for glob matching
		relPath = filepath.ToSlash(relPath)

		// Check ignore patterns
		if d.shouldIgnore(relPath) {
			return nil
		}

		if d.matchesAnyPattern(relPath, d.codePatterns) {
			files = append(files, relPath)
		}

		return nil
	})

	return files, err
}

// Abs converts a root-relative path back to an absolute filesystem path.
func (d *Discovery) Abs(relPath string) string {
	return filepath.Join(d.rootDir, filepath.FromSlash(relPath))
}

// shouldIgnore checks if a path matches any ignore pattern.
func (d *Discovery) shouldIgnore(relPath string) bool {
	// Always ignore the .caret directory
	if strings.HasPrefix(relPath, ".caret/") || relPath == ".caret" {
		return true
	}

	// Check if the path matches any ignore pattern
	if d.matchesAnyPattern(relPath, d.ignorePatterns) {
		return true
	}

	// Also check if this is a directory that would match with /** suffix
	// For example, "__pycache__" should match pattern "__pycache__/**"
	pathWithSuffix := relPath + "/**"
	return d.matchesAnyPattern(pathWithSuffix, d.ignorePatterns)
}

// matchesCode reports whether a relative path is a source file the scanner
// cares about. Used by the watcher to filter filesystem events.
func (d *Discovery) matchesCode(relPath string) bool {
	if d.shouldIgnore(relPath) {
		return false
	}
	return d.matchesAnyPattern(relPath, d.codePatterns)
}

// matchesAnyPattern checks if a path matches any of the given patterns.
func (d *Discovery) matchesAnyPattern(path string, patterns []compiledPattern) bool {
	for _, cp := range patterns {
		if cp.glob.Match(path) {
			return true
		}
	}

	// Special handling: if path is in root (no slash), also try matching against
	// patterns with **/ prefix removed. This makes "**/*.py" match both "app.py"
	// and "pkg/app.py" as users would expect.
	if !strings.Contains(path, "/") {
		for _, cp := range patterns {
			// If pattern starts with **/, try matching without it
			if strings.HasPrefix(cp.pattern, "**/") {
				simplified := strings.TrimPrefix(cp.pattern, "**/")
				if simplifiedGlob, err := glob.Compile(simplified, '/'); err == nil {
					if simplifiedGlob.Match(path) {
						return true
					}
				}
			}
		}
	}

	return false
}
