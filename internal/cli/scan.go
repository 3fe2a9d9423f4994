package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/caretml/caret/internal/scan"
)

var (
	scanWatch  bool
	scanQuiet  bool
	scanDBPath string
	scanFormat string
)

var scanCmd = &cobra.Command{
	Use:   "scan [dir]",
	Short: "Scan a project into the structure inventory",
	Long: `Scan discovers the project's Python files, extracts each file's structural
summary and stores the results in a local SQLite inventory (.caret/index.db
by default). Rescans skip files whose content has not changed.

With --watch the scanner keeps running and rescans files as they change,
until interrupted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().BoolVarP(&scanWatch, "watch", "w", false, "watch for file changes after the initial scan")
	scanCmd.Flags().BoolVarP(&scanQuiet, "quiet", "q", false, "suppress progress output")
	scanCmd.Flags().StringVar(&scanDBPath, "db", "", "inventory database path (default .caret/index.db under the project root)")
	scanCmd.Flags().StringVar(&scanFormat, "format", formatText, "output format: text or json")
}

func runScan(cmd *cobra.Command, args []string) error {
	if scanFormat != formatText && scanFormat != formatJSON {
		return fmt.Errorf("unsupported output format: %q (supported: text, json)", scanFormat)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle Ctrl+C gracefully
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		if scanWatch {
			fmt.Println("\nStopping watcher...")
		} else {
			fmt.Println("\nInterrupted! Cancelling scan...")
		}
		cancel()
	}()

	rootDir := "."
	if len(args) > 0 {
		rootDir = args[0]
	}
	rootDir, err := filepath.Abs(rootDir)
	if err != nil {
		return fmt.Errorf("failed to resolve project directory: %w", err)
	}

	cfg, err := loadConfigFromDir(rootDir)
	if err != nil {
		return err
	}

	dbPath := scanDBPath
	if dbPath == "" {
		dbPath = cfg.Storage.DBPath
	}
	if !filepath.IsAbs(dbPath) {
		dbPath = filepath.Join(rootDir, dbPath)
	}

	// JSON output owns stdout, so no progress bar in that mode.
	var progress scan.ProgressReporter
	if scanFormat == formatText {
		progress = NewCLIProgressReporter(scanQuiet)
	}

	scanner, err := scan.NewScanner(scan.Options{
		RootDir:   rootDir,
		DBPath:    dbPath,
		Code:      cfg.Paths.Code,
		Ignore:    cfg.Paths.Ignore,
		CacheSize: cfg.Storage.CacheSize,
		Progress:  progress,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize scanner: %w", err)
	}
	defer scanner.Close()

	stats, err := scanner.Scan(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("scan cancelled")
		}
		return fmt.Errorf("scan failed: %w", err)
	}

	if scanFormat == formatJSON {
		if err := printScanReport(os.Stdout, scanner, stats); err != nil {
			return err
		}
	}

	if scanWatch {
		return runScanWatch(ctx, scanner)
	}
	return nil
}

// runScanWatch keeps rescanning changed files until the context is
// cancelled by a signal.
func runScanWatch(ctx context.Context, scanner *scan.Scanner) error {
	watcher, err := scan.NewWatcher(scanner)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	watcher.Start(ctx)
	defer watcher.Stop()

	if !scanQuiet {
		fmt.Println("Watching for changes (Ctrl+C to stop)")
	}
	<-ctx.Done()
	return nil
}

// scanReport is the machine-readable summary emitted by --format json.
type scanReport struct {
	FilesScanned    int             `json:"files_scanned"`
	FilesUnchanged  int             `json:"files_unchanged"`
	FilesDeleted    int             `json:"files_deleted"`
	ParseFailures   int             `json:"parse_failures"`
	CacheHits       int             `json:"cache_hits"`
	DurationSeconds float64         `json:"duration_seconds"`
	Inventory       inventoryReport `json:"inventory"`
}

type inventoryReport struct {
	Files     int `json:"files"`
	Classes   int `json:"classes"`
	Functions int `json:"functions"`
	Imports   int `json:"imports"`
	Variables int `json:"variables"`
}

func printScanReport(w io.Writer, scanner *scan.Scanner, stats *scan.ScanStats) error {
	stored, err := scanner.Store().Stats()
	if err != nil {
		return fmt.Errorf("failed to read inventory stats: %w", err)
	}

	report := scanReport{
		FilesScanned:    stats.FilesScanned,
		FilesUnchanged:  stats.FilesUnchanged,
		FilesDeleted:    stats.FilesDeleted,
		ParseFailures:   stats.ParseFailures,
		CacheHits:       stats.CacheHits,
		DurationSeconds: stats.Duration.Seconds(),
		Inventory: inventoryReport{
			Files:     stored.Files,
			Classes:   stored.Classes,
			Functions: stored.Functions,
			Imports:   stored.Imports,
			Variables: stored.Variables,
		},
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode scan report: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}
