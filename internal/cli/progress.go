package cli

import (
	"fmt"
	"log"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/caretml/caret/internal/scan"
)

// CLIProgressReporter implements progress reporting with a progress bar.
type CLIProgressReporter struct {
	quiet   bool
	fileBar *progressbar.ProgressBar
}

// NewCLIProgressReporter creates a new CLI progress reporter.
func NewCLIProgressReporter(quiet bool) *CLIProgressReporter {
	return &CLIProgressReporter{quiet: quiet}
}

func (c *CLIProgressReporter) OnDiscoveryStart() {
	if c.quiet {
		return
	}
	log.Println("Discovering files...")
}

func (c *CLIProgressReporter) OnDiscoveryComplete(files int) {
	if c.quiet {
		return
	}
	log.Printf("Processing %d code files\n", files)
	fmt.Println()
}

func (c *CLIProgressReporter) OnFileProcessingStart(totalFiles int) {
	if c.quiet {
		return
	}
	c.fileBar = progressbar.NewOptions(totalFiles,
		progressbar.OptionSetDescription("Scanning files"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)
}

func (c *CLIProgressReporter) OnFileProcessed(fileName string) {
	if c.quiet {
		return
	}
	if c.fileBar != nil {
		c.fileBar.Add(1)
	}
}

func (c *CLIProgressReporter) OnScanComplete(stats *scan.ScanStats) {
	if c.quiet {
		return
	}

	fmt.Println()
	fmt.Printf("✓ Scan complete: %s files scanned, %s unchanged, %s deleted in %.1fs\n",
		formatNumber(stats.FilesScanned),
		formatNumber(stats.FilesUnchanged),
		formatNumber(stats.FilesDeleted),
		stats.Duration.Seconds())
	if stats.ParseFailures > 0 {
		fmt.Printf("  Parse failures: %d\n", stats.ParseFailures)
	}
}

// formatNumber renders n with thousands separators.
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}

	str := fmt.Sprintf("%d", n)
	var result string
	for i, c := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result += ","
		}
		result += string(c)
	}
	return result
}
