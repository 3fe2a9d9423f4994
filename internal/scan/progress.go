package scan

// ProgressReporter provides callbacks for reporting scan progress.
// Implementations can display progress bars, log messages, or remain silent.
type ProgressReporter interface {
	// OnDiscoveryStart is called when file discovery begins.
	OnDiscoveryStart()

	// OnDiscoveryComplete is called when file discovery finishes.
	OnDiscoveryComplete(files int)

	// OnFileProcessingStart is called before scanning files.
	OnFileProcessingStart(totalFiles int)

	// OnFileProcessed is called after each file is scanned.
	OnFileProcessed(fileName string)

	// OnScanComplete is called when the scan completes successfully.
	OnScanComplete(stats *ScanStats)
}

// NoOpProgressReporter is a progress reporter that does nothing.
// Used when progress reporting is disabled (e.g., --quiet flag).
type NoOpProgressReporter struct{}

func (n *NoOpProgressReporter) OnDiscoveryStart()               {}
func (n *NoOpProgressReporter) OnDiscoveryComplete(files int)   {}
func (n *NoOpProgressReporter) OnFileProcessingStart(total int) {}
func (n *NoOpProgressReporter) OnFileProcessed(fileName string) {}
func (n *NoOpProgressReporter) OnScanComplete(stats *ScanStats) {}
