package generator

// ProgressReporter provides callbacks for reporting generation progress.
// Implementations can display progress bars, log messages, or remain silent.
// OnFileProcessed is called from worker goroutines and must be safe for
// concurrent use.
type ProgressReporter interface {
	// OnDiscoveryStart is called when file discovery begins.
	OnDiscoveryStart()

	// OnDiscoveryComplete is called when file discovery finishes.
	OnDiscoveryComplete(files int)

	// OnFileProcessingStart is called before extracting files.
	OnFileProcessingStart(totalFiles int)

	// OnFileProcessed is called after each file is extracted.
	OnFileProcessed(fileName string)

	// OnFileFailed is called when a file could not be extracted.
	OnFileFailed(fileName string, err error)

	// OnWritingReports is called when writing report files begins.
	OnWritingReports()

	// OnComplete is called when generation completes.
	OnComplete(stats *Stats)
}

// NoOpProgressReporter is a progress reporter that does nothing.
// Used when progress reporting is disabled (e.g., --quiet flag).
type NoOpProgressReporter struct{}

func (n *NoOpProgressReporter) OnDiscoveryStart()                       {}
func (n *NoOpProgressReporter) OnDiscoveryComplete(files int)           {}
func (n *NoOpProgressReporter) OnFileProcessingStart(totalFiles int)    {}
func (n *NoOpProgressReporter) OnFileProcessed(fileName string)         {}
func (n *NoOpProgressReporter) OnFileFailed(fileName string, err error) {}
func (n *NoOpProgressReporter) OnWritingReports()                       {}
func (n *NoOpProgressReporter) OnComplete(stats *Stats)                 {}
