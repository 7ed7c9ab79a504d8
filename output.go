package twconfig

import (
	"io"
	"os"
)

// OutputFormat represents the scan output format
type OutputFormat string

const (
	// OutputText shows issues and a one-line summary (CI-friendly)
	OutputText OutputFormat = "text"
	// OutputSummary shows statistics and dark-mode variants without issues
	OutputSummary OutputFormat = "summary"
	// OutputFull shows issues, statistics and dark-mode variants
	OutputFull OutputFormat = "full"
	// OutputCandidates prints one candidate class per line (for piping)
	OutputCandidates OutputFormat = "candidates"
	// OutputJSON exports structured data in JSON format (tooling integration)
	OutputJSON OutputFormat = "json"
)

// DetermineOutputFormat selects the appropriate output format based on flags
func DetermineOutputFormat(formatFlag string, quiet bool) OutputFormat {
	// Explicit -quiet flag wins (exit code only)
	if quiet {
		return OutputText
	}

	switch formatFlag {
	case "text", "issues":
		return OutputText
	case "summary":
		return OutputSummary
	case "full":
		return OutputFull
	case "candidates", "classes":
		return OutputCandidates
	case "json":
		return OutputJSON
	}

	return OutputText
}

// WriteOutput writes the scan result in the specified format
func WriteOutput(w io.Writer, result *ScanResult, format OutputFormat, config ReportConfig) {
	switch format {
	case OutputText:
		reporter := NewReporter(w, config)
		reporter.PrintIssues(result.Issues)
		reporter.PrintSummary(*result)

	case OutputSummary:
		reporter := NewReporter(w, config)
		reporter.PrintStatistics(*result)
		reporter.PrintDarkVariants(*result)

	case OutputFull:
		reporter := NewReporter(w, config)
		reporter.PrintIssues(result.Issues)
		reporter.PrintSummary(*result)
		reporter.PrintStatistics(*result)
		reporter.PrintDarkVariants(*result)

	case OutputCandidates:
		NewReporter(w, config).PrintCandidates(*result)

	case OutputJSON:
		if err := WriteJSON(w, result); err != nil {
			// Log error but don't crash
			os.Stderr.WriteString("Error writing JSON: " + err.Error() + "\n")
		}
	}
}
