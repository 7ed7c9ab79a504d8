package twconfig

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/yacobolo/twconfig/internal/report"
)

// ReportConfig holds reporter settings
type ReportConfig struct {
	PrintIssuedLines bool // Show config lines with issues (default: true)
	PrintLinterName  bool // Show (twscan) suffix (default: true)
	ShowInfo         bool // Include info-level issues
	UseColors        bool // Force color output (default: auto-detect)
}

// Reporter handles formatting and outputting scan results
type Reporter struct {
	w               io.Writer
	useColors       bool
	printLines      bool
	printLinterName bool
	showInfo        bool
}

// NewReporter creates a new reporter with the given configuration
func NewReporter(w io.Writer, config ReportConfig) *Reporter {
	return &Reporter{
		w:               w,
		useColors:       report.ShouldUseColors(config.UseColors),
		printLines:      config.PrintIssuedLines,
		printLinterName: config.PrintLinterName,
		showInfo:        config.ShowInfo,
	}
}

// visibleIssues returns a copy of issues without info issues unless
// requested. Callers may reorder the result.
func (r *Reporter) visibleIssues(issues []Issue) []Issue {
	out := make([]Issue, 0, len(issues))
	for _, issue := range issues {
		if r.showInfo || issue.Severity != SeverityInfo {
			out = append(out, issue)
		}
	}
	return out
}

// PrintIssues outputs issues in golangci-lint format
func (r *Reporter) PrintIssues(issues []Issue) {
	issues = r.visibleIssues(issues)

	// Sort issues by file, then line, then column
	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Pos.Filename != issues[j].Pos.Filename {
			return issues[i].Pos.Filename < issues[j].Pos.Filename
		}
		if issues[i].Pos.Line != issues[j].Pos.Line {
			return issues[i].Pos.Line < issues[j].Pos.Line
		}
		return issues[i].Pos.Column < issues[j].Pos.Column
	})

	for _, issue := range issues {
		r.printIssue(issue)
	}
}

// printIssue formats a single issue in golangci-lint style
func (r *Reporter) printIssue(issue Issue) {
	// Format: file:line:col: message (linter)
	filename := issue.Pos.Filename
	if filename == "" {
		filename = "<config>"
	}
	location := fmt.Sprintf("%s:%d:%d:", filename, issue.Pos.Line, issue.Pos.Column)

	linterSuffix := ""
	if r.printLinterName {
		linterSuffix = fmt.Sprintf(" (%s)", issue.FromLinter)
	}

	text := issue.Text
	switch issue.Severity {
	case SeverityError:
		text = report.RenderStyle(report.StyleRed, "error: ", r.useColors) + text
	case SeverityWarning:
		text = report.RenderStyle(report.StyleYellow, "warning: ", r.useColors) + text
	}

	fmt.Fprintf(r.w, "%s %s%s\n",
		report.RenderStyle(report.StyleCyan, location, r.useColors),
		text,
		report.RenderStyle(report.StyleGray, linterSuffix, r.useColors))

	if r.printLines && len(issue.SourceLines) > 0 {
		for _, line := range issue.SourceLines {
			fmt.Fprintf(r.w, "\t%s\n", line)
		}
		caret := report.CaretIndicator(issue.SourceLines[0], issue.Pos.Column)
		fmt.Fprintf(r.w, "\t%s\n", report.RenderStyle(report.StyleYellow, caret, r.useColors))
	}
}

// PrintSummary outputs the issue count summary
func (r *Reporter) PrintSummary(result ScanResult) {
	total := len(r.visibleIssues(result.Issues))

	fmt.Fprintln(r.w, "")
	if result.ErrorCount > 0 && result.WarningCount > 0 {
		fmt.Fprintf(r.w, "%s (%s, %s)\n",
			report.PluralizeCount(total, "issue", "issues"),
			report.PluralizeCount(result.ErrorCount, "error", "errors"),
			report.PluralizeCount(result.WarningCount, "warning", "warnings"))
	} else {
		fmt.Fprintf(r.w, "%s\n", report.PluralizeCount(total, "issue", "issues"))
	}

	status := report.RenderStyle(report.StyleGreen, "scan ok", r.useColors)
	if result.ErrorCount > 0 {
		status = report.RenderStyle(report.StyleRed, "scan failed", r.useColors)
	}
	fmt.Fprintf(r.w, "%s: %s, %s\n",
		status,
		report.PluralizeCount(result.Stats.FilesScanned, "file", "files"),
		report.PluralizeCount(len(result.Candidates), "candidate class", "candidate classes"))
}

// PrintStatistics outputs detailed scan statistics
func (r *Reporter) PrintStatistics(result ScanResult) {
	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, report.RenderStyle(report.StyleCyan, "Content Scan Statistics", r.useColors))
	fmt.Fprintln(r.w, "-----------------------")

	fmt.Fprintf(r.w, "Files Discovered:  %d\n", result.Stats.FilesDiscovered)
	fmt.Fprintf(r.w, "Files Scanned:     %d\n", result.Stats.FilesScanned)
	fmt.Fprintf(r.w, "Files Ignored:     %d\n", result.Stats.FilesSkipped)
	fmt.Fprintf(r.w, "Cache Hits:        %d\n", result.Stats.CacheHits)
	fmt.Fprintf(r.w, "Raw Tokens:        %d\n", result.Stats.TokensExtracted)
	fmt.Fprintf(r.w, "Candidate Classes: %d\n", len(result.Candidates))
	fmt.Fprintf(r.w, "Scan Time:         %s\n", result.Duration.Round(time.Microsecond))
}

// PrintDarkVariants lists the selector emitted for each dark-mode candidate
func (r *Reporter) PrintDarkVariants(result ScanResult) {
	if len(result.DarkVariants) == 0 {
		return
	}

	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, report.RenderStyle(report.StyleGreen, "Dark Mode Variants", r.useColors))
	fmt.Fprintln(r.w, "------------------")

	classes := make([]string, 0, len(result.DarkVariants))
	for c := range result.DarkVariants {
		classes = append(classes, c)
	}
	sort.Strings(classes)

	for _, c := range classes {
		fmt.Fprintf(r.w, "%s\n\t%s\n", c, result.DarkVariants[c])
	}
}

// PrintCandidates writes one candidate class per line
func (r *Reporter) PrintCandidates(result ScanResult) {
	for _, c := range result.Candidates {
		fmt.Fprintln(r.w, c)
	}
}

// UseColors returns whether colors are enabled
func (r *Reporter) UseColors() bool {
	return r.useColors
}
