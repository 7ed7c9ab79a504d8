package twconfig

// Issue is a single scan finding in golangci-lint format
type Issue struct {
	FromLinter  string   `json:"FromLinter"`  // "twscan"
	Text        string   `json:"Text"`        // "content pattern \"src/**/*.rs\" matched no files"
	Severity    string   `json:"Severity"`    // "", "warning", "error"
	SourceLines []string `json:"SourceLines"` // Offending config line, when known
	Pos         IssuePos `json:"Pos"`         // File location
}

// IssuePos specifies the location of an issue
type IssuePos struct {
	Filename string `json:"Filename"` // "src/app.rs" or the config file
	Line     int    `json:"Line"`
	Column   int    `json:"Column"` // 1-based
}

// IssueSeverity constants
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = ""
)

// LinterName tags every issue the scanner produces.
const LinterName = "twscan"

// Issue texts
const (
	IssueNoMatches   = "content pattern %q matched no files"
	IssueUnreadable  = "cannot read content file: %v"
	IssueNoExtractor = "no extractor registered for %q files, default tokenizer used"
	IssueInvalidGlob = "content pattern %q is invalid: %v"
)
