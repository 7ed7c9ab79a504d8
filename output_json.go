package twconfig

import (
	"encoding/json"
	"io"
	"time"
)

// JSONOutput represents the structured JSON export schema
type JSONOutput struct {
	Version      string            `json:"version"`
	Timestamp    string            `json:"timestamp"`
	Summary      JSONSummary       `json:"summary"`
	Stats        ScanStats         `json:"stats"`
	Issues       []JSONIssue       `json:"issues"`
	Files        []JSONFile        `json:"files"`
	Candidates   []string          `json:"candidates"`
	DarkVariants map[string]string `json:"dark_variants"`
}

// JSONSummary contains high-level issue counts
type JSONSummary struct {
	TotalIssues  int `json:"total_issues"`
	Errors       int `json:"errors"`
	Warnings     int `json:"warnings"`
	FilesScanned int `json:"files_scanned"`
	Candidates   int `json:"candidates"`
}

// JSONIssue represents a single scan issue
type JSONIssue struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Linter   string `json:"linter"`
	Source   string `json:"source,omitempty"` // Optional source line
}

// JSONFile summarizes the extraction for one content file
type JSONFile struct {
	Path      string `json:"path"`
	Extractor string `json:"extractor"`
	Tokens    int    `json:"tokens"`
	Cached    bool   `json:"cached"`
}

// WriteJSON writes the scan result as JSON
func WriteJSON(w io.Writer, result *ScanResult) error {
	output := buildJSONOutput(result)
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// buildJSONOutput converts ScanResult to JSONOutput
func buildJSONOutput(result *ScanResult) JSONOutput {
	jsonIssues := make([]JSONIssue, len(result.Issues))
	for i, issue := range result.Issues {
		source := ""
		if len(issue.SourceLines) > 0 {
			source = issue.SourceLines[0]
		}
		jsonIssues[i] = JSONIssue{
			File:     issue.Pos.Filename,
			Line:     issue.Pos.Line,
			Column:   issue.Pos.Column,
			Severity: issue.Severity,
			Message:  issue.Text,
			Linter:   issue.FromLinter,
			Source:   source,
		}
	}

	files := make([]JSONFile, len(result.Files))
	for i, f := range result.Files {
		files[i] = JSONFile{
			Path:      f.Path,
			Extractor: f.Extractor,
			Tokens:    len(f.Tokens),
			Cached:    f.Cached,
		}
	}

	candidates := result.Candidates
	if candidates == nil {
		candidates = []string{}
	}

	return JSONOutput{
		Version:   "1.0",
		Timestamp: time.Now().Format(time.RFC3339),
		Summary: JSONSummary{
			TotalIssues:  len(result.Issues),
			Errors:       result.ErrorCount,
			Warnings:     result.WarningCount,
			FilesScanned: result.Stats.FilesScanned,
			Candidates:   len(result.Candidates),
		},
		Stats:        result.Stats,
		Issues:       jsonIssues,
		Files:        files,
		Candidates:   candidates,
		DarkVariants: result.DarkVariants,
	}
}
