package twconfig

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	lru "github.com/hashicorp/golang-lru/v2"
	ignore "github.com/sabhiram/go-gitignore"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yacobolo/twconfig/internal/logger"
)

// DefaultCacheSize is the number of files whose tokens are kept between scans.
const DefaultCacheSize = 4096

// ScanConfig controls how a Scanner walks the content sources.
type ScanConfig struct {
	BaseDir     string // Patterns are resolved against this directory (default ".")
	Workers     int    // Concurrent extractions (0 = runtime.NumCPU())
	CacheSize   int    // Token cache entries (0 = DefaultCacheSize)
	NoGitIgnore bool   // Scan gitignored files too
	ConfigFile  string // Reported as the location of pattern-level issues
}

// FileTokens holds the extractor output for one content file
type FileTokens struct {
	Path      string   // Slash-separated, relative to BaseDir
	Extractor string   // Registered extractor name that produced Tokens
	Tokens    []string // Raw output, empty tokens included
	Cached    bool     // true if Tokens came from the cache
}

// ScanStats tracks file scanning statistics
type ScanStats struct {
	FilesDiscovered int `json:"files_discovered"` // Total files found by glob patterns
	FilesScanned    int `json:"files_scanned"`    // Files actually scanned (after filtering)
	FilesSkipped    int `json:"files_skipped"`    // Files skipped by .gitignore
	CacheHits       int `json:"cache_hits"`       // Files served from the token cache
	TokensExtracted int `json:"tokens_extracted"` // Raw tokens, empty ones included
}

// ScanResult is the outcome of one content scan
type ScanResult struct {
	Files        []FileTokens
	Candidates   []string          // Unique non-empty tokens, sorted
	DarkVariants map[string]string // dark: candidate -> selector variant
	Issues       []Issue
	Stats        ScanStats
	ErrorCount   int
	WarningCount int
	Duration     time.Duration
}

type cacheEntry struct {
	size    int64
	modTime time.Time
	tokens  []string
}

// Scanner runs content scans for a descriptor. A Scanner may be reused for
// repeated builds; unchanged files are served from its token cache.
type Scanner struct {
	desc   Descriptor
	config ScanConfig
	cache  *lru.Cache[string, cacheEntry]

	gitIgnore     *ignore.GitIgnore
	gitIgnoreOnce sync.Once
}

// NewScanner validates desc and returns a scanner for it.
func NewScanner(desc Descriptor, config ScanConfig) (*Scanner, error) {
	if err := desc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid descriptor: %w", err)
	}

	if config.BaseDir == "" {
		config.BaseDir = "."
	}
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	if config.CacheSize <= 0 {
		config.CacheSize = DefaultCacheSize
	}

	cache, err := lru.New[string, cacheEntry](config.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create token cache: %w", err)
	}

	return &Scanner{
		desc:   desc.Clone(),
		config: config,
		cache:  cache,
	}, nil
}

// Descriptor returns a copy of the descriptor the scanner was built with.
func (s *Scanner) Descriptor() Descriptor {
	return s.desc.Clone()
}

// Config returns the effective scan configuration.
func (s *Scanner) Config() ScanConfig {
	return s.config
}

// loadGitIgnore loads BaseDir/.gitignore once.
// Gracefully degrades if .gitignore doesn't exist
func (s *Scanner) loadGitIgnore() *ignore.GitIgnore {
	s.gitIgnoreOnce.Do(func() {
		if s.config.NoGitIgnore {
			return
		}
		gi, err := ignore.CompileIgnoreFile(filepath.Join(s.config.BaseDir, ".gitignore"))
		if err != nil {
			return
		}
		s.gitIgnore = gi
	})
	return s.gitIgnore
}

// Scan expands the content patterns, runs the matching extractor on every
// file and aggregates the candidate classes. Per-file problems become issues;
// only context cancellation fails the scan.
func (s *Scanner) Scan(ctx context.Context) (*ScanResult, error) {
	log := logger.L(ctx)
	start := time.Now()

	result := &ScanResult{DarkVariants: map[string]string{}}

	files := s.expandPatterns(result)
	log.Debug("content files resolved",
		zap.Int("discovered", result.Stats.FilesDiscovered),
		zap.Int("skipped", result.Stats.FilesSkipped),
		zap.Int("scanning", len(files)))

	s.reportMissingExtractors(files, result)

	type fileOutcome struct {
		tokens FileTokens
		err    error
	}
	outcomes := make([]fileOutcome, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ft, err := s.extractFile(path)
			outcomes[i] = fileOutcome{tokens: ft, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scan cancelled: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scan cancelled: %w", err)
	}

	for _, o := range outcomes {
		if o.err != nil {
			log.Warn("content file unreadable", zap.String("file", o.tokens.Path), zap.Error(o.err))
			result.addIssue(Issue{
				FromLinter: LinterName,
				Text:       fmt.Sprintf(IssueUnreadable, o.err),
				Severity:   SeverityError,
				Pos:        IssuePos{Filename: o.tokens.Path},
			})
			continue
		}
		if o.tokens.Cached {
			result.Stats.CacheHits++
		}
		result.Stats.FilesScanned++
		result.Stats.TokensExtracted += len(o.tokens.Tokens)
		result.Files = append(result.Files, o.tokens)
	}

	result.Candidates = collectCandidates(result.Files)
	for _, c := range result.Candidates {
		if isDarkCandidate(c) {
			result.DarkVariants[c] = s.desc.DarkMode.Variant(c)
		}
	}

	result.Duration = time.Since(start)
	log.Info("content scan complete",
		zap.Int("files", result.Stats.FilesScanned),
		zap.Int("candidates", len(result.Candidates)),
		zap.Int("cache_hits", result.Stats.CacheHits),
		zap.Duration("took", result.Duration))

	return result, nil
}

// expandPatterns resolves every content pattern in order, deduplicating
// files and dropping gitignored ones. Pattern-level problems are recorded
// on result.
func (s *Scanner) expandPatterns(result *ScanResult) []string {
	fsys := os.DirFS(s.config.BaseDir)
	gi := s.loadGitIgnore()

	var files []string
	seen := make(map[string]bool)

	for _, pattern := range s.desc.Content.Files {
		pattern = filepath.ToSlash(pattern)

		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			result.addIssue(s.patternIssue(pattern, fmt.Sprintf(IssueInvalidGlob, pattern, err), SeverityError))
			continue
		}
		if len(matches) == 0 {
			result.addIssue(s.patternIssue(pattern, fmt.Sprintf(IssueNoMatches, pattern), SeverityWarning))
			continue
		}

		for _, match := range matches {
			if seen[match] {
				continue
			}
			seen[match] = true
			result.Stats.FilesDiscovered++

			if gi != nil && gi.MatchesPath(match) {
				result.Stats.FilesSkipped++
				continue
			}
			files = append(files, match)
		}
	}

	return files
}

// patternIssue builds an issue about a content pattern, pointing at the
// pattern's line in the config file when it can be found there.
func (s *Scanner) patternIssue(pattern, text, severity string) Issue {
	issue := Issue{
		FromLinter: LinterName,
		Text:       text,
		Severity:   severity,
		Pos:        IssuePos{Filename: s.config.ConfigFile},
	}
	if s.config.ConfigFile == "" {
		return issue
	}

	// #nosec G304 - config path comes from the command line
	data, err := os.ReadFile(s.config.ConfigFile)
	if err != nil {
		return issue
	}
	for i, line := range strings.Split(string(data), "\n") {
		if col := strings.Index(line, pattern); col != -1 {
			issue.Pos.Line = i + 1
			issue.Pos.Column = col + 1
			issue.SourceLines = []string{strings.TrimRight(line, "\r")}
			break
		}
	}
	return issue
}

// reportMissingExtractors adds one info issue per extension tag that falls
// back to the default tokenizer.
func (s *Scanner) reportMissingExtractors(files []string, result *ScanResult) {
	reported := make(map[string]bool)
	for _, f := range files {
		if s.desc.HasExtractor(f) {
			continue
		}
		tag := ExtensionTag(f)
		if reported[tag] {
			continue
		}
		reported[tag] = true
		result.addIssue(Issue{
			FromLinter: LinterName,
			Text:       fmt.Sprintf(IssueNoExtractor, tag),
			Severity:   SeverityInfo,
			Pos:        IssuePos{Filename: f},
		})
	}
}

// extractFile runs the extractor registered for path, consulting the cache
// first. Path is slash-separated and relative to BaseDir.
func (s *Scanner) extractFile(path string) (FileTokens, error) {
	fn, name := s.desc.ExtractorFor(path)
	ft := FileTokens{Path: path, Extractor: name}

	full := filepath.Join(s.config.BaseDir, filepath.FromSlash(path))
	info, err := os.Stat(full)
	if err != nil {
		return ft, err
	}

	if entry, ok := s.cache.Get(path); ok && entry.size == info.Size() && entry.modTime.Equal(info.ModTime()) {
		ft.Tokens = entry.tokens
		ft.Cached = true
		return ft, nil
	}

	// #nosec G304 - path comes from the configured content patterns
	content, err := os.ReadFile(full)
	if err != nil {
		return ft, err
	}

	ft.Tokens = fn(string(content))
	s.cache.Add(path, cacheEntry{size: info.Size(), modTime: info.ModTime(), tokens: ft.Tokens})

	return ft, nil
}

// Invalidate drops path from the token cache.
func (s *Scanner) Invalidate(path string) {
	s.cache.Remove(filepath.ToSlash(path))
}

func (r *ScanResult) addIssue(issue Issue) {
	switch issue.Severity {
	case SeverityError:
		r.ErrorCount++
	case SeverityWarning:
		r.WarningCount++
	}
	r.Issues = append(r.Issues, issue)
}

// collectCandidates returns the unique non-empty tokens of files, sorted.
// Empty tokens are extractor output the build tool ignores.
func collectCandidates(files []FileTokens) []string {
	seen := make(map[string]bool)
	var out []string
	for _, f := range files {
		for _, tok := range f.Tokens {
			if tok == "" || seen[tok] {
				continue
			}
			seen[tok] = true
			out = append(out, tok)
		}
	}
	sort.Strings(out)
	return out
}

// isDarkCandidate reports whether a candidate carries the dark variant,
// possibly stacked with others ("md:dark:bg-black").
func isDarkCandidate(candidate string) bool {
	parts := strings.Split(candidate, ":")
	for _, p := range parts[:len(parts)-1] {
		if p == strings.TrimSuffix(DarkVariantPrefix, ":") {
			return true
		}
	}
	return false
}
