package twconfig

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/yacobolo/twconfig/internal/logger"
)

// DefaultDebounce groups bursts of file events into one rebuild.
const DefaultDebounce = 100 * time.Millisecond

// WatchOptions configures Watch.
type WatchOptions struct {
	Debounce time.Duration // 0 = DefaultDebounce
}

// Watch scans once, then rescans whenever a file matching the content
// patterns changes, reporting every outcome to onScan. It blocks until ctx
// is cancelled and then returns nil.
func Watch(ctx context.Context, s *Scanner, opts WatchOptions, onScan func(*ScanResult, error)) error {
	log := logger.L(ctx)
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	roots := s.watchRoots()
	for _, root := range roots {
		if err := s.addWatchTree(fsw, root.dir, root.recursive); err != nil {
			return err
		}
	}
	log.Info("watching content sources", zap.Int("roots", len(roots)))

	onScan(s.Scan(ctx))

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := s.addWatchTree(fsw, event.Name, true); err != nil {
						log.Warn("cannot watch new directory", zap.String("dir", event.Name), zap.Error(err))
					}
					continue
				}
			}

			rel, ok := s.relPath(event.Name)
			if !ok || !s.matchesContent(rel) {
				continue
			}
			log.Debug("content file changed", zap.String("file", rel), zap.String("op", event.Op.String()))
			s.Invalidate(rel)

			if timer == nil {
				timer = time.NewTimer(opts.Debounce)
			} else {
				timer.Reset(opts.Debounce)
			}
			fire = timer.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			log.Error("watcher error", zap.Error(err))

		case <-fire:
			fire = nil
			if !rescan(ctx, s, onScan) {
				return nil
			}
		}
	}
}

// rescan runs a debounced scan unless ctx was cancelled while the timer
// was pending. It reports whether the scan ran.
func rescan(ctx context.Context, s *Scanner, onScan func(*ScanResult, error)) bool {
	if ctx.Err() != nil {
		return false
	}
	onScan(s.Scan(ctx))
	return true
}

type watchRoot struct {
	dir       string
	recursive bool
}

// watchRoots returns the static base directory of each content pattern.
func (s *Scanner) watchRoots() []watchRoot {
	seen := make(map[string]bool)
	var roots []watchRoot

	for _, pattern := range s.desc.Content.Files {
		base, rest := doublestar.SplitPattern(filepath.ToSlash(pattern))
		dir := filepath.Join(s.config.BaseDir, filepath.FromSlash(base))
		recursive := strings.Contains(rest, "/")

		key := fmt.Sprintf("%s|%t", dir, recursive)
		if seen[key] {
			continue
		}
		seen[key] = true
		roots = append(roots, watchRoot{dir: dir, recursive: recursive})
	}

	return roots
}

// addWatchTree watches dir and, when recursive, every directory below it
// that is not gitignored.
func (s *Scanner) addWatchTree(fsw *fsnotify.Watcher, dir string, recursive bool) error {
	if _, err := os.Stat(dir); err != nil {
		// Missing roots are reported by the scan as unmatched patterns
		return nil
	}
	if !recursive {
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		return nil
	}

	gi := s.loadGitIgnore()
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if rel, ok := s.relPath(path); ok && rel != "." {
			if d.Name() == ".git" || (gi != nil && gi.MatchesPath(rel+"/")) {
				return filepath.SkipDir
			}
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// relPath converts an event path to the slash form used by scan results.
func (s *Scanner) relPath(path string) (string, bool) {
	rel, err := filepath.Rel(s.config.BaseDir, path)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", false
	}
	return rel, true
}

// matchesContent reports whether rel is selected by any content pattern.
func (s *Scanner) matchesContent(rel string) bool {
	for _, pattern := range s.desc.Content.Files {
		if ok, _ := doublestar.Match(filepath.ToSlash(pattern), rel); ok {
			return true
		}
	}
	return false
}
