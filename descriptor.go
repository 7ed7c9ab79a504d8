package twconfig

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Validation errors. Descriptor.Validate wraps one of these.
var (
	ErrNoFilePatterns      = errors.New("no content file patterns")
	ErrInvalidPattern      = errors.New("invalid content file pattern")
	ErrUnknownExtractor    = errors.New("unknown extractor")
	ErrInvalidSelector     = errors.New("invalid dark-mode selector")
	ErrUnknownDarkStrategy = errors.New("unknown dark-mode strategy")
	ErrUnknownMode         = errors.New("unknown mode")
)

// ModeJIT generates only the utilities found by the content scan.
const ModeJIT = "jit"

// Descriptor is the configuration a utility-class generator reads at the
// start of every build. Treat it as read-only once built; use Clone to
// derive a modified copy.
type Descriptor struct {
	DarkMode DarkMode       `yaml:"dark-mode" koanf:"dark-mode"`
	Mode     string         `yaml:"mode,omitempty" koanf:"mode"`
	Content  ContentSources `yaml:"content" koanf:"content"`
	Theme    map[string]any `yaml:"theme" koanf:"theme"`
}

// ContentSources says which files to scan and how to tokenize them.
type ContentSources struct {
	// Files are doublestar glob patterns, relative to the scan base dir.
	Files []string `yaml:"files" koanf:"files"`
	// Extract maps an extension tag ("rs", "html") to a registered
	// extractor name. Files with other extensions use ExtractorDefault.
	Extract map[string]string `yaml:"extract,omitempty" koanf:"extract"`
}

// Default returns the descriptor for a Leptos front-end: Rust sources plus
// the index page, colon bindings recovered from .rs files, and dark mode
// keyed on a "night" class or data-theme attribute.
func Default() Descriptor {
	return Descriptor{
		DarkMode: ClassBased("night", `[data-theme="night"]`),
		Mode:     ModeJIT,
		Content: ContentSources{
			Files:   []string{"src/**/*.rs", "index.html"},
			Extract: map[string]string{"rs": ExtractorLeptos},
		},
		Theme: map[string]any{},
	}
}

// Validate reports the first problem found in the descriptor.
func (d Descriptor) Validate() error {
	if len(d.Content.Files) == 0 {
		return ErrNoFilePatterns
	}
	for _, p := range d.Content.Files {
		if p == "" || !doublestar.ValidatePattern(filepath.ToSlash(p)) {
			return fmt.Errorf("%w: %q", ErrInvalidPattern, p)
		}
	}

	for tag, name := range d.Content.Extract {
		if _, ok := LookupExtractor(name); !ok {
			return fmt.Errorf("%w %q for extension %q (registered: %s)",
				ErrUnknownExtractor, name, tag, strings.Join(Extractors(), ", "))
		}
	}

	if d.Mode != "" && d.Mode != ModeJIT {
		return fmt.Errorf("%w: %q", ErrUnknownMode, d.Mode)
	}

	if err := d.DarkMode.Validate(); err != nil {
		return fmt.Errorf("dark-mode: %w", err)
	}

	return nil
}

// ExtensionTag returns the extension of path without the dot: "src/app.rs" -> "rs".
func ExtensionTag(path string) string {
	return strings.TrimPrefix(filepath.Ext(path), ".")
}

// ExtractorFor returns the extractor for path and its registered name.
// Paths whose tag has no usable registration get the default tokenizer.
func (d Descriptor) ExtractorFor(path string) (Extractor, string) {
	if name, ok := d.Content.Extract[ExtensionTag(path)]; ok {
		if fn, ok := LookupExtractor(name); ok {
			return fn, name
		}
	}
	return ExtractNormal, ExtractorDefault
}

// HasExtractor reports whether an extractor is registered for path's tag.
func (d Descriptor) HasExtractor(path string) bool {
	_, ok := d.Content.Extract[ExtensionTag(path)]
	return ok
}

// Clone returns a deep copy of d.
func (d Descriptor) Clone() Descriptor {
	out := Descriptor{
		DarkMode: DarkMode{
			Strategy:  d.DarkMode.Strategy,
			Selectors: append([]string(nil), d.DarkMode.Selectors...),
		},
		Mode: d.Mode,
		Content: ContentSources{
			Files: append([]string(nil), d.Content.Files...),
		},
	}

	if d.Content.Extract != nil {
		out.Content.Extract = make(map[string]string, len(d.Content.Extract))
		for k, v := range d.Content.Extract {
			out.Content.Extract[k] = v
		}
	}
	if d.Theme != nil {
		out.Theme = copyValue(d.Theme).(map[string]any)
	}

	return out
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[k] = copyValue(val)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, val := range t {
			s[i] = copyValue(val)
		}
		return s
	default:
		return v
	}
}
