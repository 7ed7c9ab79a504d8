package twconfig

import (
	"fmt"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// DarkStrategy selects how dark-mode utilities are activated.
type DarkStrategy string

const (
	// DarkClass scopes dark utilities under one or more ancestor selectors.
	DarkClass DarkStrategy = "class"
	// DarkMedia scopes dark utilities under prefers-color-scheme.
	DarkMedia DarkStrategy = "media"
)

// DarkVariantPrefix is the utility prefix that marks a dark-mode class.
const DarkVariantPrefix = "dark:"

// DarkMode is the dark-mode activation rule. Selectors are only meaningful
// for DarkClass and their order is significant.
type DarkMode struct {
	Strategy  DarkStrategy `yaml:"strategy" koanf:"strategy"`
	Selectors []string     `yaml:"selectors,omitempty" koanf:"selectors"`
}

// ClassBased returns a class strategy triggered by any of selectors. A bare
// identifier is a literal class name; anything else is used verbatim.
func ClassBased(selectors ...string) DarkMode {
	return DarkMode{Strategy: DarkClass, Selectors: append([]string(nil), selectors...)}
}

// MediaBased returns the prefers-color-scheme strategy.
func MediaBased() DarkMode {
	return DarkMode{Strategy: DarkMedia}
}

// selectorKind classifies a configured dark-mode selector.
type selectorKind int

const (
	selectorInvalid selectorKind = iota
	selectorClass                // night
	selectorComplex              // [data-theme="night"], .night, html.dark
)

// classifySelector lexes s and reports whether it is a literal class name or
// a selector to use verbatim. Blocks, at-rules and declarations are invalid.
func classifySelector(s string) selectorKind {
	lexer := css.NewLexer(parse.NewInputString(s))

	var tokens int
	var idents int
	for {
		tt, _ := lexer.Next()
		switch tt {
		case css.ErrorToken:
			if tokens == 0 {
				return selectorInvalid
			}
			if tokens == 1 && idents == 1 {
				return selectorClass
			}
			return selectorComplex
		case css.WhitespaceToken:
			continue
		case css.LeftBraceToken, css.RightBraceToken, css.SemicolonToken,
			css.AtKeywordToken, css.BadStringToken, css.BadURLToken,
			css.CommentToken, css.CDOToken, css.CDCToken:
			return selectorInvalid
		case css.IdentToken:
			idents++
		}
		tokens++
	}
}

// Validate checks the strategy and every selector.
func (d DarkMode) Validate() error {
	switch d.Strategy {
	case DarkMedia:
		if len(d.Selectors) > 0 {
			return fmt.Errorf("%w: media strategy takes no selectors", ErrInvalidSelector)
		}
		return nil
	case DarkClass:
		if len(d.Selectors) == 0 {
			return fmt.Errorf("%w: class strategy needs at least one selector", ErrInvalidSelector)
		}
		for _, s := range d.Selectors {
			if classifySelector(s) == selectorInvalid {
				return fmt.Errorf("%w: %q", ErrInvalidSelector, s)
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDarkStrategy, d.Strategy)
	}
}

// Variant returns the selector a build tool emits for the dark utility
// class (for example "dark:bg-black"). For the class strategy there is one
// complex selector per configured selector, in configured order. For the
// media strategy the class selector is wrapped in its at-rule.
func (d DarkMode) Variant(class string) string {
	target := "." + EscapeClass(class)

	if d.Strategy == DarkMedia {
		return "@media (prefers-color-scheme: dark) { " + target + " }"
	}

	parts := make([]string, 0, len(d.Selectors))
	for _, s := range d.Selectors {
		s = strings.TrimSpace(s)
		if classifySelector(s) == selectorClass {
			parts = append(parts, "."+EscapeClass(s)+" "+target)
			continue
		}
		parts = append(parts, s+" "+target)
	}
	return strings.Join(parts, ", ")
}

// EscapeClass escapes a class name for use in a CSS class selector.
func EscapeClass(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)

	for i, r := range name {
		switch {
		case r >= '0' && r <= '9' && (i == 0 || (i == 1 && name[0] == '-')):
			// an identifier cannot start with a digit or "-" and a digit
			fmt.Fprintf(&b, "\\3%c ", r)
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '-', r == '_', r >= 0x80:
			b.WriteRune(r)
		default:
			b.WriteByte('\\')
			b.WriteRune(r)
		}
	}

	return b.String()
}

// String renders the strategy in the sequence form used by config files.
func (d DarkMode) String() string {
	if len(d.Selectors) == 0 {
		return string(d.Strategy)
	}
	return fmt.Sprintf("%s %q", d.Strategy, d.Selectors)
}
