package twconfig

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/html"
)

// Extractor maps raw file content to candidate class-name tokens.
// Implementations must be pure and total: no state, no I/O, no panics.
type Extractor func(content string) []string

// Names of the built-in extractors.
const (
	ExtractorDefault = "default"
	ExtractorLeptos  = "leptos"
	ExtractorHTML    = "html"
)

// jsWhitespace is the ECMAScript \s set. Go's \s only covers ASCII.
const jsWhitespace = `\t\n\v\f\r \x{00a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}\x{feff}`

// bindingPattern matches reactive attribute bindings such as :class=
var bindingPattern = regexp.MustCompile(":([^<>\"'`:=" + jsWhitespace + "]*)=")

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Extractor)
)

func init() {
	Register(ExtractorDefault, ExtractNormal)
	Register(ExtractorLeptos, ExtractLeptos)
	Register(ExtractorHTML, ExtractHTML)
}

// Register makes an extractor available under name. It panics if name is
// empty, fn is nil, or the name is already taken.
func Register(name string, fn Extractor) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if name == "" {
		panic("twconfig: Register called with empty extractor name")
	}
	if fn == nil {
		panic(fmt.Sprintf("twconfig: Register extractor %q is nil", name))
	}
	if _, dup := registry[name]; dup {
		panic(fmt.Sprintf("twconfig: Register called twice for extractor %q", name))
	}
	registry[name] = fn
}

// LookupExtractor returns the extractor registered under name.
func LookupExtractor(name string) (Extractor, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	fn, ok := registry[name]
	return fn, ok
}

// Extractors returns the sorted names of all registered extractors.
func Extractors() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// isNormalDelimiter reports whether r ends a run in the normal-token pass.
func isNormalDelimiter(r rune) bool {
	switch r {
	case '<', '>', '"', '\'', '`', '=':
		return true
	}
	return isJSSpace(r)
}

func isJSSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ',
		0x00a0, 0x1680, 0x2028, 0x2029, 0x202f, 0x205f, 0x3000, 0xfeff:
		return true
	}
	return r >= 0x2000 && r <= 0x200a
}

// ExtractNormal is the generic tokenizer: every maximal run of characters
// outside < > " ' ` = and whitespace, in source order.
//
// Matching follows global-match semantics. A zero-length run at a delimiter
// yields "" and the scan steps over that delimiter; a run that ends at the
// end of input is followed by one more "" there. Empty tokens are kept.
func ExtractNormal(content string) []string {
	tokens := make([]string, 0, len(content)/4+1)

	pos := 0
	for pos <= len(content) {
		end := pos
		for end < len(content) {
			r, size := utf8.DecodeRuneInString(content[end:])
			if isNormalDelimiter(r) {
				break
			}
			end += size
		}

		tokens = append(tokens, content[pos:end])

		if end > pos {
			pos = end
			continue
		}
		if pos == len(content) {
			break
		}
		_, size := utf8.DecodeRuneInString(content[pos:])
		pos += size
	}

	return tokens
}

// ExtractBindings returns the attribute name of every non-overlapping
// :name= binding, in source order.
func ExtractBindings(content string) []string {
	matches := bindingPattern.FindAllStringSubmatch(content, -1)
	tokens := make([]string, 0, len(matches))
	for _, m := range matches {
		tokens = append(tokens, m[1])
	}
	return tokens
}

// ExtractLeptos handles templates that bind attributes with a leading colon.
// All normal-pass tokens come first, then all binding tokens.
func ExtractLeptos(content string) []string {
	normal := ExtractNormal(content)
	return append(normal, ExtractBindings(content)...)
}

// ExtractHTML returns the whitespace-separated values of every class
// attribute in HTML markup.
func ExtractHTML(content string) []string {
	tokens := []string{}
	lexer := html.NewLexer(parse.NewInputString(content))

	for {
		tt, _ := lexer.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF or malformed input; either way we're done
			return tokens
		case html.AttributeToken:
			if !strings.EqualFold(string(lexer.Text()), "class") {
				continue
			}
			val := strings.Trim(string(lexer.AttrVal()), `"'`)
			tokens = append(tokens, strings.Fields(val)...)
		}
	}
}
