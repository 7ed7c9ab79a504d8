// Package twconfig describes where a utility-class CSS generator looks for
// class usage, how it tokenizes templates, and how dark mode is activated.
//
// # Descriptor
//
// A Descriptor is built once and read on every build:
//
//	desc := twconfig.Default()
//	if err := desc.Validate(); err != nil {
//		return err
//	}
//
// Content files are doublestar globs. Each extension tag may name a
// registered extractor; other files use the default tokenizer:
//
//	fn, name := desc.ExtractorFor("src/app.rs") // ExtractLeptos, "leptos"
//	tokens := fn(source)
//
// # Scanning
//
// A Scanner plays the build tool's part: it expands the globs, runs the
// extractors in parallel and collects candidate classes:
//
//	scanner, err := twconfig.NewScanner(desc, twconfig.ScanConfig{BaseDir: "web"})
//	result, err := scanner.Scan(ctx)
//
// Watch rescans on every change to a content file.
//
// # CLI Tool
//
//	go install github.com/yacobolo/twconfig/cmd/twconfig@latest
package twconfig
