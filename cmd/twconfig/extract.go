package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yacobolo/twconfig"
)

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Print the tokens an extractor finds in a file or stdin",
	Long: `Run the extractor the descriptor assigns to the file's extension and print
its raw output, one token per line. Empty tokens are skipped unless --raw
is given. With no file argument the content is read from stdin and
--ext selects the extractor.`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runExtract,
}

func init() {
	f := extractCmd.Flags()
	f.String("ext", "", "Extension tag used to pick the extractor (default: from file name)")
	f.String("extractor", "", "Registered extractor name, overriding the descriptor")
	f.Bool("raw", false, "Keep empty tokens")
	f.Bool("json", false, "Print the token list as a JSON array")
}

func runExtract(cmd *cobra.Command, args []string) error {
	desc, err := buildDescriptor()
	if err != nil {
		return err
	}

	var (
		content []byte
		name    = "stdin"
	)
	if len(args) == 1 {
		name = args[0]
		// #nosec G304 - path is a command line argument
		content, err = os.ReadFile(name)
	} else {
		content, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}

	fn, err := pickExtractor(cmd, desc, name)
	if err != nil {
		return err
	}

	tokens := fn(string(content))
	raw, _ := cmd.Flags().GetBool("raw")
	if !raw {
		tokens = nonEmpty(tokens)
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(tokens)
	}

	for _, tok := range tokens {
		fmt.Fprintln(out, tok)
	}
	return nil
}

// pickExtractor resolves --extractor, then --ext, then the file extension.
func pickExtractor(cmd *cobra.Command, desc twconfig.Descriptor, name string) (twconfig.Extractor, error) {
	if explicit, _ := cmd.Flags().GetString("extractor"); explicit != "" {
		fn, ok := twconfig.LookupExtractor(explicit)
		if !ok {
			return nil, fmt.Errorf("%w %q (registered: %s)",
				twconfig.ErrUnknownExtractor, explicit, strings.Join(twconfig.Extractors(), ", "))
		}
		return fn, nil
	}

	if ext, _ := cmd.Flags().GetString("ext"); ext != "" {
		name = "input." + strings.TrimPrefix(ext, ".")
	}
	fn, _ := desc.ExtractorFor(name)
	return fn, nil
}

func nonEmpty(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}
