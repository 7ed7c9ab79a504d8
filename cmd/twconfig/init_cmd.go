package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default .twconfig.yaml config file",
	Long:  `Create a .twconfig.yaml configuration file in the current directory with the Leptos defaults.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")

		if _, err := os.Stat(defaultConfigPath); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", defaultConfigPath)
		}

		if err := os.WriteFile(defaultConfigPath, []byte(defaultConfig), 0644); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", defaultConfigPath)
		return nil
	},
}

const defaultConfig = `# twconfig configuration

# Shared settings
verbose: false

# Dark mode: "media", or "class" with the selectors that switch it on.
# A bare name is a class on an ancestor; anything else is used as written.
dark-mode:
  strategy: class
  selectors:
    - night
    - '[data-theme="night"]'

mode: jit

content:
  files:
    - "src/**/*.rs"
    - "index.html"
  extract:
    rs: leptos             # default | leptos | html

theme: {}

# Scan settings
scan:
  base-dir: .
  workers: 0               # 0 = one per CPU
  output-format: text      # text | summary | full | candidates | json
  strict: false
  show-info: false
  print-lines: true
  print-linter-name: true
  debounce: 100ms
`

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite existing config file")
}
