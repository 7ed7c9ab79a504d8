package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yacobolo/twconfig"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective descriptor as YAML",
	Long: `Merge the defaults, config file, environment and flags into the descriptor
the generator would read, validate it and print it as YAML.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		desc, err := buildDescriptor()
		if err != nil {
			return err
		}

		data, err := twconfig.MarshalYAML(desc)
		if err != nil {
			return err
		}

		_, err = fmt.Fprint(cmd.OutOrStdout(), string(data))
		return err
	},
}

var variantCmd = &cobra.Command{
	Use:   "variant <class>...",
	Short: "Print the dark-mode selector for utility classes",
	Long: `Print the CSS selector the configured dark-mode strategy produces for each
class. The dark: variant is added when the class does not carry it.`,
	Args: cobra.MinimumNArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		desc, err := buildDescriptor()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, class := range args {
			if !strings.Contains(class, twconfig.DarkVariantPrefix) {
				class = twconfig.DarkVariantPrefix + class
			}
			fmt.Fprintln(out, desc.DarkMode.Variant(class))
		}
		return nil
	},
}
