package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/yacobolo/twconfig"
	"github.com/yacobolo/twconfig/internal/logger"
)

const defaultConfigPath = ".twconfig.yaml"

var k = koanf.New(".")

// loadConfig loads configuration with precedence: flags > env > file > defaults.
// It must be called after cobra parses flags (in PreRunE or RunE).
func loadConfig(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	if err := loadConfigFromPath(configPath); err != nil {
		return err
	}

	// 3. CLI flags (highest precedence, only flags that were explicitly set)
	fs := cmd.Flags()
	if err := k.Load(posflag.ProviderWithFlag(fs, ".", k, func(f *pflag.Flag) (string, any) {
		if !f.Changed {
			return "", nil
		}
		return f.Name, posflag.FlagVal(fs, f)
	}), nil); err != nil {
		return fmt.Errorf("loading command flags: %w", err)
	}

	return attachLogger(cmd)
}

// loadConfigFromPath loads configuration from a file and environment variables.
// This is separated from loadConfig to allow testing without a cobra command.
func loadConfigFromPath(configPath string) error {
	// 1. Config file (lowest precedence among providers)
	if _, err := os.Stat(configPath); err == nil {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return fmt.Errorf("loading config file %s: %w", configPath, err)
		}
		if err := k.Set("config-file", configPath); err != nil {
			return err
		}
	}

	// 2. Environment variables (TWCONFIG_* prefix)
	if err := k.Load(env.Provider("TWCONFIG_", ".", envKey), nil); err != nil {
		return fmt.Errorf("loading environment variables: %w", err)
	}

	return nil
}

// envKey maps an environment variable to a config key.
// TWCONFIG_SCAN_WORKERS -> scan.workers
// TWCONFIG_SCAN_BASE__DIR -> scan.base-dir
// TWCONFIG_DARK__MODE -> dark-mode
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, "TWCONFIG_"))
	key = strings.ReplaceAll(key, "__", "-")
	return strings.ReplaceAll(key, "_", ".")
}

// attachLogger stores a zap logger on the command context.
func attachLogger(cmd *cobra.Command) error {
	log, err := logger.New(getBoolWithFallback("verbose", "verbose", false))
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	zap.ReplaceGlobals(log)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logger.NewContext(ctx, log))
	return nil
}

// buildDescriptor constructs the descriptor from koanf state on top of
// twconfig.Default(), then validates it.
func buildDescriptor() (twconfig.Descriptor, error) {
	desc := twconfig.Default()

	if k.Exists("dark-mode") {
		dm, err := twconfig.DarkModeFromValue(k.Get("dark-mode"))
		if err != nil {
			return desc, err
		}
		desc.DarkMode = dm
	}

	if k.Exists("mode") {
		desc.Mode = k.String("mode")
	}

	// Handle files: check flag key first, then config key
	if files := stringList("files"); len(files) > 0 {
		desc.Content.Files = files
	} else if k.Exists("content.files") {
		desc.Content.Files = stringList("content.files")
	}

	if k.Exists("content.extract") {
		desc.Content.Extract = k.StringMap("content.extract")
	}

	if theme, ok := k.Get("theme").(map[string]any); ok {
		desc.Theme = theme
	}

	if err := desc.Validate(); err != nil {
		return desc, fmt.Errorf("invalid configuration: %w", err)
	}
	return desc, nil
}

// stringList reads a list key that may also arrive as a single string, from
// an environment variable or a YAML scalar. Strings split on commas and
// whitespace: TWCONFIG_CONTENT_FILES="src/**/*.rs,index.html".
func stringList(key string) []string {
	if s, ok := k.Get(key).(string); ok {
		return strings.FieldsFunc(s, func(r rune) bool {
			return r == ',' || unicode.IsSpace(r)
		})
	}
	return k.Strings(key)
}

// buildScanConfig constructs the library's ScanConfig from koanf state.
func buildScanConfig() twconfig.ScanConfig {
	return twconfig.ScanConfig{
		BaseDir:     getStringWithFallback("base-dir", "scan.base-dir", "."),
		Workers:     getIntWithFallback("workers", "scan.workers", 0),
		CacheSize:   getIntWithFallback("cache-size", "scan.cache-size", 0),
		NoGitIgnore: getBoolWithFallback("no-gitignore", "scan.no-gitignore", false),
		ConfigFile:  k.String("config-file"),
	}
}

// buildReportConfig constructs the reporter settings from koanf state.
func buildReportConfig() twconfig.ReportConfig {
	return twconfig.ReportConfig{
		PrintIssuedLines: getBoolWithFallback("print-lines", "scan.print-lines", true),
		PrintLinterName:  getBoolWithFallback("print-linter-name", "scan.print-linter-name", true),
		ShowInfo:         getBoolWithFallback("show-info", "scan.show-info", false),
		UseColors:        getBoolWithFallback("color", "color", false),
	}
}

// setKey returns the first of keys that is present, so an explicitly set
// flag wins over the config file key.
func setKey(keys ...string) (string, bool) {
	for _, key := range keys {
		if k.Exists(key) {
			return key, true
		}
	}
	return "", false
}

// getStringWithFallback returns the first non-empty value of the flag key and
// the config key, or defaultVal.
func getStringWithFallback(flagKey, configKey, defaultVal string) string {
	for _, key := range []string{flagKey, configKey} {
		if v := k.String(key); v != "" {
			return v
		}
	}
	return defaultVal
}

func getBoolWithFallback(flagKey, configKey string, defaultVal bool) bool {
	if key, ok := setKey(flagKey, configKey); ok {
		return k.Bool(key)
	}
	return defaultVal
}

func getIntWithFallback(flagKey, configKey string, defaultVal int) int {
	if key, ok := setKey(flagKey, configKey); ok {
		return k.Int(key)
	}
	return defaultVal
}

func getDurationWithFallback(flagKey, configKey string, defaultVal time.Duration) time.Duration {
	if key, ok := setKey(flagKey, configKey); ok {
		return k.Duration(key)
	}
	return defaultVal
}
