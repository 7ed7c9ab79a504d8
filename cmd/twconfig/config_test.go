package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/knadh/koanf/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/twconfig"
)

// resetKoanf creates a fresh koanf instance for each test.
func resetKoanf() {
	k = koanf.New(".")
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), ".twconfig.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))
	return configPath
}

func TestConfigFileLoading(t *testing.T) {
	resetKoanf()

	configPath := writeConfig(t, `
verbose: true

dark-mode: [class, dusk]

content:
  files:
    - "app/**/*.rs"
  extract:
    rs: default

scan:
  base-dir: web
  workers: 4
  strict: true
`)
	require.NoError(t, loadConfigFromPath(configPath))

	assert.True(t, k.Bool("verbose"))
	assert.Equal(t, []string{"app/**/*.rs"}, k.Strings("content.files"))
	assert.Equal(t, "web", k.String("scan.base-dir"))
	assert.Equal(t, 4, k.Int("scan.workers"))
	assert.True(t, k.Bool("scan.strict"))
	assert.Equal(t, configPath, k.String("config-file"))
}

func TestConfigFileNotFound_UsesDefaults(t *testing.T) {
	resetKoanf()

	// Point to non-existent config, should not error
	require.NoError(t, loadConfigFromPath("/nonexistent/.twconfig.yaml"))

	desc, err := buildDescriptor()
	require.NoError(t, err)
	assert.Equal(t, twconfig.Default(), desc)
	assert.Empty(t, k.String("config-file"))
}

func TestEnvVarOverridesConfigFile(t *testing.T) {
	resetKoanf()

	configPath := writeConfig(t, `
dark-mode: [class, night]
scan:
  workers: 2
  base-dir: from-file
`)

	// Set env vars that should override config file
	t.Setenv("TWCONFIG_DARK__MODE", "media")
	t.Setenv("TWCONFIG_SCAN_WORKERS", "8")
	t.Setenv("TWCONFIG_SCAN_BASE__DIR", "from-env")

	require.NoError(t, loadConfigFromPath(configPath))

	desc, err := buildDescriptor()
	require.NoError(t, err)
	assert.Equal(t, twconfig.MediaBased(), desc.DarkMode)

	config := buildScanConfig()
	assert.Equal(t, 8, config.Workers)
	assert.Equal(t, "from-env", config.BaseDir)
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "scan.workers", envKey("TWCONFIG_SCAN_WORKERS"))
	assert.Equal(t, "scan.base-dir", envKey("TWCONFIG_SCAN_BASE__DIR"))
	assert.Equal(t, "dark-mode", envKey("TWCONFIG_DARK__MODE"))
	assert.Equal(t, "verbose", envKey("TWCONFIG_VERBOSE"))
}

func TestBuildDescriptor_FromConfigFile(t *testing.T) {
	resetKoanf()

	configPath := writeConfig(t, `
dark-mode:
  strategy: class
  selectors:
    - dusk
    - '[data-mode="dark"]'
content:
  files:
    - "templates/**/*.html"
    - "src/**/*.rs"
  extract:
    html: html
theme:
  colors:
    brand: "#ff6600"
`)
	require.NoError(t, loadConfigFromPath(configPath))

	desc, err := buildDescriptor()
	require.NoError(t, err)
	assert.Equal(t, twconfig.ClassBased("dusk", `[data-mode="dark"]`), desc.DarkMode)
	assert.Equal(t, twconfig.ModeJIT, desc.Mode)
	assert.Equal(t, []string{"templates/**/*.html", "src/**/*.rs"}, desc.Content.Files)
	assert.Equal(t, map[string]string{"html": twconfig.ExtractorHTML}, desc.Content.Extract)
	assert.Equal(t, map[string]any{"colors": map[string]any{"brand": "#ff6600"}}, desc.Theme)
}

func TestBuildDescriptor_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		config  string
		wantErr error
	}{
		{
			name:    "class strategy without selectors",
			config:  "dark-mode: [class]\n",
			wantErr: twconfig.ErrInvalidSelector,
		},
		{
			name:    "unknown strategy",
			config:  "dark-mode: sunset\n",
			wantErr: twconfig.ErrUnknownDarkStrategy,
		},
		{
			name:    "unknown extractor",
			config:  "content:\n  extract:\n    vue: vue-sfc\n",
			wantErr: twconfig.ErrUnknownExtractor,
		},
		{
			name:    "unknown mode",
			config:  "mode: aot\n",
			wantErr: twconfig.ErrUnknownMode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetKoanf()
			require.NoError(t, loadConfigFromPath(writeConfig(t, tt.config)))

			_, err := buildDescriptor()
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestBuildDescriptor_FilesFromEnv(t *testing.T) {
	resetKoanf()

	t.Setenv("TWCONFIG_CONTENT_FILES", "b.html a.html")
	require.NoError(t, loadConfigFromPath("/nonexistent/.twconfig.yaml"))

	desc, err := buildDescriptor()
	require.NoError(t, err)
	assert.Equal(t, []string{"b.html", "a.html"}, desc.Content.Files)
}

func TestBuildDescriptor_FilesAsScalar(t *testing.T) {
	tests := []struct {
		name   string
		config string
		want   []string
	}{
		{
			name:   "single pattern",
			config: "content:\n  files: \"src/**/*.rs\"\n",
			want:   []string{"src/**/*.rs"},
		},
		{
			name:   "comma separated",
			config: "content:\n  files: \"src/**/*.rs, index.html\"\n",
			want:   []string{"src/**/*.rs", "index.html"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetKoanf()
			require.NoError(t, loadConfigFromPath(writeConfig(t, tt.config)))

			desc, err := buildDescriptor()
			require.NoError(t, err)
			assert.Equal(t, tt.want, desc.Content.Files)
		})
	}
}

func TestShowCommand_FilesFromEnv(t *testing.T) {
	t.Setenv("TWCONFIG_CONTENT_FILES", "b.html a.html")

	out, err := execute(t, "show", "--config", "/nonexistent/.twconfig.yaml")
	require.NoError(t, err)

	desc, err := twconfig.UnmarshalDescriptor([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, []string{"b.html", "a.html"}, desc.Content.Files)
}

func TestBuildScanConfig_Defaults(t *testing.T) {
	resetKoanf()

	config := buildScanConfig()
	assert.Equal(t, ".", config.BaseDir)
	assert.Equal(t, 0, config.Workers)
	assert.Equal(t, 0, config.CacheSize)
	assert.False(t, config.NoGitIgnore)
	assert.Empty(t, config.ConfigFile)
}

func TestBuildReportConfig_FromConfigFile(t *testing.T) {
	resetKoanf()

	configPath := writeConfig(t, `
color: true
scan:
  print-lines: false
  show-info: true
`)
	require.NoError(t, loadConfigFromPath(configPath))

	config := buildReportConfig()
	assert.False(t, config.PrintIssuedLines)
	assert.True(t, config.PrintLinterName)
	assert.True(t, config.ShowInfo)
	assert.True(t, config.UseColors)
}

func TestInitCommand_CreatesConfigFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(origDir)
	})

	_, err := execute(t, "init")
	require.NoError(t, err)

	// Verify file was created
	data, err := os.ReadFile(".twconfig.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "dark-mode:")
	assert.Contains(t, string(data), "content:")
	assert.Contains(t, string(data), "scan:")
}

func TestInitCommand_ConfigMatchesDefault(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(origDir)
	})

	_, err := execute(t, "init")
	require.NoError(t, err)

	resetKoanf()
	require.NoError(t, loadConfigFromPath(".twconfig.yaml"))

	desc, err := buildDescriptor()
	require.NoError(t, err)
	assert.Equal(t, twconfig.Default(), desc)

	assert.Equal(t, 100*time.Millisecond, getDurationWithFallback("debounce", "scan.debounce", 0))
}

func TestInitCommand_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(origDir)
	})

	// Create existing file
	require.NoError(t, os.WriteFile(".twconfig.yaml", []byte("existing"), 0644))

	_, err := execute(t, "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestInitCommand_ForceOverwrite(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(origDir)
	})

	// Create existing file
	require.NoError(t, os.WriteFile(".twconfig.yaml", []byte("existing"), 0644))

	_, err := execute(t, "init", "--force")
	require.NoError(t, err)

	data, err := os.ReadFile(".twconfig.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "mode: jit")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "twconfig dev\n", out)
}

func TestGetStringWithFallback(t *testing.T) {
	resetKoanf()

	// No keys set - should return default
	assert.Equal(t, "default", getStringWithFallback("flag-key", "config.key", "default"))

	require.NoError(t, k.Set("config.key", "from-config"))
	assert.Equal(t, "from-config", getStringWithFallback("flag-key", "config.key", "default"))

	require.NoError(t, k.Set("flag-key", "from-flag"))
	assert.Equal(t, "from-flag", getStringWithFallback("flag-key", "config.key", "default"))
}

func TestGetBoolWithFallback(t *testing.T) {
	resetKoanf()

	// No keys set - should return default
	assert.False(t, getBoolWithFallback("flag-key", "config.key", false))
	assert.True(t, getBoolWithFallback("flag-key", "config.key", true))

	// An explicit false in config beats a true default
	require.NoError(t, k.Set("config.key", false))
	assert.False(t, getBoolWithFallback("flag-key", "config.key", true))
}

func TestGetIntWithFallback(t *testing.T) {
	resetKoanf()

	// No keys set - should return default
	assert.Equal(t, 42, getIntWithFallback("flag-key", "config.key", 42))

	require.NoError(t, k.Set("config.key", 7))
	assert.Equal(t, 7, getIntWithFallback("flag-key", "config.key", 42))
}

func TestSetKey_FlagBeatsConfig(t *testing.T) {
	resetKoanf()

	_, ok := setKey("workers", "scan.workers")
	assert.False(t, ok)

	require.NoError(t, k.Set("scan.workers", 2))
	key, ok := setKey("workers", "scan.workers")
	require.True(t, ok)
	assert.Equal(t, "scan.workers", key)

	require.NoError(t, k.Set("workers", 6))
	key, _ = setKey("workers", "scan.workers")
	assert.Equal(t, "workers", key)
	assert.Equal(t, 6, getIntWithFallback("workers", "scan.workers", 0))
}
