package config

import (
	"os"
	"path/filepath"
	"testing"

	internal "github.com/ZanzyTHEbar/fast-explorer/fexp"
	"github.com/ZanzyTHEbar/fast-explorer/fexp/filesystem/options"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// ConfigTestSuite tests the config package functionality
type ConfigTestSuite struct {
	suite.Suite
	tempDir string
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) SetupTest() {
	suite.tempDir = suite.T().TempDir()
	suite.T().Chdir(suite.tempDir)
}

func (suite *ConfigTestSuite) TestLoadConfigWithDefaults() {
	cfg, err := LoadConfig("")
	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), cfg)

	defaults := options.DefaultIndexOptions(".")
	assert.Equal(suite.T(), ".", cfg.Index.Root)
	assert.Equal(suite.T(), -1, cfg.Index.MaxDepth)
	assert.True(suite.T(), cfg.Index.IncludeHidden)
	assert.False(suite.T(), cfg.Index.FollowSymlinks)
	assert.Equal(suite.T(), internal.DefaultIgnoreFile, cfg.Index.IgnoreFile)
	assert.Equal(suite.T(), defaults.Workers, cfg.Index.Workers)

	assert.Equal(suite.T(), "warn", cfg.Log.Level)
	assert.Empty(suite.T(), cfg.Log.File)

	assert.Equal(suite.T(), "auto", cfg.Shell.Color)
	assert.Equal(suite.T(), internal.DefaultPathColumnSize, cfg.Shell.PathWidth)
	assert.Zero(suite.T(), cfg.Shell.MaxResults)
	assert.Equal(suite.T(), "> ", cfg.Shell.Prompt)
	assert.Equal(suite.T(), 10, cfg.Shell.StatsTop)

	assert.Equal(suite.T(), *cfg, AppConfig)
}

func (suite *ConfigTestSuite) TestLoadConfigWithFile() {
	configContent := `
index:
  root: "/srv/data"
  maxDepth: 4
  includeHidden: false
  followSymlinks: true
  ignorePatterns:
    - "node_modules/"
    - "*.tmp"
  workers: 2
log:
  level: debug
  file: "/var/log/fexp.log"
  compress: true
shell:
  color: never
  pathWidth: 80
  maxResults: 50
  statsTop: 3
`

	configFile := filepath.Join(suite.tempDir, "custom.yaml")
	require.NoError(suite.T(), os.WriteFile(configFile, []byte(configContent), 0o644))

	cfg, err := LoadConfig(configFile)
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), "/srv/data", cfg.Index.Root)
	assert.Equal(suite.T(), 4, cfg.Index.MaxDepth)
	assert.False(suite.T(), cfg.Index.IncludeHidden)
	assert.True(suite.T(), cfg.Index.FollowSymlinks)
	assert.Equal(suite.T(), []string{"node_modules/", "*.tmp"}, cfg.Index.IgnorePatterns)
	assert.Equal(suite.T(), 2, cfg.Index.Workers)

	assert.Equal(suite.T(), "debug", cfg.Log.Level)
	assert.Equal(suite.T(), "/var/log/fexp.log", cfg.Log.File)
	assert.True(suite.T(), cfg.Log.Compress)
	assert.Equal(suite.T(), 10, cfg.Log.MaxSizeMB, "unset keys keep their defaults")

	assert.Equal(suite.T(), "never", cfg.Shell.Color)
	assert.Equal(suite.T(), 80, cfg.Shell.PathWidth)
	assert.Equal(suite.T(), 50, cfg.Shell.MaxResults)
	assert.Equal(suite.T(), "> ", cfg.Shell.Prompt)
	assert.Equal(suite.T(), 3, cfg.Shell.StatsTop)
}

func (suite *ConfigTestSuite) TestLoadConfigFromWorkingDirectory() {
	require.NoError(suite.T(), os.WriteFile(filepath.Join(suite.tempDir, "config.yaml"), []byte("index:\n  maxDepth: 2\n"), 0o644))

	cfg, err := LoadConfig("")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 2, cfg.Index.MaxDepth)
}

func (suite *ConfigTestSuite) TestEnvironmentOverrides() {
	suite.T().Setenv("FEXP_INDEX_MAXDEPTH", "7")
	suite.T().Setenv("FEXP_SHELL_COLOR", "always")

	cfg, err := LoadConfig("")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 7, cfg.Index.MaxDepth)
	assert.Equal(suite.T(), "always", cfg.Shell.Color)
}

func (suite *ConfigTestSuite) TestLoadConfigInvalidFile() {
	configFile := filepath.Join(suite.tempDir, "broken.yaml")
	require.NoError(suite.T(), os.WriteFile(configFile, []byte("index: [unclosed"), 0o644))

	_, err := LoadConfig(configFile)
	assert.Error(suite.T(), err)
}

func (suite *ConfigTestSuite) TestConversions() {
	cfg, err := LoadConfig("")
	require.NoError(suite.T(), err)

	opts := cfg.IndexOptions("/override")
	assert.Equal(suite.T(), "/override", opts.Root)
	assert.Equal(suite.T(), cfg.Index.MaxDepth, opts.MaxDepth)
	assert.Equal(suite.T(), ".", cfg.IndexOptions("").Root)

	logOpts := cfg.LogOptions()
	assert.Equal(suite.T(), "warn", logOpts.Level)
	assert.True(suite.T(), logOpts.Console)
}
