package di

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikey/spam-classifier/internal/adapters/modelstore"
	"github.com/mikey/spam-classifier/internal/config"
	"github.com/mikey/spam-classifier/internal/core"
	"github.com/mikey/spam-classifier/internal/ports"
)

func TestBuildContainer(t *testing.T) {
	container, err := BuildContainer()
	require.NoError(t, err)

	err = container.Invoke(func(servers []ports.Server, service *core.SpamFilterService) {
		assert.Len(t, servers, 1)
		assert.Nil(t, service.Model())
	})
	require.NoError(t, err)
}

func TestBuildCLIContainerFlagsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("model:\n  store: sqlite\ndataset:\n  path: from-file.tsv\n"), 0o644))

	flags := &CLIFlags{
		ConfigFile: configPath,
		Store:      "file",
		ModelPath:  filepath.Join(dir, "model.zip"),
	}
	container, err := BuildCLIContainer(flags)
	require.NoError(t, err)

	err = container.Invoke(func(cfg *config.Config, store modelstore.Store, aggregator *core.Aggregator) {
		assert.Equal(t, "file", cfg.GetModel().Store)
		assert.Equal(t, "from-file.tsv", cfg.GetTraining().DatasetPath)
		assert.IsType(t, &modelstore.FileStore{}, store)
		assert.NotNil(t, aggregator)
	})
	require.NoError(t, err)
}

func TestBuildCLIContainerMissingConfig(t *testing.T) {
	container, err := BuildCLIContainer(&CLIFlags{ConfigFile: filepath.Join(t.TempDir(), "missing.yaml")})
	require.NoError(t, err)

	// Provider errors surface on invoke
	err = container.Invoke(func(cfg *config.Config) {})
	assert.Error(t, err)
}
