package sdk_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glide-cli/plugo/pkg/plugin/sdk"
)

func TestYAMLSettingsStoreMissingFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yml")

	store, err := sdk.NewYAMLSettingsStore(path)
	require.NoError(t, err)

	_, ok := store.Get("anything")
	assert.False(t, ok)
}

func TestYAMLSettingsStoreRoundTripsThroughDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yml")

	store, err := sdk.NewYAMLSettingsStore(path)
	require.NoError(t, err)

	store.Set("PluginManager/PluginSpec.DisabledPlugins", []string{"alpha", "beta"})

	reopened, err := sdk.NewYAMLSettingsStore(path)
	require.NoError(t, err)

	v, ok := reopened.Get("PluginManager/PluginSpec.DisabledPlugins")
	require.True(t, ok)
	assert.Equal(t, []string{"alpha", "beta"}, v)
}

func TestYAMLSettingsStoreCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "settings.yml")

	store, err := sdk.NewYAMLSettingsStore(path)
	require.NoError(t, err)
	store.Set("k", []string{"v"})

	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)
}
