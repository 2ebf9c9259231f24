package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testManifest = `{
	"book": "Basiszorg deel 1",
	"template": "basisboek",
	"profile": "profiel.json",
	"chapters": [
		{"number": 2, "snapshot": "h2.layout.json", "baseline": "h2.baseline.json"}
	]
}`

func writeTestManifest(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "boek.manifest.json")
	require.NoError(t, os.WriteFile(path, []byte(testManifest), 0o644))
	return path
}

func TestResolveInputPositionalWins(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("manifest", "bestaat-niet.json")

	in, err := resolveInput([]string{"h3.layout.json"})
	require.NoError(t, err)
	assert.Equal(t, "h3.layout.json", in.snapshot)
}

func TestResolveInputFromManifest(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("manifest", writeTestManifest(t))
	viper.Set("chapter", 2)

	in, err := resolveInput(nil)
	require.NoError(t, err)
	assert.Equal(t, "h2.layout.json", in.snapshot)
	assert.Equal(t, "h2.baseline.json", in.baseline)
	assert.Equal(t, "profiel.json", in.profile)
}

func TestResolveInputProfileFlagWins(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("manifest", writeTestManifest(t))
	viper.Set("chapter", 2)
	viper.Set("profile", "ander-profiel.json")

	in, err := resolveInput(nil)
	require.NoError(t, err)
	assert.Equal(t, "ander-profiel.json", in.profile)
}

func TestResolveInputErrors(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	_, err := resolveInput(nil)
	assert.Error(t, err, "no snapshot and no manifest")

	viper.Set("manifest", writeTestManifest(t))
	viper.Set("chapter", 9)
	_, err = resolveInput(nil)
	assert.ErrorContains(t, err, "no chapter 9")
}
