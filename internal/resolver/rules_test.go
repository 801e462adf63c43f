package resolver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRules_Defaults(t *testing.T) {
	rules, err := LoadRules("")
	require.NoError(t, err)

	target, ok := rules.PageTarget("/about-us/")
	require.True(t, ok)
	assert.Equal(t, "/about/", target)

	assert.NotEmpty(t, rules.DiscontinuedTokens)
}

func TestLoadRules_MergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.toml")
	content := `
discontinued_tokens = ["legacy-bundle"]

[manual]
"/Old-Landing/" = "/new-landing/"

[pages]
"/warranty/" = "/support/warranty/"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	rules, err := LoadRules(path)
	require.NoError(t, err)

	// Manual keys are normalized on load.
	target, ok := rules.ManualTarget("/old-landing/")
	require.True(t, ok)
	assert.Equal(t, "/new-landing/", target)

	// New page entries merge without dropping defaults.
	target, ok = rules.PageTarget("/warranty/")
	require.True(t, ok)
	assert.Equal(t, "/support/warranty/", target)
	_, ok = rules.PageTarget("/about-us/")
	assert.True(t, ok)

	assert.Contains(t, rules.DiscontinuedTokens, "legacy-bundle")
	assert.Contains(t, rules.DiscontinuedTokens, "shipping-fee")
}

func TestLoadRules_MissingFile(t *testing.T) {
	_, err := LoadRules(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadRules_Malformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.toml")
	require.NoError(t, os.WriteFile(path, []byte("[manual\nbroken"), 0o644))

	_, err := LoadRules(path)
	assert.Error(t, err)
}
