package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadEmptyFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, ""))
	require.NoError(t, err)
	assert.True(t, cfg.RecentFirst)
	assert.Equal(t, ":", cfg.CommandPrefix)
}

func TestLoadOverridesDefaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, `
recent_first: false
prune_history: 30
extra_field: [id_suffix]
hidden_fields: [comment, executable]
name_overrides:
  firefox: "Firefox\rNightly"
exclude: ["^org\\.gnome\\."]
command_prefix: "!"
show_actions: true
`))
	require.NoError(t, err)

	assert.False(t, cfg.RecentFirst)
	assert.True(t, cfg.FrequentFirst)
	assert.Equal(t, 30, cfg.PruneHistory)
	assert.Equal(t, "!", cfg.CommandPrefix)
	assert.Equal(t, "/", cfg.ScriptPrefix)
	assert.True(t, cfg.ShowActions)
	assert.Equal(t, "Firefox"+OverrideSeparator+"Nightly", cfg.NameOverrides["firefox"])

	extra, ok := cfg.Extra()
	require.True(t, ok)
	assert.Equal(t, FieldIDSuffix, extra)
	assert.Equal(t, []Field{FieldComment, FieldExecutable}, cfg.HiddenFields)

	patterns, err := cfg.ExcludePatterns()
	require.NoError(t, err)
	require.Len(t, patterns, 1)
	assert.True(t, patterns[0].MatchString("org.gnome.Nautilus.desktop"))
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed yaml", "recent_first: [true\n"},
		{"unknown key", "colour: red\n"},
		{"bad regex", "exclude: ['(']\n"},
		{"unknown field", "hidden_fields: [mime]\n"},
		{"negative prune", "prune_history: -1\n"},
		{"bad markup", "markup_highlight: 'sparkle=\"yes\"'\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestParseMarkup(t *testing.T) {
	style, err := ParseMarkup(`foreground="red" underline="double" weight="bold"`)
	require.NoError(t, err)
	assert.True(t, style.GetUnderline())
	assert.True(t, style.GetBold())
	assert.Equal(t, lipgloss.Color("1"), style.GetForeground())

	_, err = ParseMarkup(`foreground`)
	assert.Error(t, err)

	style, err = ParseMarkup("")
	require.NoError(t, err)
	assert.False(t, style.GetBold())
}

func TestDefaultPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_CACHE_HOME", "/tmp/cache")
	t.Setenv("RUNA_CONFIG", "")
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	p := DefaultPaths()
	assert.Equal(t, "/tmp/cfg/runa/config.yaml", p.ConfigFile())
	assert.Equal(t, "/tmp/cache/runa/history.yaml", p.HistoryFile())
	assert.Equal(t, "/tmp/cache/runa/runa.log", p.LogFile())
	assert.Equal(t, "/tmp/cfg/runa/scripts", p.ScriptsDir())

	t.Setenv("RUNA_CONFIG", "/etc/runa.yaml")
	assert.Equal(t, "/etc/runa.yaml", p.ConfigFile())
}
