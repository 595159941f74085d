package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const appName = "runa"

// Paths holds the directories runa reads from and writes to.
type Paths struct {
	// ConfigDir is the directory for configuration files (~/.config/runa)
	ConfigDir string

	// CacheDir is the directory for history and logs (~/.cache/runa)
	CacheDir string
}

// DefaultPaths returns the default paths based on the XDG Base Directory spec.
func DefaultPaths() *Paths {
	return &Paths{
		ConfigDir: filepath.Join(xdg.ConfigHome, appName),
		CacheDir:  filepath.Join(xdg.CacheHome, appName),
	}
}

// ConfigFile returns the path to the configuration file. RUNA_CONFIG
// overrides the XDG location.
func (p *Paths) ConfigFile() string {
	if explicit := os.Getenv("RUNA_CONFIG"); explicit != "" {
		return explicit
	}
	return filepath.Join(p.ConfigDir, "config.yaml")
}

// HistoryFile returns the path to the usage history file.
func (p *Paths) HistoryFile() string {
	return filepath.Join(p.CacheDir, "history.yaml")
}

// LogFile returns the path to the log file.
func (p *Paths) LogFile() string {
	return filepath.Join(p.CacheDir, "runa.log")
}

// ScriptsDir returns the default directory of user scripts.
func (p *Paths) ScriptsDir() string {
	return filepath.Join(p.ConfigDir, "scripts")
}
