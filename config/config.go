// Package config loads runa's settings file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Field names an application metadata field usable as extra or hidden text.
type Field string

const (
	FieldComment     Field = "comment"
	FieldID          Field = "id"
	FieldIDSuffix    Field = "id_suffix"
	FieldExecutable  Field = "executable"
	FieldCommandline Field = "commandline"
)

func (f Field) valid() bool {
	switch f {
	case FieldComment, FieldID, FieldIDSuffix, FieldExecutable, FieldCommandline:
		return true
	}
	return false
}

// OverrideSeparator marks where the disambiguation suffix starts inside a
// name override.
const OverrideSeparator = "\r"

// Config represents the runa configuration.
type Config struct {
	RecentFirst   bool `yaml:"recent_first"`   // Rank recently used entries first
	FrequentFirst bool `yaml:"frequent_first"` // Rank frequently used entries first
	PruneHistory  int  `yaml:"prune_history"`  // Drop history older than N days (0 = never)

	MarkupDefault   string `yaml:"markup_default"`
	MarkupHighlight string `yaml:"markup_highlight"`
	MarkupExtra     string `yaml:"markup_extra"`

	ExtraField           []Field           `yaml:"extra_field"`             // First field is appended to the name
	HideExtraIfContained bool              `yaml:"hide_extra_if_contained"` // Skip the extra field if the name already contains it
	HiddenFields         []Field           `yaml:"hidden_fields"`           // Searched but never shown
	NameOverrides        map[string]string `yaml:"name_overrides"`          // Application id -> display name
	Exclude              []string          `yaml:"exclude"`                 // Regexes over application ids
	ShowActions          bool              `yaml:"show_actions"`            // List desktop actions as their own entries

	CommandPrefix string `yaml:"command_prefix"` // Run the rest of the query as a command
	ScriptPrefix  string `yaml:"script_prefix"`  // Search scripts instead of applications

	TermCommand string `yaml:"term_command"` // Terminal wrapper for Terminal=true apps
	LaunchScope bool   `yaml:"launch_scope"` // Wrap launches in a systemd scope
	Lines       int    `yaml:"lines"`        // List height (0 = fit terminal)
}

// DefaultConfig returns the configuration used for missing options.
func DefaultConfig() *Config {
	return &Config{
		RecentFirst:          true,
		FrequentFirst:        true,
		MarkupHighlight:      `foreground="red" underline="double"`,
		MarkupExtra:          `font_style="italic" foreground="244"`,
		HideExtraIfContained: true,
		NameOverrides:        map[string]string{},
		CommandPrefix:        ":",
		ScriptPrefix:         "/",
	}
}

// LoadFromFile reads the configuration at path. A missing file yields the
// defaults; malformed YAML or invalid values are errors.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks option values that YAML decoding cannot.
func (c *Config) Validate() error {
	if c.PruneHistory < 0 {
		return fmt.Errorf("%w: prune_history must not be negative", ErrInvalid)
	}
	if c.Lines < 0 {
		return fmt.Errorf("%w: lines must not be negative", ErrInvalid)
	}
	for _, f := range append(append([]Field{}, c.ExtraField...), c.HiddenFields...) {
		if !f.valid() {
			return fmt.Errorf("%w: unknown field %q", ErrInvalid, f)
		}
	}
	if _, err := c.ExcludePatterns(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := c.Styles(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// ExcludePatterns compiles the exclude list.
func (c *Config) ExcludePatterns() ([]*regexp.Regexp, error) {
	patterns := make([]*regexp.Regexp, 0, len(c.Exclude))
	for _, expr := range c.Exclude {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("exclude pattern %q: %w", expr, err)
		}
		patterns = append(patterns, re)
	}
	return patterns, nil
}

// Styles parses the markup options.
func (c *Config) Styles() (Styles, error) {
	var (
		s   Styles
		err error
	)
	if s.Default, err = ParseMarkup(c.MarkupDefault); err != nil {
		return s, fmt.Errorf("markup_default: %w", err)
	}
	if s.Highlight, err = ParseMarkup(c.MarkupHighlight); err != nil {
		return s, fmt.Errorf("markup_highlight: %w", err)
	}
	if s.Extra, err = ParseMarkup(c.MarkupExtra); err != nil {
		return s, fmt.Errorf("markup_extra: %w", err)
	}
	return s, nil
}

// Extra returns the field appended to application names, if any.
func (c *Config) Extra() (Field, bool) {
	if len(c.ExtraField) == 0 {
		return "", false
	}
	return c.ExtraField[0], true
}
