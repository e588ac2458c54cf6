// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/aldenmoor/typeforge/internal/model"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeSettings `toml:"practice"`
}

// PracticeSettings maps the nullable practice-related settings a TOML file
// may override. A nil field means "not set in the file"; the CLI flag or
// hard default applies instead.
type PracticeSettings struct {
	LinesPerSegment        *int  `toml:"lines-per-segment"`
	TabWidth               *int  `toml:"tab-width"`
	Slack                  *int  `toml:"slack"`
	MaxSegmentChars        *int  `toml:"max-segment-chars"`
	IncludeComments        *bool `toml:"include-comments"`
	SkipLeadingIndentation *bool `toml:"skip-leading-indentation"`
	TrimTrailingWhitespace *bool `toml:"trim-trailing-whitespace"`
	AutoSkipBlankLines     *bool `toml:"auto-skip-blank-lines"`
	AllowWhitespaceAdvance *bool `toml:"allow-whitespace-advance"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// HardDefaults are the practice settings in effect when neither a config
// file nor a CLI flag supplies a value.
func HardDefaults() model.PracticeConfig {
	return model.PracticeConfig{
		LinesPerSegment:        20,
		TabWidth:                4,
		SlackN:                  5,
		MaxSegmentChars:         2000,
		IncludeComments:         true,
		SkipLeadingIndentation:  false,
		TrimTrailingWhitespace:  true,
		AutoSkipBlankLines:      true,
		AllowWhitespaceAdvance:  false,
	}
}

// Resolve merges file settings over hard defaults, then clamps every
// numeric field to the range the core accepts, per §6 of the configuration
// contract: linesPerSegment in [1,5000], tabWidth in [0,16], slackN in
// [0,50], maxSegmentChars in [500,500000].
func Resolve(file PracticeSettings) model.PracticeConfig {
	cfg := HardDefaults()

	if file.LinesPerSegment != nil {
		cfg.LinesPerSegment = *file.LinesPerSegment
	}
	if file.TabWidth != nil {
		cfg.TabWidth = *file.TabWidth
	}
	if file.Slack != nil {
		cfg.SlackN = *file.Slack
	}
	if file.MaxSegmentChars != nil {
		cfg.MaxSegmentChars = *file.MaxSegmentChars
	}
	if file.IncludeComments != nil {
		cfg.IncludeComments = *file.IncludeComments
	}
	if file.SkipLeadingIndentation != nil {
		cfg.SkipLeadingIndentation = *file.SkipLeadingIndentation
	}
	if file.TrimTrailingWhitespace != nil {
		cfg.TrimTrailingWhitespace = *file.TrimTrailingWhitespace
	}
	if file.AutoSkipBlankLines != nil {
		cfg.AutoSkipBlankLines = *file.AutoSkipBlankLines
	}
	if file.AllowWhitespaceAdvance != nil {
		cfg.AllowWhitespaceAdvance = *file.AllowWhitespaceAdvance
	}

	return clamp(cfg)
}

func clamp(cfg model.PracticeConfig) model.PracticeConfig {
	cfg.LinesPerSegment = clampInt(cfg.LinesPerSegment, 1, 5000)
	cfg.TabWidth = clampInt(cfg.TabWidth, 0, 16)
	cfg.SlackN = clampInt(cfg.SlackN, 0, 50)
	cfg.MaxSegmentChars = clampInt(cfg.MaxSegmentChars, 500, 500000)
	return cfg
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
