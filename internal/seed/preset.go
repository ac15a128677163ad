package seed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadPreset reads Options from a YAML file. Keys missing from the file keep
// their DefaultOptions value.
func LoadPreset(path string) (Options, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("read preset: %w", err)
	}
	return ParsePreset(raw)
}

// ParsePreset decodes a YAML preset over DefaultOptions.
func ParsePreset(raw []byte) (Options, error) {
	opts := DefaultOptions
	if err := yaml.Unmarshal(raw, &opts); err != nil {
		return Options{}, fmt.Errorf("parse preset: %w", err)
	}
	if opts.Profiles < 0 || opts.NotesPerProfile < 0 || opts.FriendsPer < 0 || opts.FollowsPer < 0 {
		return Options{}, fmt.Errorf("parse preset: counts must not be negative")
	}
	if opts.EngagementRate < 0 || opts.EngagementRate > 100 {
		return Options{}, fmt.Errorf("parse preset: engagement_rate must be between 0 and 100")
	}
	return opts, nil
}
