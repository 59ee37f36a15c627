package artifact

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// metadata is the optional metadata.yaml written by the training run.
type metadata struct {
	Name        string     `yaml:"name"`
	Version     yamlString `yaml:"version"`
	GitHash     yamlString `yaml:"git_hash"`
	NotebookURL string     `yaml:"notebook_url"`
	TeamMembers yamlList   `yaml:"team_members"`
}

// yamlString accepts any scalar, so `version: 3` and `version: "3"` agree.
type yamlString string

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *yamlString) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar", value.Line)
	}
	*s = yamlString(value.Value)
	return nil
}

// yamlList accepts either a string or a list of strings and joins lists
// with ", ".
type yamlList string

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *yamlList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*l = yamlList(value.Value)
	case yaml.SequenceNode:
		var items []string
		if err := value.Decode(&items); err != nil {
			return err
		}
		*l = yamlList(strings.Join(items, ", "))
	default:
		return fmt.Errorf("line %d: expected a string or a list", value.Line)
	}
	return nil
}

// readMetadata parses metadata.yaml. A missing file is empty metadata.
func readMetadata(path string) (metadata, error) {
	var md metadata
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return md, nil
		}
		return md, err
	}
	if err := yaml.Unmarshal(data, &md); err != nil {
		return md, fmt.Errorf("parse metadata: %w", err)
	}
	return md, nil
}
