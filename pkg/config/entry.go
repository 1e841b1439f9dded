package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-antispam/pkg/honeypot"
)

// EntryConfig is one honeypot declaration. It decodes from either a bare
// name ("email") or a mapping ({name: email, kind: email}).
type EntryConfig struct {
	Name string `json:"name" yaml:"name"`
	Kind string `json:"kind,omitempty" yaml:"kind,omitempty"`
}

// Entry converts the declaration into a registry entry. Kind validation is
// left to the registry.
func (e EntryConfig) Entry() honeypot.Entry {
	return honeypot.Pair(strings.TrimSpace(e.Name), honeypot.Kind(strings.TrimSpace(e.Kind)))
}

// UnmarshalJSON accepts a string or an object.
func (e *EntryConfig) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*e = EntryConfig{Name: name}
		return nil
	}
	type plain EntryConfig
	var out plain
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("config: honeypot entry must be a name or an object: %w", err)
	}
	*e = EntryConfig(out)
	return nil
}

// UnmarshalYAML accepts a scalar or a mapping node.
func (e *EntryConfig) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*e = EntryConfig{Name: node.Value}
		return nil
	case yaml.MappingNode:
		type plain EntryConfig
		var out plain
		if err := node.Decode(&out); err != nil {
			return err
		}
		*e = EntryConfig(out)
		return nil
	default:
		return fmt.Errorf("config: line %d: honeypot entry must be a name or a mapping", node.Line)
	}
}

// MarshalYAML writes text honeypots as bare names.
func (e EntryConfig) MarshalYAML() (any, error) {
	kind := strings.TrimSpace(e.Kind)
	if kind == "" || strings.EqualFold(kind, string(honeypot.KindText)) {
		return e.Name, nil
	}
	type plain EntryConfig
	return plain(e), nil
}

// ParseEntry parses the "name[:kind]" syntax used by command line flags.
func ParseEntry(raw string) (EntryConfig, error) {
	name, kind, _ := strings.Cut(strings.TrimSpace(raw), ":")
	name = strings.TrimSpace(name)
	if name == "" {
		return EntryConfig{}, fmt.Errorf("config: entry %q has no name", raw)
	}
	return EntryConfig{Name: name, Kind: strings.TrimSpace(kind)}, nil
}

// BuildRegistry turns declarations into a registry. The build is atomic.
func BuildRegistry(entries []EntryConfig) (honeypot.Registry, error) {
	converted := make([]honeypot.Entry, 0, len(entries))
	for _, entry := range entries {
		converted = append(converted, entry.Entry())
	}
	return honeypot.NewRegistry(converted...)
}
