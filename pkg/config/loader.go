package config

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-antispam/pkg/honeypot"
)

// Document is the on-disk configuration shape.
type Document struct {
	Forms map[string]FormConfig `json:"forms" yaml:"forms"`
}

// FormConfig lists the honeypots of one form.
type FormConfig struct {
	Honeypots []EntryConfig `json:"honeypots" yaml:"honeypots"`
}

// Form is a loaded form definition.
type Form struct {
	ID       string
	Source   string
	Registry honeypot.Registry
}

// Store holds the registries of every configured form.
type Store struct {
	forms map[string]Form
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{forms: make(map[string]Form)}
}

// LoadFS walks fsys and parses every JSON/YAML configuration file. When fsys
// is nil or holds no configuration files, the returned store is empty.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := NewStore()
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isConfigFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("config: read %s: %w", path, err)
		}
		return store.add(data, path)
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// LoadFile parses a single configuration file.
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	store := NewStore()
	if err := store.add(data, path); err != nil {
		return nil, err
	}
	return store, nil
}

// Form returns the registry configured for id.
func (s *Store) Form(id string) (honeypot.Registry, bool) {
	if s == nil {
		return honeypot.Registry{}, false
	}
	form, ok := s.forms[strings.TrimSpace(id)]
	return form.Registry, ok
}

// Lookup returns the full form definition for id.
func (s *Store) Lookup(id string) (Form, bool) {
	if s == nil {
		return Form{}, false
	}
	form, ok := s.forms[strings.TrimSpace(id)]
	return form, ok
}

// Forms returns the configured form ids, sorted.
func (s *Store) Forms() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.forms))
	for id := range s.forms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Empty reports whether the store holds any forms.
func (s *Store) Empty() bool {
	return s == nil || len(s.forms) == 0
}

func (s *Store) add(data []byte, source string) error {
	doc, err := ParseDocument(data, source)
	if err != nil {
		return err
	}

	for rawID, cfg := range doc.Forms {
		id := strings.TrimSpace(rawID)
		if id == "" {
			return fmt.Errorf("config: file %s defines an empty form id", source)
		}
		if existing, exists := s.forms[id]; exists {
			return fmt.Errorf("config: duplicate form %q (files %s and %s)", id, existing.Source, source)
		}
		reg, err := BuildRegistry(cfg.Honeypots)
		if err != nil {
			return fmt.Errorf("config: form %q (file %s): %w", id, source, err)
		}
		s.forms[id] = Form{ID: id, Source: source, Registry: reg}
	}
	return nil
}

// ParseDocument decodes data as JSON, falling back to YAML.
func ParseDocument(data []byte, source string) (Document, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Document{}, fmt.Errorf("config: file %s is empty", source)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	doc = Document{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("config: parse %s: invalid JSON or YAML: %w", source, err)
	}
	return doc, nil
}

// MarshalYAML renders a document for the given forms.
func MarshalYAML(doc Document) ([]byte, error) {
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("config: marshal: %w", err)
	}
	return out, nil
}

func isConfigFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
