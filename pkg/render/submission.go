package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-antispam/pkg/honeypot"
)

// HiddenField represents a hidden form input emitted alongside the visible
// controls. Honeypot hidden inputs are always emitted with an empty value.
type HiddenField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	if value == nil {
		return HiddenField{Name: strings.TrimSpace(name)}
	}
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// ParseHidden parses a name=value pair. A missing value yields an empty field.
func ParseHidden(raw string) (HiddenField, error) {
	name, value, _ := strings.Cut(raw, "=")
	field := Hidden(name, value)
	if field.Name == "" {
		return HiddenField{}, fmt.Errorf("render: hidden field %q has no name", raw)
	}
	return field, nil
}

// HoneypotHiddenFields returns the empty hidden inputs required by reg,
// sorted by name.
func HoneypotHiddenFields(reg honeypot.Registry) []HiddenField {
	names := reg.Names()
	if len(names) == 0 {
		return nil
	}
	out := make([]HiddenField, 0, len(names))
	for _, name := range names {
		out = append(out, HiddenField{Name: name})
	}
	return out
}

// MergeHiddenFields collapses fields by trimmed name, later fields winning,
// and returns them sorted by name. Empty names are dropped.
func MergeHiddenFields(fields ...HiddenField) []HiddenField {
	byName := make(map[string]string, len(fields))
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		byName[name] = field.Value
	}
	if len(byName) == 0 {
		return nil
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]HiddenField, 0, len(names))
	for _, name := range names {
		out = append(out, HiddenField{Name: name, Value: byName[name]})
	}
	return out
}

// Fields is everything a renderer emits for a protected form.
type Fields struct {
	// Inputs holds the visible and hidden input pair of every honeypot.
	Inputs []Input `json:"inputs"`
	// Hidden holds every hidden input with the value to render.
	Hidden []HiddenField `json:"hidden"`
}

// FormFields describes the honeypot inputs of reg merged with the caller's
// own hidden inputs. Honeypot hidden inputs override extras of the same name
// and stay empty; extras named after a public identifier are dropped.
func FormFields(reg honeypot.Registry, extra ...HiddenField) Fields {
	fields := make([]HiddenField, 0, len(extra)+reg.Len())
	for _, field := range extra {
		if isPublicIdentifier(reg, strings.TrimSpace(field.Name)) {
			continue
		}
		fields = append(fields, field)
	}
	fields = append(fields, HoneypotHiddenFields(reg)...)

	out := Fields{
		Inputs: HoneypotInputs(reg),
		Hidden: MergeHiddenFields(fields...),
	}
	if out.Inputs == nil {
		out.Inputs = []Input{}
	}
	if out.Hidden == nil {
		out.Hidden = []HiddenField{}
	}
	return out
}

func isPublicIdentifier(reg honeypot.Registry, name string) bool {
	for _, h := range reg.Names() {
		if id, ok := reg.PublicIdentifier(h); ok && id == name {
			return true
		}
	}
	return false
}
