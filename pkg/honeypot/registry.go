package honeypot

import (
	"sort"
	"strings"
)

// Honeypot identifies one protected attribute.
type Honeypot struct {
	Name string `json:"name" yaml:"name"`
	Kind Kind   `json:"kind" yaml:"kind"`
}

// PublicIdentifier returns the name of the visible input for h.
func (h Honeypot) PublicIdentifier() string {
	return PublicIdentifierFor(h.Name)
}

// Entry is one item of a bulk registration. An empty Kind means KindText.
type Entry struct {
	Name string
	Kind Kind
}

// Bare returns an entry that registers name as a text honeypot.
func Bare(name string) Entry {
	return Entry{Name: name, Kind: KindText}
}

// Pair returns an entry that registers name with the given kind.
func Pair(name string, kind Kind) Entry {
	return Entry{Name: name, Kind: kind}
}

// Registry is an immutable set of honeypots keyed by name. The zero value is
// an empty registry ready for use.
type Registry struct {
	honeypots map[string]Honeypot
	// publicIDs maps public identifiers back to honeypot names.
	publicIDs   map[string]string
	fingerprint func(string) string
}

// NewRegistry builds a registry from entries with AddHoneypots semantics.
func NewRegistry(entries ...Entry) (Registry, error) {
	return Registry{}.AddHoneypots(entries...)
}

// MustRegistry is like NewRegistry but panics on error. Useful for
// init-time wiring.
func MustRegistry(entries ...Entry) Registry {
	reg, err := NewRegistry(entries...)
	if err != nil {
		panic(err)
	}
	return reg
}

// AddHoneypot returns a copy of r with the honeypot added. An existing
// honeypot with the same name is replaced.
func (r Registry) AddHoneypot(name string, kind Kind) (Registry, error) {
	return r.AddHoneypots(Entry{Name: name, Kind: kind})
}

// AddHoneypots returns a copy of r with every entry added in order; later
// entries replace earlier ones with the same name. Validation is atomic: if
// any entry is rejected the error is returned and nothing is applied.
func (r Registry) AddHoneypots(entries ...Entry) (Registry, error) {
	next := r.clone(len(entries))
	for _, entry := range entries {
		if err := next.put(entry); err != nil {
			return Registry{}, err
		}
	}
	return next, nil
}

// Lookup returns the honeypot registered under name.
func (r Registry) Lookup(name string) (Honeypot, bool) {
	h, ok := r.honeypots[name]
	return h, ok
}

// Has reports whether name is registered.
func (r Registry) Has(name string) bool {
	_, ok := r.honeypots[name]
	return ok
}

// Len returns the number of honeypots.
func (r Registry) Len() int {
	return len(r.honeypots)
}

// Names returns the registered names sorted alphabetically.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r.honeypots))
	for name := range r.honeypots {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns the honeypots sorted by name.
func (r Registry) List() []Honeypot {
	names := r.Names()
	out := make([]Honeypot, 0, len(names))
	for _, name := range names {
		out = append(out, r.honeypots[name])
	}
	return out
}

// PublicIdentifier returns the visible input name for the registered
// honeypot called name.
func (r Registry) PublicIdentifier(name string) (string, bool) {
	if !r.Has(name) {
		return "", false
	}
	return r.identifierFor(name), true
}

func (r Registry) identifierFor(name string) string {
	if r.fingerprint != nil {
		return r.fingerprint(name)
	}
	return PublicIdentifierFor(name)
}

func (r Registry) clone(extra int) Registry {
	out := Registry{
		honeypots:   make(map[string]Honeypot, len(r.honeypots)+extra),
		publicIDs:   make(map[string]string, len(r.publicIDs)+extra),
		fingerprint: r.fingerprint,
	}
	for name, h := range r.honeypots {
		out.honeypots[name] = h
	}
	for id, name := range r.publicIDs {
		out.publicIDs[id] = name
	}
	return out
}

// put mutates r in place and must only be called on a fresh clone.
func (r *Registry) put(entry Entry) error {
	name := strings.TrimSpace(entry.Name)
	if name == "" {
		return &ConfigError{Kind: entry.Kind, Reason: "name is required"}
	}
	kind, err := ParseKind(string(entry.Kind))
	if err != nil {
		return &ConfigError{Name: name, Kind: entry.Kind, Reason: "kind must be 'text' or 'email'"}
	}

	id := r.identifierFor(name)
	if owner, ok := r.publicIDs[id]; ok && owner != name {
		return &ConfigError{Name: name, Kind: kind, Conflict: owner}
	}
	if _, ok := r.honeypots[id]; ok && id != name {
		return &ConfigError{Name: name, Kind: kind, Conflict: id}
	}
	if owner, ok := r.publicIDs[name]; ok && owner != name {
		return &ConfigError{Name: name, Kind: kind, Conflict: owner}
	}

	r.honeypots[name] = Honeypot{Name: name, Kind: kind}
	r.publicIDs[id] = name
	return nil
}
