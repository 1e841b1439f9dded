package render

import "github.com/goliatone/go-antispam/pkg/honeypot"

// InputTypeHidden is the type of the input that carries the honeypot name.
const InputTypeHidden = "hidden"

// Input describes one control a renderer must emit for a honeypot. Renderers
// own the markup, labels and accessibility attributes; the names and types
// here are the wire contract Inspect relies on.
type Input struct {
	// Name is the form field name submitted by the browser.
	Name string `json:"name"`
	// Type is the HTML input type.
	Type string `json:"type"`
	// Hidden marks the slot that must stay empty.
	Hidden bool `json:"hidden"`
	// Honeypot is the private attribute name the input belongs to.
	Honeypot string `json:"honeypot"`
}

// HoneypotInputs returns two inputs per honeypot in reg, ordered by honeypot
// name: the visible input named after the public identifier, followed by the
// hidden input named after the attribute.
func HoneypotInputs(reg honeypot.Registry) []Input {
	list := reg.List()
	if len(list) == 0 {
		return nil
	}
	out := make([]Input, 0, len(list)*2)
	for _, h := range list {
		out = append(out, InputsFor(h)...)
	}
	return out
}

// InputsFor returns the visible and hidden inputs for a single honeypot.
func InputsFor(h honeypot.Honeypot) []Input {
	kind := h.Kind
	if !kind.Valid() {
		kind = honeypot.KindText
	}
	return []Input{
		{Name: h.PublicIdentifier(), Type: kind.String(), Honeypot: h.Name},
		{Name: h.Name, Type: InputTypeHidden, Hidden: true, Honeypot: h.Name},
	}
}
