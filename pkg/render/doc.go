// Package render exposes the presentation contract for honeypot fields. It
// does not produce markup; renderers use the descriptors to emit exactly one
// visible and one hidden input per honeypot and merge the hidden inputs with
// their own hidden fields.
package render
