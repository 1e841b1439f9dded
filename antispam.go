// Package antispam is the entry point for honeypot form protection. It
// re-exports the registry and inspection API from pkg/honeypot and the HTTP
// binder from pkg/binder so most callers need a single import.
package antispam

import (
	"github.com/goliatone/go-antispam/pkg/binder"
	"github.com/goliatone/go-antispam/pkg/honeypot"
)

// Registry aliases honeypot.Registry for callers using the root package.
type Registry = honeypot.Registry

// Honeypot aliases honeypot.Honeypot.
type Honeypot = honeypot.Honeypot

// Kind aliases honeypot.Kind.
type Kind = honeypot.Kind

// Entry aliases honeypot.Entry.
type Entry = honeypot.Entry

// Result aliases honeypot.Result.
type Result = honeypot.Result

const (
	KindText  = honeypot.KindText
	KindEmail = honeypot.KindEmail
)

// ErrInvalidConfig is returned by registry mutators for rejected honeypots.
var ErrInvalidConfig = honeypot.ErrInvalidConfig

// NewRegistry builds an immutable registry from entries.
func NewRegistry(entries ...Entry) (Registry, error) {
	return honeypot.NewRegistry(entries...)
}

// Inspect classifies a raw submission and reconciles honeypot slots.
func Inspect(reg Registry, raw any) Result {
	return honeypot.Inspect(reg, raw)
}

// PublicIdentifierFor returns the visible input name for a honeypot name.
func PublicIdentifierFor(name string) string {
	return honeypot.PublicIdentifierFor(name)
}

// NewBinder returns a net/http binder for reg.
func NewBinder(reg Registry, options ...binder.Option) *binder.Binder {
	return binder.New(reg, options...)
}
