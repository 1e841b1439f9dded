package honeypot_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-antispam/pkg/honeypot"
)

func TestPublicIdentifierFor_Deterministic(t *testing.T) {
	cases := map[string]string{
		"email":    "0c83f57c786a0b4a39efab23731c7ebc",
		"":         "d41d8cd98f00b204e9800998ecf8427e",
		"username": "14c4b06b824ec593239362517f538b29",
	}
	for name, want := range cases {
		first := honeypot.PublicIdentifierFor(name)
		second := honeypot.PublicIdentifierFor(name)
		if first != second {
			t.Fatalf("%q: identifiers differ between calls: %q vs %q", name, first, second)
		}
		if first != want {
			t.Fatalf("%q: expected %q, got %q", name, want, first)
		}
	}
}

func TestAddHoneypot_RejectsUnknownKind(t *testing.T) {
	_, err := honeypot.Registry{}.AddHoneypot("x", "phone")
	if err == nil {
		t.Fatalf("expected error for unsupported kind")
	}
	if !errors.Is(err, honeypot.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if errors.Is(err, honeypot.ErrFingerprintCollision) {
		t.Fatalf("kind error must not match ErrFingerprintCollision")
	}
	var cfgErr *honeypot.ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Name != "x" {
		t.Fatalf("expected ConfigError for %q, got %#v", "x", err)
	}
}

func TestAddHoneypot_RejectsEmptyName(t *testing.T) {
	if _, err := (honeypot.Registry{}).AddHoneypot("   ", honeypot.KindText); !errors.Is(err, honeypot.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig for blank name, got %v", err)
	}
}

func TestAddHoneypot_EmailOverwriteIsIdempotent(t *testing.T) {
	base := honeypot.Registry{}
	first, err := base.AddHoneypot("x", "email")
	if err != nil {
		t.Fatalf("add honeypot: %v", err)
	}
	second, err := first.AddHoneypot("x", "email")
	if err != nil {
		t.Fatalf("re-add honeypot: %v", err)
	}

	want := []honeypot.Honeypot{{Name: "x", Kind: honeypot.KindEmail}}
	if diff := cmp.Diff(want, second.List()); diff != "" {
		t.Fatalf("honeypots mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(first.List(), second.List()); diff != "" {
		t.Fatalf("overwrite changed registry (-first +second):\n%s", diff)
	}
	if base.Len() != 0 {
		t.Fatalf("receiver mutated: expected empty registry, got %d honeypots", base.Len())
	}
}

func TestAddHoneypot_LastWriteWins(t *testing.T) {
	reg := honeypot.MustRegistry(honeypot.Bare("website"))
	next, err := reg.AddHoneypot("website", honeypot.KindEmail)
	if err != nil {
		t.Fatalf("add honeypot: %v", err)
	}

	got, ok := next.Lookup("website")
	if !ok || got.Kind != honeypot.KindEmail {
		t.Fatalf("expected website to be email, got %+v (ok=%v)", got, ok)
	}
	if prev, _ := reg.Lookup("website"); prev.Kind != honeypot.KindText {
		t.Fatalf("original registry changed: %+v", prev)
	}
}

func TestAddHoneypots_MixedEntries(t *testing.T) {
	reg, err := honeypot.NewRegistry(
		honeypot.Bare("name"),
		honeypot.Pair("email", honeypot.KindEmail),
		honeypot.Entry{Name: "website"},
		honeypot.Pair("phone", "TEXT"),
	)
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}

	want := []honeypot.Honeypot{
		{Name: "email", Kind: honeypot.KindEmail},
		{Name: "name", Kind: honeypot.KindText},
		{Name: "phone", Kind: honeypot.KindText},
		{Name: "website", Kind: honeypot.KindText},
	}
	if diff := cmp.Diff(want, reg.List()); diff != "" {
		t.Fatalf("honeypots mismatch (-want +got):\n%s", diff)
	}
}

func TestAddHoneypots_IsAtomic(t *testing.T) {
	reg := honeypot.MustRegistry(honeypot.Bare("name"))

	next, err := reg.AddHoneypots(
		honeypot.Pair("email", honeypot.KindEmail),
		honeypot.Pair("phone", "phone"),
		honeypot.Bare("website"),
	)
	if !errors.Is(err, honeypot.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if next.Len() != 0 {
		t.Fatalf("expected zero registry on failure, got %d honeypots", next.Len())
	}
	if diff := cmp.Diff([]string{"name"}, reg.Names()); diff != "" {
		t.Fatalf("receiver changed after failed bulk add (-want +got):\n%s", diff)
	}
}

func TestAddHoneypot_RejectsNameEqualToPublicIdentifier(t *testing.T) {
	reg := honeypot.MustRegistry(honeypot.Bare("email"))

	_, err := reg.AddHoneypot(honeypot.PublicIdentifierFor("email"), honeypot.KindText)
	if !errors.Is(err, honeypot.ErrFingerprintCollision) {
		t.Fatalf("expected ErrFingerprintCollision, got %v", err)
	}
	if !errors.Is(err, honeypot.ErrInvalidConfig) {
		t.Fatalf("collision must also match ErrInvalidConfig, got %v", err)
	}
}

func TestRegistry_PublicIdentifier(t *testing.T) {
	reg := honeypot.MustRegistry(honeypot.Bare("email"))

	id, ok := reg.PublicIdentifier("email")
	if !ok || id != honeypot.PublicIdentifierFor("email") {
		t.Fatalf("unexpected identifier %q (ok=%v)", id, ok)
	}
	if _, ok := reg.PublicIdentifier("missing"); ok {
		t.Fatalf("expected missing honeypot to report ok=false")
	}
}

func TestParseKind(t *testing.T) {
	cases := []struct {
		raw     string
		want    honeypot.Kind
		wantErr bool
	}{
		{raw: "", want: honeypot.KindText},
		{raw: "text", want: honeypot.KindText},
		{raw: " Email ", want: honeypot.KindEmail},
		{raw: "phone", wantErr: true},
		{raw: "hidden", wantErr: true},
	}
	for _, tc := range cases {
		got, err := honeypot.ParseKind(tc.raw)
		if tc.wantErr {
			if !errors.Is(err, honeypot.ErrInvalidConfig) {
				t.Fatalf("%q: expected ErrInvalidConfig, got %v", tc.raw, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: unexpected error %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("%q: expected %q, got %q", tc.raw, tc.want, got)
		}
	}
}
