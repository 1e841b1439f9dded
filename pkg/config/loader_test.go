package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-antispam/pkg/config"
	"github.com/goliatone/go-antispam/pkg/honeypot"
)

const contactYAML = `
forms:
  contact:
    honeypots:
      - website
      - name: email
        kind: email
`

const signupJSON = `{
  "forms": {
    "signup": {
      "honeypots": ["nickname", {"name": "address", "kind": "TEXT"}]
    }
  }
}`

func TestLoadFS_YAMLAndJSON(t *testing.T) {
	fsys := fstest.MapFS{
		"forms/contact.yaml": {Data: []byte(contactYAML)},
		"forms/signup.json":  {Data: []byte(signupJSON)},
		"forms/README.md":    {Data: []byte("ignored")},
	}

	store, err := config.LoadFS(fsys)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if diff := cmp.Diff([]string{"contact", "signup"}, store.Forms()); diff != "" {
		t.Fatalf("forms mismatch (-want +got):\n%s", diff)
	}

	contact, ok := store.Form("contact")
	if !ok {
		t.Fatalf("contact form missing")
	}
	wantContact := []honeypot.Honeypot{
		{Name: "email", Kind: honeypot.KindEmail},
		{Name: "website", Kind: honeypot.KindText},
	}
	if diff := cmp.Diff(wantContact, contact.List()); diff != "" {
		t.Fatalf("contact honeypots mismatch (-want +got):\n%s", diff)
	}

	signup, _ := store.Form("signup")
	wantSignup := []honeypot.Honeypot{
		{Name: "address", Kind: honeypot.KindText},
		{Name: "nickname", Kind: honeypot.KindText},
	}
	if diff := cmp.Diff(wantSignup, signup.List()); diff != "" {
		t.Fatalf("signup honeypots mismatch (-want +got):\n%s", diff)
	}

	form, ok := store.Lookup("signup")
	if !ok || form.Source != "forms/signup.json" {
		t.Fatalf("unexpected form source %+v", form)
	}
}

func TestLoadFS_NilIsEmpty(t *testing.T) {
	store, err := config.LoadFS(nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !store.Empty() {
		t.Fatalf("expected empty store")
	}
}

func TestLoadFS_Errors(t *testing.T) {
	cases := []struct {
		name    string
		fsys    fstest.MapFS
		wantErr string
		isCfg   bool
	}{
		{
			name:    "empty file",
			fsys:    fstest.MapFS{"a.yaml": {Data: []byte("  \n")}},
			wantErr: "is empty",
		},
		{
			name:    "invalid kind",
			fsys:    fstest.MapFS{"a.yaml": {Data: []byte("forms:\n  f:\n    honeypots:\n      - name: x\n        kind: phone\n")}},
			wantErr: `form "f"`,
			isCfg:   true,
		},
		{
			name: "duplicate form",
			fsys: fstest.MapFS{
				"a.yaml": {Data: []byte("forms:\n  f:\n    honeypots: [x]\n")},
				"b.yaml": {Data: []byte("forms:\n  f:\n    honeypots: [y]\n")},
			},
			wantErr: `duplicate form "f"`,
		},
		{
			name:    "sequence entry",
			fsys:    fstest.MapFS{"a.yaml": {Data: []byte("forms:\n  f:\n    honeypots:\n      - [x, y]\n")}},
			wantErr: "invalid JSON or YAML",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := config.LoadFS(tc.fsys)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
			if tc.isCfg && !errors.Is(err, honeypot.ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "antispam.yaml")
	if err := os.WriteFile(path, []byte(contactYAML), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	store, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := store.Form(" contact "); !ok {
		t.Fatalf("expected contact form")
	}

	if _, err := config.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestParseEntry(t *testing.T) {
	cases := []struct {
		raw     string
		want    config.EntryConfig
		wantErr bool
	}{
		{raw: "email", want: config.EntryConfig{Name: "email"}},
		{raw: " email : email ", want: config.EntryConfig{Name: "email", Kind: "email"}},
		{raw: ":email", wantErr: true},
	}
	for _, tc := range cases {
		got, err := config.ParseEntry(tc.raw)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("%q: expected error", tc.raw)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: %v", tc.raw, err)
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Fatalf("%q: entry mismatch (-want +got):\n%s", tc.raw, diff)
		}
	}
}

func TestMarshalYAML_RoundTrip(t *testing.T) {
	doc := config.Document{Forms: map[string]config.FormConfig{
		"contact": {Honeypots: []config.EntryConfig{
			{Name: "website"},
			{Name: "email", Kind: "email"},
		}},
	}}

	out, err := config.MarshalYAML(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(out), "- website\n") {
		t.Fatalf("expected text honeypot as bare name, got:\n%s", out)
	}

	parsed, err := config.ParseDocument(out, "roundtrip.yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if diff := cmp.Diff(doc, parsed); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}
}
