package binder

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-antispam/pkg/honeypot"
)

// ErrBodyTooLarge is returned when a JSON body exceeds the configured limit.
var ErrBodyTooLarge = errors.New("binder: request body too large")

// Binder inspects incoming submissions against a honeypot registry and
// rewrites the request so handlers only see reconciled data.
type Binder struct {
	registry     honeypot.Registry
	form         string
	logger       *slog.Logger
	action       Action
	rejectStatus int
	sanitizer    *bluemonday.Policy
	metrics      *Metrics
	maxMemory    int64
	maxBodyBytes int64
}

// New constructs a Binder for reg.
func New(reg honeypot.Registry, opts ...Option) *Binder {
	b := defaultBinder()
	b.registry = reg
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Registry returns the registry the binder inspects against.
func (b *Binder) Registry() honeypot.Registry {
	return b.registry
}

// Bind reads the submission carried by r, inspects it and replaces the
// request data with the cleaned values: r.PostForm, r.Form and
// r.MultipartForm.Value for form bodies, r.Body for JSON objects. Errors are
// returned only when the body cannot be read or decoded.
func (b *Binder) Bind(r *http.Request) (honeypot.Result, error) {
	if r == nil {
		return honeypot.Result{}, errors.New("binder: request is nil")
	}

	var (
		result honeypot.Result
		err    error
	)
	if isJSON(r) {
		result, err = b.bindJSON(r)
	} else {
		result, err = b.bindForm(r)
	}
	if err != nil {
		return honeypot.Result{}, err
	}

	b.metrics.observe(b.formLabel(), result)
	b.logResult(r, result)
	return result, nil
}

func (b *Binder) bindJSON(r *http.Request) (honeypot.Result, error) {
	var body []byte
	if r.Body != nil {
		data, err := io.ReadAll(io.LimitReader(r.Body, b.maxBodyBytes+1))
		_ = r.Body.Close()
		if err != nil {
			return honeypot.Result{}, fmt.Errorf("binder: read body: %w", err)
		}
		if int64(len(data)) > b.maxBodyBytes {
			return honeypot.Result{}, ErrBodyTooLarge
		}
		body = data
	}
	restore := func(data []byte) {
		r.Body = io.NopCloser(bytes.NewReader(data))
		r.ContentLength = int64(len(data))
	}

	if len(bytes.TrimSpace(body)) == 0 {
		restore(body)
		return b.registry.Inspect(nil), nil
	}

	var payload any
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	if err := decoder.Decode(&payload); err != nil {
		return honeypot.Result{}, fmt.Errorf("binder: decode json body: %w", err)
	}

	result := b.registry.Inspect(payload)
	if !result.Bound {
		restore(body)
		return result, nil
	}
	b.sanitize(result.Data)

	encoded, err := json.Marshal(result.Data)
	if err != nil {
		return honeypot.Result{}, fmt.Errorf("binder: encode cleaned body: %w", err)
	}
	restore(encoded)
	return result, nil
}

func (b *Binder) bindForm(r *http.Request) (honeypot.Result, error) {
	if isMultipart(r) {
		if err := r.ParseMultipartForm(b.maxMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return honeypot.Result{}, fmt.Errorf("binder: parse multipart form: %w", err)
		}
	} else if err := r.ParseForm(); err != nil {
		return honeypot.Result{}, fmt.Errorf("binder: parse form: %w", err)
	}

	if !hasBody(r.Method) {
		var raw any
		if query := r.URL.Query(); len(query) > 0 {
			raw = query
		}
		result := b.registry.Inspect(raw)
		if !result.Bound {
			return result, nil
		}
		b.sanitize(result.Data)
		r.Form = honeypot.ToValues(result.Data)
		return result, nil
	}

	var raw any
	if len(r.PostForm) > 0 {
		raw = r.PostForm
	}
	result := b.registry.Inspect(raw)

	// Query slots on a body request are classified but never reach the
	// handler; the body is the only source of reconciled values.
	query := r.URL.Query()
	if len(query) > 0 {
		result.SpamFields = mergeFields(result.SpamFields, b.registry.Inspect(query).SpamFields)
		b.stripHoneypots(query)
	}

	var cleaned url.Values
	if result.Bound {
		b.sanitize(result.Data)
		cleaned = honeypot.ToValues(result.Data)
		r.PostForm = cleaned
		if r.MultipartForm != nil {
			r.MultipartForm.Value = copyValues(cleaned)
		}
	}

	form := copyValues(cleaned)
	for key, list := range query {
		form[key] = append(form[key], list...)
	}
	r.Form = form
	return result, nil
}

// stripHoneypots removes every honeypot name and public identifier from values.
func (b *Binder) stripHoneypots(values url.Values) {
	for _, name := range b.registry.Names() {
		delete(values, name)
		if id, ok := b.registry.PublicIdentifier(name); ok {
			delete(values, id)
		}
	}
}

// sanitize strips markup from the values moved under honeypot names. The
// policy escapes text for HTML output, so entities are decoded again to keep
// the submitted characters intact.
func (b *Binder) sanitize(data map[string]any) {
	if b.sanitizer == nil {
		return
	}
	for _, name := range b.registry.Names() {
		switch value := data[name].(type) {
		case string:
			data[name] = b.stripMarkup(value)
		case []string:
			cleaned := make([]string, len(value))
			for i, item := range value {
				cleaned[i] = b.stripMarkup(item)
			}
			data[name] = cleaned
		}
	}
}

func (b *Binder) stripMarkup(value string) string {
	return html.UnescapeString(b.sanitizer.Sanitize(value))
}

func copyValues(values url.Values) url.Values {
	out := make(url.Values, len(values))
	for key, list := range values {
		out[key] = append([]string(nil), list...)
	}
	return out
}

// mergeFields returns the sorted union of a and b.
func mergeFields(a, b []string) []string {
	if len(b) == 0 {
		return a
	}
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, field := range list {
			if _, ok := seen[field]; ok {
				continue
			}
			seen[field] = struct{}{}
			out = append(out, field)
		}
	}
	sort.Strings(out)
	return out
}

func (b *Binder) logResult(r *http.Request, result honeypot.Result) {
	switch {
	case result.HasSpam():
		b.logger.Warn("honeypot triggered",
			"form", b.formLabel(),
			"fields", result.SpamFields,
			"action", b.action.String(),
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
		)
	case !result.Bound:
		b.logger.Debug("no submission data bound", "form", b.formLabel(), "path", r.URL.Path)
	default:
		b.logger.Debug("submission inspected", "form", b.formLabel(), "honeypots", b.registry.Len())
	}
}

func (b *Binder) formLabel() string {
	if b.form == "" {
		return "default"
	}
	return b.form
}

func isJSON(r *http.Request) bool {
	mediaType := contentType(r)
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

func isMultipart(r *http.Request) bool {
	return contentType(r) == "multipart/form-data"
}

func contentType(r *http.Request) string {
	raw := r.Header.Get("Content-Type")
	if raw == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(raw)
	if err != nil {
		return ""
	}
	return mediaType
}

func hasBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	default:
		return false
	}
}
