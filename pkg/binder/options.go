package binder

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Action decides what the middleware does with a spam verdict.
type Action int

const (
	// ActionFlag forwards the request and exposes the result via FromContext.
	ActionFlag Action = iota
	// ActionReject answers with the reject status and stops the chain.
	ActionReject
	// ActionLog forwards the request without exposing the result.
	ActionLog
)

func (a Action) String() string {
	switch a {
	case ActionFlag:
		return "flag"
	case ActionReject:
		return "reject"
	case ActionLog:
		return "log"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// ParseAction maps "flag", "reject" or "log" to an Action.
func ParseAction(raw string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "flag":
		return ActionFlag, nil
	case "reject":
		return ActionReject, nil
	case "log":
		return ActionLog, nil
	default:
		return ActionFlag, fmt.Errorf("binder: unknown action %q", raw)
	}
}

const (
	defaultMaxMemory    = 10 << 20
	defaultMaxBodyBytes = 1 << 20
)

// Option configures a Binder.
type Option func(*Binder)

// WithForm labels logs and metrics with the form id.
func WithForm(name string) Option {
	return func(b *Binder) {
		b.form = strings.TrimSpace(name)
	}
}

// WithLogger sets the logger. Nil keeps slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Binder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithAction sets the middleware action for spam submissions.
func WithAction(action Action) Option {
	return func(b *Binder) {
		b.action = action
	}
}

// WithRejectStatus sets the status code written by ActionReject.
func WithRejectStatus(status int) Option {
	return func(b *Binder) {
		if status >= 400 && status <= 599 {
			b.rejectStatus = status
		}
	}
}

// WithSanitizer strips markup from reconciled honeypot values with policy.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(b *Binder) {
		b.sanitizer = policy
	}
}

// WithStrictSanitizer is WithSanitizer(bluemonday.StrictPolicy()).
func WithStrictSanitizer() Option {
	return WithSanitizer(bluemonday.StrictPolicy())
}

// WithMetrics records submissions on m.
func WithMetrics(m *Metrics) Option {
	return func(b *Binder) {
		b.metrics = m
	}
}

// WithMaxBodyBytes limits JSON bodies and multipart memory.
func WithMaxBodyBytes(limit int64) Option {
	return func(b *Binder) {
		if limit > 0 {
			b.maxBodyBytes = limit
			b.maxMemory = limit
		}
	}
}

func defaultBinder() *Binder {
	return &Binder{
		logger:       slog.Default(),
		action:       ActionFlag,
		rejectStatus: http.StatusUnprocessableEntity,
		maxMemory:    defaultMaxMemory,
		maxBodyBytes: defaultMaxBodyBytes,
	}
}
