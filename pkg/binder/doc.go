// Package binder connects honeypot inspection to net/http. A Binder parses
// url-encoded, multipart or JSON submissions, runs honeypot.Inspect once per
// request, writes the reconciled data back onto the request and applies the
// configured Action to spam verdicts. Results are logged through log/slog and
// optionally counted with Prometheus collectors.
package binder
