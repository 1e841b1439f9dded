package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-antispam/pkg/binder"
	"github.com/goliatone/go-antispam/pkg/config"
	"github.com/goliatone/go-antispam/pkg/render"
)

type serverOptions struct {
	action   binder.Action
	sanitize bool
	logger   *slog.Logger
	registry *prometheus.Registry
}

func serveCmd() *cobra.Command {
	var (
		configPath string
		addr       string
		action     string
		sanitize   bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve form submission endpoints protected by honeypots",
		Long: `Serve one POST /forms/{form} endpoint per configured form. Submissions
pass through the honeypot binder and the cleaned data is echoed back as
JSON. GET /forms/{form}/fields lists the inputs to render and /metrics
exposes Prometheus counters.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return errors.New("--config is required")
			}
			parsed, err := binder.ParseAction(action)
			if err != nil {
				return err
			}
			store, err := config.LoadFile(configPath)
			if err != nil {
				return err
			}

			router, err := newRouter(store, serverOptions{
				action:   parsed,
				sanitize: sanitize,
				logger:   slog.Default(),
				registry: prometheus.NewRegistry(),
			})
			if err != nil {
				return err
			}
			handler := handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(
				handlers.CombinedLoggingHandler(cmd.ErrOrStderr(), router),
			)
			return listen(cmd.Context(), addr, handler)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Honeypot config file (JSON or YAML)")
	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().StringVar(&action, "action", "reject", "Spam action (reject, flag, log)")
	cmd.Flags().BoolVar(&sanitize, "sanitize", false, "Strip markup from reconciled honeypot values")
	return cmd
}

func newRouter(store *config.Store, opts serverOptions) (*mux.Router, error) {
	if opts.logger == nil {
		opts.logger = slog.Default()
	}
	if opts.registry == nil {
		opts.registry = prometheus.NewRegistry()
	}
	metrics, err := binder.NewMetrics(opts.registry)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	router := mux.NewRouter()
	for _, id := range store.Forms() {
		reg, _ := store.Form(id)
		options := []binder.Option{
			binder.WithForm(id),
			binder.WithAction(opts.action),
			binder.WithLogger(opts.logger),
			binder.WithMetrics(metrics),
		}
		if opts.sanitize {
			options = append(options, binder.WithStrictSanitizer())
		}
		b := binder.New(reg, options...)

		router.Handle("/forms/"+id, b.Middleware(http.HandlerFunc(echoSubmission))).Methods(http.MethodPost)
		router.Handle("/forms/"+id+"/fields", fieldsHandler(render.FormFields(reg))).Methods(http.MethodGet)
		opts.logger.Info("form registered", "form", id, "honeypots", reg.Len())
	}
	router.Handle("/metrics", promhttp.HandlerFor(opts.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	return router, nil
}

type submissionResponse struct {
	Bound      bool           `json:"bound"`
	Flagged    bool           `json:"flagged"`
	SpamFields []string       `json:"spamFields,omitempty"`
	Data       map[string]any `json:"data"`
}

func echoSubmission(w http.ResponseWriter, r *http.Request) {
	resp := submissionResponse{Data: map[string]any{}}
	if result, ok := binder.FromContext(r.Context()); ok {
		resp.Bound = result.Bound
		resp.Flagged = result.HasSpam()
		resp.SpamFields = result.SpamFields
		resp.Data = result.Data
	}
	w.Header().Set("Content-Type", "application/json")
	if err := writeJSON(w, resp); err != nil {
		slog.Error("write response", "error", err)
	}
}

func fieldsHandler(fields render.Fields) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := writeJSON(w, fields); err != nil {
			slog.Error("write response", "error", err)
		}
	})
}

func listen(ctx context.Context, addr string, handler http.Handler) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("antispam listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	slog.Info("antispam stopped")
	return nil
}
