package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-antispam/pkg/config"
	"github.com/goliatone/go-antispam/pkg/honeypot"
	"github.com/goliatone/go-antispam/pkg/render"
)

// registrySource resolves a registry from a config file form or an OpenAPI
// operation.
type registrySource struct {
	configPath  string
	form        string
	openapiPath string
	operation   string
}

func (s *registrySource) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&s.configPath, "config", "c", "", "Honeypot config file (JSON or YAML)")
	cmd.Flags().StringVarP(&s.form, "form", "f", "", "Form id within the config file")
	cmd.Flags().StringVar(&s.openapiPath, "openapi", "", "OpenAPI document with x-honeypot properties")
	cmd.Flags().StringVar(&s.operation, "operation", "", "Operation id within the OpenAPI document")
}

func (s *registrySource) load(cmd *cobra.Command) (honeypot.Registry, error) {
	switch {
	case s.configPath != "" && s.openapiPath != "":
		return honeypot.Registry{}, errors.New("use either --config or --openapi, not both")
	case s.configPath != "":
		store, err := config.LoadFile(s.configPath)
		if err != nil {
			return honeypot.Registry{}, err
		}
		form := strings.TrimSpace(s.form)
		if form == "" {
			ids := store.Forms()
			if len(ids) != 1 {
				return honeypot.Registry{}, fmt.Errorf("--form is required (available: %s)", strings.Join(ids, ", "))
			}
			form = ids[0]
		}
		reg, ok := store.Form(form)
		if !ok {
			return honeypot.Registry{}, fmt.Errorf("form %q not found in %s", form, s.configPath)
		}
		return reg, nil
	case s.openapiPath != "":
		data, err := os.ReadFile(s.openapiPath)
		if err != nil {
			return honeypot.Registry{}, fmt.Errorf("read openapi document: %w", err)
		}
		return config.FromOpenAPI(cmd.Context(), data, s.operation)
	default:
		return honeypot.Registry{}, errors.New("--config or --openapi is required")
	}
}

type inspectOutput struct {
	honeypot.Result
	HasSpam bool `json:"hasSpam"`
}

func inspectCmd() *cobra.Command {
	var (
		source     registrySource
		dataPath   string
		failOnSpam bool
	)
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Inspect a JSON submission against a form's honeypots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := source.load(cmd)
			if err != nil {
				return err
			}
			raw, err := readSubmission(cmd.InOrStdin(), dataPath)
			if err != nil {
				return err
			}

			result := reg.Inspect(raw)
			if err := writeJSON(cmd.OutOrStdout(), inspectOutput{Result: result, HasSpam: result.HasSpam()}); err != nil {
				return err
			}
			if failOnSpam && result.HasSpam() {
				return errSpamDetected
			}
			return nil
		},
	}
	source.bind(cmd)
	cmd.Flags().StringVarP(&dataPath, "data", "d", "-", "Submission JSON file, - for stdin")
	cmd.Flags().BoolVar(&failOnSpam, "fail-on-spam", false, "Exit with status 3 when spam is detected")
	return cmd
}

func fieldsCmd() *cobra.Command {
	var (
		source registrySource
		hidden []string
	)
	cmd := &cobra.Command{
		Use:   "fields",
		Short: "Print the inputs a renderer must emit for a form's honeypots",
		Long: `Print the honeypot inputs of a form and its hidden inputs. Extra hidden
inputs passed with --hidden (name=value) are merged in; honeypot hidden
inputs always win and stay empty.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := source.load(cmd)
			if err != nil {
				return err
			}
			extra := make([]render.HiddenField, 0, len(hidden))
			for _, raw := range hidden {
				field, err := render.ParseHidden(raw)
				if err != nil {
					return err
				}
				extra = append(extra, field)
			}
			return writeJSON(cmd.OutOrStdout(), render.FormFields(reg, extra...))
		},
	}
	source.bind(cmd)
	cmd.Flags().StringArrayVar(&hidden, "hidden", nil, "Extra hidden input as name=value; repeatable")
	return cmd
}

func fingerprintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fingerprint NAME...",
		Short: "Print the public identifier for each honeypot name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, name := range args {
				if _, err := fmt.Fprintf(out, "%s\t%s\n", name, honeypot.PublicIdentifierFor(name)); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// readSubmission decodes JSON from path (or stdin for "-"). Non-object
// payloads are returned as-is and inspect as unbound.
func readSubmission(stdin io.Reader, path string) (any, error) {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read submission: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode submission: %w", err)
	}
	return raw, nil
}

func writeJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
