package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-antispam/pkg/config"
	"github.com/goliatone/go-antispam/pkg/honeypot"
)

// prompter abstracts the interactive prompts so the init flow can be tested
// without a terminal.
type prompter interface {
	Input(ctx context.Context, message, help string) (string, error)
	Select(ctx context.Context, message string, options []string) (string, error)
}

type surveyPrompter struct{}

func (surveyPrompter) Input(ctx context.Context, message, help string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	prompt := &survey.Input{Message: message, Help: help}
	if err := survey.AskOne(prompt, &out, survey.WithValidator(survey.Required)); err != nil {
		return "", mapSurveyError(err)
	}
	return out, nil
}

func (surveyPrompter) Select(ctx context.Context, message string, options []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	prompt := &survey.Select{Message: message, Options: options, Default: options[0]}
	if err := survey.AskOne(prompt, &out); err != nil {
		return "", mapSurveyError(err)
	}
	return out, nil
}

func mapSurveyError(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return context.Canceled
	}
	return err
}

func initCmd(p prompter) *cobra.Command {
	var (
		output  string
		form    string
		entries []string
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a honeypot config file",
		Long: `Create a honeypot config file. Honeypots passed with --honeypot use the
name[:kind] syntax; without them the command prompts interactively.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := buildDocument(cmd.Context(), p, form, entries)
			if err != nil {
				return err
			}
			data, err := config.MarshalYAML(doc)
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Config written to %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (stdout if empty)")
	cmd.Flags().StringVarP(&form, "form", "f", "", "Form id")
	cmd.Flags().StringArrayVar(&entries, "honeypot", nil, "Honeypot as name[:kind]; repeatable")
	return cmd
}

func buildDocument(ctx context.Context, p prompter, form string, flagEntries []string) (config.Document, error) {
	form = strings.TrimSpace(form)
	if form == "" {
		answer, err := p.Input(ctx, "Form id", "Identifier used to look the form up, e.g. contact")
		if err != nil {
			return config.Document{}, err
		}
		form = strings.TrimSpace(answer)
	}
	if form == "" {
		return config.Document{}, errors.New("form id is required")
	}

	var entries []config.EntryConfig
	if len(flagEntries) > 0 {
		for _, raw := range flagEntries {
			entry, err := config.ParseEntry(raw)
			if err != nil {
				return config.Document{}, err
			}
			entries = append(entries, entry)
		}
	} else {
		answer, err := p.Input(ctx, "Honeypot names (comma separated)", "Attributes bots are likely to fill, e.g. email, website")
		if err != nil {
			return config.Document{}, err
		}
		for _, name := range strings.Split(answer, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			kind, err := p.Select(ctx, fmt.Sprintf("Input type for %q", name), []string{honeypot.KindText.String(), honeypot.KindEmail.String()})
			if err != nil {
				return config.Document{}, err
			}
			entries = append(entries, config.EntryConfig{Name: name, Kind: kind})
		}
	}

	// Validate the same way the loader will before anything is written.
	if _, err := config.BuildRegistry(entries); err != nil {
		return config.Document{}, err
	}
	return config.Document{Forms: map[string]config.FormConfig{
		form: {Honeypots: entries},
	}}, nil
}
