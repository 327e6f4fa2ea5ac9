package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formengine/pkg/openapi"
)

func newFromOpenAPICommand(a *app) *cobra.Command {
	var asJSON, validate bool
	cmd := &cobra.Command{
		Use:   "from-openapi <document> <operation-id>",
		Short: "Derive a form from the request body of an OpenAPI operation",
		Long: "Derive a form from the request body of an OpenAPI operation.\n" +
			"The document is a file path or an http(s) URL; the form is printed as YAML.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			raw, err := openapi.ReadDocument(ctx, args[0])
			if err != nil {
				return err
			}
			opts := []openapi.Option{openapi.WithLogger(a.logger)}
			if validate {
				opts = append(opts, openapi.WithValidation())
			}
			cfg, err := openapi.FormFromOperation(ctx, raw, args[1], opts...)
			if err != nil {
				return err
			}

			var out []byte
			if asJSON {
				out, err = json.MarshalIndent(cfg, "", "  ")
				out = append(out, '\n')
			} else {
				out, err = yaml.Marshal(cfg)
			}
			if err != nil {
				return fmt.Errorf("encode form: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of YAML")
	cmd.Flags().BoolVar(&validate, "validate", false, "validate the OpenAPI document before converting")
	return cmd
}

func newLintOpenAPICommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lint-openapi <document>...",
		Short: "Check x-formengine extensions in OpenAPI documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			total := 0
			for _, path := range args {
				raw, err := openapi.ReadDocument(ctx, path)
				if err != nil {
					return err
				}
				violations, err := openapi.Lint(ctx, raw, openapi.WithLogger(a.logger))
				if err != nil {
					return fmt.Errorf("lint %s: %w", path, err)
				}
				for _, v := range violations {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", path, v)
				}
				total += len(violations)
			}
			if total > 0 {
				return &exitError{code: 1, msg: fmt.Sprintf("%d extension problem(s) found", total)}
			}
			return nil
		},
	}
}
