package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/report"
	"github.com/goliatone/go-formengine/pkg/validation"
)

func newListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the forms of the catalogue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.formFile != "" || a.remoteURL != "" {
				return fmt.Errorf("list needs a catalogue; drop --file and --remote")
			}
			catalog, err := a.catalog()
			if err != nil {
				return err
			}
			forms := make([]model.FormConfig, 0, catalog.Len())
			for _, id := range catalog.IDs() {
				cfg, _ := catalog.Form(id)
				forms = append(forms, cfg)
			}
			fmt.Fprintln(cmd.OutOrStdout(), report.Catalog(forms))
			return nil
		},
	}
}

func newInspectCommand(a *app) *cobra.Command {
	var dataFile string
	cmd := &cobra.Command{
		Use:   "inspect <form-id>",
		Short: "Show the fields of a form with their state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := a.assemble(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if dataFile != "" {
				data, err := readData(dataFile)
				if err != nil {
					return err
				}
				inst.Patch(data)
			}
			fmt.Fprintln(cmd.OutOrStdout(), report.Fields(inst))
			return nil
		},
	}
	cmd.Flags().StringVar(&dataFile, "data", "", "JSON or YAML file with field values")
	return cmd
}

func newValidateCommand(a *app) *cobra.Command {
	var dataFile string
	cmd := &cobra.Command{
		Use:   "validate <form-id>",
		Short: "Validate field values against a form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := a.assemble(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			data, err := readData(dataFile)
			if err != nil {
				return err
			}
			inst.Patch(data)
			inst.MarkAllTouched()

			result := inst.Validate()
			for _, failure := range inst.ValidateForm() {
				f := failure
				if result[f.Field] == nil {
					result[f.Field] = &f
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), report.Errors(result))

			if invalid := failing(result); len(invalid) > 0 {
				a.logger.Info("validation failed",
					zap.String("form", inst.Config().ID),
					zap.Strings("fields", invalid),
				)
				return &exitError{code: 1}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dataFile, "data", "", "JSON or YAML file with field values")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

func failing(result map[string]*validation.Failure) []string {
	var out []string
	for name, failure := range result {
		if failure != nil {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
