package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formengine/pkg/form"
	"github.com/goliatone/go-formengine/pkg/prompt"
	"github.com/goliatone/go-formengine/pkg/snapshot"
	"github.com/goliatone/go-formengine/pkg/submission"
)

const defaultSnapshotDir = ".formengine/snapshots"

type fillOptions struct {
	resume       bool
	snapshotDir  string
	output       string
	userID       string
	visibleOnly  bool
	attemptLimit int
}

func newFillCommand(a *app) *cobra.Command {
	var opts fillOptions
	cmd := &cobra.Command{
		Use:   "fill <form-id>",
		Short: "Fill a form interactively and print the submission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.snapshotDir = firstNonEmpty(opts.snapshotDir, os.Getenv(envSnapshots), defaultSnapshotDir)
			inst, err := a.assemble(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.fill(cmd, inst, opts)
		},
	}
	flags := cmd.Flags()
	flags.BoolVar(&opts.resume, "resume", false, "restore saved progress before prompting")
	flags.StringVar(&opts.snapshotDir, "snapshots", "", "directory for saved progress (default "+defaultSnapshotDir+")")
	flags.StringVar(&opts.output, "output", "", "write the submission JSON to this file (stdout if empty)")
	flags.StringVar(&opts.userID, "user", "", "user id recorded on the submission")
	flags.BoolVar(&opts.visibleOnly, "visible-only", false, "drop values of hidden fields from the submission")
	flags.IntVar(&opts.attemptLimit, "max-attempts", 5, "re-prompts per field before giving up (0 is unlimited)")
	return cmd
}

func (a *app) fill(cmd *cobra.Command, inst *form.Instance, opts fillOptions) error {
	ctx := cmd.Context()
	cfg := inst.Config()
	store := snapshot.NewFileStore(opts.snapshotDir, snapshot.WithLogger(a.logger))

	if opts.resume && cfg.AllowSaveProgress {
		if err := restore(ctx, store, inst); err != nil {
			return err
		}
	}

	driver := a.driver
	if driver == nil {
		driver = prompt.NewSurveyDriver(cmd.OutOrStdout())
	}
	filler := prompt.NewFiller(
		prompt.WithDriver(driver),
		prompt.WithLogger(a.logger),
		prompt.WithMaxAttempts(opts.attemptLimit),
	)

	if err := filler.Fill(ctx, inst); err != nil {
		if errors.Is(err, prompt.ErrAborted) && cfg.AllowSaveProgress {
			if saveErr := store.Save(context.WithoutCancel(ctx), snapshot.Capture(inst)); saveErr != nil {
				return errors.Join(err, saveErr)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "progress saved to %s; resume with --resume\n", store.Path(cfg.ID))
		}
		return err
	}

	subOpts := []submission.Option{
		submission.WithUserID(opts.userID),
		submission.WithLogger(a.logger),
	}
	if opts.visibleOnly {
		subOpts = append(subOpts, submission.WithVisibleOnly())
	}
	_, err := submission.Submit(ctx, inst, func(_ context.Context, sub submission.Submission) error {
		return a.writeSubmission(cmd, opts.output, sub)
	}, subOpts...)
	if err != nil {
		return err
	}

	if cfg.AllowSaveProgress {
		if err := store.Delete(ctx, cfg.ID); err != nil {
			a.logger.Warn("discard saved progress", zap.String("form", cfg.ID), zap.Error(err))
		}
	}
	return nil
}

func restore(ctx context.Context, store snapshot.Store, inst *form.Instance) error {
	saved, err := store.Load(ctx, inst.Config().ID)
	if errors.Is(err, snapshot.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return snapshot.Restore(inst, saved)
}

func (a *app) writeSubmission(cmd *cobra.Command, path string, sub submission.Submission) error {
	payload, err := json.MarshalIndent(sub, "", "  ")
	if err != nil {
		return fmt.Errorf("encode submission: %w", err)
	}
	payload = append(payload, '\n')

	if path == "" {
		_, err := cmd.OutOrStdout().Write(payload)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write submission: %w", err)
	}
	a.logger.Info("submission written", zap.String("path", path))
	return nil
}
