package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formengine/internal/logging"
	"github.com/goliatone/go-formengine/pkg/config"
	"github.com/goliatone/go-formengine/pkg/form"
	"github.com/goliatone/go-formengine/pkg/prompt"
)

const (
	envCatalog   = "FORMENGINE_CATALOG"
	envRemote    = "FORMENGINE_REMOTE"
	envSnapshots = "FORMENGINE_SNAPSHOTS"
	envLogFile   = "FORMENGINE_LOG_FILE"
)

type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	envFile    string
	catalogDir string
	remoteURL  string
	formFile   string
	logLevel   string
	logFile    string

	logger *zap.Logger
	flush  func()

	// driver overrides the terminal prompts; nil uses survey.
	driver prompt.PromptDriver
}

func newApp(in io.Reader, out, errOut io.Writer) *app {
	return &app{in: in, out: out, errOut: errOut, logger: zap.NewNop(), flush: func() {}}
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "formengine",
		Short:         "Inspect, validate and fill declarative forms",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			a.flush()
		},
	}
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before reading FORMENGINE_* variables")
	flags.StringVar(&a.catalogDir, "catalog", "", "directory of JSON/YAML form files (default: embedded catalogue)")
	flags.StringVar(&a.remoteURL, "remote", "", "base URL serving forms at <url>/<id>")
	flags.StringVar(&a.formFile, "file", "", "single form file to load instead of a catalogue")
	flags.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&a.logFile, "log-file", "", "write JSON logs with rotation to this file")

	root.AddCommand(
		newListCommand(a),
		newInspectCommand(a),
		newValidateCommand(a),
		newFillCommand(a),
		newFromOpenAPICommand(a),
		newLintOpenAPICommand(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	if a.envFile != "" {
		err := godotenv.Load(a.envFile)
		missingDefault := errors.Is(err, os.ErrNotExist) && !cmd.Flags().Changed("env-file")
		if err != nil && !missingDefault {
			return fmt.Errorf("load %s: %w", a.envFile, err)
		}
	}
	a.catalogDir = firstNonEmpty(a.catalogDir, os.Getenv(envCatalog))
	a.remoteURL = firstNonEmpty(a.remoteURL, os.Getenv(envRemote))
	a.logFile = firstNonEmpty(a.logFile, os.Getenv(envLogFile))

	cfg := logging.Config{Level: a.logLevel, File: a.logFile}
	if a.logLevel != "" || os.Getenv(logging.EnvLevel) != "" {
		cfg.Console = a.errOut
	}
	logger, flush, err := logging.New(cfg)
	if err != nil {
		return err
	}
	a.logger, a.flush = logger, flush
	return nil
}

// fetcher picks the form source: a single file, a remote endpoint, a catalogue
// directory, or the embedded catalogue, in that order.
func (a *app) fetcher() (config.Fetcher, error) {
	switch {
	case a.formFile != "":
		return config.FileFetcher{Path: a.formFile}, nil
	case a.remoteURL != "":
		return config.NewHTTPFetcher(a.remoteURL, config.WithHTTPLogger(a.logger)), nil
	default:
		return a.catalog()
	}
}

func (a *app) catalog() (*config.Catalog, error) {
	if a.catalogDir != "" {
		return config.LoadFS(os.DirFS(a.catalogDir))
	}
	return config.Embedded()
}

func (a *app) assemble(ctx context.Context, id string) (*form.Instance, error) {
	fetcher, err := a.fetcher()
	if err != nil {
		return nil, err
	}
	cfg, err := fetcher.Fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	return form.Assemble(cfg, form.WithLogger(a.logger))
}

// readData loads a JSON or YAML object of field values.
func readData(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read data: %w", err)
	}
	var data map[string]any
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode data %s: %w", path, err)
	}
	return data, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
