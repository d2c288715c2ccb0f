package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"vaultcast/internal/app"
	"vaultcast/internal/config"
	"vaultcast/internal/database"
	"vaultcast/internal/integrate"
	"vaultcast/internal/logging"
	"vaultcast/internal/model"
	"vaultcast/internal/service"
)

var errFeatureRequired = errors.New("feature name is required")

// installer runs a feature integration.
type installer interface {
	Run(ctx context.Context, featureDir, projectDir string, emit func(integrate.Progress)) error
}

// Runner holds the dependencies of every command action.
type Runner struct {
	config    *config.AppConfig
	output    io.Writer
	open      func(ctx context.Context) (*app.App, error)
	installer installer
}

// RunnerOpts configures a Runner. Nil fields get production defaults.
type RunnerOpts struct {
	Config    *config.AppConfig
	Output    io.Writer
	Open      func(ctx context.Context) (*app.App, error)
	Installer installer
}

// NewRunner creates a Runner.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = config.Load()
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Open == nil {
		cfg := opts.Config
		opts.Open = func(ctx context.Context) (*app.App, error) {
			return app.New(ctx, cfg, nil)
		}
	}
	if opts.Installer == nil {
		opts.Installer = integrate.New(logging.Component("integrate"))
	}
	return &Runner{
		config:    opts.Config,
		output:    opts.Output,
		open:      opts.Open,
		installer: opts.Installer,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range []func(*Runner) *cli.Command{
		migrateCommand, bulkUpdateCommand, reconcileCommand, integrateCommand,
	} {
		commands = append(commands, fn(r))
	}
	return commands
}

func (r *Runner) writeJSON(data any) error {
	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if _, err := r.output.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlain(format string, args ...any) {
	fmt.Fprintf(r.output, format, args...)
}

func kindArg(cmd *cli.Command) (string, error) {
	kind := cmd.String("kind")
	if !model.ValidKind(kind) {
		return "", fmt.Errorf("unknown kind %q (want movies or tv)", kind)
	}
	return kind, nil
}

// Migrate opens the configured store, which creates its schema, and closes it again.
func (r *Runner) Migrate(ctx context.Context, cmd *cli.Command) error {
	store, err := database.Open(ctx, r.config.Store)
	if err != nil {
		return err
	}
	defer store.Close(ctx)
	r.writePlain("%s store is up to date\n", store.Driver)
	return nil
}

// BulkUpdate runs the metadata updater and prints its progress.
func (r *Runner) BulkUpdate(ctx context.Context, cmd *cli.Command) error {
	kind, err := kindArg(cmd)
	if err != nil {
		return err
	}
	a, err := r.open(ctx)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	opts := service.BulkOptions{
		Kind:          kind,
		Dir:           cmd.String("dir"),
		BatchSize:     int(cmd.Int("batch-size")),
		Pause:         cmd.Duration("pause"),
		OnlyMissing:   cmd.Bool("only-missing"),
		CreateMissing: cmd.Bool("create-missing"),
	}
	asJSON := cmd.Bool("json")

	var emitErr error
	err = a.Bulk.Run(ctx, opts, func(p service.Progress) {
		if asJSON {
			if err := r.writeJSON(p); err != nil && emitErr == nil {
				emitErr = err
			}
			return
		}
		r.printProgress(p)
	})
	if err != nil {
		return err
	}
	return emitErr
}

func (r *Runner) printProgress(p service.Progress) {
	switch p.Type {
	case service.ProgressStart:
		r.writePlain("Updating %d file(s)\n", p.Total)
	case service.ProgressItem:
		line := fmt.Sprintf("[%d/%d] %-8s %s", p.Index, p.Total, p.Status, p.Filename)
		if p.Message != "" {
			line += " (" + p.Message + ")"
		}
		r.writePlain("%s\n", line)
	case service.ProgressPause:
		r.writePlain("%s\n", p.Message)
	case service.ProgressError:
		r.writePlain("error: %s\n", p.Message)
	case service.ProgressDone:
		statuses := make([]string, 0, len(p.Counts))
		for s := range p.Counts {
			statuses = append(statuses, s)
		}
		sort.Strings(statuses)
		parts := make([]string, 0, len(statuses))
		for _, s := range statuses {
			parts = append(parts, fmt.Sprintf("%s=%d", s, p.Counts[s]))
		}
		r.writePlain("Done: %s\n", strings.Join(parts, " "))
	}
}

// Reconcile prints the files missing on either side.
func (r *Runner) Reconcile(ctx context.Context, cmd *cli.Command) error {
	kind, err := kindArg(cmd)
	if err != nil {
		return err
	}
	a, err := r.open(ctx)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	res, err := a.Reconciler.Reconcile(ctx, kind, cmd.String("dir"))
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(res)
	}

	r.writePlain("%s %s: %d matched\n", res.Kind, res.Directory, len(res.Matched))
	r.writePlain("Missing in catalog (%d):\n", len(res.MissingInDB))
	for _, f := range res.MissingInDB {
		r.writePlain("  + %s\n", f)
	}
	r.writePlain("Missing on disk (%d):\n", len(res.MissingOnDisk))
	for _, f := range res.MissingOnDisk {
		r.writePlain("  - %s\n", f)
	}
	return nil
}

// Integrate installs the named feature and prints each step.
func (r *Runner) Integrate(ctx context.Context, cmd *cli.Command) error {
	feature := strings.TrimSpace(cmd.Args().First())
	if feature == "" {
		return errFeatureRequired
	}
	featuresDir := cmd.String("features-dir")
	if featuresDir == "" {
		featuresDir = r.config.Integrate.FeaturesDir
	}
	projectDir := cmd.String("project-dir")
	if projectDir == "" {
		projectDir = r.config.Integrate.ProjectDir
	}

	featureDir := feature
	if !filepath.IsAbs(feature) {
		featureDir = filepath.Join(featuresDir, feature)
	}

	return r.installer.Run(ctx, featureDir, projectDir, func(p integrate.Progress) {
		if p.Error != "" {
			r.writePlain("✗ %-10s %s\n", p.Step, p.Error)
			return
		}
		r.writePlain("✓ %-10s %s\n", p.Step, p.Message)
	})
}
