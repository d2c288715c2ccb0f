package main

import (
	"github.com/urfave/cli/v3"

	"vaultcast/internal/model"
)

func kindFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "kind",
		Aliases: []string{"k"},
		Usage:   "Catalog kind (movies or tv)",
		Value:   model.KindMovies,
	}
}

// migrateCommand prepares the configured record store
func migrateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "migrate",
		Usage:  "Create the record store schema (Postgres tables or Mongo indexes)",
		Action: r.Migrate,
	}
}

// bulkUpdateCommand refreshes TMDb metadata for a content directory
func bulkUpdateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "bulk-update",
		Usage: "Re-fetch TMDb metadata for every video in a content directory",
		Flags: []cli.Flag{
			kindFlag(),
			&cli.StringFlag{
				Name:  "dir",
				Usage: "Content directory, defaults to the kind's directory",
			},
			&cli.IntFlag{
				Name:  "batch-size",
				Usage: "Pause after this many items (0 uses BULK_BATCH_SIZE)",
			},
			&cli.DurationFlag{
				Name:  "pause",
				Usage: "Pause length between batches (0 uses BULK_PAUSE)",
			},
			&cli.BoolFlag{
				Name:  "only-missing",
				Usage: "Skip records that already have metadata",
				Value: true,
			},
			&cli.BoolFlag{
				Name:  "create-missing",
				Usage: "Create records for files that are not in the catalog",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print progress events as NDJSON",
			},
		},
		Action: r.BulkUpdate,
	}
}

// reconcileCommand compares a content directory against the catalog
func reconcileCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "reconcile",
		Usage: "Compare content server files against catalog records",
		Flags: []cli.Flag{
			kindFlag(),
			&cli.StringFlag{
				Name:  "dir",
				Usage: "Content directory, defaults to the kind's directory",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Reconcile,
	}
}

// integrateCommand installs a feature package into the template project
func integrateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "integrate",
		Usage:     "Install a feature directory into the template project",
		ArgsUsage: "<feature>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "features-dir",
				Usage: "Directory holding feature packages (defaults to INTEGRATE_FEATURES_DIR)",
			},
			&cli.StringFlag{
				Name:  "project-dir",
				Usage: "Template project to install into (defaults to INTEGRATE_PROJECT_DIR)",
			},
		},
		Action: r.Integrate,
	}
}
