package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/expedientes/constants"
	"github.com/joseph-ayodele/expedientes/internal/async"
	"github.com/joseph-ayodele/expedientes/internal/export"
	"github.com/joseph-ayodele/expedientes/internal/ingest"
	"github.com/joseph-ayodele/expedientes/internal/metrics"
	"github.com/joseph-ayodele/expedientes/internal/pipeline"
	"github.com/joseph-ayodele/expedientes/internal/repository"
	"github.com/joseph-ayodele/expedientes/internal/server"
)

// deps is the wired persistence + intake stack for DB-backed commands.
type deps struct {
	db        *repository.DB
	cases     repository.CaseFileRepository
	jobs      repository.IntakeJobRepository
	processor *pipeline.Processor
	metrics   *metrics.Metrics
}

func (a *app) open(ctx context.Context) (*deps, error) {
	db, err := server.ConnectDB(ctx, a.cfg.Database, a.logger)
	if err != nil {
		a.logger.Error("failed to open database", "error", err)
		return nil, err
	}
	d := &deps{
		db:      db,
		cases:   repository.NewCaseFileRepository(db, a.logger),
		jobs:    repository.NewIntakeJobRepository(db, a.logger),
		metrics: metrics.New(),
	}
	d.processor = pipeline.NewProcessor(a.logger, d.cases, d.jobs, pipeline.WithMetrics(d.metrics))
	return d, nil
}

func (a *app) close(d *deps) {
	d.db.Close(a.logger)
}

func ingestCmd(a *app) *cobra.Command {
	var includeHidden bool
	cmd := &cobra.Command{
		Use:   "ingest <dir|file>",
		Short: "Process a document, or every document under a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer a.close(d)

			fi, err := os.Stat(args[0])
			if err != nil {
				return err
			}
			if !fi.IsDir() {
				out, err := d.processor.ProcessFile(ctx, args[0])
				if err != nil {
					return err
				}
				return a.printJSON(map[string]any{
					"job_id":     out.JobID,
					"status":     out.Status,
					"signals":    out.Signals,
					"numero":     out.Numero,
					"validation": out.Validation,
					"duplicate":  out.Duplicate,
				})
			}

			results, stats, err := d.processor.ProcessDirectory(ctx, args[0], !includeHidden)
			if err != nil {
				return err
			}
			return a.printJSON(map[string]any{"stats": stats, "results": results})
		},
	}
	cmd.Flags().BoolVar(&includeHidden, "include-hidden", false, "Also process hidden files and directories")
	return cmd
}

func watchCmd(a *app) *cobra.Command {
	var initialScan, includeHidden bool
	cmd := &cobra.Command{
		Use:   "watch <dir>...",
		Short: "Watch directories and process new or changed documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer a.close(d)

			queue := async.NewProcessorQueue(d.processor, a.logger,
				async.WithWorkers(a.cfg.Intake.Workers),
				async.WithQueueSize(a.cfg.Intake.QueueSize),
				async.WithProcessTimeout(a.cfg.Intake.Timeout),
			)

			events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
				Roots:       args,
				InitialScan: initialScan,
				Debounce:    a.cfg.Intake.Debounce,
				SkipHidden:  !includeHidden,
				Logger:      a.logger,
			})
			if err != nil {
				return err
			}

			stopMetrics := a.serveMetrics(d.metrics)
			defer stopMetrics()

			for events != nil || errs != nil {
				select {
				case p, ok := <-events:
					if !ok {
						events = nil
						continue
					}
					job := async.Job{Path: p, SubmittedAt: time.Now(), TraceID: uuid.NewString()}
					if err := queue.Enqueue(ctx, job); err != nil && !errors.Is(err, context.Canceled) {
						a.logger.Warn("enqueue failed", "path", p, "error", err)
					}
				case werr, ok := <-errs:
					if !ok {
						errs = nil
						continue
					}
					a.logger.Warn("watch error", "error", werr)
				}
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Intake.Timeout)
			defer cancel()
			queue.Shutdown(shutdownCtx)
			return nil
		},
	}
	cmd.Flags().BoolVar(&initialScan, "initial-scan", true, "Process documents already present at startup")
	cmd.Flags().BoolVar(&includeHidden, "include-hidden", false, "Also watch hidden files and directories")
	return cmd
}

func exportCmd(a *app) *cobra.Command {
	var output, status, from, to string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write case files and intake jobs to an XLSX workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var f repository.JobFilter
			if status != "" {
				js := constants.JobStatus(status)
				if !js.Valid() {
					return fmt.Errorf("invalid --status %q", status)
				}
				f.Status = js
			}
			if from != "" {
				t, err := time.Parse("2006-01-02", from)
				if err != nil {
					return fmt.Errorf("--from must be YYYY-MM-DD: %w", err)
				}
				f.From = &t
			}
			if to != "" {
				t, err := time.Parse("2006-01-02", to)
				if err != nil {
					return fmt.Errorf("--to must be YYYY-MM-DD: %w", err)
				}
				end := t.AddDate(0, 0, 1)
				f.To = &end
			}

			ctx := cmd.Context()
			d, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer a.close(d)

			data, err := export.NewService(d.cases, d.jobs, a.logger).ExportXLSX(ctx, f)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			a.logger.Info("export written", "path", output, "bytes", len(data))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "expedientes.xlsx", "Output file")
	cmd.Flags().StringVar(&status, "status", "", "Only intake jobs with this status")
	cmd.Flags().StringVar(&from, "from", "", "Only intake jobs started on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Only intake jobs started on or before this date (YYYY-MM-DD)")
	return cmd
}

func dbhealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dbhealth",
		Short: "Ping the configured database and print table counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			d, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer a.close(d)

			if err := repository.HealthCheck(ctx, d.db, time.Second, a.logger); err != nil {
				return fmt.Errorf("DB health: FAIL (%w)", err)
			}
			cases, err := d.cases.Count(ctx)
			if err != nil {
				return err
			}
			jobs, err := d.jobs.Count(ctx)
			if err != nil {
				return err
			}
			return a.printJSON(map[string]any{
				"status":      "OK",
				"dialect":     d.db.Dialect,
				"case_files":  cases,
				"intake_jobs": jobs,
			})
		},
	}
}
