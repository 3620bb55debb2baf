package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/expedientes/constants"
	"github.com/joseph-ayodele/expedientes/internal/common"
	"github.com/joseph-ayodele/expedientes/internal/entity"
	"github.com/joseph-ayodele/expedientes/internal/expediente"
	"github.com/joseph-ayodele/expedientes/internal/ingest"
	"github.com/joseph-ayodele/expedientes/internal/metrics"
	"github.com/joseph-ayodele/expedientes/internal/record"
	"github.com/joseph-ayodele/expedientes/internal/repository"
	"github.com/joseph-ayodele/expedientes/internal/textprep"
)

// Outcome summarizes what happened to one document.
type Outcome struct {
	JobID        uuid.UUID
	SourcePath   string
	Status       constants.JobStatus
	Signals      []expediente.Signal
	SidecarFound bool
	Record       expediente.ExtractedRecord
	Validation   expediente.ValidationResult
	Numero       expediente.NormalizedIdentifier
	CaseFile     *entity.CaseFile
	// Duplicate is true when an equivalent case number was already stored.
	Duplicate bool
}

// Processor runs a document through classification, validation and
// persistence.
type Processor struct {
	logger   *slog.Logger
	catalog  *expediente.Catalog
	cases    repository.CaseFileRepository
	jobs     repository.IntakeJobRepository
	metrics  *metrics.Metrics
	nowClock func() time.Time
}

type Option func(*Processor)

// WithCatalog swaps the classifier catalog (tests, alternate jurisdictions).
func WithCatalog(c *expediente.Catalog) Option {
	return func(p *Processor) {
		if c != nil {
			p.catalog = c
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Processor) { p.metrics = m }
}

func NewProcessor(
	logger *slog.Logger,
	cases repository.CaseFileRepository,
	jobs repository.IntakeJobRepository,
	opts ...Option,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Processor{
		logger:   logger,
		catalog:  expediente.DefaultCatalog(),
		cases:    cases,
		jobs:     jobs,
		nowClock: time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// ProcessFile starts an intake job for path, classifies the text, validates
// the sidecar record and upserts the case file. Infrastructure failures mark
// the job FAILED and are returned; classification and validation findings are
// not errors.
func (p *Processor) ProcessFile(ctx context.Context, path string) (Outcome, error) {
	start := p.nowClock()
	out := Outcome{SourcePath: path}

	format := constants.MapExtToFormat(filepath.Ext(path))
	if format == "" {
		return out, fmt.Errorf("%s: %w", path, common.ErrUnsupported)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return out, fmt.Errorf("read document: %w", err)
	}
	sum := sha256.Sum256(data)

	job, err := p.jobs.Start(ctx, path, hex.EncodeToString(sum[:]), format)
	if err != nil {
		return out, err
	}
	out.JobID = job.ID

	res, err := p.run(ctx, out, data)
	if err != nil {
		if ferr := p.jobs.FinishFailure(ctx, job.ID, err.Error()); ferr != nil {
			p.logger.Error("pipeline.finish_failure.failed", "job_id", job.ID, "err", ferr)
		}
		res.Status = constants.JobStatusFailed
		p.metrics.ObserveDocument(string(res.Status), p.nowClock().Sub(start))
		p.logger.Error("pipeline.failed", "job_id", job.ID, "path", path, "err", err)
		return res, err
	}

	p.metrics.ObserveDocument(string(res.Status), p.nowClock().Sub(start))
	p.logger.Info("pipeline.done",
		"job_id", job.ID,
		"path", path,
		"status", res.Status,
		"signals", len(res.Signals),
		"numero", res.Numero,
		"duplicate", res.Duplicate,
		"duration_ms", p.nowClock().Sub(start).Milliseconds(),
	)
	return res, nil
}

func (p *Processor) run(ctx context.Context, out Outcome, data []byte) (Outcome, error) {
	text := textprep.Clean(strings.ToValidUTF8(string(data), ""))

	// 1) gate on case-file signal
	out.Signals = p.catalog.Signals(text)
	if len(out.Signals) == 0 {
		out.Status = constants.JobStatusNoSignal
		p.logger.Debug("pipeline.classify.no_signal", "job_id", out.JobID, "bytes", len(text))
		return out, p.jobs.Finish(ctx, out.JobID, repository.IntakeOutcome{Status: out.Status})
	}
	names := expediente.SignalNames(out.Signals)
	p.logger.Debug("pipeline.classify.ok", "job_id", out.JobID, "signals", names)

	// 2) record from the upstream extraction step
	rec, found, err := record.Load(out.SourcePath, p.logger)
	if err != nil {
		return out, err
	}
	out.Record, out.SidecarFound = rec, found

	// 3) validate; findings are data
	out.Validation = expediente.Validate(rec)
	if !out.Validation.Valid {
		out.Status = constants.JobStatusInvalid
		out.Numero = expediente.Normalize(rec.Numero)
		p.logger.Warn("pipeline.validate.invalid", "job_id", out.JobID, "errores", out.Validation.Errors, "sidecar", found)
		return out, p.jobs.Finish(ctx, out.JobID, repository.IntakeOutcome{
			Status:           out.Status,
			HasSignal:        true,
			Signals:          names,
			NumeroNormalized: out.Numero.String(),
			Errors:           out.Validation.Errors,
		})
	}

	// 4) dedupe on the normalized number
	out.Numero = expediente.Normalize(rec.Numero)
	out.Status = constants.JobStatusValid
	if out.Numero == "" {
		// valid by length but nothing to key on, e.g. "....."
		p.logger.Warn("pipeline.upsert.skipped", "job_id", out.JobID, "numero_raw", rec.Numero)
		return out, p.jobs.Finish(ctx, out.JobID, repository.IntakeOutcome{
			Status:    out.Status,
			HasSignal: true,
			Signals:   names,
			Valid:     true,
			Errors:    out.Validation.Errors,
		})
	}
	cf, dup, err := p.cases.UpsertByNumber(ctx, repository.UpsertCaseFileRequest{
		NumeroRaw:   rec.Numero,
		FechaInicio: strings.TrimSpace(rec.FechaInicio),
		SeenAt:      p.nowClock(),
	})
	if err != nil {
		return out, fmt.Errorf("upsert case file: %w", err)
	}
	out.CaseFile, out.Duplicate = cf, dup

	return out, p.jobs.Finish(ctx, out.JobID, repository.IntakeOutcome{
		Status:           out.Status,
		HasSignal:        true,
		Signals:          names,
		NumeroNormalized: out.Numero.String(),
		Valid:            true,
		Errors:           out.Validation.Errors,
		CaseFileID:       &cf.ID,
	})
}

// ProcessPath adapts ProcessFile to ingest.FileProcessor.
func (p *Processor) ProcessPath(ctx context.Context, path string) (ingest.Result, error) {
	out, err := p.ProcessFile(ctx, path)
	r := ingest.Result{
		SourcePath: path,
		Status:     out.Status,
		Numero:     out.Numero.String(),
		Duplicate:  out.Duplicate,
	}
	if out.JobID != uuid.Nil {
		r.JobID = out.JobID.String()
	}
	return r, err
}

// ProcessDirectory runs every document under root through ProcessFile.
func (p *Processor) ProcessDirectory(ctx context.Context, root string, skipHidden bool) ([]ingest.Result, ingest.DirStats, error) {
	results, stats, err := ingest.IngestDirectory(ctx, p, root, skipHidden)
	p.logger.Info("pipeline.directory.done",
		"root", root,
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"valid", stats.Valid,
		"invalid", stats.Invalid,
		"no_signal", stats.NoSignal,
		"duplicates", stats.Duplicates,
		"failed", stats.Failed,
	)
	return results, stats, err
}
