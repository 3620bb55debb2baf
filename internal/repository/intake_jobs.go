package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/expedientes/constants"
	"github.com/joseph-ayodele/expedientes/internal/common"
	"github.com/joseph-ayodele/expedientes/internal/entity"
)

const tableIntakeJobs = "intake_jobs"

var intakeJobColumns = []string{
	"id", "source_path", "content_hash", "format", "status",
	"has_signal", "signals", "numero_normalized", "valid", "errors",
	"case_file_id", "error_message", "started_at", "finished_at",
}

// IntakeOutcome is what the pipeline learned about a document.
type IntakeOutcome struct {
	Status           constants.JobStatus
	HasSignal        bool
	Signals          []string
	NumeroNormalized string
	Valid            bool
	Errors           []string
	CaseFileID       *uuid.UUID
}

// JobFilter narrows List. Zero values mean no filter.
type JobFilter struct {
	Status constants.JobStatus
	From   *time.Time
	To     *time.Time
	Limit  int
}

type IntakeJobRepository interface {
	Start(ctx context.Context, sourcePath, contentHash, format string) (*entity.IntakeJob, error)
	Finish(ctx context.Context, jobID uuid.UUID, out IntakeOutcome) error
	FinishFailure(ctx context.Context, jobID uuid.UUID, message string) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.IntakeJob, error)
	List(ctx context.Context, f JobFilter) ([]*entity.IntakeJob, error)
	Count(ctx context.Context) (int, error)
}

type intakeJobRepo struct {
	db  *DB
	log *slog.Logger
}

func NewIntakeJobRepository(db *DB, log *slog.Logger) IntakeJobRepository {
	if log == nil {
		log = slog.Default()
	}
	return &intakeJobRepo{db: db, log: log}
}

func (r *intakeJobRepo) builder() *entsql.DialectBuilder {
	return entsql.Dialect(r.db.Dialect)
}

func (r *intakeJobRepo) Start(ctx context.Context, sourcePath, contentHash, format string) (*entity.IntakeJob, error) {
	job := &entity.IntakeJob{
		ID:          uuid.New(),
		SourcePath:  sourcePath,
		ContentHash: contentHash,
		Format:      format,
		Status:      string(constants.JobStatusRunning),
		StartedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}
	q, args := r.builder().Insert(tableIntakeJobs).
		Columns("id", "source_path", "content_hash", "format", "status", "has_signal", "valid", "started_at").
		Values(job.ID.String(), job.SourcePath, job.ContentHash, job.Format, job.Status, false, false, formatTS(job.StartedAt)).
		Query()
	if _, err := r.db.SQL.ExecContext(ctx, q, args...); err != nil {
		r.log.Error("intake_job start failed", "source_path", sourcePath, "err", err)
		return nil, common.NewAppError(common.CodeDatabase, "start intake job", errors.Join(common.ErrDatabase, err))
	}
	r.log.Info("intake_job started", "job_id", job.ID, "source_path", sourcePath, "format", format)
	return job, nil
}

func (r *intakeJobRepo) Finish(ctx context.Context, jobID uuid.UUID, out IntakeOutcome) error {
	if !out.Status.IsTerminal() {
		return common.NewAppError(common.CodeIntake, fmt.Sprintf("status %s is not terminal", out.Status), common.ErrInvalidInput)
	}
	signals, err := json.Marshal(out.Signals)
	if err != nil {
		return fmt.Errorf("marshal signals: %w", err)
	}
	errs, err := json.Marshal(out.Errors)
	if err != nil {
		return fmt.Errorf("marshal errors: %w", err)
	}
	upd := r.builder().Update(tableIntakeJobs).
		Set("status", string(out.Status)).
		Set("has_signal", out.HasSignal).
		Set("signals", string(signals)).
		Set("valid", out.Valid).
		Set("errors", string(errs)).
		Set("finished_at", formatTS(time.Now())).
		Where(entsql.EQ("id", jobID.String()))
	if out.NumeroNormalized != "" {
		upd.Set("numero_normalized", out.NumeroNormalized)
	}
	if out.CaseFileID != nil {
		upd.Set("case_file_id", out.CaseFileID.String())
	}
	return r.exec(ctx, jobID, upd, "finish")
}

func (r *intakeJobRepo) FinishFailure(ctx context.Context, jobID uuid.UUID, message string) error {
	upd := r.builder().Update(tableIntakeJobs).
		Set("status", string(constants.JobStatusFailed)).
		Set("error_message", message).
		Set("finished_at", formatTS(time.Now())).
		Where(entsql.EQ("id", jobID.String()))
	return r.exec(ctx, jobID, upd, "finish failure")
}

func (r *intakeJobRepo) exec(ctx context.Context, jobID uuid.UUID, upd *entsql.UpdateBuilder, what string) error {
	q, args := upd.Query()
	res, err := r.db.SQL.ExecContext(ctx, q, args...)
	if err != nil {
		r.log.Error("intake_job "+what+" failed", "job_id", jobID, "err", err)
		return common.NewAppError(common.CodeDatabase, "intake job "+what, errors.Join(common.ErrDatabase, err))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("intake job %s: %w", jobID, common.ErrNotFound)
	}
	return nil
}

func (r *intakeJobRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.IntakeJob, error) {
	b := r.builder()
	q, args := b.Select(intakeJobColumns...).
		From(b.Table(tableIntakeJobs)).
		Where(entsql.EQ("id", id.String())).
		Query()
	job, err := scanIntakeJob(r.db.SQL.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("intake job %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, common.NewAppError(common.CodeDatabase, "load intake job", errors.Join(common.ErrDatabase, err))
	}
	return job, nil
}

func (r *intakeJobRepo) List(ctx context.Context, f JobFilter) ([]*entity.IntakeJob, error) {
	b := r.builder()
	sel := b.Select(intakeJobColumns...).From(b.Table(tableIntakeJobs))
	var preds []*entsql.Predicate
	if f.Status != "" {
		preds = append(preds, entsql.EQ("status", string(f.Status)))
	}
	if f.From != nil {
		preds = append(preds, entsql.GTE("started_at", formatTS(*f.From)))
	}
	if f.To != nil {
		preds = append(preds, entsql.LT("started_at", formatTS(*f.To)))
	}
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}
	sel.OrderBy(entsql.Asc("started_at"))
	if f.Limit > 0 {
		sel.Limit(f.Limit)
	}
	q, args := sel.Query()
	rows, err := r.db.SQL.QueryContext(ctx, q, args...)
	if err != nil {
		r.log.Error("failed to list intake jobs", "err", err)
		return nil, common.NewAppError(common.CodeDatabase, "list intake jobs", errors.Join(common.ErrDatabase, err))
	}
	defer rows.Close()

	var out []*entity.IntakeJob
	for rows.Next() {
		job, err := scanIntakeJob(rows)
		if err != nil {
			return nil, common.NewAppError(common.CodeDatabase, "scan intake job", errors.Join(common.ErrDatabase, err))
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

func (r *intakeJobRepo) Count(ctx context.Context) (int, error) {
	return count(ctx, r.db, tableIntakeJobs)
}

func scanIntakeJob(s rowScanner) (*entity.IntakeJob, error) {
	var (
		job                                  entity.IntakeJob
		id, started                          string
		signals, numero, errs, caseFile, msg sql.NullString
		finished                             sql.NullString
	)
	if err := s.Scan(&id, &job.SourcePath, &job.ContentHash, &job.Format, &job.Status,
		&job.HasSignal, &signals, &numero, &job.Valid, &errs,
		&caseFile, &msg, &started, &finished); err != nil {
		return nil, err
	}
	var err error
	if job.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("intake job id: %w", err)
	}
	if job.StartedAt, err = parseTS(started); err != nil {
		return nil, fmt.Errorf("started_at: %w", err)
	}
	if finished.Valid {
		t, err := parseTS(finished.String)
		if err != nil {
			return nil, fmt.Errorf("finished_at: %w", err)
		}
		job.FinishedAt = &t
	}
	if signals.Valid && signals.String != "" {
		if err := json.Unmarshal([]byte(signals.String), &job.Signals); err != nil {
			return nil, fmt.Errorf("signals: %w", err)
		}
	}
	if errs.Valid && errs.String != "" {
		if err := json.Unmarshal([]byte(errs.String), &job.Errors); err != nil {
			return nil, fmt.Errorf("errors: %w", err)
		}
	}
	if numero.Valid {
		n := numero.String
		job.NumeroNormalized = &n
	}
	if caseFile.Valid {
		cfID, err := uuid.Parse(caseFile.String)
		if err != nil {
			return nil, fmt.Errorf("case_file_id: %w", err)
		}
		job.CaseFileID = &cfID
	}
	if msg.Valid {
		m := msg.String
		job.ErrorMessage = &m
	}
	return &job, nil
}
