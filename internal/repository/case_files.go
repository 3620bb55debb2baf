package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/expedientes/internal/common"
	"github.com/joseph-ayodele/expedientes/internal/entity"
	"github.com/joseph-ayodele/expedientes/internal/expediente"
)

const tableCaseFiles = "case_files"

var caseFileColumns = []string{
	"id", "numero_raw", "numero_normalized", "fecha_inicio",
	"first_seen_at", "last_seen_at", "seen_count",
}

// UpsertCaseFileRequest carries a validated record for UpsertByNumber.
type UpsertCaseFileRequest struct {
	NumeroRaw   string
	FechaInicio string
	SeenAt      time.Time
}

type CaseFileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.CaseFile, error)
	GetByNumber(ctx context.Context, normalized expediente.NormalizedIdentifier) (*entity.CaseFile, error)
	// FindEquivalent looks up the stored case equivalent to a raw number.
	FindEquivalent(ctx context.Context, numeroRaw string) (*entity.CaseFile, error)
	// UpsertByNumber inserts a case file or bumps the existing equivalent one.
	// The bool is true when the case already existed.
	UpsertByNumber(ctx context.Context, req UpsertCaseFileRequest) (*entity.CaseFile, bool, error)
	List(ctx context.Context) ([]*entity.CaseFile, error)
	Count(ctx context.Context) (int, error)
}

type caseFileRepo struct {
	db     *DB
	logger *slog.Logger
}

func NewCaseFileRepository(db *DB, logger *slog.Logger) CaseFileRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &caseFileRepo{db: db, logger: logger}
}

func (r *caseFileRepo) builder() *entsql.DialectBuilder {
	return entsql.Dialect(r.db.Dialect)
}

func (r *caseFileRepo) selectWhere(p *entsql.Predicate) (string, []any) {
	b := r.builder()
	return b.Select(caseFileColumns...).From(b.Table(tableCaseFiles)).Where(p).Query()
}

func (r *caseFileRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.CaseFile, error) {
	q, args := r.selectWhere(entsql.EQ("id", id.String()))
	return r.getOne(ctx, r.db.SQL, q, args)
}

func (r *caseFileRepo) GetByNumber(ctx context.Context, normalized expediente.NormalizedIdentifier) (*entity.CaseFile, error) {
	q, args := r.selectWhere(entsql.EQ("numero_normalized", normalized.String()))
	return r.getOne(ctx, r.db.SQL, q, args)
}

func (r *caseFileRepo) FindEquivalent(ctx context.Context, numeroRaw string) (*entity.CaseFile, error) {
	normalized := expediente.Normalize(numeroRaw)
	if normalized == "" {
		return nil, fmt.Errorf("case number %q: %w", numeroRaw, common.ErrNotFound)
	}
	return r.GetByNumber(ctx, normalized)
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *caseFileRepo) getOne(ctx context.Context, qr queryRower, q string, args []any) (*entity.CaseFile, error) {
	cf, err := scanCaseFile(qr.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("case file: %w", common.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("failed to load case file", "error", err)
		return nil, common.NewAppError(common.CodeDatabase, "load case file", errors.Join(common.ErrDatabase, err))
	}
	return cf, nil
}

func (r *caseFileRepo) UpsertByNumber(ctx context.Context, req UpsertCaseFileRequest) (*entity.CaseFile, bool, error) {
	normalized := expediente.Normalize(req.NumeroRaw)
	if normalized == "" {
		return nil, false, common.NewAppError(common.CodeDatabase, "case number normalizes to empty", common.ErrInvalidInput)
	}
	seenAt := req.SeenAt
	if seenAt.IsZero() {
		seenAt = time.Now()
	}

	// A concurrent insert of the same number makes ours a no-op; the second
	// attempt then finds that row and bumps it.
	for attempt := 1; ; attempt++ {
		cf, existed, err := r.upsertOnce(ctx, normalized, req, seenAt)
		if err != nil || cf != nil {
			return cf, existed, err
		}
		if attempt == maxUpsertAttempts {
			return nil, false, common.NewAppError(common.CodeDatabase, "upsert case file: lost insert race", common.ErrDatabase)
		}
		r.logger.Debug("case file inserted concurrently, retrying", "numero", normalized)
	}
}

const maxUpsertAttempts = 3

// upsertOnce returns a nil case file when the insert lost a race.
func (r *caseFileRepo) upsertOnce(ctx context.Context, normalized expediente.NormalizedIdentifier, req UpsertCaseFileRequest, seenAt time.Time) (*entity.CaseFile, bool, error) {
	tx, err := r.db.SQL.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, common.NewAppError(common.CodeDatabase, "begin tx", errors.Join(common.ErrDatabase, err))
	}
	defer func() { _ = tx.Rollback() }()

	q, args := r.selectWhere(entsql.EQ("numero_normalized", normalized.String()))
	existing, err := r.getOne(ctx, tx, q, args)
	switch {
	case err == nil:
		upd := r.builder().Update(tableCaseFiles).
			Set("last_seen_at", formatTS(seenAt)).
			Add("seen_count", 1).
			Where(entsql.EQ("id", existing.ID.String()))
		if existing.FechaInicio == nil && req.FechaInicio != "" {
			upd.Set("fecha_inicio", req.FechaInicio)
			fecha := req.FechaInicio
			existing.FechaInicio = &fecha
		}
		uq, uargs := upd.Query()
		if _, err := tx.ExecContext(ctx, uq, uargs...); err != nil {
			r.logger.Error("failed to bump case file", "case_file_id", existing.ID, "error", err)
			return nil, false, common.NewAppError(common.CodeDatabase, "update case file", errors.Join(common.ErrDatabase, err))
		}
		if err := tx.Commit(); err != nil {
			return nil, false, common.NewAppError(common.CodeDatabase, "commit", errors.Join(common.ErrDatabase, err))
		}
		existing.LastSeenAt = seenAt.UTC().Truncate(time.Microsecond)
		existing.SeenCount++
		r.logger.Debug("case file seen again", "case_file_id", existing.ID, "numero", normalized, "seen_count", existing.SeenCount)
		return existing, true, nil
	case !common.IsNotFound(err):
		return nil, false, err
	}

	cf := &entity.CaseFile{
		ID:               uuid.New(),
		NumeroRaw:        req.NumeroRaw,
		NumeroNormalized: normalized.String(),
		FirstSeenAt:      seenAt.UTC().Truncate(time.Microsecond),
		LastSeenAt:       seenAt.UTC().Truncate(time.Microsecond),
		SeenCount:        1,
	}
	if req.FechaInicio != "" {
		f := req.FechaInicio
		cf.FechaInicio = &f
	}
	inserted, err := r.insert(ctx, tx, cf)
	if err != nil {
		r.logger.Error("failed to create case file", "numero", normalized, "error", err)
		return nil, false, err
	}
	if !inserted {
		return nil, false, nil
	}
	if err := tx.Commit(); err != nil {
		return nil, false, common.NewAppError(common.CodeDatabase, "commit", errors.Join(common.ErrDatabase, err))
	}
	r.logger.Info("case file created", "case_file_id", cf.ID, "numero", normalized)
	return cf, false, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// insert adds cf unless a row with the same normalized number exists; the
// bool reports whether a row was written.
func (r *caseFileRepo) insert(ctx context.Context, ex execer, cf *entity.CaseFile) (bool, error) {
	var fecha any
	if cf.FechaInicio != nil {
		fecha = *cf.FechaInicio
	}
	iq, iargs := r.builder().Insert(tableCaseFiles).
		Columns(caseFileColumns...).
		Values(cf.ID.String(), cf.NumeroRaw, cf.NumeroNormalized, fecha,
			formatTS(cf.FirstSeenAt), formatTS(cf.LastSeenAt), cf.SeenCount).
		OnConflict(entsql.ConflictColumns("numero_normalized"), entsql.DoNothing()).
		Query()
	res, err := ex.ExecContext(ctx, iq, iargs...)
	if err != nil {
		return false, common.NewAppError(common.CodeDatabase, "insert case file", errors.Join(common.ErrDatabase, err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, common.NewAppError(common.CodeDatabase, "insert case file", errors.Join(common.ErrDatabase, err))
	}
	return n == 1, nil
}

func (r *caseFileRepo) List(ctx context.Context) ([]*entity.CaseFile, error) {
	b := r.builder()
	q, args := b.Select(caseFileColumns...).
		From(b.Table(tableCaseFiles)).
		OrderBy(entsql.Asc("first_seen_at"), entsql.Asc("numero_normalized")).
		Query()
	rows, err := r.db.SQL.QueryContext(ctx, q, args...)
	if err != nil {
		r.logger.Error("failed to list case files", "error", err)
		return nil, common.NewAppError(common.CodeDatabase, "list case files", errors.Join(common.ErrDatabase, err))
	}
	defer rows.Close()

	var out []*entity.CaseFile
	for rows.Next() {
		cf, err := scanCaseFile(rows)
		if err != nil {
			return nil, common.NewAppError(common.CodeDatabase, "scan case file", errors.Join(common.ErrDatabase, err))
		}
		out = append(out, cf)
	}
	return out, rows.Err()
}

func (r *caseFileRepo) Count(ctx context.Context) (int, error) {
	return count(ctx, r.db, tableCaseFiles)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCaseFile(s rowScanner) (*entity.CaseFile, error) {
	var (
		cf          entity.CaseFile
		id          string
		fecha       sql.NullString
		first, last string
	)
	if err := s.Scan(&id, &cf.NumeroRaw, &cf.NumeroNormalized, &fecha, &first, &last, &cf.SeenCount); err != nil {
		return nil, err
	}
	var err error
	if cf.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("case file id: %w", err)
	}
	if fecha.Valid {
		f := fecha.String
		cf.FechaInicio = &f
	}
	if cf.FirstSeenAt, err = parseTS(first); err != nil {
		return nil, fmt.Errorf("first_seen_at: %w", err)
	}
	if cf.LastSeenAt, err = parseTS(last); err != nil {
		return nil, fmt.Errorf("last_seen_at: %w", err)
	}
	return &cf, nil
}

func count(ctx context.Context, db *DB, table string) (int, error) {
	b := entsql.Dialect(db.Dialect)
	q, args := b.Select(entsql.Count("*")).From(b.Table(table)).Query()
	var n int
	if err := db.SQL.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return 0, common.NewAppError(common.CodeDatabase, "count "+table, errors.Join(common.ErrDatabase, err))
	}
	return n, nil
}
