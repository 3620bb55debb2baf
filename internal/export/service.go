package export

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/expedientes/internal/repository"
)

const (
	SheetCaseFiles  = "Case Files"
	SheetIntakeJobs = "Intake Jobs"
)

// Service is a tiny façade over repositories that produces XLSX bytes for exports.
type Service struct {
	cases  repository.CaseFileRepository
	jobs   repository.IntakeJobRepository
	logger *slog.Logger
}

func NewService(cases repository.CaseFileRepository, jobs repository.IntakeJobRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{cases: cases, jobs: jobs, logger: logger}
}

// ExportXLSX returns a workbook with every stored case file and the intake
// jobs matching f. If only f.From is set the window runs to now.
func (s *Service) ExportXLSX(ctx context.Context, f repository.JobFilter) ([]byte, error) {
	start := time.Now()

	if f.From != nil && f.To == nil {
		now := time.Now().UTC()
		f.To = &now
	}

	cases, err := s.cases.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("query case files: %w", err)
	}
	jobs, err := s.jobs.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("query intake jobs: %w", err)
	}

	x := excelize.NewFile()
	defer func() { _ = x.Close() }()

	// the default "Sheet1" becomes the case-file sheet
	if err := x.SetSheetName(x.GetSheetName(0), SheetCaseFiles); err != nil {
		return nil, err
	}
	if _, err := x.NewSheet(SheetIntakeJobs); err != nil {
		return nil, err
	}
	x.SetActiveSheet(0)

	cw := newSheetWriter(x, SheetCaseFiles, []string{
		"Case Number",
		"Normalized",
		"Start Date",
		"First Seen",
		"Last Seen",
		"Seen Count",
	})
	for _, c := range cases {
		fecha := ""
		if c.FechaInicio != nil {
			fecha = *c.FechaInicio
		}
		cw.row(
			c.NumeroRaw,
			c.NumeroNormalized,
			fecha,
			c.FirstSeenAt.UTC().Format(time.RFC3339),
			c.LastSeenAt.UTC().Format(time.RFC3339),
			c.SeenCount,
		)
	}
	_ = x.SetColWidth(SheetCaseFiles, "A", "B", 32)
	_ = x.SetColWidth(SheetCaseFiles, "C", "C", 14)
	_ = x.SetColWidth(SheetCaseFiles, "D", "E", 22)

	jw := newSheetWriter(x, SheetIntakeJobs, []string{
		"Started",
		"Source Path",
		"Format",
		"Status",
		"Signals",
		"Normalized Number",
		"Errors",
		"Failure",
	})
	for _, j := range jobs {
		numero, failure := "", ""
		if j.NumeroNormalized != nil {
			numero = *j.NumeroNormalized
		}
		if j.ErrorMessage != nil {
			failure = truncate(*j.ErrorMessage, 140)
		}
		jw.row(
			j.StartedAt.UTC().Format(time.RFC3339),
			j.SourcePath,
			j.Format,
			j.Status,
			strings.Join(j.Signals, ", "),
			numero,
			strings.Join(j.Errors, " "),
			failure,
		)
	}
	_ = x.SetColWidth(SheetIntakeJobs, "A", "A", 22)
	_ = x.SetColWidth(SheetIntakeJobs, "B", "B", 60)
	_ = x.SetColWidth(SheetIntakeJobs, "E", "H", 32)

	if cw.err != nil {
		return nil, cw.err
	}
	if jw.err != nil {
		return nil, jw.err
	}

	buf, err := x.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"case_files", len(cases),
		"intake_jobs", len(jobs),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

type sheetWriter struct {
	f     *excelize.File
	sheet string
	next  int
	err   error
}

func newSheetWriter(f *excelize.File, sheet string, headers []string) *sheetWriter {
	w := &sheetWriter{f: f, sheet: sheet, next: 1}
	vals := make([]any, len(headers))
	for i, h := range headers {
		vals[i] = h
	}
	w.row(vals...)
	return w
}

func (w *sheetWriter) row(vals ...any) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, w.next)
	if err == nil {
		err = w.f.SetSheetRow(w.sheet, cell, &vals)
	}
	w.err = err
	w.next++
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
