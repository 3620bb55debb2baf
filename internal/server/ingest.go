package server

import (
	"context"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/expedientes/internal/common"
	"github.com/joseph-ayodele/expedientes/internal/expediente"
)

// IngestFile: {path} -> {job_id, source_path, status, signals, numero_normalized, duplicate, esValido, errores}
func (s *ExpedienteService) IngestFile(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if s.processor == nil {
		return nil, status.Error(codes.Unimplemented, "intake is not configured")
	}
	log := common.LoggerFromContext(ctx, s.logger)

	path := strings.TrimSpace(stringField(req, "path"))
	if path == "" {
		log.Error("ingest request missing path")
		return nil, common.InvalidArgumentError("path is required")
	}

	log.Info("starting file ingest", "path", path)
	out, err := s.processor.ProcessFile(ctx, path)
	if err != nil {
		log.Error("pipeline.failed", "path", path, "err", err)
		return nil, common.StatusFromError(err)
	}

	resp := map[string]any{
		"job_id":            out.JobID.String(),
		"source_path":       out.SourcePath,
		"status":            string(out.Status),
		"signals":           stringList(expediente.SignalNames(out.Signals)),
		"numero_normalized": out.Numero.String(),
		"duplicate":         out.Duplicate,
		"esValido":          out.Validation.Valid,
		"errores":           stringList(out.Validation.Errors),
	}
	if out.CaseFile != nil {
		resp["case_file_id"] = out.CaseFile.ID.String()
		resp["seen_count"] = float64(out.CaseFile.SeenCount)
	}
	return newStruct(resp)
}

// IngestDirectory: {root_path, skip_hidden} -> {scanned, matched, valid, invalid, no_signal, duplicates, failed, results}
// skip_hidden defaults to true when absent.
func (s *ExpedienteService) IngestDirectory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if s.processor == nil {
		return nil, status.Error(codes.Unimplemented, "intake is not configured")
	}
	log := common.LoggerFromContext(ctx, s.logger)

	root := strings.TrimSpace(stringField(req, "root_path"))
	if root == "" {
		log.Error("ingest directory request missing root_path")
		return nil, common.InvalidArgumentError("root_path is required")
	}
	skipHidden := true
	if v, ok := req.GetFields()["skip_hidden"]; ok {
		skipHidden = v.GetBoolValue()
	}

	log.Info("starting directory ingest", "root", root, "skip_hidden", skipHidden)
	results, stats, err := s.processor.ProcessDirectory(ctx, root, skipHidden)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "ingest directory: %v", err)
	}

	items := make([]any, 0, len(results))
	for _, r := range results {
		items = append(items, map[string]any{
			"source_path":       r.SourcePath,
			"job_id":            r.JobID,
			"status":            string(r.Status),
			"numero_normalized": r.Numero,
			"duplicate":         r.Duplicate,
			"error":             r.Err,
		})
	}
	return newStruct(map[string]any{
		"scanned":    float64(stats.Scanned),
		"matched":    float64(stats.Matched),
		"valid":      float64(stats.Valid),
		"invalid":    float64(stats.Invalid),
		"no_signal":  float64(stats.NoSignal),
		"duplicates": float64(stats.Duplicates),
		"failed":     float64(stats.Failed),
		"results":    items,
	})
}
