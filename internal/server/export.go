package server

import (
	"context"
	"encoding/base64"
	"strings"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/expedientes/constants"
	"github.com/joseph-ayodele/expedientes/internal/common"
	"github.com/joseph-ayodele/expedientes/internal/repository"
)

// Export: {status, from_date, to_date} -> {xlsx_base64, size}
// Dates are YYYY-MM-DD; to_date is inclusive.
func (s *ExpedienteService) Export(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if s.exporter == nil {
		return nil, status.Error(codes.Unimplemented, "export is not configured")
	}

	var f repository.JobFilter
	if st := strings.ToUpper(strings.TrimSpace(stringField(req, "status"))); st != "" {
		js := constants.JobStatus(st)
		if !js.Valid() {
			return nil, common.InvalidArgumentErrorf("status must be one of %s", strings.Join(constants.StatusStrings(), ", "))
		}
		f.Status = js
	}
	if fd := strings.TrimSpace(stringField(req, "from_date")); fd != "" {
		t, err := time.Parse("2006-01-02", fd)
		if err != nil {
			return nil, common.InvalidArgumentError("from_date must be YYYY-MM-DD")
		}
		f.From = &t
	}
	if td := strings.TrimSpace(stringField(req, "to_date")); td != "" {
		t, err := time.Parse("2006-01-02", td)
		if err != nil {
			return nil, common.InvalidArgumentError("to_date must be YYYY-MM-DD")
		}
		end := t.AddDate(0, 0, 1)
		f.To = &end
	}

	xlsx, err := s.exporter.ExportXLSX(ctx, f)
	if err != nil {
		common.LoggerFromContext(ctx, s.logger).Error("export.xlsx.failed", "err", err)
		return nil, common.StatusFromError(err)
	}
	return newStruct(map[string]any{
		"xlsx_base64": base64.StdEncoding.EncodeToString(xlsx),
		"size":        float64(len(xlsx)),
	})
}
