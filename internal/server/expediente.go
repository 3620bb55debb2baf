package server

import (
	"context"
	"log/slog"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/expedientes/internal/common"
	"github.com/joseph-ayodele/expedientes/internal/expediente"
	"github.com/joseph-ayodele/expedientes/internal/export"
	"github.com/joseph-ayodele/expedientes/internal/pipeline"
)

// ExpedienteService serves the classifier, normalizer, comparator and
// validator, plus intake and export when a processor and exporter are set.
type ExpedienteService struct {
	catalog   *expediente.Catalog
	processor *pipeline.Processor
	exporter  *export.Service
	logger    *slog.Logger
}

var _ ExpedienteServer = (*ExpedienteService)(nil)

type ServiceOption func(*ExpedienteService)

func WithProcessor(p *pipeline.Processor) ServiceOption {
	return func(s *ExpedienteService) { s.processor = p }
}

func WithExporter(e *export.Service) ServiceOption {
	return func(s *ExpedienteService) { s.exporter = e }
}

func WithCatalog(c *expediente.Catalog) ServiceOption {
	return func(s *ExpedienteService) {
		if c != nil {
			s.catalog = c
		}
	}
}

func NewExpedienteService(logger *slog.Logger, opts ...ServiceOption) *ExpedienteService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &ExpedienteService{catalog: expediente.DefaultCatalog(), logger: logger}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Classify: {text} -> {has_signal, signals}
func (s *ExpedienteService) Classify(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	signals := s.catalog.Signals(stringField(req, "text"))
	common.LoggerFromContext(ctx, s.logger).Debug("classify", "signals", len(signals))
	return newStruct(map[string]any{
		"has_signal": len(signals) > 0,
		"signals":    stringList(expediente.SignalNames(signals)),
	})
}

// Normalize: {raw} -> {normalized}
func (s *ExpedienteService) Normalize(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return newStruct(map[string]any{
		"normalized": expediente.Normalize(stringField(req, "raw")).String(),
	})
}

// Compare: {a, b} -> {equivalent, a_normalized, b_normalized}
func (s *ExpedienteService) Compare(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	a, b := stringField(req, "a"), stringField(req, "b")
	return newStruct(map[string]any{
		"equivalent":   expediente.Equivalent(a, b),
		"a_normalized": expediente.Normalize(a).String(),
		"b_normalized": expediente.Normalize(b).String(),
	})
}

// Validate: {record: {numero, fechaInicio}} -> {esValido, errores}
func (s *ExpedienteService) Validate(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var fields map[string]any
	if rec := req.GetFields()["record"].GetStructValue(); rec != nil {
		fields = rec.AsMap()
	}
	res := expediente.Validate(expediente.RecordFromMap(fields))
	return newStruct(map[string]any{
		"esValido": res.Valid,
		"errores":  stringList(res.Errors),
	})
}

func stringField(s *structpb.Struct, key string) string {
	return s.GetFields()[key].GetStringValue()
}

func stringList(in []string) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}

func newStruct(m map[string]any) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, common.InternalErrorf("encode response: %v", err)
	}
	return out, nil
}
