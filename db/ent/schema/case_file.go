package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
	"github.com/google/uuid"
)

// CaseFile mirrors the case_files table created by repository.Migrate.
// Timestamps are stored as fixed-width UTC RFC 3339 text.
type CaseFile struct {
	ent.Schema
}

func (CaseFile) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "case_files"},
	}
}

func (CaseFile) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).
			Default(uuid.New).
			Immutable(),
		field.String("numero_raw").
			NotEmpty().
			MinLen(5),
		field.String("numero_normalized").
			NotEmpty().
			Unique().
			Match(numeroNormalizedRE),
		field.String("fecha_inicio").Optional().Nillable(),
		field.String("first_seen_at").NotEmpty().Immutable(),
		field.String("last_seen_at").NotEmpty(),
		field.Int("seen_count").Positive().Default(1),
	}
}

func (CaseFile) Edges() []ent.Edge {
	return []ent.Edge{
		// ONE case file -> MANY intake jobs
		edge.To("jobs", IntakeJob.Type),
	}
}

func (CaseFile) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("first_seen_at"),
	}
}
