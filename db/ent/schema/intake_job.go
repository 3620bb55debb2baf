package schema

import (
	"regexp"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/expedientes/constants"
	"github.com/joseph-ayodele/expedientes/db/ent/schema/utils"
)

var numeroNormalizedRE = regexp.MustCompile(`^[A-Z0-9-]+$`)

type IntakeJob struct{ ent.Schema }

func (IntakeJob) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "intake_jobs"},
	}
}

func (IntakeJob) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).Default(uuid.New).Immutable(),
		field.String("source_path").NotEmpty(),
		// sha256, hex encoded
		field.String("content_hash").NotEmpty(),
		field.String("format").NotEmpty().
			Validate(utils.EnumValidator(constants.FileTypes...)),
		field.String("status").NotEmpty().
			Validate(utils.EnumValidator(constants.StatusStrings()...)),
		field.Bool("has_signal").Default(false),
		// JSON array of matched catalog entries
		field.String("signals").Optional().Nillable(),
		field.String("numero_normalized").Optional().Nillable().
			Match(numeroNormalizedRE),
		field.Bool("valid").Default(false),
		// JSON array of validation messages
		field.String("errors").Optional().Nillable(),
		field.UUID("case_file_id", uuid.UUID{}).Optional().Nillable(),
		field.String("error_message").Optional().Nillable(),
		field.String("started_at").NotEmpty(),
		field.String("finished_at").Optional().Nillable(),
	}
}

func (IntakeJob) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("case_file", CaseFile.Type).
			Ref("jobs").
			Field("case_file_id").
			Unique(),
	}
}

func (IntakeJob) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("status", "started_at"),
		index.Fields("content_hash"),
		index.Fields("case_file_id"),
	}
}
