package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// ProgressSlot is one durable slot of the local progress cache. A learner
// has at most one slot per kind ("records", "time_spent").
//
// Data is kept as opaque text rather than a JSON column so that a corrupt
// value survives the round trip and can be discarded by the reader.
type ProgressSlot struct {
	ent.Schema
}

func (ProgressSlot) Fields() []ent.Field {
	return []ent.Field{
		field.String("user_id").
			NotEmpty(),
		field.String("kind").
			NotEmpty(),
		field.Text("data").
			Default(""),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}

func (ProgressSlot) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("user_id", "kind").Unique(),
	}
}
