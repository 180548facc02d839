package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// CompletionEvent records a lesson completion and whether the remote
// authority acknowledged it.
type CompletionEvent struct {
	ent.Schema
}

func (CompletionEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (CompletionEvent) Fields() []ent.Field {
	return []ent.Field{
		field.Int("lesson_id"),
		field.Bool("remote_synced").
			Comment("Remote authority acknowledged the push"),
		field.String("error_message").
			Default("").
			Comment("Push failure, empty when synced"),
	}
}

func (CompletionEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("lesson_id"),
		index.Fields("remote_synced"),
	}
}
