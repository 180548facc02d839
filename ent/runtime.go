// Code generated by ent, DO NOT EDIT.

package ent

import (
	"time"

	"github.com/abhisek/gotutor/ent/completionevent"
	"github.com/abhisek/gotutor/ent/progressrecord"
	"github.com/abhisek/gotutor/ent/progressslot"
	"github.com/abhisek/gotutor/ent/schema"
	"github.com/abhisek/gotutor/ent/sessionevent"
)

// The init function reads all schema descriptors with runtime code
// (default values, validators, hooks and policies) and stitches it
// to their package variables.
func init() {
	completioneventMixin := schema.CompletionEvent{}.Mixin()
	completioneventMixinFields0 := completioneventMixin[0].Fields()
	_ = completioneventMixinFields0
	completioneventFields := schema.CompletionEvent{}.Fields()
	_ = completioneventFields
	// completioneventDescTimestamp is the schema descriptor for timestamp field.
	completioneventDescTimestamp := completioneventMixinFields0[1].Descriptor()
	// completionevent.DefaultTimestamp holds the default value on creation for the timestamp field.
	completionevent.DefaultTimestamp = completioneventDescTimestamp.Default.(func() time.Time)
	// completioneventDescUserID is the schema descriptor for user_id field.
	completioneventDescUserID := completioneventMixinFields0[2].Descriptor()
	// completionevent.UserIDValidator is a validator for the "user_id" field. It is called by the builders before save.
	completionevent.UserIDValidator = completioneventDescUserID.Validators[0].(func(string) error)
	// completioneventDescErrorMessage is the schema descriptor for error_message field.
	completioneventDescErrorMessage := completioneventFields[2].Descriptor()
	// completionevent.DefaultErrorMessage holds the default value on creation for the error_message field.
	completionevent.DefaultErrorMessage = completioneventDescErrorMessage.Default.(string)
	progressrecordFields := schema.ProgressRecord{}.Fields()
	_ = progressrecordFields
	// progressrecordDescUserID is the schema descriptor for user_id field.
	progressrecordDescUserID := progressrecordFields[0].Descriptor()
	// progressrecord.UserIDValidator is a validator for the "user_id" field. It is called by the builders before save.
	progressrecord.UserIDValidator = progressrecordDescUserID.Validators[0].(func(string) error)
	// progressrecordDescLessonID is the schema descriptor for lesson_id field.
	progressrecordDescLessonID := progressrecordFields[1].Descriptor()
	// progressrecord.LessonIDValidator is a validator for the "lesson_id" field. It is called by the builders before save.
	progressrecord.LessonIDValidator = progressrecordDescLessonID.Validators[0].(func(int) error)
	// progressrecordDescCompleted is the schema descriptor for completed field.
	progressrecordDescCompleted := progressrecordFields[2].Descriptor()
	// progressrecord.DefaultCompleted holds the default value on creation for the completed field.
	progressrecord.DefaultCompleted = progressrecordDescCompleted.Default.(bool)
	// progressrecordDescUpdatedAt is the schema descriptor for updated_at field.
	progressrecordDescUpdatedAt := progressrecordFields[4].Descriptor()
	// progressrecord.DefaultUpdatedAt holds the default value on creation for the updated_at field.
	progressrecord.DefaultUpdatedAt = progressrecordDescUpdatedAt.Default.(func() time.Time)
	// progressrecord.UpdateDefaultUpdatedAt holds the default value on update for the updated_at field.
	progressrecord.UpdateDefaultUpdatedAt = progressrecordDescUpdatedAt.UpdateDefault.(func() time.Time)
	progressslotFields := schema.ProgressSlot{}.Fields()
	_ = progressslotFields
	// progressslotDescUserID is the schema descriptor for user_id field.
	progressslotDescUserID := progressslotFields[0].Descriptor()
	// progressslot.UserIDValidator is a validator for the "user_id" field. It is called by the builders before save.
	progressslot.UserIDValidator = progressslotDescUserID.Validators[0].(func(string) error)
	// progressslotDescKind is the schema descriptor for kind field.
	progressslotDescKind := progressslotFields[1].Descriptor()
	// progressslot.KindValidator is a validator for the "kind" field. It is called by the builders before save.
	progressslot.KindValidator = progressslotDescKind.Validators[0].(func(string) error)
	// progressslotDescData is the schema descriptor for data field.
	progressslotDescData := progressslotFields[2].Descriptor()
	// progressslot.DefaultData holds the default value on creation for the data field.
	progressslot.DefaultData = progressslotDescData.Default.(string)
	// progressslotDescUpdatedAt is the schema descriptor for updated_at field.
	progressslotDescUpdatedAt := progressslotFields[3].Descriptor()
	// progressslot.DefaultUpdatedAt holds the default value on creation for the updated_at field.
	progressslot.DefaultUpdatedAt = progressslotDescUpdatedAt.Default.(func() time.Time)
	// progressslot.UpdateDefaultUpdatedAt holds the default value on update for the updated_at field.
	progressslot.UpdateDefaultUpdatedAt = progressslotDescUpdatedAt.UpdateDefault.(func() time.Time)
	sessioneventMixin := schema.SessionEvent{}.Mixin()
	sessioneventMixinFields0 := sessioneventMixin[0].Fields()
	_ = sessioneventMixinFields0
	sessioneventFields := schema.SessionEvent{}.Fields()
	_ = sessioneventFields
	// sessioneventDescTimestamp is the schema descriptor for timestamp field.
	sessioneventDescTimestamp := sessioneventMixinFields0[1].Descriptor()
	// sessionevent.DefaultTimestamp holds the default value on creation for the timestamp field.
	sessionevent.DefaultTimestamp = sessioneventDescTimestamp.Default.(func() time.Time)
	// sessioneventDescUserID is the schema descriptor for user_id field.
	sessioneventDescUserID := sessioneventMixinFields0[2].Descriptor()
	// sessionevent.UserIDValidator is a validator for the "user_id" field. It is called by the builders before save.
	sessionevent.UserIDValidator = sessioneventDescUserID.Validators[0].(func(string) error)
	// sessioneventDescSessionID is the schema descriptor for session_id field.
	sessioneventDescSessionID := sessioneventFields[0].Descriptor()
	// sessionevent.SessionIDValidator is a validator for the "session_id" field. It is called by the builders before save.
	sessionevent.SessionIDValidator = sessioneventDescSessionID.Validators[0].(func(string) error)
	// sessioneventDescAction is the schema descriptor for action field.
	sessioneventDescAction := sessioneventFields[1].Descriptor()
	// sessionevent.ActionValidator is a validator for the "action" field. It is called by the builders before save.
	sessionevent.ActionValidator = sessioneventDescAction.Validators[0].(func(string) error)
	// sessioneventDescDurationMins is the schema descriptor for duration_mins field.
	sessioneventDescDurationMins := sessioneventFields[2].Descriptor()
	// sessionevent.DefaultDurationMins holds the default value on creation for the duration_mins field.
	sessionevent.DefaultDurationMins = sessioneventDescDurationMins.Default.(int)
	// sessionevent.DurationMinsValidator is a validator for the "duration_mins" field. It is called by the builders before save.
	sessionevent.DurationMinsValidator = sessioneventDescDurationMins.Validators[0].(func(int) error)
}
