package store

import (
	"context"
	"fmt"

	"github.com/abhisek/gotutor/ent"
	"github.com/abhisek/gotutor/ent/progressrecord"
)

// progressRepo implements ProgressRepo using the ent client.
type progressRepo struct {
	client *ent.Client
}

func (r *progressRepo) List(ctx context.Context, userID string) ([]ProgressRow, error) {
	recs, err := r.client.ProgressRecord.Query().
		Where(progressrecord.UserID(userID)).
		Order(ent.Asc(progressrecord.FieldLessonID)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("query progress for %s: %w", userID, err)
	}

	rows := make([]ProgressRow, 0, len(recs))
	for _, rec := range recs {
		rows = append(rows, entRecordToRow(rec))
	}
	return rows, nil
}

func (r *progressRepo) Upsert(ctx context.Context, row ProgressRow) (ProgressRow, error) {
	tx, err := r.client.Tx(ctx)
	if err != nil {
		return ProgressRow{}, fmt.Errorf("begin tx: %w", err)
	}

	existing, err := tx.ProgressRecord.Query().
		Where(progressrecord.UserID(row.UserID), progressrecord.LessonID(row.LessonID)).
		Only(ctx)
	switch {
	case ent.IsNotFound(err):
		rec, err := tx.ProgressRecord.Create().
			SetUserID(row.UserID).
			SetLessonID(row.LessonID).
			SetCompleted(row.Completed).
			SetNillableCompletedAt(row.CompletedAt).
			Save(ctx)
		if err != nil {
			return ProgressRow{}, rollback(tx, fmt.Errorf("create progress: %w", err))
		}
		if err := tx.Commit(); err != nil {
			return ProgressRow{}, fmt.Errorf("commit: %w", err)
		}
		return entRecordToRow(rec), nil
	case err != nil:
		return ProgressRow{}, rollback(tx, fmt.Errorf("query progress: %w", err))
	}

	if existing.Completed {
		// Completion is terminal; the first completion time wins.
		if err := tx.Commit(); err != nil {
			return ProgressRow{}, fmt.Errorf("commit: %w", err)
		}
		return entRecordToRow(existing), nil
	}

	upd := tx.ProgressRecord.UpdateOne(existing).
		SetCompleted(row.Completed)
	if row.CompletedAt != nil {
		upd = upd.SetCompletedAt(*row.CompletedAt)
	} else {
		upd = upd.ClearCompletedAt()
	}
	rec, err := upd.Save(ctx)
	if err != nil {
		return ProgressRow{}, rollback(tx, fmt.Errorf("update progress: %w", err))
	}
	if err := tx.Commit(); err != nil {
		return ProgressRow{}, fmt.Errorf("commit: %w", err)
	}
	return entRecordToRow(rec), nil
}

func rollback(tx *ent.Tx, err error) error {
	if rerr := tx.Rollback(); rerr != nil {
		return fmt.Errorf("%w: rollback: %v", err, rerr)
	}
	return err
}

func entRecordToRow(rec *ent.ProgressRecord) ProgressRow {
	return ProgressRow{
		UserID:      rec.UserID,
		LessonID:    rec.LessonID,
		Completed:   rec.Completed,
		CompletedAt: rec.CompletedAt,
	}
}
