package store

import (
	"context"
	"fmt"

	"github.com/abhisek/gotutor/ent"
	"github.com/abhisek/gotutor/ent/progressslot"
)

// SlotRepo stores the local progress cache slots in SQLite.
type SlotRepo struct {
	client *ent.Client
}

// GetSlot returns the slot contents and whether the slot exists.
func (r *SlotRepo) GetSlot(ctx context.Context, userID, kind string) ([]byte, bool, error) {
	s, err := r.client.ProgressSlot.Query().
		Where(progressslot.UserID(userID), progressslot.Kind(kind)).
		Only(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("query slot %s/%s: %w", userID, kind, err)
	}
	return []byte(s.Data), true, nil
}

// PutSlot replaces the slot contents, creating the slot on first write.
func (r *SlotRepo) PutSlot(ctx context.Context, userID, kind string, data []byte) error {
	n, err := r.client.ProgressSlot.Update().
		Where(progressslot.UserID(userID), progressslot.Kind(kind)).
		SetData(string(data)).
		Save(ctx)
	if err != nil {
		return fmt.Errorf("update slot %s/%s: %w", userID, kind, err)
	}
	if n > 0 {
		return nil
	}

	_, err = r.client.ProgressSlot.Create().
		SetUserID(userID).
		SetKind(kind).
		SetData(string(data)).
		Save(ctx)
	if err != nil {
		return fmt.Errorf("create slot %s/%s: %w", userID, kind, err)
	}
	return nil
}

// DeleteSlots removes every slot belonging to userID.
func (r *SlotRepo) DeleteSlots(ctx context.Context, userID string) error {
	if _, err := r.client.ProgressSlot.Delete().
		Where(progressslot.UserID(userID)).
		Exec(ctx); err != nil {
		return fmt.Errorf("delete slots for %s: %w", userID, err)
	}
	return nil
}
