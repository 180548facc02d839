package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/abhisek/gotutor/internal/logger"
)

// Slot names in the local store.
const (
	SlotRecords   = "records"
	SlotTimeSpent = "time_spent"
)

// SlotStore is durable per-user slot storage. Implemented by store.SlotRepo
// (SQLite) and kvstore.Slots (BadgerDB).
type SlotStore interface {
	GetSlot(ctx context.Context, userID, kind string) ([]byte, bool, error)
	PutSlot(ctx context.Context, userID, kind string, data []byte) error
	DeleteSlots(ctx context.Context, userID string) error
}

// LocalCache is the on-device copy of the progress record set plus the
// cumulative time-on-task counter.
type LocalCache struct {
	slots SlotStore
	log   *logger.Logger
}

// NewLocalCache returns a cache over slots.
func NewLocalCache(slots SlotStore, log *logger.Logger) *LocalCache {
	if log == nil {
		log = logger.Nop()
	}
	return &LocalCache{slots: slots, log: log.Named("local")}
}

// Load returns the stored records for userID. Missing or unreadable storage
// yields an empty set; invalid entries and entries for other users are
// dropped.
func (c *LocalCache) Load(ctx context.Context, userID string) []Record {
	data, ok, err := c.slots.GetSlot(ctx, userID, SlotRecords)
	if err != nil {
		c.log.Warn("read progress slot", "user_id", userID, "err", err)
		return []Record{}
	}
	if !ok || len(data) == 0 {
		return []Record{}
	}

	records, dropped, err := DecodeRecords(data)
	if err != nil {
		c.log.Debug("progress slot corrupt, treating as empty", "user_id", userID, "err", err)
		return []Record{}
	}
	if dropped > 0 {
		c.log.Debug("dropped invalid progress entries", "user_id", userID, "count", dropped)
	}

	mine := records[:0]
	for _, r := range records {
		if r.UserID == userID {
			mine = append(mine, r)
		}
	}
	return byLesson(mine)
}

// Upsert replaces the stored record for (rec.UserID, rec.LessonID). The
// whole set is rewritten. Last call wins.
func (c *LocalCache) Upsert(ctx context.Context, rec Record) error {
	if rec.UserID == "" || rec.LessonID <= 0 {
		return fmt.Errorf("invalid record: user %q lesson %d", rec.UserID, rec.LessonID)
	}

	current := c.Load(ctx, rec.UserID)
	next := make([]Record, 0, len(current)+1)
	for _, r := range current {
		if r.LessonID != rec.LessonID {
			next = append(next, r)
		}
	}
	next = append(next, rec)
	return c.write(ctx, rec.UserID, next)
}

// Replace overwrites the whole stored set for userID.
func (c *LocalCache) Replace(ctx context.Context, userID string, records []Record) error {
	mine := make([]Record, 0, len(records))
	for _, r := range records {
		if r.UserID == userID {
			mine = append(mine, r)
		}
	}
	return c.write(ctx, userID, byLesson(mine))
}

func (c *LocalCache) write(ctx context.Context, userID string, records []Record) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}
	if err := c.slots.PutSlot(ctx, userID, SlotRecords, data); err != nil {
		return fmt.Errorf("write progress: %w", err)
	}
	return nil
}

// TotalMinutes returns the stored cumulative time-on-task. Missing or
// corrupt values read as zero.
func (c *LocalCache) TotalMinutes(ctx context.Context, userID string) int {
	data, ok, err := c.slots.GetSlot(ctx, userID, SlotTimeSpent)
	if err != nil {
		c.log.Warn("read time slot", "user_id", userID, "err", err)
		return 0
	}
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || n < 0 {
		c.log.Debug("time slot corrupt, treating as zero", "user_id", userID, "value", string(data))
		return 0
	}
	return n
}

// AddMinutes adds n minutes to the stored cumulative total.
func (c *LocalCache) AddMinutes(ctx context.Context, userID string, n int) error {
	if n < 0 {
		return errors.New("minutes must not be negative")
	}
	if n == 0 {
		return nil
	}
	total := c.TotalMinutes(ctx, userID) + n
	if err := c.slots.PutSlot(ctx, userID, SlotTimeSpent, []byte(strconv.Itoa(total))); err != nil {
		return fmt.Errorf("write time spent: %w", err)
	}
	return nil
}

// Reset clears the stored records and time for userID.
func (c *LocalCache) Reset(ctx context.Context, userID string) error {
	if err := c.slots.DeleteSlots(ctx, userID); err != nil {
		return fmt.Errorf("reset progress: %w", err)
	}
	return nil
}
