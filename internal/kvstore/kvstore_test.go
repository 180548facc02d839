package kvstore

import (
	"context"
	"testing"

	"github.com/abhisek/gotutor/internal/logger"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	cfg := InMemoryConfig()
	cfg.Logger = logger.Nop()
	db, err := Open(cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(Config{}); err == nil {
		t.Fatal("expected error for persistent config without path")
	}
}

func TestSlotRoundTrip(t *testing.T) {
	slots := openTestDB(t).Slots()
	ctx := context.Background()

	if _, ok, err := slots.GetSlot(ctx, "u1", "records"); err != nil || ok {
		t.Fatalf("empty get: ok=%v err=%v", ok, err)
	}

	if err := slots.PutSlot(ctx, "u1", "records", []byte(`[]`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := slots.PutSlot(ctx, "u1", "records", []byte(`[{"lessonId":1}]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	data, ok, err := slots.GetSlot(ctx, "u1", "records")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if string(data) != `[{"lessonId":1}]` {
		t.Errorf("data = %q", data)
	}
}

func TestDeleteSlotsLeavesOtherUsers(t *testing.T) {
	slots := openTestDB(t).Slots()
	ctx := context.Background()

	puts := []struct{ user, kind string }{
		{"u1", "records"},
		{"u1", "time_spent"},
		{"u10", "records"},
	}
	for _, p := range puts {
		if err := slots.PutSlot(ctx, p.user, p.kind, []byte("x")); err != nil {
			t.Fatalf("put %s/%s: %v", p.user, p.kind, err)
		}
	}

	if err := slots.DeleteSlots(ctx, "u1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	for _, kind := range []string{"records", "time_spent"} {
		if _, ok, _ := slots.GetSlot(ctx, "u1", kind); ok {
			t.Errorf("u1/%s survived delete", kind)
		}
	}
	// "u10" shares the "u1" string prefix but not the key prefix.
	if _, ok, _ := slots.GetSlot(ctx, "u10", "records"); !ok {
		t.Error("u10/records was deleted")
	}
}

func TestDeleteSlotsKeepsNestedUserIDs(t *testing.T) {
	slots := openTestDB(t).Slots()
	ctx := context.Background()

	for _, user := range []string{"a", "a/b", "a%2Fb"} {
		if err := slots.PutSlot(ctx, user, "records", []byte(user)); err != nil {
			t.Fatalf("put %s: %v", user, err)
		}
	}

	if err := slots.DeleteSlots(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := slots.GetSlot(ctx, "a", "records"); ok {
		t.Error("a/records survived delete")
	}
	for _, user := range []string{"a/b", "a%2Fb"} {
		data, ok, err := slots.GetSlot(ctx, user, "records")
		if err != nil || !ok || string(data) != user {
			t.Errorf("slot for %q = %q ok=%v err=%v", user, data, ok, err)
		}
	}
}

func TestPersistentReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	cfg := DefaultConfig(dir)
	cfg.GCInterval = 0
	db, err := Open(cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := db.Slots().PutSlot(ctx, "u1", "time_spent", []byte("42")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	db, err = Open(cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()
	data, ok, err := db.Slots().GetSlot(ctx, "u1", "time_spent")
	if err != nil || !ok || string(data) != "42" {
		t.Fatalf("after reopen: data=%q ok=%v err=%v", data, ok, err)
	}
}
