package lessons

import (
	"context"
	"errors"
	"testing"
)

type fakeSource struct {
	lessons []Lesson
	err     error
}

func (f fakeSource) FetchLessons(context.Context) ([]Lesson, error) {
	return f.lessons, f.err
}

func TestBuiltinCatalog(t *testing.T) {
	ls := Builtin()
	if len(ls) != 10 {
		t.Fatalf("expected 10 built-in lessons, got %d", len(ls))
	}
	for i, l := range ls {
		if l.ID != i+1 || l.Order != i+1 {
			t.Errorf("lesson %d: id=%d order=%d", i, l.ID, l.Order)
		}
		if !l.Difficulty.Valid() {
			t.Errorf("lesson %d: invalid difficulty %q", l.ID, l.Difficulty)
		}
		if l.Exercise == "" || l.Solution == "" {
			t.Errorf("lesson %d: missing exercise or solution", l.ID)
		}
	}
}

func TestCatalogNilSource(t *testing.T) {
	c := NewCatalog(nil, nil)
	got := c.Load(context.Background())
	if len(got) != 10 || !c.Fallback() {
		t.Fatalf("expected built-in fallback, got %d lessons fallback=%v", len(got), c.Fallback())
	}
}

func TestCatalogSourceError(t *testing.T) {
	c := NewCatalog(fakeSource{err: errors.New("connection refused")}, nil)
	got := c.Load(context.Background())
	if len(got) != 10 {
		t.Fatalf("expected built-in lessons, got %d", len(got))
	}
	if !c.Fallback() {
		t.Error("expected fallback flag")
	}
}

func TestCatalogUsesFetchedLessonsInOrder(t *testing.T) {
	src := fakeSource{lessons: []Lesson{
		{ID: 2, Title: "Second", Order: 2},
		{ID: 1, Title: "First", Order: 1},
		{ID: 0, Title: "Invalid"},
		{ID: 1, Title: "Duplicate", Order: 3},
	}}
	c := NewCatalog(src, nil)
	got := c.Load(context.Background())

	if c.Fallback() {
		t.Fatal("expected fetched catalog")
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 lessons, got %d", len(got))
	}
	if got[0].Title != "First" || got[1].Title != "Second" {
		t.Errorf("unexpected order: %q, %q", got[0].Title, got[1].Title)
	}
	if c.Total() != 2 {
		t.Errorf("Total() = %d, want 2", c.Total())
	}
	if _, ok := c.Get(10); ok {
		t.Error("built-in lesson 10 still visible after fetch")
	}
}

func TestCatalogEmptyFetchKeepsBuiltin(t *testing.T) {
	c := NewCatalog(fakeSource{lessons: []Lesson{}}, nil)
	c.Load(context.Background())
	if !c.Fallback() || c.Total() != 10 {
		t.Fatalf("fallback=%v total=%d", c.Fallback(), c.Total())
	}
}

func TestCatalogAllReturnsCopy(t *testing.T) {
	c := NewCatalog(nil, nil)
	ls := c.All()
	ls[0].Title = "mutated"
	l, _ := c.Get(1)
	if l.Title == "mutated" {
		t.Error("All() exposed internal slice")
	}
}
