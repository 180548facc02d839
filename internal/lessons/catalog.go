package lessons

import (
	"context"
	"sort"
	"sync"

	"github.com/abhisek/gotutor/internal/logger"
)

// Source fetches lessons from the tutorial backend.
type Source interface {
	FetchLessons(ctx context.Context) ([]Lesson, error)
}

// Catalog is the ordered, read-only list of lessons the client works with.
type Catalog struct {
	source Source
	log    *logger.Logger

	mu       sync.RWMutex
	lessons  []Lesson
	fallback bool
}

// NewCatalog returns a catalog that loads from source. A nil source always
// uses the built-in lessons.
func NewCatalog(source Source, log *logger.Logger) *Catalog {
	if log == nil {
		log = logger.Nop()
	}
	return &Catalog{source: source, log: log, lessons: sorted(Builtin()), fallback: true}
}

// Load fetches the catalog. When the source fails or returns no usable
// lessons, the built-in catalog is kept.
func (c *Catalog) Load(ctx context.Context) []Lesson {
	if c.source == nil {
		return c.All()
	}

	fetched, err := c.source.FetchLessons(ctx)
	if err != nil {
		c.log.Warn("lesson catalog unavailable, using built-in lessons", "err", err)
		return c.All()
	}

	valid := make([]Lesson, 0, len(fetched))
	seen := make(map[int]bool, len(fetched))
	for _, l := range fetched {
		if l.ID <= 0 || seen[l.ID] {
			c.log.Debug("dropping lesson", "lesson_id", l.ID)
			continue
		}
		seen[l.ID] = true
		valid = append(valid, l)
	}
	if len(valid) == 0 {
		c.log.Warn("lesson catalog empty, using built-in lessons")
		return c.All()
	}

	c.mu.Lock()
	c.lessons = sorted(valid)
	c.fallback = false
	c.mu.Unlock()
	return c.All()
}

// All returns a copy of the lessons in order.
func (c *Catalog) All() []Lesson {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Lesson, len(c.lessons))
	copy(out, c.lessons)
	return out
}

// Get looks up a lesson by ID.
func (c *Catalog) Get(id int) (Lesson, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, l := range c.lessons {
		if l.ID == id {
			return l, true
		}
	}
	return Lesson{}, false
}

// Total returns the number of lessons.
func (c *Catalog) Total() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.lessons)
}

// Fallback reports whether the built-in catalog is in use.
func (c *Catalog) Fallback() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fallback
}

func sorted(ls []Lesson) []Lesson {
	sort.SliceStable(ls, func(i, j int) bool {
		if ls[i].Order != ls[j].Order {
			return ls[i].Order < ls[j].Order
		}
		return ls[i].ID < ls[j].ID
	})
	return ls
}
