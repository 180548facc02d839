// Package lessons provides the lesson catalog: the ordered list of lessons
// fetched from the tutorial backend, with a built-in copy when it is
// unreachable.
package lessons

// Difficulty grades a lesson.
type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool {
	switch d {
	case Beginner, Intermediate, Advanced:
		return true
	}
	return false
}

// Lesson is one tutorial lesson. The JSON form matches the backend's
// /api/lessons payload.
type Lesson struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Content     string     `json:"content,omitempty"`
	Exercise    string     `json:"exercise"`
	Solution    string     `json:"solution"`
	Difficulty  Difficulty `json:"difficulty"`
	Order       int        `json:"order"`
	Category    string     `json:"category,omitempty"`
}
