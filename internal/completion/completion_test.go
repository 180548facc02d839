package completion

import (
	"strings"
	"testing"

	"github.com/abhisek/gotutor/internal/lessons"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		lessonID int
		code     string
		output   string
		want     bool
	}{
		{"hello world", 1, `fmt.Println("Hello, World!")`, "Hello, World!", true},
		{"hello empty code", 1, "", "Hello, World!", false},
		{"hello whitespace code", 1, "  \n\t ", "Hello", false},
		{"hello missing println", 1, `fmt.Print("Hello")`, "Hello", false},
		{"hello wrong output", 1, `fmt.Println("Hi")`, "Hi", false},
		{"variables var", 2, "var x int = 3", "", true},
		{"variables short decl", 2, "x := 3", "", true},
		{"variables none", 2, "fmt.Println(3)", "3", false},
		{"functions", 3, "func add(a, b int) int { return a + b }", "", true},
		{"conditionals", 4, "if x > 0 {}", "", true},
		{"conditionals missing", 4, "for i := 0; i < 3; i++ {}", "", false},
		{"loops", 5, "for i := 0; i < 3; i++ {}", "", true},
		{"loops missing", 5, "if x > 0 {}", "", false},
		{"slices", 6, `s := []string{"Go"}`, "", true},
		{"maps", 7, "m := map[string]int{}", "", true},
		{"structs", 8, "type P struct {\n\tName string\n}", "", true},
		{"structs compact", 8, "type P struct{}", "", true},
		{"methods", 9, "func (p P) Greet() {}", "", true},
		{"methods plain func", 9, "func Greet(p P) {}", "", false},
		{"interfaces", 10, "type Shape interface {\n\tArea() float64\n}", "", true},
		{"unknown lesson long code", 99, "package main\n\nfunc main() {}\n", "", true},
		{"unknown lesson short code", 99, "package main", "", false},
		{"unknown lesson exactly threshold", 99, strings.Repeat("x", MinDefaultLength), "", false},
		{"unknown lesson just over threshold", 99, strings.Repeat("x", MinDefaultLength+1), "", true},
		{"default trims before measuring", 99, "   " + strings.Repeat("x", MinDefaultLength) + "   ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Evaluate(tt.lessonID, tt.code, tt.output); got != tt.want {
				t.Errorf("Evaluate(%d, %q, %q) = %v, want %v", tt.lessonID, tt.code, tt.output, got, tt.want)
			}
		})
	}
}

func TestErrorMarkerVetoesEveryLesson(t *testing.T) {
	reg := Default()
	for _, l := range lessons.Builtin() {
		out := "Hello\n" + ErrorMarker + " exit status 1"
		if reg.Evaluate(l.ID, l.Solution, out) {
			t.Errorf("lesson %d completed despite error marker", l.ID)
		}
	}
	if reg.Evaluate(42, strings.Repeat("long code ", 10), "Error: boom") {
		t.Error("default rule completed despite error marker")
	}
}

func TestSolutionsCompleteTheirLessons(t *testing.T) {
	reg := Default()
	for _, l := range lessons.Builtin() {
		output := ""
		if l.ID == 1 {
			output = "Hello, World!\n"
		}
		if !reg.Evaluate(l.ID, l.Solution, output) {
			t.Errorf("solution for lesson %d (%s) does not complete it", l.ID, l.Title)
		}
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	reg := Default()
	for id := 0; id <= 11; id++ {
		first := reg.Evaluate(id, "x := 1\nfor i := range 3 {}", "ok")
		for i := 0; i < 5; i++ {
			if got := reg.Evaluate(id, "x := 1\nfor i := range 3 {}", "ok"); got != first {
				t.Fatalf("lesson %d: verdict changed from %v to %v", id, first, got)
			}
		}
	}
}

func TestRegisterOverridesAndAddsLessons(t *testing.T) {
	reg := NewBuiltinRegistry()
	reg.Register(11, CodeContainsAny("goroutines", "go func"))

	if !reg.Evaluate(11, "go func() {}()", "") {
		t.Error("registered rule not used")
	}
	if reg.Evaluate(11, strings.Repeat("x", 50), "") {
		t.Error("default rule used for registered lesson")
	}
	if got := reg.Rule(12).Name(); got != "default" {
		t.Errorf("unregistered lesson rule = %q, want default", got)
	}

	// Default() is unaffected by changes to a fresh registry.
	if Default().Rule(11).Name() != "default" {
		t.Error("fresh registry leaked into Default()")
	}
}

func TestRegisterNilFallsBackToDefault(t *testing.T) {
	reg := NewRegistry()
	reg.Register(1, nil)
	if reg.Rule(1) != DefaultRule {
		t.Error("nil rule should fall back to default")
	}
	if !reg.Evaluate(1, strings.Repeat("x", MinDefaultLength+1), "") {
		t.Error("nil rule should evaluate with the default rule")
	}
}

func TestBuiltinRulesFollowLessonTopics(t *testing.T) {
	reg := NewBuiltinRegistry()
	ifOnly := "package main\n\nfunc main() {\n\tif true {\n\t}\n}\n"
	loopOnly := "package main\n\nfunc main() {\n\tfor {\n\t\tbreak\n\t}\n}\n"

	if got := reg.Rule(4).Name(); got != "conditionals" {
		t.Errorf("lesson 4 rule = %q, want conditionals", got)
	}
	if got := reg.Rule(5).Name(); got != "loops" {
		t.Errorf("lesson 5 rule = %q, want loops", got)
	}
	if !reg.Evaluate(4, ifOnly, "ok") || reg.Evaluate(4, loopOnly, "ok") {
		t.Error("lesson 4 should require a conditional and ignore loops")
	}
	if !reg.Evaluate(5, loopOnly, "ok") || reg.Evaluate(5, ifOnly, "ok") {
		t.Error("lesson 5 should require a loop and ignore conditionals")
	}
}

func TestDisplayedOutput(t *testing.T) {
	if got := DisplayedOutput("Hello", ""); got != "Hello" {
		t.Errorf("no error: got %q", got)
	}
	got := DisplayedOutput("partial", "undefined: x")
	if got != "Error: undefined: x" {
		t.Errorf("with error: got %q", got)
	}
	if Evaluate(1, `fmt.Println("Hello")`, got) {
		t.Error("execution error did not veto")
	}
}
