package completion

import "strings"

// NewBuiltinRegistry returns a fresh registry holding the rules for the
// built-in catalog, keyed by lesson ID.
func NewBuiltinRegistry() *Registry {
	r := NewRegistry()
	r.Register(1, RuleFunc{Label: "hello", Fn: func(code, output string) bool {
		return strings.Contains(code, "fmt.Println") && strings.Contains(output, "Hello")
	}})
	r.Register(2, CodeContainsAny("variables", "var ", ":="))
	r.Register(3, CodeContainsAny("functions", "func "))
	r.Register(4, CodeContainsAny("conditionals", "if "))
	r.Register(5, CodeContainsAny("loops", "for "))
	r.Register(6, CodeContainsAny("slices", "[]"))
	r.Register(7, CodeContainsAny("maps", "map["))
	r.Register(8, CodeContainsAny("structs", "struct {", "struct{"))
	r.Register(9, CodeContainsAny("methods", "func ("))
	r.Register(10, CodeContainsAny("interfaces", "interface {", "interface{"))
	return r
}
