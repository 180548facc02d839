package lessons

// Builtin returns the catalog that ships with the binary. It is served by
// `gotutor serve` and used by the client when the backend is unreachable.
func Builtin() []Lesson {
	return []Lesson{
		{
			ID:          1,
			Title:       "Hello, Go!",
			Description: "Write your first Go program and understand the basics",
			Content: `Every Go program starts with a package clause. The main package
with a main function is the entry point of an executable. Import fmt to
print to the console.`,
			Exercise: `Write a program that prints "Hello, World!" to the console.

Hint: Use fmt.Println() to print text.`,
			Solution: `package main

import "fmt"

func main() {
	fmt.Println("Hello, World!")
}`,
			Difficulty: Beginner,
			Order:      1,
			Category:   "basics",
		},
		{
			ID:          2,
			Title:       "Variables and Types",
			Description: "Learn about Go's type system and variable declarations",
			Content: `Go is statically typed. Declare variables with var and an explicit
type, or let the compiler infer it with :=. Unassigned variables hold
their type's zero value.`,
			Exercise: `Create variables of different types and print them:
- A string variable with your name
- An integer variable with your age
- A boolean variable set to true
- A float variable with a decimal number`,
			Solution: `package main

import "fmt"

func main() {
	var name string = "Go Developer"
	age := 25
	isLearning := true
	var score float64 = 95.5

	fmt.Println("Name:", name)
	fmt.Println("Age:", age)
	fmt.Println("Learning:", isLearning)
	fmt.Println("Score:", score)
}`,
			Difficulty: Beginner,
			Order:      2,
			Category:   "basics",
		},
		{
			ID:          3,
			Title:       "Functions",
			Description: "Create and use functions in Go",
			Content: `Functions are declared with func, take typed parameters and may
return several values. Returning (value, error) is the common pattern.`,
			Exercise: `Create a function called 'add' that takes two integers and returns their sum.
Then call this function with the numbers 15 and 27 and print the result.`,
			Solution: `package main

import "fmt"

func add(a, b int) int {
	return a + b
}

func main() {
	result := add(15, 27)
	fmt.Println("Sum:", result)
}`,
			Difficulty: Intermediate,
			Order:      3,
			Category:   "functions",
		},
		{
			ID:          4,
			Title:       "Control Flow - If/Else",
			Description: "Make decisions in your Go programs",
			Content: `if statements need no parentheses but always need braces. An if
may start with a short statement scoped to the whole if/else chain.`,
			Exercise: `Write a program that checks if a number is positive, negative, or zero.
Use variables for the number and print the appropriate message.`,
			Solution: `package main

import "fmt"

func main() {
	number := -5

	if number > 0 {
		fmt.Println("The number is positive")
	} else if number < 0 {
		fmt.Println("The number is negative")
	} else {
		fmt.Println("The number is zero")
	}
}`,
			Difficulty: Beginner,
			Order:      4,
			Category:   "control-flow",
		},
		{
			ID:          5,
			Title:       "Loops",
			Description: "Repeat code execution with loops",
			Content: `for is Go's only loop. It covers the classic three-part form,
while-style conditions, infinite loops and range over collections.`,
			Exercise: `Write a program that prints numbers from 1 to 10, but skip the number 5.
Use a for loop and continue statement.`,
			Solution: `package main

import "fmt"

func main() {
	for i := 1; i <= 10; i++ {
		if i == 5 {
			continue
		}
		fmt.Println(i)
	}
}`,
			Difficulty: Beginner,
			Order:      5,
			Category:   "control-flow",
		},
		{
			ID:          6,
			Title:       "Arrays and Slices",
			Description: "Work with collections of data",
			Content: `Arrays have a fixed length. Slices are views over arrays that can
grow with append.`,
			Exercise: `Create a slice of strings with your favorite programming languages.
Then add "Go" to the slice and print all languages.`,
			Solution: `package main

import "fmt"

func main() {
	languages := []string{"Python", "JavaScript", "Java"}
	languages = append(languages, "Go")

	fmt.Println("My favorite languages:")
	for i, lang := range languages {
		fmt.Printf("%d. %s\n", i+1, lang)
	}
}`,
			Difficulty: Intermediate,
			Order:      6,
			Category:   "data-structures",
		},
		{
			ID:          7,
			Title:       "Maps",
			Description: "Store key-value pairs with maps",
			Content: `Maps associate keys with values. Create them with make or a
literal; iteration order is not specified.`,
			Exercise: `Create a map that stores student names as keys and their grades as values.
Add at least 3 students, then print all students and their grades.`,
			Solution: `package main

import "fmt"

func main() {
	grades := make(map[string]int)
	grades["Alice"] = 95
	grades["Bob"] = 87
	grades["Charlie"] = 92

	fmt.Println("Student Grades:")
	for name, grade := range grades {
		fmt.Printf("%s: %d\n", name, grade)
	}
}`,
			Difficulty: Intermediate,
			Order:      7,
			Category:   "data-structures",
		},
		{
			ID:          8,
			Title:       "Structs",
			Description: "Create custom data types with structs",
			Content: `A struct groups named fields into a type. Fields starting with an
upper-case letter are exported.`,
			Exercise: `Create a struct called 'Person' with fields for name (string) and age (int).
Create two Person instances and print their information.`,
			Solution: `package main

import "fmt"

type Person struct {
	Name string
	Age  int
}

func main() {
	person1 := Person{Name: "Alice", Age: 30}
	person2 := Person{Name: "Bob", Age: 25}

	fmt.Printf("Person 1: %s, %d years old\n", person1.Name, person1.Age)
	fmt.Printf("Person 2: %s, %d years old\n", person2.Name, person2.Age)
}`,
			Difficulty: Intermediate,
			Order:      8,
			Category:   "data-structures",
		},
		{
			ID:          9,
			Title:       "Methods",
			Description: "Add behavior to your structs with methods",
			Content: `A method is a function with a receiver. Use a pointer receiver
when the method modifies the value.`,
			Exercise: `Add a method called 'Greet' to the Person struct that prints a greeting.
Create a Person instance and call the Greet method.`,
			Solution: `package main

import "fmt"

type Person struct {
	Name string
	Age  int
}

func (p Person) Greet() {
	fmt.Printf("Hello, I'm %s and I'm %d years old!\n", p.Name, p.Age)
}

func main() {
	person := Person{Name: "Alice", Age: 30}
	person.Greet()
}`,
			Difficulty: Intermediate,
			Order:      9,
			Category:   "methods",
		},
		{
			ID:          10,
			Title:       "Interfaces",
			Description: "Define behavior contracts with interfaces",
			Content: `An interface lists method signatures. Any type with those methods
satisfies it implicitly.`,
			Exercise: `Create an interface called 'Shape' with a method 'Area()' that returns a float64.
Create a struct 'Rectangle' that implements this interface.`,
			Solution: `package main

import "fmt"

type Shape interface {
	Area() float64
}

type Rectangle struct {
	Width  float64
	Height float64
}

func (r Rectangle) Area() float64 {
	return r.Width * r.Height
}

func main() {
	rect := Rectangle{Width: 5.0, Height: 3.0}
	fmt.Printf("Rectangle area: %.2f\n", rect.Area())
}`,
			Difficulty: Advanced,
			Order:      10,
			Category:   "interfaces",
		},
	}
}
