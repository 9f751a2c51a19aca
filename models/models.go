package models

// Clazz represents a class and its ordered roster
type Clazz struct {
	Name     string    `json:"name"`     // Unique class name
	Students []Student `json:"students"` // Insertion order, as displayed
}

// ClassSummary is the listing shape of a class
type ClassSummary struct {
	Name         string `json:"name"`
	StudentCount int    `json:"studentCount"`
}

// Student represents a student record inside a class
type Student struct {
	Name     string   `json:"name"`  // Unique within its class (exact match)
	Score    int      `json:"score"` // Always len(Positive) - len(Negative)
	Positive []string `json:"pos"`
	Negative []string `json:"neg"`
}

// NewStudent returns a student with no behaviors and a zero score
func NewStudent(name string) Student {
	return Student{
		Name:     name,
		Score:    0,
		Positive: []string{},
		Negative: []string{},
	}
}

// ClassStudent is one row of a structured (class, name) import
type ClassStudent struct {
	Class string
	Name  string
}
