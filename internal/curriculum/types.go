// Package curriculum holds the curriculum data model shared by the API client,
// the progress store and the CLI.
package curriculum

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Difficulty is the requested level of a generated curriculum.
type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

// Difficulties lists the accepted levels in ascending order.
var Difficulties = []Difficulty{Beginner, Intermediate, Advanced}

// ParseDifficulty accepts a level name in any case.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Difficulties {
		if d == known {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown difficulty %q (want beginner, intermediate or advanced)", s)
}

// Label returns the display form, e.g. "Intermediate".
func (d Difficulty) Label() string {
	return cases.Title(language.English).String(string(d))
}

// Curriculum is a generated learning path. Modules and lessons are addressed
// by position; the server assigns no ids below the curriculum.
type Curriculum struct {
	ID          string          `json:"id" yaml:"id"`
	Title       string          `json:"title" yaml:"title"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	Topic       string          `json:"topic,omitempty" yaml:"topic,omitempty"`
	Difficulty  Difficulty      `json:"difficulty" yaml:"difficulty"`
	Depth       string          `json:"depth,omitempty" yaml:"depth,omitempty"`
	Modules     []Module        `json:"modules" yaml:"modules"`
	Progress    map[string]bool `json:"progress,omitempty" yaml:"progress,omitempty"`
	CreatedAt   time.Time       `json:"createdAt,omitempty" yaml:"created_at,omitempty"`
}

// Module is an ordered group of lessons.
type Module struct {
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Lessons     []Lesson `json:"lessons" yaml:"lessons"`
}

// Lesson is a single unit of generated content.
type Lesson struct {
	Title   string `json:"title" yaml:"title"`
	Content string `json:"content" yaml:"content"`
}

// Shape is the number of lessons in each module, in module order.
type Shape []int

// Shape returns the module/lesson structure of c. A nil curriculum has no modules.
func (c *Curriculum) Shape() Shape {
	if c == nil {
		return Shape{}
	}
	s := make(Shape, len(c.Modules))
	for i, m := range c.Modules {
		s[i] = len(m.Lessons)
	}
	return s
}

// Modules returns the module count.
func (s Shape) Modules() int { return len(s) }

// TotalItems counts every module plus every lesson.
func (s Shape) TotalItems() int {
	total := len(s)
	for _, n := range s {
		total += n
	}
	return total
}

// HasModule reports whether module index m exists.
func (s Shape) HasModule(m int) bool {
	return m >= 0 && m < len(s)
}

// HasLesson reports whether lesson l of module m exists.
func (s Shape) HasLesson(m, l int) bool {
	return s.HasModule(m) && l >= 0 && l < s[m]
}

// LessonCount returns the total number of lessons across modules.
func (c *Curriculum) LessonCount() int {
	s := c.Shape()
	return s.TotalItems() - s.Modules()
}
