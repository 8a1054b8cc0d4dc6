// Package progress tracks module and lesson completion for one curriculum,
// applying toggles optimistically and rolling them back when persistence fails.
package progress

import (
	"strconv"
	"strings"

	"github.com/p-n-ai/cogni/internal/curriculum"
)

// Key addresses one module or lesson in a progress map.
type Key string

// RefKind says what a key points at.
type RefKind int

const (
	KindModule RefKind = iota
	KindLesson
)

func (k RefKind) String() string {
	switch k {
	case KindModule:
		return "module"
	case KindLesson:
		return "lesson"
	default:
		return "unknown"
	}
}

// Ref is a decoded key.
type Ref struct {
	Kind   RefKind
	Module int
	Lesson int
}

// Within reports whether the referenced module or lesson exists in shape.
func (r Ref) Within(shape curriculum.Shape) bool {
	if r.Kind == KindLesson {
		return shape.HasLesson(r.Module, r.Lesson)
	}
	return shape.HasModule(r.Module)
}

// KeyScheme derives progress keys. Module and lesson keys share one namespace
// and must never collide.
type KeyScheme interface {
	ModuleKey(moduleIndex int) Key
	LessonKey(moduleIndex, lessonIndex int) Key
	Resolve(k Key) (Ref, bool)
}

// Positional is the key format the backend persists: "module-<m>" and
// "module-<m>-lesson-<l>". Identity is the position in the curriculum, so a
// server-side reorder silently remaps progress.
type Positional struct{}

const (
	modulePrefix  = "module-"
	lessonSegment = "-lesson-"
)

func (Positional) ModuleKey(moduleIndex int) Key {
	return Key(modulePrefix + strconv.Itoa(moduleIndex))
}

func (Positional) LessonKey(moduleIndex, lessonIndex int) Key {
	return Key(modulePrefix + strconv.Itoa(moduleIndex) + lessonSegment + strconv.Itoa(lessonIndex))
}

// Resolve decodes keys produced by ModuleKey/LessonKey with non-negative
// indices. Anything else is reported as unknown.
func (Positional) Resolve(k Key) (Ref, bool) {
	rest, ok := strings.CutPrefix(string(k), modulePrefix)
	if !ok {
		return Ref{}, false
	}

	modPart, lessonPart, isLesson := strings.Cut(rest, lessonSegment)
	m, ok := parseIndex(modPart)
	if !ok {
		return Ref{}, false
	}
	if !isLesson {
		return Ref{Kind: KindModule, Module: m}, true
	}

	l, ok := parseIndex(lessonPart)
	if !ok {
		return Ref{}, false
	}
	return Ref{Kind: KindLesson, Module: m, Lesson: l}, true
}

// parseIndex accepts canonical decimal indices only ("7", not "07" or "+7").
func parseIndex(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || strconv.Itoa(n) != s {
		return 0, false
	}
	return n, true
}

// DefaultScheme is the scheme used when none is configured.
var DefaultScheme KeyScheme = Positional{}
