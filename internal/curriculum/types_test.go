package curriculum_test

import (
	"testing"

	"github.com/p-n-ai/cogni/internal/curriculum"
)

func TestShape(t *testing.T) {
	tests := []struct {
		name       string
		c          *curriculum.Curriculum
		wantShape  []int
		wantTotal  int
		wantLesson int
	}{
		{"nil curriculum", nil, []int{}, 0, 0},
		{"no modules", &curriculum.Curriculum{}, []int{}, 0, 0},
		{
			name: "two modules",
			c: &curriculum.Curriculum{Modules: []curriculum.Module{
				{Title: "Basics", Lessons: []curriculum.Lesson{{Title: "a"}, {Title: "b"}}},
				{Title: "Next", Lessons: []curriculum.Lesson{{Title: "c"}}},
			}},
			wantShape:  []int{2, 1},
			wantTotal:  5,
			wantLesson: 3,
		},
		{
			name:       "module without lessons",
			c:          &curriculum.Curriculum{Modules: []curriculum.Module{{Title: "Empty"}}},
			wantShape:  []int{0},
			wantTotal:  1,
			wantLesson: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.c.Shape()
			if len(s) != len(tt.wantShape) {
				t.Fatalf("Shape() = %v, want %v", s, tt.wantShape)
			}
			for i := range s {
				if s[i] != tt.wantShape[i] {
					t.Errorf("Shape()[%d] = %d, want %d", i, s[i], tt.wantShape[i])
				}
			}
			if got := s.TotalItems(); got != tt.wantTotal {
				t.Errorf("TotalItems() = %d, want %d", got, tt.wantTotal)
			}
			if got := tt.c.LessonCount(); got != tt.wantLesson {
				t.Errorf("LessonCount() = %d, want %d", got, tt.wantLesson)
			}
		})
	}
}

func TestShape_Bounds(t *testing.T) {
	s := curriculum.Shape{2, 1}

	if !s.HasModule(1) || s.HasModule(2) || s.HasModule(-1) {
		t.Error("HasModule bounds are wrong")
	}
	if !s.HasLesson(0, 1) || s.HasLesson(0, 2) || s.HasLesson(1, 1) || s.HasLesson(5, 0) {
		t.Error("HasLesson bounds are wrong")
	}
}

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		in      string
		want    curriculum.Difficulty
		wantErr bool
	}{
		{"beginner", curriculum.Beginner, false},
		{"  Advanced ", curriculum.Advanced, false},
		{"INTERMEDIATE", curriculum.Intermediate, false},
		{"expert", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := curriculum.ParseDifficulty(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDifficulty(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDifficulty(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDifficulty_Label(t *testing.T) {
	if got := curriculum.Intermediate.Label(); got != "Intermediate" {
		t.Errorf("Label() = %q, want Intermediate", got)
	}
}
