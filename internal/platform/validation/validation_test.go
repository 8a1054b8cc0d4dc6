package validation

import (
	"errors"
	"strings"
	"testing"
)

type signup struct {
	Name  string `json:"name" validate:"notblank"`
	Email string `json:"email" validate:"required,email"`
	Level string `json:"level" validate:"omitempty,oneof=low high"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name       string
		in         signup
		wantFields []string
	}{
		{"valid", signup{Name: "Ada", Email: "ada@example.com"}, nil},
		{"blank name", signup{Name: "   ", Email: "ada@example.com"}, []string{"name"}},
		{"bad email", signup{Name: "Ada", Email: "nope"}, []string{"email"}},
		{"bad level", signup{Name: "Ada", Email: "ada@example.com", Level: "mid"}, []string{"level"}},
		{"several", signup{}, []string{"name", "email"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.in)
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("Struct() error = %v, want nil", err)
				}
				return
			}

			var verr *Error
			if !errors.As(err, &verr) {
				t.Fatalf("Struct() error = %v, want *Error", err)
			}
			if !errors.Is(err, ErrInvalid) {
				t.Error("error should match ErrInvalid")
			}
			if len(verr.Fields) != len(tt.wantFields) {
				t.Errorf("fields = %v, want %v", verr.Fields, tt.wantFields)
			}
			for _, f := range tt.wantFields {
				if _, ok := verr.Fields[f]; !ok {
					t.Errorf("missing field %q in %v", f, verr.Fields)
				}
			}
		})
	}
}

func TestError_UsesJSONNames(t *testing.T) {
	err := Struct(signup{Name: " ", Email: "ada@example.com"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "name must not be blank") {
		t.Errorf("Error() = %q, want translated notblank message", err.Error())
	}
}
