package curriculum

import (
	"strings"

	"github.com/p-n-ai/cogni/internal/platform/validation"
)

// CreateCost is the credit price of generating a curriculum.
const CreateCost = 10

const defaultDepth = "moderate"

// CreateRequest is the body of POST /api/curriculum/create.
type CreateRequest struct {
	Topic      string     `json:"topic" validate:"notblank,max=200"`
	Difficulty Difficulty `json:"difficulty" validate:"required,oneof=beginner intermediate advanced"`
	Depth      string     `json:"depth" validate:"required,max=50"`
}

// Normalize trims input and fills the defaults the create form uses.
func (r *CreateRequest) Normalize() {
	r.Topic = strings.TrimSpace(r.Topic)
	r.Depth = strings.TrimSpace(r.Depth)
	if r.Difficulty == "" {
		r.Difficulty = Beginner
	}
	if r.Depth == "" {
		r.Depth = defaultDepth
	}
}

// Validate normalizes the request and checks it before any credits are spent.
func (r *CreateRequest) Validate() error {
	r.Normalize()
	return validation.Struct(r)
}

// NormalizeTitle decides whether a rename should be sent. Blank or unchanged
// titles are skipped and the current title is kept.
func NormalizeTitle(current, proposed string) (string, bool) {
	trimmed := strings.TrimSpace(proposed)
	if trimmed == "" || trimmed == current {
		return current, false
	}
	return trimmed, true
}
