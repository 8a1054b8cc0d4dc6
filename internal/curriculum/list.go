package curriculum

import (
	"net/url"
	"slices"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/cases"
)

// Order sorts curricula by creation time.
type Order string

const (
	Newest Order = "newest"
	Oldest Order = "oldest"
)

// ListQuery mirrors the search, difficulty filter and sort controls of the
// curriculum list. An empty or "all" difficulty matches every level.
type ListQuery struct {
	Search     string
	Difficulty string
	Order      Order
}

// Values encodes the query for GET /api/curriculum.
func (q ListQuery) Values() url.Values {
	v := url.Values{}
	if s := strings.TrimSpace(q.Search); s != "" {
		v.Set("search", s)
	}
	if q.Difficulty != "" && q.Difficulty != "all" {
		v.Set("difficulty", q.Difficulty)
	}
	v.Set("sortBy", "createdAt")
	if q.Order == Oldest {
		v.Set("order", "asc")
	} else {
		v.Set("order", "desc")
	}
	return v
}

// Filter applies the query client-side, so results stay consistent even when
// the server ignores a parameter. The input slice is not modified.
func Filter(list []Curriculum, q ListQuery) []Curriculum {
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(q.Search))

	out := lo.Filter(list, func(c Curriculum, _ int) bool {
		if q.Difficulty != "" && q.Difficulty != "all" && string(c.Difficulty) != q.Difficulty {
			return false
		}
		if needle == "" {
			return true
		}
		return strings.Contains(fold.String(c.Title), needle) ||
			strings.Contains(fold.String(c.Topic), needle)
	})

	slices.SortStableFunc(out, func(a, b Curriculum) int {
		if q.Order == Oldest {
			return a.CreatedAt.Compare(b.CreatedAt)
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out
}
