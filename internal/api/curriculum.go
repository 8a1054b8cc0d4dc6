package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/p-n-ai/cogni/internal/curriculum"
	"github.com/p-n-ai/cogni/internal/progress"
)

func curriculumPath(id string) string {
	return "/api/curriculum/" + url.PathEscape(id)
}

// CreateCurriculum asks the backend to generate a curriculum.
func (c *Client) CreateCurriculum(ctx context.Context, req curriculum.CreateRequest) (*curriculum.Curriculum, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var out curriculum.Curriculum
	if err := c.call(ctx, http.MethodPost, "/api/curriculum/create", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListCurricula returns the user's curricula. Older backends wrap the list
// as {"curricula": [...]}.
func (c *Client) ListCurricula(ctx context.Context, q curriculum.ListQuery) ([]curriculum.Curriculum, error) {
	path := "/api/curriculum"
	if v := q.Values(); len(v) > 0 {
		path += "?" + v.Encode()
	}

	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return []curriculum.Curriculum{}, nil
	}

	var list []curriculum.Curriculum
	if data[0] == '[' {
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("%w: decode curricula: %w", ErrServer, err)
		}
		return list, nil
	}

	var wrapped struct {
		Curricula []curriculum.Curriculum `json:"curricula"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("%w: decode curricula: %w", ErrServer, err)
	}
	if wrapped.Curricula == nil {
		return []curriculum.Curriculum{}, nil
	}
	return wrapped.Curricula, nil
}

// FetchCurriculum returns one curriculum with its persisted progress.
func (c *Client) FetchCurriculum(ctx context.Context, id string) (*curriculum.Curriculum, error) {
	var out curriculum.Curriculum
	if err := c.call(ctx, http.MethodGet, curriculumPath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type progressPayload struct {
	Progress map[string]bool `json:"progress"`
}

// PersistProgress replaces the server's progress map with m.
func (c *Client) PersistProgress(ctx context.Context, id string, m progress.Map) error {
	return c.call(ctx, http.MethodPut, curriculumPath(id), progressPayload{Progress: m.Wire()}, nil)
}

type titlePayload struct {
	Title string `json:"title"`
}

// RenameCurriculum sets a new title.
func (c *Client) RenameCurriculum(ctx context.Context, id, title string) error {
	return c.call(ctx, http.MethodPut, curriculumPath(id), titlePayload{Title: title}, nil)
}

// DeleteCurriculum removes a curriculum and its quiz.
func (c *Client) DeleteCurriculum(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, curriculumPath(id), nil, nil)
}
