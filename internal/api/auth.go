package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/p-n-ai/cogni/internal/session"
)

type authData struct {
	Token string       `json:"token"`
	User  session.User `json:"user"`
}

func (a authData) session() (*session.Session, error) {
	if a.Token == "" {
		return nil, fmt.Errorf("%w: response carried no token", ErrServer)
	}
	return &session.Session{Token: a.Token, User: a.User, CreatedAt: time.Now()}, nil
}

// Login exchanges credentials for a session. The client is not modified;
// callers decide where the session is stored and call SetSession.
func (c *Client) Login(ctx context.Context, req session.LoginRequest) (*session.Session, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var out authData
	if err := c.call(ctx, http.MethodPost, "/auth/login", req, &out); err != nil {
		return nil, err
	}
	return out.session()
}

// Register creates an account and returns its first session.
func (c *Client) Register(ctx context.Context, req session.RegisterRequest) (*session.Session, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var out authData
	if err := c.call(ctx, http.MethodPost, "/auth/register", req, &out); err != nil {
		return nil, err
	}
	return out.session()
}

// Me returns the signed-in user.
func (c *Client) Me(ctx context.Context) (session.User, error) {
	var u session.User
	err := c.call(ctx, http.MethodGet, "/api/user/me", nil, &u)
	return u, err
}

// UpdateProfile changes the display name and, when set, the Gemini API key.
func (c *Client) UpdateProfile(ctx context.Context, req session.ProfileUpdate) (session.User, error) {
	if err := req.Validate(); err != nil {
		return session.User{}, err
	}
	var u session.User
	err := c.call(ctx, http.MethodPut, "/api/user/update", req, &u)
	return u, err
}

// Credits returns the current balance. The data is either a number or
// {"credits": n}.
func (c *Client) Credits(ctx context.Context) (int, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/user/credits", nil)
	if err != nil {
		return 0, err
	}

	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		return n, nil
	}
	var obj struct {
		Credits int `json:"credits"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return 0, fmt.Errorf("%w: decode credits: %w", ErrServer, err)
	}
	return obj.Credits, nil
}
