package backend

import (
	"context"
	"net/http"
)

// LoginResult is what the auth collaborator returns on success.
type LoginResult struct {
	Token   string `json:"token"`
	UserID  string `json:"userId"`
	Message string `json:"message,omitempty"`
}

// Login exchanges staff credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body := map[string]string{"email": email, "password": password}
	var out LoginResult
	if err := c.do(ctx, http.MethodPost, "/users/Login", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
