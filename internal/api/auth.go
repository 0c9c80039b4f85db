package api

import (
	"context"
	"errors"
	"net/http"

	"fittrack-client/internal/models"
)

var errEmptyToken = errors.New("backend response did not include a token")

func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	return c.authenticate(ctx, "/api/v1/auth/register", req)
}

func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	return c.authenticate(ctx, "/api/v1/auth/login", req)
}

func (c *Client) authenticate(ctx context.Context, path string, body interface{}) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: path, body: body}, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, errEmptyToken
	}
	return &resp, nil
}
