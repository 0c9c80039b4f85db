package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"fittrack-client/internal/models"
)

func profilePath(username string) string {
	return "/api/v1/profile/" + url.PathEscape(username)
}

func (c *Client) GetProfile(ctx context.Context) (*models.Profile, error) {
	token, username, err := c.subject(ctx)
	if err != nil {
		return nil, err
	}

	var profile models.Profile
	if err := c.do(ctx, request{method: http.MethodGet, path: profilePath(username), token: token}, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.Profile, error) {
	token, username, err := c.subject(ctx)
	if err != nil {
		return nil, err
	}

	var profile models.Profile
	err = c.do(ctx, request{method: http.MethodPut, path: profilePath(username), token: token, body: update}, &profile)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) CreateGoal(ctx context.Context, goal models.Goal) (*models.Goal, error) {
	token, username, err := c.subject(ctx)
	if err != nil {
		return nil, err
	}

	var created models.Goal
	err = c.do(ctx, request{method: http.MethodPost, path: profilePath(username) + "/goals", token: token, body: goal}, &created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) DeleteGoal(ctx context.Context, goalID int64) error {
	token, username, err := c.subject(ctx)
	if err != nil {
		return err
	}
	return c.do(ctx, request{
		method: http.MethodDelete,
		path:   fmt.Sprintf("%s/goals/%d", profilePath(username), goalID),
		token:  token,
	}, nil)
}

func (c *Client) CreateCondition(ctx context.Context, condition models.Condition) (*models.Condition, error) {
	token, username, err := c.subject(ctx)
	if err != nil {
		return nil, err
	}

	var created models.Condition
	err = c.do(ctx, request{
		method: http.MethodPost,
		path:   profilePath(username) + "/health-conditions",
		token:  token,
		body:   condition,
	}, &created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) DeleteCondition(ctx context.Context, conditionID int64) error {
	token, username, err := c.subject(ctx)
	if err != nil {
		return err
	}
	return c.do(ctx, request{
		method: http.MethodDelete,
		path:   fmt.Sprintf("%s/health-conditions/%d", profilePath(username), conditionID),
		token:  token,
	}, nil)
}
