package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"fittrack-client/internal/models"
)

func workoutPath(username string) string {
	return "/api/v1/" + url.PathEscape(username) + "/weekly-workout"
}

func exercisesPath(username string, dayID int64) string {
	return fmt.Sprintf("%s/%d/exercises", workoutPath(username), dayID)
}

func (c *Client) ListWorkout(ctx context.Context) ([]models.WorkoutDay, error) {
	token, username, err := c.subject(ctx)
	if err != nil {
		return nil, err
	}

	var days []models.WorkoutDay
	if err := c.do(ctx, request{method: http.MethodGet, path: workoutPath(username), token: token}, &days); err != nil {
		return nil, err
	}
	return days, nil
}

// GenerateWorkout replaces the whole plan server-side and returns the new one.
func (c *Client) GenerateWorkout(ctx context.Context) ([]models.WorkoutDay, error) {
	token, username, err := c.subject(ctx)
	if err != nil {
		return nil, err
	}

	var days []models.WorkoutDay
	err = c.do(ctx, request{method: http.MethodPost, path: workoutPath(username) + "/generate", token: token}, &days)
	if err != nil {
		return nil, err
	}
	return days, nil
}

func (c *Client) DeleteWorkout(ctx context.Context) error {
	token, username, err := c.subject(ctx)
	if err != nil {
		return err
	}
	return c.do(ctx, request{method: http.MethodDelete, path: workoutPath(username), token: token}, nil)
}

func (c *Client) CreateExercise(ctx context.Context, dayID int64, exercise models.Exercise) (*models.Exercise, error) {
	token, username, err := c.subject(ctx)
	if err != nil {
		return nil, err
	}

	var created models.Exercise
	err = c.do(ctx, request{
		method: http.MethodPost,
		path:   exercisesPath(username, dayID),
		token:  token,
		body:   exercise,
	}, &created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateExercise targets key, which is the exerciseId the backend issued or
// the exercise's zero-based position within the day.
func (c *Client) UpdateExercise(ctx context.Context, dayID int64, key string, exercise models.Exercise) (*models.Exercise, error) {
	token, username, err := c.subject(ctx)
	if err != nil {
		return nil, err
	}

	var updated models.Exercise
	err = c.do(ctx, request{
		method: http.MethodPut,
		path:   exercisesPath(username, dayID) + "/" + url.PathEscape(key),
		token:  token,
		body:   exercise,
	}, &updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteExercise(ctx context.Context, dayID int64, key string) error {
	token, username, err := c.subject(ctx)
	if err != nil {
		return err
	}
	return c.do(ctx, request{
		method: http.MethodDelete,
		path:   exercisesPath(username, dayID) + "/" + url.PathEscape(key),
		token:  token,
	}, nil)
}
