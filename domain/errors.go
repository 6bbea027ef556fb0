package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized indicates missing or invalid credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidCredentials indicates a rejected login.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmptyComment indicates the user submitted an empty comment.
	ErrEmptyComment = errors.New("comment cannot be empty")

	// ErrEmptyPost indicates the user submitted an empty post body.
	ErrEmptyPost = errors.New("post cannot be empty")

	// ErrDuelNotReady indicates the duel does not have two participants yet.
	ErrDuelNotReady = errors.New("duel not ready")

	// ErrNotYourTurn indicates the viewer tried to comment out of turn.
	ErrNotYourTurn = errors.New("not your turn")
)

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API returned %d", e.Status)
	}
	return fmt.Sprintf("API returned %d: %s", e.Status, e.Message)
}

// Is lets errors.Is(err, ErrUnauthorized) match 401 responses. The API also
// answers 403 for duplicate actions, so 403 is not treated as a lost session.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// Retryable reports whether repeating the request may change the outcome.
func (e *APIError) Retryable() bool {
	return e.Status >= 500 || e.Status == http.StatusTooManyRequests
}
