package app

import "context"

// AuthService exchanges credentials for an access token.
type AuthService interface {
	Login(ctx context.Context, username, password string) (string, error)
	Register(ctx context.Context, username, email, password string) (string, error)
}
