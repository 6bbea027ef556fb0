package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/CrestNiraj12/duelterm/domain"
)

// authService implements app.AuthService.
type authService struct {
	client *Client
}

// NewAuthService creates an AuthService backed by the duel API.
func NewAuthService(client *Client) *authService {
	return &authService{client: client}
}

type credentials struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	Token       string `json:"token"`
}

func (r tokenResponse) value() string {
	if t := strings.TrimSpace(r.AccessToken); t != "" {
		return t
	}
	return strings.TrimSpace(r.Token)
}

func (s *authService) Login(ctx context.Context, username, password string) (string, error) {
	return s.exchange(ctx, "/login", credentials{
		Username: strings.TrimSpace(username),
		Password: password,
	})
}

func (s *authService) Register(ctx context.Context, username, email, password string) (string, error) {
	return s.exchange(ctx, "/register", credentials{
		Username: strings.TrimSpace(username),
		Email:    strings.TrimSpace(email),
		Password: password,
	})
}

func (s *authService) exchange(ctx context.Context, path string, creds credentials) (string, error) {
	if creds.Username == "" || creds.Password == "" {
		return "", domain.ErrInvalidCredentials
	}

	var resp tokenResponse
	if err := s.client.PostPublic(ctx, path, creds, &resp); err != nil {
		var apiErr *domain.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			return "", fmt.Errorf("%w: %s", domain.ErrInvalidCredentials, apiErr.Message)
		}
		return "", fmt.Errorf("%s: %w", strings.TrimPrefix(path, "/"), err)
	}

	token := resp.value()
	if token == "" {
		return "", fmt.Errorf("%s: response carried no token", strings.TrimPrefix(path, "/"))
	}
	return token, nil
}
