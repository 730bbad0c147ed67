package api

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// TokenSource supplies bearer tokens for authenticated calls. The session
// manager implements it; Refresh must rotate the stored token pair and
// return the new access token, or force a logout and fail.
type TokenSource interface {
	AccessToken() string
	HasRefreshToken() bool
	Refresh(ctx context.Context) (string, error)
}

// AuthClient wraps Client with the token-refresh interceptor: a 401 or 403
// on an authenticated call triggers one refresh and one replay of the
// original request, never more. A rejection of the replayed request is
// returned to the caller as-is, so a misbehaving server cannot cause a
// refresh loop.
type AuthClient struct {
	base   *Client
	tokens TokenSource
	logger *zap.Logger
}

func NewAuthClient(base *Client, tokens TokenSource, logger *zap.Logger) *AuthClient {
	return &AuthClient{base: base, tokens: tokens, logger: logger}
}

func (a *AuthClient) Do(ctx context.Context, method, path string, body, out any) error {
	err := a.base.do(ctx, method, path, body, out, a.tokens.AccessToken())
	if err == nil {
		return nil
	}

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return err
	}
	if apiErr.Status != http.StatusUnauthorized && apiErr.Status != http.StatusForbidden {
		return err
	}
	if !a.tokens.HasRefreshToken() {
		return err
	}

	token, refreshErr := a.tokens.Refresh(ctx)
	if refreshErr != nil {
		a.logger.Warn("token refresh failed, surfacing original rejection",
			zap.String("path", path), zap.Error(refreshErr))
		return err
	}

	return a.base.do(ctx, method, path, body, out, token)
}
