// Package services contains application services for the ShareBox client.
// This file defines the authentication service: register, login, logout
// and the liveness probe.
package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/sharebox/internal/client/client"
)

// AuthService defines authentication operations for the CLI.
type AuthService interface {
	Register(ctx context.Context, username string, password []byte) error
	Login(ctx context.Context, username string, password []byte) error
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type authService struct {
	client client.Client
}

// NewAuthService constructs an AuthService bound to the given API client.
func NewAuthService(client client.Client) AuthService {
	return &authService{client: client}
}

func (a *authService) Register(ctx context.Context, username string, password []byte) error {
	return a.client.Register(ctx, strings.TrimSpace(username), string(password))
}

func (a *authService) Login(ctx context.Context, username string, password []byte) error {
	return a.client.Login(ctx, strings.TrimSpace(username), string(password))
}

func (a *authService) Logout(ctx context.Context) error {
	a.client.Logout()
	return nil
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}
