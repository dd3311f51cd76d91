package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/farmdash/internal/client/client"
	"github.com/dmitrijs2005/farmdash/internal/client/credentials"
	"github.com/dmitrijs2005/farmdash/internal/client/models"
	"github.com/dmitrijs2005/farmdash/internal/common"
	"github.com/dmitrijs2005/farmdash/internal/logging"
)

// CredentialStore persists the bearer credential.
type CredentialStore interface {
	Token(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
	SavedAt(ctx context.Context) (time.Time, bool, error)
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: exchange mobile/password for a credential and persist it.
//   - Logout: forget the persisted credential.
//   - Whoami: decode the persisted credential; common.ErrorUnauthorized when
//     nobody is logged in. The returned Session carries SavedAt even when
//     the credential is not a JWT (common.ErrInvalidToken).
type AuthService interface {
	Login(ctx context.Context, mobile, password string) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) (credentials.Session, error)
	LoggedIn(ctx context.Context) (bool, error)
}

type authService struct {
	gw    client.Gateway
	creds CredentialStore
	log   logging.Logger
}

func NewAuthService(gw client.Gateway, creds CredentialStore, log logging.Logger) AuthService {
	return &authService{gw: gw, creds: creds, log: log.With("service", "auth")}
}

func (a *authService) Login(ctx context.Context, mobile, password string) error {
	mobile = strings.TrimSpace(mobile)
	if mobile == "" {
		return &models.ValidationError{Field: "mobile", Reason: "is required"}
	}
	if password == "" {
		return &models.ValidationError{Field: "password", Reason: "is required"}
	}

	token, err := a.gw.Login(ctx, mobile, password)
	if err != nil {
		return fmt.Errorf("login error: %w", err)
	}
	if err := a.creds.Save(ctx, token); err != nil {
		return fmt.Errorf("credential saving error: %w", err)
	}
	a.log.Info(ctx, "logged in", "mobile", mobile)
	return nil
}

func (a *authService) Logout(ctx context.Context) error {
	if err := a.creds.Clear(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	a.log.Info(ctx, "logged out")
	return nil
}

func (a *authService) Whoami(ctx context.Context) (credentials.Session, error) {
	token, err := a.creds.Token(ctx)
	if err != nil {
		return credentials.Session{}, err
	}
	if token == "" {
		return credentials.Session{}, common.ErrorUnauthorized
	}
	s, inspectErr := credentials.Inspect(token)

	savedAt, ok, err := a.creds.SavedAt(ctx)
	if err != nil {
		a.log.Warn(ctx, "cannot read credential save time", "error", err)
	} else if ok {
		s.SavedAt = savedAt
	}
	return s, inspectErr
}

func (a *authService) LoggedIn(ctx context.Context) (bool, error) {
	token, err := a.creds.Token(ctx)
	if err != nil {
		return false, err
	}
	return token != "", nil
}
