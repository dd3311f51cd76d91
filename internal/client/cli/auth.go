package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/farmdash/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for the mobile number (unless given) and the password and
// stores the credential the server returns. The password is wiped before
// returning.
func (a *App) Login(ctx context.Context, mobile string) error {
	if mobile == "" {
		var err error
		mobile, err = getSimpleText(a.reader, "Enter mobile number", a.out)
		if err != nil {
			return err
		}
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer clear(password)

	if err := a.authService.Login(ctx, mobile, string(password)); err != nil {
		a.log.Warn(ctx, "login unsuccessful", "error", err)
		return err
	}
	fmt.Fprintln(a.out, activeColor.Sprint("Login successful"))
	return nil
}

// Logout forgets the stored credential and drops live views.
func (a *App) Logout(ctx context.Context) error {
	a.unwatchAll()
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// Whoami prints what the stored credential says about the session.
func (a *App) Whoami(ctx context.Context) error {
	s, err := a.authService.Whoami(ctx)
	switch {
	case errors.Is(err, common.ErrorUnauthorized):
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	case errors.Is(err, common.ErrInvalidToken):
		fmt.Fprintln(a.out, "Logged in (credential is not a JWT, no details available)")
		if !s.SavedAt.IsZero() {
			fmt.Fprintf(a.out, "Credential saved %s\n", s.SavedAt.Local().Format(time.DateTime))
		}
		return nil
	case err != nil:
		return err
	}

	pairs := [][2]string{{"Subject", s.Subject}}
	if s.Mobile != "" {
		pairs = append(pairs, [2]string{"Mobile", s.Mobile})
	}
	if s.Role != "" {
		pairs = append(pairs, [2]string{"Role", s.Role})
	}
	if !s.IssuedAt.IsZero() {
		pairs = append(pairs, [2]string{"Issued", s.IssuedAt.Local().Format(time.DateTime)})
	}
	if !s.ExpiresAt.IsZero() {
		exp := s.ExpiresAt.Local().Format(time.DateTime)
		if s.Expired(time.Now()) {
			exp = errorColor.Sprint(exp + " (expired)")
		}
		pairs = append(pairs, [2]string{"Expires", exp})
	}
	if !s.SavedAt.IsZero() {
		pairs = append(pairs, [2]string{"Saved", s.SavedAt.Local().Format(time.DateTime)})
	}
	return renderDetail(a.out, pairs)
}
