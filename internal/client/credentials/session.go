package credentials

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/farmdash/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Session is what the client can tell about a credential without asking the
// server.
type Session struct {
	Subject   string
	Mobile    string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
	// SavedAt is when this client stored the credential; zero when unknown.
	SavedAt time.Time
}

// Expired reports whether the credential carries an expiry before now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

type sessionClaims struct {
	jwt.RegisteredClaims
	PlainID any    `json:"id"`
	UserID  any    `json:"userId"`
	Mobile  string `json:"mobile"`
	Role    string `json:"role"`
}

// Inspect decodes the claims of a JWT credential. The signature is not
// checked; only the server can do that. A credential that is not a JWT
// yields common.ErrInvalidToken.
func Inspect(token string) (Session, error) {
	var claims sessionClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return Session{}, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	s := Session{Subject: claims.Subject, Mobile: claims.Mobile, Role: claims.Role}
	if s.Subject == "" {
		s.Subject = firstNonEmpty(claims.PlainID, claims.UserID)
	}
	if claims.IssuedAt != nil {
		s.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s, nil
}

func firstNonEmpty(vals ...any) string {
	for _, v := range vals {
		if v == nil {
			continue
		}
		switch x := v.(type) {
		case string:
			if x != "" {
				return x
			}
		case float64:
			return fmt.Sprintf("%.0f", x)
		default:
			return fmt.Sprint(x)
		}
	}
	return ""
}
