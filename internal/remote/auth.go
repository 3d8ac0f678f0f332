package remote

import (
	"context"
	"fmt"

	"countme-core/pkg/jwt"
)

// TokenAuth derives the current user from a bearer token issued by the
// external authentication provider. The token is validated on every call so
// expiry is honored mid-session.
type TokenAuth struct {
	Token  string
	Secret string
}

func (a *TokenAuth) CurrentUserID(ctx context.Context) (string, error) {
	if a.Token == "" {
		return "", ErrNotAuthenticated
	}
	claims, err := jwt.ValidateToken(a.Token, a.Secret)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotAuthenticated, err)
	}
	return claims.UserID, nil
}
