// Package utils provides the credential helpers of the admin API: bcrypt
// password handling and HS256 operator tokens.
package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// OperatorToken is a signed JWT granting access to the migration endpoints,
// along with its expiry. Tokens are short-lived; the admin API has no
// refresh flow because a migration session rarely outlives one token.
type OperatorToken struct {
	Token string
	Exp   time.Time
}

// NewOperatorToken builds and signs an HS256 JWT for the operator. The
// claims are the standard subject, expiration and issued-at, plus a fixed
// "operator" role checked by the middleware.
func NewOperatorToken(secret, subject string, ttlMin int) (OperatorToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": "operator",
		"exp":  exp.Unix(),
		"iat":  time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return OperatorToken{}, err
	}
	return OperatorToken{Token: signed, Exp: exp}, nil
}
