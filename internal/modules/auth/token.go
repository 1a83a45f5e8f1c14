package auth

import (
	"fmt"
	"strconv"

	"github.com/dgrijalva/jwt-go"
)

type claims struct {
	Role string `json:"role"`
	jwt.StandardClaims
}

func signToken(secret []byte, s *Session) (string, error) {
	c := &claims{
		Role: s.Role,
		StandardClaims: jwt.StandardClaims{
			Subject:   strconv.FormatInt(s.UserID, 10),
			Id:        s.ID.String(),
			IssuedAt:  s.CreatedAt.Unix(),
			ExpiresAt: s.ExpiresAt.Unix(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(secret)
}

// parseToken checks the signature only. Expiry is enforced against the
// session row so the service clock stays authoritative.
func parseToken(secret []byte, raw string) (*claims, error) {
	parser := &jwt.Parser{ValidMethods: []string{jwt.SigningMethodHS256.Alg()}, SkipClaimsValidation: true}
	c := &claims{}
	_, err := parser.ParseWithClaims(raw, c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}
