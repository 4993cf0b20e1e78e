package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"wayfare/internal/domain"
)

// Claims are the facts a verified session token asserts about its caller.
// Role is trusted as issued; privileged operations that must not act on a
// stale role re-fetch the live user record before deciding.
type Claims struct {
	UserID  string
	IsAdmin bool
}

type tokenClaims struct {
	IsAdmin bool `json:"adm"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed session tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token binding the user id and role claims. Tokens carry
// issued-at and expiry timestamps; verification rejects expired tokens.
func (s *TokenService) Issue(userID string, isAdmin bool) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", domain.InternalError(err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning its claims. It fails
// with an authentication error when the token is malformed, carries a bad
// signature, or has expired. It does not check whether the subject still
// exists; that is the caller's concern.
func (s *TokenService) Verify(token string) (*Claims, error) {
	if token == "" {
		return nil, domain.AuthenticationError("no token, authorization denied")
	}

	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, domain.AuthenticationError("invalid token")
	}
	if claims.Subject == "" {
		return nil, domain.AuthenticationError("invalid token")
	}

	return &Claims{UserID: claims.Subject, IsAdmin: claims.IsAdmin}, nil
}
