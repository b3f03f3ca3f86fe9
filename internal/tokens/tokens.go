package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the verified content of the console's session cookie.
// SessionID references the server-side session; the cookie is worthless
// once that session is gone.
type SessionClaims struct {
	Sub       string
	Email     string
	SessionID string
	ExpiresAt time.Time
}

var ErrInvalidToken = errors.New("invalid session token")

// GenerateSessionToken creates the signed JWT placed in the session cookie.
func GenerateSessionToken(secret []byte, sub, email, sessionID string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   sub,
		"email": email,
		"sid":   sessionID,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(ttl).Unix(),
	}
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return jt.SignedString(secret)
}

// ParseSessionToken verifies signature and expiry and returns the claims.
func ParseSessionToken(secret []byte, raw string) (*SessionClaims, error) {
	parsed, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	sc := &SessionClaims{}
	sc.Sub, _ = mc["sub"].(string)
	sc.Email, _ = mc["email"].(string)
	sc.SessionID, _ = mc["sid"].(string)
	if sc.Sub == "" || sc.SessionID == "" {
		return nil, ErrInvalidToken
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		sc.ExpiresAt = exp.Time
	}
	return sc, nil
}
