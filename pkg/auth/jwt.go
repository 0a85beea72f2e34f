package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/example/primepulse/pkg/config"
)

// Audiences separate customer/manufacturer tokens from back-office
// tokens; each is signed with its own secret.
const (
	AudienceUser  = "user"
	AudienceAdmin = "admin"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims carries the verified identity attached to each request.
// Roles is a normalized set: user tokens hold the user type, admin
// tokens hold the admin role set.
type Claims struct {
	SubjectID string   `json:"subject_id"`
	Email     string   `json:"email"`
	Roles     []string `json:"roles"`
	jwt.RegisteredClaims
}

func (c *Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

type TokenIssuer struct {
	cfg *config.JWTConfig
}

func NewTokenIssuer(cfg *config.JWTConfig) *TokenIssuer {
	return &TokenIssuer{cfg: cfg}
}

// Issue signs a token for the given audience.
func (t *TokenIssuer) Issue(audience, subjectID, email string, roles []string) (string, error) {
	secret, err := t.secretFor(audience)
	if err != nil {
		return "", err
	}

	now := time.Now()
	ttl := t.cfg.TTL
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	claims := Claims{
		SubjectID: subjectID,
		Email:     email,
		Roles:     roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Verify parses a token and checks it was signed for the audience.
func (t *TokenIssuer) Verify(audience, tokenStr string) (*Claims, error) {
	secret, err := t.secretFor(audience)
	if err != nil {
		return nil, err
	}

	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	}, jwt.WithAudience(audience))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (t *TokenIssuer) secretFor(audience string) (string, error) {
	switch audience {
	case AudienceUser:
		return t.cfg.UserSecret, nil
	case AudienceAdmin:
		return t.cfg.AdminSecret, nil
	}
	return "", ErrInvalidToken
}
