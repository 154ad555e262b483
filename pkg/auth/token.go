package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/oakline/shopcart-backend/pkg/config"
)

var jwtSigningMethod = jwt.SigningMethodHS256

// ProfileTokenClaims carries the shopper profile identity. The profile id
// travels in the registered subject claim.
type ProfileTokenClaims struct {
	jwt.RegisteredClaims
}

// ProfileID returns the subject parsed as a profile identifier.
func (c *ProfileTokenClaims) ProfileID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// MintProfileToken issues a signed JWT bound to the given profile using the
// configured TTL.
func MintProfileToken(cfg config.JWTConfig, now time.Time, profileID uuid.UUID) (string, error) {
	if cfg.Secret == "" {
		return "", fmt.Errorf("jwt secret is required")
	}
	if cfg.Issuer == "" {
		return "", fmt.Errorf("jwt issuer is required")
	}
	if cfg.ExpirationMinutes <= 0 {
		return "", fmt.Errorf("jwt expiration minutes must be positive")
	}
	if profileID == uuid.Nil {
		return "", fmt.Errorf("profile id is required")
	}

	claims := ProfileTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Subject:   profileID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(cfg.ExpirationMinutes) * time.Minute)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwtSigningMethod, claims)
	signed, err := token.SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing jwt: %w", err)
	}
	return signed, nil
}

// ParseProfileToken validates the JWT string and returns typed claims.
func ParseProfileToken(cfg config.JWTConfig, tokenString string) (*ProfileTokenClaims, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}

	claims := &ProfileTokenClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(cfg.Secret), nil
		},
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
	)
	if err != nil {
		return nil, err
	}

	return claims, nil
}
