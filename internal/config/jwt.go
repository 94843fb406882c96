package config

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims grant the bearer control over a single game.
type SessionClaims struct {
	GameID string `json:"game_id"`
	jwt.RegisteredClaims
}

type JWT struct {
	secret        []byte
	signingMethod jwt.SigningMethod
	tokenLifetime time.Duration
}

// NewJWT creates a token signer. An empty secret is replaced by a random one,
// so tokens do not survive a restart.
func NewJWT(c JWTConfig) (*JWT, error) {
	secret := []byte(c.Secret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("unable to generate jwt secret: %w", err)
		}
	}

	j := &JWT{
		secret:        secret,
		signingMethod: jwt.SigningMethodHS256,
		tokenLifetime: c.TokenLifetime,
	}

	return j, nil
}

func (j *JWT) Sign(gameID string) (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		GameID: gameID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  gameID,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if j.tokenLifetime > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(j.tokenLifetime))
	}
	return jwt.NewWithClaims(j.signingMethod, claims).SignedString(j.secret)
}

func (j *JWT) Parse(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&SessionClaims{},
		func(t *jwt.Token) (interface{}, error) {
			return j.secret, nil
		},
		jwt.WithValidMethods([]string{j.signingMethod.Alg()}),
	)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok {
		return nil, fmt.Errorf("malformed claims")
	}
	return claims, nil
}
