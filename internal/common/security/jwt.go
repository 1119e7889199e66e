package security

import (
	"errors"
	"time"

	"lenspost/internal/common"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

// Identity is the verified claim set carried by a token.
type Identity struct {
	ID           string
	Username     string
	Email        string
	Role         string
	ProfilePhoto string
}

// TokenIssuer mints and verifies HS256 tokens. A zero expiry means
// issued tokens carry no exp claim; sessions then live until the
// signing key rotates.
type TokenIssuer struct {
	auth *jwtauth.JWTAuth
	key  []byte
	exp  time.Duration
}

func NewTokenIssuer(key []byte, exp time.Duration) *TokenIssuer {
	return &TokenIssuer{
		auth: jwtauth.New("HS256", key, nil),
		key:  key,
		exp:  exp,
	}
}

// JWTAuth exposes the verifier used by the router's token middleware.
func (i *TokenIssuer) JWTAuth() *jwtauth.JWTAuth {
	return i.auth
}

func (i *TokenIssuer) Issue(id Identity) (string, error) {
	claims := jwt.MapClaims{
		"user_id":       id.ID,
		"username":      id.Username,
		"email":         id.Email,
		"role":          id.Role,
		"profile_photo": id.ProfilePhoto,
		"iat":           time.Now().Unix(),
	}
	if i.exp != 0 {
		claims["exp"] = time.Now().Add(i.exp).Unix()
	}
	_, tokenString, err := i.auth.Encode(claims)
	return tokenString, err
}

func (i *TokenIssuer) Verify(tokenString string) (Identity, error) {
	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return i.key, nil
	})
	if err != nil || !parsed.Valid {
		return Identity{}, common.ErrUnauthorized
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, common.ErrUnauthorized
	}
	return IdentityFromClaims(claims)
}

// IdentityFromClaims rebuilds an Identity from a decoded claim map,
// as produced by either Verify or the router's token middleware.
func IdentityFromClaims(claims map[string]interface{}) (Identity, error) {
	id, ok := claims["user_id"].(string)
	if !ok || id == "" {
		return Identity{}, errors.New("user_id claim is missing or not a string")
	}
	role, ok := claims["role"].(string)
	if !ok {
		return Identity{}, errors.New("role claim is missing or not a string")
	}
	ident := Identity{ID: id, Role: role}
	ident.Username, _ = claims["username"].(string)
	ident.Email, _ = claims["email"].(string)
	ident.ProfilePhoto, _ = claims["profile_photo"].(string)
	return ident, nil
}
