package jwtutil

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"github.com/pnci1029/Football-Club-sub002/pkg/config"
)

// Token kinds. A refresh token must never be accepted where an access
// token is required, and vice versa; every consumer checks the kind
// explicitly on top of signature and expiry.
const (
	KindAccess  = "access"
	KindRefresh = "refresh"
)

// Claims represents the JWT claims carried by gateway tokens. Access
// tokens carry username and role; refresh tokens carry only the subject
// and kind so a role change cannot go stale on them.
type Claims struct {
	Username  string `json:"username,omitempty"`
	Role      string `json:"role,omitempty"`
	TokenKind string `json:"kind"`
	jwt.RegisteredClaims
}

// JWT issues and validates bearer tokens with a symmetric key
type JWT struct {
	cfg *config.JWTConfig
}

// New creates a JWT utility with the given configuration
func New(cfg *config.JWTConfig) *JWT {
	return &JWT{cfg: cfg}
}

// IssueAccess creates an access token for an administrator
func (j *JWT) IssueAccess(adminID uint, username, role string) (string, error) {
	if j.cfg == nil {
		return "", errors.New("JWT configuration not provided")
	}

	now := time.Now()
	claims := Claims{
		Username:  username,
		Role:      role,
		TokenKind: KindAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(adminID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.cfg.AccessTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.cfg.SigningKey))
}

// IssueRefresh creates a refresh token carrying only the subject
func (j *JWT) IssueRefresh(adminID uint) (string, error) {
	if j.cfg == nil {
		return "", errors.New("JWT configuration not provided")
	}

	now := time.Now()
	claims := Claims{
		TokenKind: KindRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(adminID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.cfg.RefreshTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.cfg.SigningKey))
}

// parse verifies the signature and expiry and returns the claims
func (j *JWT) parse(tokenString string) (*Claims, error) {
	if j.cfg == nil {
		return nil, errors.New("JWT configuration not provided")
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			// Validate the signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(j.cfg.SigningKey), nil
		},
	)
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// Validate reports whether the token's signature and expiry check out.
// All verification failures collapse to false so callers cannot
// distinguish the cause; the detail goes to the debug log only.
func (j *JWT) Validate(tokenString string) bool {
	if _, err := j.parse(tokenString); err != nil {
		zap.L().Debug("token validation failed", zap.Error(err))
		return false
	}
	return true
}

// Subject returns the administrator ID encoded in the token subject
func (j *JWT) Subject(tokenString string) (uint, bool) {
	claims, err := j.parse(tokenString)
	if err != nil {
		return 0, false
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// Username returns the username claim, or "" if the token cannot be parsed
func (j *JWT) Username(tokenString string) string {
	claims, err := j.parse(tokenString)
	if err != nil {
		return ""
	}
	return claims.Username
}

// Role returns the role claim, or "" if the token cannot be parsed
func (j *JWT) Role(tokenString string) string {
	claims, err := j.parse(tokenString)
	if err != nil {
		return ""
	}
	return claims.Role
}

// TokenKind returns the kind claim, or "" if the token cannot be parsed
func (j *JWT) TokenKind(tokenString string) string {
	claims, err := j.parse(tokenString)
	if err != nil {
		return ""
	}
	return claims.TokenKind
}

// ExpiresAt returns the token expiry time
func (j *JWT) ExpiresAt(tokenString string) (time.Time, bool) {
	claims, err := j.parse(tokenString)
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// IsAccessToken reports whether the token carries the access kind
func (j *JWT) IsAccessToken(tokenString string) bool {
	return j.TokenKind(tokenString) == KindAccess
}

// IsRefreshToken reports whether the token carries the refresh kind
func (j *JWT) IsRefreshToken(tokenString string) bool {
	return j.TokenKind(tokenString) == KindRefresh
}
