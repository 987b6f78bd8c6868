package crypto

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenIssuer   = "motorline"
	tokenAudience = "motorline-api"

	useAccess  = "access"
	useRefresh = "refresh"
)

var (
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenSignature = errors.New("token signature invalid")
	ErrTokenMalformed = errors.New("token malformed")
	ErrWrongTokenUse  = errors.New("wrong token use")
)

// Claims carries the registered JWT claims plus a token_use marker that
// keeps access and refresh tokens from being swapped for one another.
type Claims struct {
	jwt.RegisteredClaims
	TokenUse string `json:"token_use"`
}

// TokenIssuer mints and verifies signed bearer tokens. The signing
// secret and TTLs are fixed at construction; leeway is the tolerated
// clock skew when checking time-based claims.
type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	leeway     time.Duration
}

func NewTokenIssuer(secret string, accessTTL, refreshTTL, leeway time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		leeway:     leeway,
	}
}

// IssueAccess creates a signed access token with the user ID as subject.
func (t *TokenIssuer) IssueAccess(userID string) (string, error) {
	return t.issue(userID, useAccess, t.accessTTL)
}

// IssueRefresh creates a signed refresh token with the user ID as subject.
func (t *TokenIssuer) IssueRefresh(userID string) (string, error) {
	return t.issue(userID, useRefresh, t.refreshTTL)
}

func (t *TokenIssuer) issue(userID, use string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Audience:  jwt.ClaimStrings{tokenAudience},
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		TokenUse: use,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// VerifyAccess validates an access token and returns its subject user ID.
func (t *TokenIssuer) VerifyAccess(tokenString string) (string, error) {
	return t.verify(tokenString, useAccess)
}

// VerifyRefresh validates a refresh token and returns its subject user ID.
func (t *TokenIssuer) VerifyRefresh(tokenString string) (string, error) {
	return t.verify(tokenString, useRefresh)
}

func (t *TokenIssuer) verify(tokenString, use string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenSignature
		}
		return t.secret, nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithLeeway(t.leeway),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return "", ErrTokenSignature
		default:
			return "", ErrTokenMalformed
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", ErrTokenMalformed
	}
	if claims.TokenUse != use {
		return "", ErrWrongTokenUse
	}
	if claims.Subject == "" {
		return "", ErrTokenMalformed
	}

	return claims.Subject, nil
}
