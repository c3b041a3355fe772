package utils

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// MinSigningKeyBytes is the HS256 minimum key size (256 bits).
const MinSigningKeyBytes = 32

var (
	ErrInvalidAccessToken = errors.New("invalid access token")
	ErrInvalidSubject     = errors.New("invalid token subject")
)

// AccessClaims is the claim set carried by an access token.
type AccessClaims struct {
	UniqueName string `json:"unique_name"`
	Email      string `json:"email"`
	jwt.RegisteredClaims
}

// AccessSubject is the identity an access token is minted for.
type AccessSubject struct {
	UserID   uint
	Username string
	Email    string
}

// SigningKey derives the HMAC key from the configured secret. Secrets shorter
// than 256 bits are right-padded with zero bytes. The padding only satisfies
// the minimum key size; it adds no entropy, so a short secret stays weak.
func SigningKey(secret string) []byte {
	key := []byte(secret)
	if len(key) >= MinSigningKeyBytes {
		return key
	}
	padded := make([]byte, MinSigningKeyBytes)
	copy(padded, key)
	return padded
}

// IssueAccessToken signs a short-lived access token for subject.
// It returns the signed token and its expiry.
func IssueAccessToken(cfg *TokenConfig, subject AccessSubject, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(cfg.AccessTTL)
	claims := AccessClaims{
		UniqueName: subject.Username,
		Email:      subject.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatUint(uint64(subject.UserID), 10),
			Issuer:    cfg.Issuer,
			Audience:  jwt.ClaimStrings{cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(SigningKey(cfg.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseAccessToken verifies signature, validity window, issuer and audience.
func ParseAccessToken(tokenString string, cfg *TokenConfig) (*AccessClaims, error) {
	key := SigningKey(cfg.Secret)
	token, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidAccessToken
	}
	if !claims.VerifyIssuer(cfg.Issuer, true) {
		return nil, ErrInvalidAccessToken
	}
	if !claims.VerifyAudience(cfg.Audience, true) {
		return nil, ErrInvalidAccessToken
	}
	if claims.NotBefore == nil || claims.ExpiresAt == nil {
		return nil, ErrInvalidAccessToken
	}
	return claims, nil
}

// SubjectID is the single place the subject claim becomes a user id.
func SubjectID(claims *AccessClaims) (uint, error) {
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidSubject
	}
	return uint(id), nil
}
