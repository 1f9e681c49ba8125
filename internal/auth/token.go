package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"bank-ledger/internal/domain"
	apperrors "bank-ledger/internal/errors"
)

// TokenManager issues and verifies the bearer tokens that carry a
// caller's identity between requests.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

type identityClaims struct {
	UserID   int64  `json:"uid"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func (m *TokenManager) GenerateToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := &identityClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// ValidateToken parses a signed token and returns the identity it
// carries. Any parse, signature, or expiry failure maps to Unauthorized.
func (m *TokenManager) ValidateToken(signedToken string) (*domain.Identity, error) {
	token, err := jwt.ParseWithClaims(
		signedToken,
		&identityClaims{},
		func(token *jwt.Token) (interface{}, error) {
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.Unauthorized, "invalid token").WithDetails(err.Error())
	}

	claims, ok := token.Claims.(*identityClaims)
	if !ok || claims.UserID == 0 {
		return nil, apperrors.NewAppError(apperrors.Unauthorized, "invalid token")
	}

	return &domain.Identity{
		UserID:   claims.UserID,
		Username: claims.Username,
	}, nil
}
