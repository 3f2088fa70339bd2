package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"mobile-detailing-backend/internal/domain"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

const issuer = "detailing-auth"

// CustomerClaims defines the claims carried by access tokens
type CustomerClaims struct {
	CustomerID string              `json:"customer_id"`
	Email      string              `json:"email,omitempty"`
	Role       domain.CustomerRole `json:"role"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the token belongs to a back-office user
func (c *CustomerClaims) IsAdmin() bool {
	return c.Role == domain.CustomerRoleAdmin
}

type TokenManager interface {
	GenerateAccessToken(customer *domain.Customer) (string, time.Time, error)
	ValidateToken(tokenString string) (*CustomerClaims, error)
}

type tokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) TokenManager {
	return &tokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (m *tokenManager) GenerateAccessToken(customer *domain.Customer) (string, time.Time, error) {
	issued := m.now()
	expires := issued.Add(m.ttl)
	claims := CustomerClaims{
		CustomerID: customer.ID,
		Email:      customer.Email,
		Role:       customer.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   customer.ID,
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(issued),
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{"booking-api"},
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

func (m *tokenManager) ValidateToken(tokenString string) (*CustomerClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomerClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	}, jwt.WithIssuer(issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*CustomerClaims); ok && token.Valid {
		if claims.CustomerID == "" {
			claims.CustomerID = claims.Subject
		}
		return claims, nil
	}

	return nil, ErrInvalidToken
}
