package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"mobile-detailing-backend/internal/domain"
	"mobile-detailing-backend/internal/logger"
	"mobile-detailing-backend/internal/repository"
	"mobile-detailing-backend/internal/security"

	"golang.org/x/crypto/bcrypt"
)

type authService struct {
	customerRepo repository.CustomerRepository
	tokens       security.TokenManager
}

func NewAuthService(customerRepo repository.CustomerRepository, tokens security.TokenManager) AuthService {
	return &authService{
		customerRepo: customerRepo,
		tokens:       tokens,
	}
}

// Login checks the password and issues an access token. Unknown emails and
// wrong passwords are reported the same way.
func (s *authService) Login(ctx context.Context, email, password string) (*domain.Customer, string, time.Time, error) {
	logger.EnterMethod("authService.Login", "email", email)

	customer, err := s.customerRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			err = domain.ErrInvalidCredential
		}
		logger.ExitMethodWithError("authService.Login", err, "email", email)
		return nil, "", time.Time{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte(password)); err != nil {
		logger.ExitMethodWithError("authService.Login", domain.ErrInvalidCredential, "email", email)
		return nil, "", time.Time{}, domain.ErrInvalidCredential
	}

	token, expires, err := s.tokens.GenerateAccessToken(customer)
	if err != nil {
		logger.ExitMethodWithError("authService.Login", err, "reason", "token")
		return nil, "", time.Time{}, err
	}

	logger.ExitMethod("authService.Login", "customerID", customer.ID, "role", customer.Role)
	return customer, token, expires, nil
}

func (s *authService) CurrentUser(ctx context.Context, customerID string) (*domain.Customer, error) {
	if customerID == "" {
		return nil, domain.ErrUnauthorized
	}
	return s.customerRepo.GetByID(ctx, customerID)
}
