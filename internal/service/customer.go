package service

import (
	"context"
	"strings"

	"mobile-detailing-backend/internal/domain"
	"mobile-detailing-backend/internal/logger"
	"mobile-detailing-backend/internal/repository"
)

type customerService struct {
	customerRepo repository.CustomerRepository
}

func NewCustomerService(customerRepo repository.CustomerRepository) CustomerService {
	return &customerService{customerRepo: customerRepo}
}

func (s *customerService) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	return s.customerRepo.GetByID(ctx, id)
}

func (s *customerService) ListCustomers(ctx context.Context, query string, page, pageSize int32) ([]domain.Customer, int32, error) {
	page, pageSize = normalizePage(page, pageSize)
	return s.customerRepo.List(ctx, strings.TrimSpace(query), page, pageSize)
}

// UpdateCustomer replaces a customer's contact details.
func (s *customerService) UpdateCustomer(ctx context.Context, id string, contact domain.Contact) (*domain.Customer, error) {
	logger.EnterMethod("customerService.UpdateCustomer", "customerID", id)

	if errs := domain.ValidateContact(contact); len(errs) > 0 {
		return nil, domain.NewValidationError(errs)
	}

	c, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		logger.ExitMethodWithError("customerService.UpdateCustomer", err, "customerID", id)
		return nil, err
	}
	c.FullName = strings.TrimSpace(contact.FullName)
	c.Email = strings.TrimSpace(contact.Email)
	c.Phone = strings.TrimSpace(contact.Phone)

	if err := s.customerRepo.Update(ctx, c); err != nil {
		logger.ExitMethodWithError("customerService.UpdateCustomer", err, "customerID", id)
		return nil, err
	}

	logger.ExitMethod("customerService.UpdateCustomer", "customerID", id)
	return c, nil
}
