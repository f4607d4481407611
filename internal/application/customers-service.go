package application

import (
	"context"
	"github.com/RaikyD/remit-desk/internal/domain"
	"github.com/RaikyD/remit-desk/internal/logger"
	"github.com/RaikyD/remit-desk/internal/repository"
)

type CustomersService struct {
	repo repository.CustomerRepo
}

func NewCustomersService(r repository.CustomerRepo) *CustomersService {
	return &CustomersService{repo: r}
}

func (s *CustomersService) CreateCustomer(ctx context.Context, fields map[string]string) (*domain.Customer, error) {
	if err := domain.CheckText(fields); err != nil {
		return nil, err
	}
	c := domain.NewCustomer(fields)
	id, err := s.repo.InsertCustomer(ctx, c)
	if err != nil {
		return nil, err
	}
	c.ID = id
	logger.Info("customer created", "customer_id", id)
	return c, nil
}

func (s *CustomersService) UpdateCustomer(ctx context.Context, id int64, fields map[string]string) (*domain.Customer, error) {
	if err := domain.CheckText(fields); err != nil {
		return nil, err
	}
	c := domain.NewCustomer(fields)
	if err := s.repo.UpdateCustomer(ctx, id, c); err != nil {
		return nil, err
	}
	c.ID = id
	logger.Info("customer updated", "customer_id", id)
	return c, nil
}

// DeleteCustomer does not touch the customer's orders; their receipts show
// blank sender fields afterwards.
func (s *CustomersService) DeleteCustomer(ctx context.Context, id int64) error {
	if err := s.repo.DeleteCustomer(ctx, id); err != nil {
		return err
	}
	logger.Info("customer deleted", "customer_id", id)
	return nil
}

func (s *CustomersService) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	return s.repo.GetCustomer(ctx, id)
}

func (s *CustomersService) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	return s.repo.ListCustomers(ctx)
}
