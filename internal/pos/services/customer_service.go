package services

import (
	"context"
	"fmt"

	"restopos/internal/pos/core"
	"restopos/internal/pos/domain/models"
	"restopos/internal/xpkg/logger"
)

type CustomerService struct {
	customerRepo core.CustomerRepo
	mylog        logger.Logger
}

func NewCustomerService(customerRepo core.CustomerRepo, mylog logger.Logger) *CustomerService {
	return &CustomerService{customerRepo: customerRepo, mylog: mylog}
}

func (s *CustomerService) List(ctx context.Context) ([]models.Customer, error) {
	return s.customerRepo.List(ctx)
}

func (s *CustomerService) Get(ctx context.Context, id int64) (models.Customer, error) {
	return s.customerRepo.Get(ctx, id)
}

func (s *CustomerService) Create(ctx context.Context, c models.Customer) (models.Customer, error) {
	if c.FirstName == "" {
		return models.Customer{}, fmt.Errorf("%w: first name is required", core.ErrValidation)
	}
	customer, err := s.customerRepo.Create(ctx, c)
	if err != nil {
		s.mylog.Action("create_customer").Error("failed to create customer", err)
		return models.Customer{}, err
	}
	s.mylog.Action("create_customer").With("customer_id", customer.ID).Info("customer created")
	return customer, nil
}

func (s *CustomerService) Update(ctx context.Context, c models.Customer) (models.Customer, error) {
	if c.FirstName == "" {
		return models.Customer{}, fmt.Errorf("%w: first name is required", core.ErrValidation)
	}
	return s.customerRepo.Update(ctx, c)
}

func (s *CustomerService) Delete(ctx context.Context, id int64) error {
	return s.customerRepo.Delete(ctx, id)
}
