package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"guesthouse-backend/models"
)

// CustomerService is the thin collaborator surface the booking core needs:
// existence checks plus minimal create/list for the front desk.
type CustomerService struct {
	DB *gorm.DB
}

func NewCustomerService(db *gorm.DB) *CustomerService {
	return &CustomerService{DB: db}
}

func (s *CustomerService) Create(ctx context.Context, customer models.Customer) (*models.Customer, error) {
	if strings.TrimSpace(customer.FullName) == "" {
		return nil, Validation("missing_full_name", "customer full name is required")
	}
	err := withRetry(func() error {
		return classifyStoreErr(s.DB.WithContext(ctx).Create(&customer).Error,
			"customer_create_failed", "could not create customer")
	})
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (s *CustomerService) GetAll(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	err := withRetry(func() error {
		return classifyStoreErr(s.DB.WithContext(ctx).Order("full_name ASC").Find(&customers).Error,
			"customer_scan_failed", "could not list customers")
	})
	if err != nil {
		return nil, err
	}
	return customers, nil
}

func (s *CustomerService) GetByID(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	err := withRetry(func() error {
		return classifyStoreErr(s.DB.WithContext(ctx).First(&customer, id).Error,
			"customer_not_found", "customer not found")
	})
	if err != nil {
		return nil, err
	}
	return &customer, nil
}
