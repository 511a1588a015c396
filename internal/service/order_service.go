package service

import (
	"context"

	"restodash/internal/domain"
	"restodash/internal/repository"
)

// OrderService реализует логику заказов: создание, обновление статуса,
// выборка по диапазону дат. Конечного автомата статусов нет, PATCH
// принимает любую непустую строку.
type OrderService struct {
	repo repository.OrderRepository
}

func NewOrderService(repo repository.OrderRepository) *OrderService {
	return &OrderService{repo: repo}
}

func validateOrder(o domain.Order) error {
	if o.CustomerName == "" || o.Phone == "" || o.Address == "" || len(o.Items) == 0 || o.Total <= 0 {
		return ErrInvalidInput
	}
	for _, it := range o.Items {
		if it.Name == "" || it.Quantity <= 0 {
			return ErrInvalidInput
		}
	}
	return nil
}

func (s *OrderService) Create(ctx context.Context, o domain.Order) (*domain.Order, error) {
	if err := validateOrder(o); err != nil {
		return nil, err
	}
	if o.Status == "" {
		o.Status = domain.OrderStatusPending
	}
	cp := o
	if err := s.repo.Create(ctx, &cp); err != nil {
		return nil, err
	}
	return &cp, nil
}

func (s *OrderService) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *OrderService) Update(ctx context.Context, o domain.Order) (*domain.Order, error) {
	if o.ID <= 0 {
		return nil, ErrInvalidInput
	}
	if err := validateOrder(o); err != nil {
		return nil, err
	}
	cp := o
	if err := s.repo.Update(ctx, &cp); err != nil {
		return nil, err
	}
	return &cp, nil
}

// UpdateStatus меняет статус заказа и обновляет updated_at
func (s *OrderService) UpdateStatus(ctx context.Context, id int64, status string) (*domain.Order, error) {
	if id <= 0 || status == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

func (s *OrderService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}

func (s *OrderService) List(ctx context.Context, f repository.OrderFilter) ([]domain.Order, error) {
	return s.repo.List(ctx, f)
}
