package service

import (
	"context"
	"errors"

	"restodash/internal/domain"
	"restodash/internal/repository"
)

// MenuService инкапсулирует бизнес-логику вокруг позиций меню
type MenuService struct {
	repo repository.MenuRepository
}

func NewMenuService(repo repository.MenuRepository) *MenuService {
	return &MenuService{repo: repo}
}

var ErrInvalidInput = errors.New("invalid input")

func (s *MenuService) Create(ctx context.Context, m domain.MenuItem) (*domain.MenuItem, error) {
	if m.Name == "" || m.Price <= 0 || m.Stock < 0 {
		return nil, ErrInvalidInput
	}
	cp := m
	if err := s.repo.Create(ctx, &cp); err != nil {
		return nil, err
	}
	return &cp, nil
}

func (s *MenuService) GetByID(ctx context.Context, id int64) (*domain.MenuItem, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *MenuService) Update(ctx context.Context, m domain.MenuItem) (*domain.MenuItem, error) {
	if m.ID <= 0 || m.Name == "" || m.Price <= 0 || m.Stock < 0 {
		return nil, ErrInvalidInput
	}
	cp := m
	if err := s.repo.Update(ctx, &cp); err != nil {
		return nil, err
	}
	return &cp, nil
}

func (s *MenuService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}

func (s *MenuService) List(ctx context.Context, f repository.MenuFilter) ([]domain.MenuItem, error) {
	return s.repo.List(ctx, f)
}
