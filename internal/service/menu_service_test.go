package service

import (
	"context"
	"errors"
	"testing"

	"restodash/internal/domain"
	"restodash/internal/repository"
)

func setupMS(t *testing.T) *MenuService {
	t.Helper()
	return NewMenuService(repository.NewMemoryStore())
}

func TestMenu_Create_Valid(t *testing.T) {
	ctx := context.Background()
	ms := setupMS(t)
	m, err := ms.Create(ctx, domain.MenuItem{Name: "Paella", Price: 14.5, Category: "principales", Stock: 10})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if m.ID == 0 {
		t.Fatalf("expected id assigned")
	}
}

func TestMenu_Create_Invalid(t *testing.T) {
	ctx := context.Background()
	ms := setupMS(t)
	cases := []domain.MenuItem{
		{Name: "", Price: 10, Stock: 1},
		{Name: "Flan", Price: 0, Stock: 1},
		{Name: "Flan", Price: -3, Stock: 1},
		{Name: "Flan", Price: 3, Stock: -1},
	}
	for _, c := range cases {
		if _, err := ms.Create(ctx, c); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %+v, got %v", c, err)
		}
	}
}

func TestMenu_Update_Get_Delete(t *testing.T) {
	ctx := context.Background()
	ms := setupMS(t)
	m, _ := ms.Create(ctx, domain.MenuItem{Name: "Paella", Price: 14.5, Category: "principales", Stock: 10})

	got, err := ms.GetByID(ctx, m.ID)
	if err != nil || got.Name != "Paella" {
		t.Fatalf("get failed: %v", err)
	}

	m.Price = 16
	upd, err := ms.Update(ctx, *m)
	if err != nil || upd.Price != 16 {
		t.Fatalf("update failed: %v", err)
	}

	if _, err := ms.Update(ctx, domain.MenuItem{ID: m.ID, Name: "Paella", Price: 0}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	if err := ms.Delete(ctx, m.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := ms.GetByID(ctx, m.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMenu_List_Filter(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	ms := NewMenuService(store)
	if _, err := ms.Create(ctx, domain.MenuItem{Name: "Paella", Price: 14.5, Category: "principales"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	// нулевая цена проходит только напрямую через хранилище
	zero := domain.MenuItem{Name: "Agua", Price: 0, Category: "bebidas"}
	if err := store.Create(ctx, &zero); err != nil {
		t.Fatalf("seed: %v", err)
	}

	list, err := ms.List(ctx, repository.MenuFilter{})
	if err != nil || len(list) != 1 {
		t.Fatalf("priced only: %v %+v", err, list)
	}
	list, _ = ms.List(ctx, repository.MenuFilter{IncludeUnpriced: true})
	if len(list) != 2 {
		t.Fatalf("all: %+v", list)
	}
}
