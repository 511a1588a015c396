package repository

import (
	"context"
	"errors"
	"time"

	"restodash/internal/domain"
)

// ErrNotFound возвращается, когда сущность не найдена
var ErrNotFound = errors.New("not found")

// MenuFilter параметры фильтрации меню. По умолчанию позиции с нулевой
// ценой скрыты из выдачи; IncludeUnpriced возвращает и их.
type MenuFilter struct {
	Category        string
	IncludeUnpriced bool
}

// OrderFilter диапазон дат по created_at
type OrderFilter struct {
	From *time.Time
	To   *time.Time
}

// MenuRepository интерфейс репозитория меню
type MenuRepository interface {
	Create(ctx context.Context, m *domain.MenuItem) error
	GetByID(ctx context.Context, id int64) (*domain.MenuItem, error)
	Update(ctx context.Context, m *domain.MenuItem) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f MenuFilter) ([]domain.MenuItem, error)
}

// OrderRepository интерфейс репозитория заказов
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	Update(ctx context.Context, o *domain.Order) error
	UpdateStatus(ctx context.Context, id int64, status string) (*domain.Order, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f OrderFilter) ([]domain.Order, error)
}

// ReservationRepository интерфейс репозитория броней
type ReservationRepository interface {
	Create(ctx context.Context, r *domain.Reservation) error
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	Update(ctx context.Context, r *domain.Reservation) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]domain.Reservation, error)
	// SetEventID записывает ссылку на зеркальное событие календаря
	SetEventID(ctx context.Context, id int64, eventID string) error
}

// Операции зеркалирования, попадающие в outbox при сбое календаря
const (
	OutboxOpCreate = "create"
	OutboxOpUpdate = "update"
	OutboxOpDelete = "delete"
)

// OutboxEntry отложенная операция над календарём. Payload — снимок брони
// на момент постановки в очередь.
type OutboxEntry struct {
	ID            int64
	ReservationID int64
	Op            string
	EventID       string
	Payload       domain.Reservation
	Attempts      int
	LastError     string
	CreatedAt     time.Time
}

// OutboxRepository очередь несинхронизированных операций календаря
type OutboxRepository interface {
	Enqueue(ctx context.Context, e *OutboxEntry) error
	ListPending(ctx context.Context, limit int) ([]OutboxEntry, error)
	MarkDone(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, reason string) error
}
