package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"restodash/internal/domain"
)

// MemoryStore объединённое in-memory хранилище и простой генератор ID.
// Используется тестами и запуском без базы данных.
type MemoryStore struct {
	mu          sync.RWMutex
	nextMenuID  int64
	nextOrderID int64
	nextResID   int64
	nextBoxID   int64
	menuByID    map[int64]domain.MenuItem
	ordersByID  map[int64]domain.Order
	resByID     map[int64]domain.Reservation
	outboxByID  map[int64]OutboxEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextMenuID:  1,
		nextOrderID: 1,
		nextResID:   1,
		nextBoxID:   1,
		menuByID:    make(map[int64]domain.MenuItem),
		ordersByID:  make(map[int64]domain.Order),
		resByID:     make(map[int64]domain.Reservation),
		outboxByID:  make(map[int64]OutboxEntry),
	}
}

// Ensure interfaces
var _ MenuRepository = (*MemoryStore)(nil)

// MenuRepository implementation
func (m *MemoryStore) Create(ctx context.Context, item *domain.MenuItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item.ID = m.nextMenuID
	m.nextMenuID++
	item.CreatedAt = time.Now().UTC()
	item.UpdatedAt = item.CreatedAt
	m.menuByID[item.ID] = *item
	return nil
}

func (m *MemoryStore) GetByID(ctx context.Context, id int64) (*domain.MenuItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	item, ok := m.menuByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	// return copy
	cp := item
	return &cp, nil
}

func (m *MemoryStore) Update(ctx context.Context, item *domain.MenuItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev, ok := m.menuByID[item.ID]
	if !ok {
		return ErrNotFound
	}
	item.CreatedAt = prev.CreatedAt
	item.UpdatedAt = time.Now().UTC()
	m.menuByID[item.ID] = *item
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.menuByID[id]; !ok {
		return ErrNotFound
	}
	delete(m.menuByID, id)
	return nil
}

func (m *MemoryStore) List(ctx context.Context, f MenuFilter) ([]domain.MenuItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.MenuItem, 0)
	for _, item := range m.menuByID {
		if !f.IncludeUnpriced && item.Price <= 0 {
			continue
		}
		if f.Category != "" && !strings.EqualFold(item.Category, f.Category) {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// OrderRepository implementation on wrapper type
type MemoryOrders struct{ store *MemoryStore }

func NewMemoryOrders(store *MemoryStore) *MemoryOrders { return &MemoryOrders{store: store} }

var _ OrderRepository = (*MemoryOrders)(nil)

func (mo *MemoryOrders) Create(ctx context.Context, o *domain.Order) error {
	mo.store.mu.Lock()
	defer mo.store.mu.Unlock()
	o.ID = mo.store.nextOrderID
	mo.store.nextOrderID++
	o.CreatedAt = time.Now().UTC()
	o.UpdatedAt = o.CreatedAt
	mo.store.ordersByID[o.ID] = *o
	return nil
}

func (mo *MemoryOrders) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	mo.store.mu.RLock()
	defer mo.store.mu.RUnlock()
	o, ok := mo.store.ordersByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := o
	return &cp, nil
}

func (mo *MemoryOrders) Update(ctx context.Context, o *domain.Order) error {
	mo.store.mu.Lock()
	defer mo.store.mu.Unlock()
	prev, ok := mo.store.ordersByID[o.ID]
	if !ok {
		return ErrNotFound
	}
	o.CreatedAt = prev.CreatedAt
	o.UpdatedAt = time.Now().UTC()
	mo.store.ordersByID[o.ID] = *o
	return nil
}

func (mo *MemoryOrders) UpdateStatus(ctx context.Context, id int64, status string) (*domain.Order, error) {
	mo.store.mu.Lock()
	defer mo.store.mu.Unlock()
	o, ok := mo.store.ordersByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now().UTC()
	mo.store.ordersByID[id] = o
	cp := o
	return &cp, nil
}

func (mo *MemoryOrders) Delete(ctx context.Context, id int64) error {
	mo.store.mu.Lock()
	defer mo.store.mu.Unlock()
	if _, ok := mo.store.ordersByID[id]; !ok {
		return ErrNotFound
	}
	delete(mo.store.ordersByID, id)
	return nil
}

func (mo *MemoryOrders) List(ctx context.Context, f OrderFilter) ([]domain.Order, error) {
	mo.store.mu.RLock()
	defer mo.store.mu.RUnlock()
	out := make([]domain.Order, 0)
	for _, o := range mo.store.ordersByID {
		if f.From != nil && o.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && o.CreatedAt.After(*f.To) {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// ReservationRepository implementation on wrapper type
type MemoryReservations struct{ store *MemoryStore }

func NewMemoryReservations(store *MemoryStore) *MemoryReservations {
	return &MemoryReservations{store: store}
}

var _ ReservationRepository = (*MemoryReservations)(nil)

func (mr *MemoryReservations) Create(ctx context.Context, r *domain.Reservation) error {
	mr.store.mu.Lock()
	defer mr.store.mu.Unlock()
	r.ID = mr.store.nextResID
	mr.store.nextResID++
	r.CreatedAt = time.Now().UTC()
	r.UpdatedAt = r.CreatedAt
	mr.store.resByID[r.ID] = *r
	return nil
}

func (mr *MemoryReservations) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	mr.store.mu.RLock()
	defer mr.store.mu.RUnlock()
	r, ok := mr.store.resByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := r
	return &cp, nil
}

func (mr *MemoryReservations) Update(ctx context.Context, r *domain.Reservation) error {
	mr.store.mu.Lock()
	defer mr.store.mu.Unlock()
	prev, ok := mr.store.resByID[r.ID]
	if !ok {
		return ErrNotFound
	}
	r.CreatedAt = prev.CreatedAt
	r.GoogleEventID = prev.GoogleEventID
	r.UpdatedAt = time.Now().UTC()
	mr.store.resByID[r.ID] = *r
	return nil
}

func (mr *MemoryReservations) Delete(ctx context.Context, id int64) error {
	mr.store.mu.Lock()
	defer mr.store.mu.Unlock()
	if _, ok := mr.store.resByID[id]; !ok {
		return ErrNotFound
	}
	delete(mr.store.resByID, id)
	return nil
}

func (mr *MemoryReservations) List(ctx context.Context) ([]domain.Reservation, error) {
	mr.store.mu.RLock()
	defer mr.store.mu.RUnlock()
	out := make([]domain.Reservation, 0)
	for _, r := range mr.store.resByID {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	return out, nil
}

func (mr *MemoryReservations) SetEventID(ctx context.Context, id int64, eventID string) error {
	mr.store.mu.Lock()
	defer mr.store.mu.Unlock()
	r, ok := mr.store.resByID[id]
	if !ok {
		return ErrNotFound
	}
	r.GoogleEventID = eventID
	r.UpdatedAt = time.Now().UTC()
	mr.store.resByID[id] = r
	return nil
}

// OutboxRepository implementation on wrapper type
type MemoryOutbox struct{ store *MemoryStore }

func NewMemoryOutbox(store *MemoryStore) *MemoryOutbox { return &MemoryOutbox{store: store} }

var _ OutboxRepository = (*MemoryOutbox)(nil)

func (mb *MemoryOutbox) Enqueue(ctx context.Context, e *OutboxEntry) error {
	mb.store.mu.Lock()
	defer mb.store.mu.Unlock()
	e.ID = mb.store.nextBoxID
	mb.store.nextBoxID++
	e.CreatedAt = time.Now().UTC()
	mb.store.outboxByID[e.ID] = *e
	return nil
}

func (mb *MemoryOutbox) ListPending(ctx context.Context, limit int) ([]OutboxEntry, error) {
	mb.store.mu.RLock()
	defer mb.store.mu.RUnlock()
	out := make([]OutboxEntry, 0)
	for _, e := range mb.store.outboxByID {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (mb *MemoryOutbox) MarkDone(ctx context.Context, id int64) error {
	mb.store.mu.Lock()
	defer mb.store.mu.Unlock()
	if _, ok := mb.store.outboxByID[id]; !ok {
		return ErrNotFound
	}
	delete(mb.store.outboxByID, id)
	return nil
}

func (mb *MemoryOutbox) MarkFailed(ctx context.Context, id int64, reason string) error {
	mb.store.mu.Lock()
	defer mb.store.mu.Unlock()
	e, ok := mb.store.outboxByID[id]
	if !ok {
		return ErrNotFound
	}
	e.Attempts++
	e.LastError = reason
	mb.store.outboxByID[id] = e
	return nil
}
