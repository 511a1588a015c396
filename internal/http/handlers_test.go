package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gcal "google.golang.org/api/calendar/v3"

	"restodash/internal/calendar"
	"restodash/internal/config"
	"restodash/internal/domain"
	"restodash/internal/repository"
	"restodash/internal/service"
)

// fakeMirror минимальная замена календаря для HTTP-тестов
type fakeMirror struct {
	fail   bool
	nextID int
	events map[string]*gcal.Event
}

func (f *fakeMirror) CreateEvent(ctx context.Context, ev *gcal.Event) (*gcal.Event, error) {
	if f.fail {
		return nil, errors.New("calendar unavailable")
	}
	f.nextID++
	cp := *ev
	cp.Id = fmt.Sprintf("ev-%d", f.nextID)
	f.events[cp.Id] = &cp
	return &cp, nil
}

func (f *fakeMirror) UpdateEvent(ctx context.Context, eventID string, ev *gcal.Event) (*gcal.Event, error) {
	if f.fail {
		return nil, errors.New("calendar unavailable")
	}
	cp := *ev
	cp.Id = eventID
	f.events[eventID] = &cp
	return &cp, nil
}

func (f *fakeMirror) DeleteEvent(ctx context.Context, eventID string) error {
	if f.fail {
		return errors.New("calendar unavailable")
	}
	delete(f.events, eventID)
	return nil
}

func (f *fakeMirror) ListEvents(ctx context.Context, from, to time.Time) ([]*gcal.Event, error) {
	if f.fail {
		return nil, errors.New("calendar unavailable")
	}
	out := make([]*gcal.Event, 0, len(f.events))
	for _, ev := range f.events {
		out = append(out, ev)
	}
	return out, nil
}

func setupServer(t *testing.T) (*Server, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	enc, err := calendar.NewEncoder("Europe/Madrid", time.Hour)
	if err != nil {
		t.Fatalf("encoder: %v", err)
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	mirror := &fakeMirror{events: make(map[string]*gcal.Event)}

	menuSvc := service.NewMenuService(store)
	orderSvc := service.NewOrderService(repository.NewMemoryOrders(store))
	resSvc := service.NewReservationService(repository.NewMemoryReservations(store), repository.NewMemoryOutbox(store), mirror, enc, log)

	cfg := &config.Config{Environment: "test"}
	s := NewServer(menuSvc, orderSvc, resSvc, Options{Config: cfg})
	return s, store
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body: %v: %s", err, w.Body.String())
	}
	return out
}

func TestMenuFlow(t *testing.T) {
	s, store := setupServer(t)
	// create
	w := doJSON(t, s, http.MethodPost, "/api/menu", map[string]any{
		"name": "Paella", "price": 14.5, "category": "principales", "stock": 10,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create code %v: %s", w.Code, w.Body.String())
	}
	// get
	w = doJSON(t, s, http.MethodGet, "/api/menu/1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get code %v", w.Code)
	}
	// update
	w = doJSON(t, s, http.MethodPut, "/api/menu/1", map[string]any{
		"name": "Paella mixta", "price": 16, "category": "principales", "stock": 8,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update code %v", w.Code)
	}

	// позиция с нулевой ценой видна только с ?all=
	zero := domain.MenuItem{Name: "Agua", Price: 0, Category: "bebidas"}
	if err := store.Create(context.Background(), &zero); err != nil {
		t.Fatalf("seed: %v", err)
	}
	w = doJSON(t, s, http.MethodGet, "/api/menu", nil)
	if list := decodeBody[[]domain.MenuItem](t, w); len(list) != 1 {
		t.Fatalf("priced only: %+v", list)
	}
	w = doJSON(t, s, http.MethodGet, "/api/menu?all=1", nil)
	if list := decodeBody[[]domain.MenuItem](t, w); len(list) != 2 {
		t.Fatalf("all: %+v", list)
	}

	// delete
	w = doJSON(t, s, http.MethodDelete, "/api/menu/1", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete code %v", w.Code)
	}
	w = doJSON(t, s, http.MethodGet, "/api/menu/1", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get after delete code %v", w.Code)
	}
}

func TestOrderFlow(t *testing.T) {
	s, _ := setupServer(t)
	w := doJSON(t, s, http.MethodPost, "/api/orders", map[string]any{
		"customer_name": "Ana",
		"phone":         "555-1234",
		"address":       "Calle Mayor 1",
		"items":         []map[string]any{{"name": "Paella", "quantity": 2, "price": 14.5}},
		"total":         29,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create code %v: %s", w.Code, w.Body.String())
	}
	created := decodeBody[domain.Order](t, w)
	if created.Status != domain.OrderStatusPending {
		t.Fatalf("default status %q", created.Status)
	}

	// PATCH меняет только статус
	w = doJSON(t, s, http.MethodPatch, "/api/orders/1", map[string]any{"status": "completado"})
	if w.Code != http.StatusOK {
		t.Fatalf("patch code %v: %s", w.Code, w.Body.String())
	}
	patched := decodeBody[domain.Order](t, w)
	if patched.Status != domain.OrderStatusCompleted {
		t.Fatalf("patched status %q", patched.Status)
	}
	if patched.CustomerName != "Ana" {
		t.Fatalf("patch touched other fields: %+v", patched)
	}

	w = doJSON(t, s, http.MethodPatch, "/api/orders/999", map[string]any{"status": "completado"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("patch missing code %v", w.Code)
	}
	w = doJSON(t, s, http.MethodPatch, "/api/orders/1", map[string]any{"status": ""})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("patch empty status code %v", w.Code)
	}

	w = doJSON(t, s, http.MethodDelete, "/api/orders/1", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete code %v", w.Code)
	}
}

func TestOrderValidation(t *testing.T) {
	s, _ := setupServer(t)
	w := doJSON(t, s, http.MethodPost, "/api/orders", map[string]any{
		"customer_name": "Ana", "phone": "555", "address": "C1", "items": []map[string]any{}, "total": 10,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("empty items code %v", w.Code)
	}
}

func TestReservationFlow(t *testing.T) {
	s, _ := setupServer(t)
	w := doJSON(t, s, http.MethodPost, "/api/reservations", map[string]any{
		"customer_name": "Ana",
		"phone":         "555-1234",
		"date":          "2024-06-01",
		"time":          "20:00",
		"people":        4,
		"table_number":  "7",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create code %v: %s", w.Code, w.Body.String())
	}
	created := decodeBody[domain.Reservation](t, w)
	if created.Status != domain.ReservationStatusConfirmed {
		t.Fatalf("default status %q", created.Status)
	}
	if created.GoogleEventID == "" {
		t.Fatalf("expected mirrored event id")
	}

	// событие доступно через calendar-events и декодировано
	w = doJSON(t, s, http.MethodGet, "/api/reservations/calendar-events", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("events code %v: %s", w.Code, w.Body.String())
	}
	events := decodeBody[[]domain.Event](t, w)
	if len(events) != 1 || events[0].Title != "Ana (4 pax) Mesa 7" {
		t.Fatalf("events: %+v", events)
	}
	if !strings.Contains(events[0].Description, "Teléfono: 555-1234") {
		t.Fatalf("description: %q", events[0].Description)
	}

	w = doJSON(t, s, http.MethodPut, "/api/reservations/1", map[string]any{
		"customer_name": "Ana", "phone": "555-1234", "date": "2024-06-01",
		"time": "21:00", "people": 6, "table_number": "7",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update code %v: %s", w.Code, w.Body.String())
	}
	updated := decodeBody[domain.Reservation](t, w)
	if updated.GoogleEventID != created.GoogleEventID {
		t.Fatalf("event id changed on update")
	}

	w = doJSON(t, s, http.MethodDelete, "/api/reservations/1", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete code %v", w.Code)
	}
	w = doJSON(t, s, http.MethodGet, "/api/reservations/1", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get after delete code %v", w.Code)
	}
}

func TestReservationValidation(t *testing.T) {
	s, _ := setupServer(t)
	w := doJSON(t, s, http.MethodPost, "/api/reservations", map[string]any{
		"customer_name": "Ana", "phone": "555", "date": "01/06/2024", "time": "20:00", "people": 4,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad date code %v", w.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	s, _ := setupServer(t)
	w := doJSON(t, s, http.MethodGet, "/api/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("health code %v", w.Code)
	}
	body := decodeBody[map[string]any](t, w)
	if body["status"] != "OK" {
		t.Fatalf("status: %+v", body)
	}
	db, _ := body["database"].(map[string]any)
	if db == nil || db["connected"] != false {
		t.Fatalf("database block: %+v", body)
	}
}

func TestDebugCalendar(t *testing.T) {
	s, _ := setupServer(t)
	w := doJSON(t, s, http.MethodGet, "/api/debug/calendar", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("debug code %v", w.Code)
	}
	body := decodeBody[map[string]any](t, w)
	if body["calendar_id"] != "Missing" {
		t.Fatalf("flags: %+v", body)
	}

	// инициализация без учётных данных отдаёт 500
	w = doJSON(t, s, http.MethodGet, "/api/debug/calendar-init", nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("init code %v", w.Code)
	}
}

func TestUnknownAPIRoute(t *testing.T) {
	s, _ := setupServer(t)
	w := doJSON(t, s, http.MethodGet, "/api/nope", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("code %v", w.Code)
	}
	body := decodeBody[map[string]any](t, w)
	if body["error"] != "API endpoint not found" {
		t.Fatalf("body: %+v", body)
	}
}
