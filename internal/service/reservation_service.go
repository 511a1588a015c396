package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	gcal "google.golang.org/api/calendar/v3"

	"restodash/internal/calendar"
	"restodash/internal/domain"
	"restodash/internal/repository"
)

// CalendarMirror операции над внешним календарём, в который зеркалируются
// брони. Реализуется calendar.Client; в тестах подменяется фейком.
type CalendarMirror interface {
	CreateEvent(ctx context.Context, ev *gcal.Event) (*gcal.Event, error)
	UpdateEvent(ctx context.Context, eventID string, ev *gcal.Event) (*gcal.Event, error)
	DeleteEvent(ctx context.Context, eventID string) error
	ListEvents(ctx context.Context, from, to time.Time) ([]*gcal.Event, error)
}

// Окно выборки событий для дашборда
const eventWindowDays = 30

// ErrCalendarDisabled календарь не сконфигурирован, зеркало выключено
var ErrCalendarDisabled = errors.New("calendar is not configured")

// ReservationService логика броней. Локальная запись выполняется первой;
// зеркалирование в календарь best-effort: сбой логируется и ставится в
// outbox, но никогда не роняет запрос.
type ReservationService struct {
	repo   repository.ReservationRepository
	outbox repository.OutboxRepository
	mirror CalendarMirror // nil, когда календарь не сконфигурирован
	enc    *calendar.Encoder
	log    *slog.Logger
}

func NewReservationService(repo repository.ReservationRepository, outbox repository.OutboxRepository, mirror CalendarMirror, enc *calendar.Encoder, log *slog.Logger) *ReservationService {
	return &ReservationService{repo: repo, outbox: outbox, mirror: mirror, enc: enc, log: log}
}

func validateReservation(r domain.Reservation) error {
	if r.CustomerName == "" || r.Date == "" || r.Time == "" || r.People <= 0 {
		return ErrInvalidInput
	}
	if _, err := time.Parse("2006-01-02", r.Date); err != nil {
		return ErrInvalidInput
	}
	if _, err := time.Parse("15:04", r.Time); err != nil {
		return ErrInvalidInput
	}
	return nil
}

func (s *ReservationService) Create(ctx context.Context, r domain.Reservation) (*domain.Reservation, error) {
	if err := validateReservation(r); err != nil {
		return nil, err
	}
	if r.Status == "" {
		r.Status = domain.ReservationStatusConfirmed
	}
	cp := r
	if err := s.repo.Create(ctx, &cp); err != nil {
		return nil, err
	}
	s.mirrorCreate(ctx, &cp)
	return &cp, nil
}

func (s *ReservationService) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *ReservationService) Update(ctx context.Context, r domain.Reservation) (*domain.Reservation, error) {
	if r.ID <= 0 {
		return nil, ErrInvalidInput
	}
	if err := validateReservation(r); err != nil {
		return nil, err
	}
	existing, err := s.repo.GetByID(ctx, r.ID)
	if err != nil {
		return nil, err
	}
	if r.Status == "" {
		r.Status = existing.Status
	}
	cp := r
	if err := s.repo.Update(ctx, &cp); err != nil {
		return nil, err
	}
	cp.GoogleEventID = existing.GoogleEventID

	if s.mirror != nil {
		if cp.GoogleEventID == "" {
			// бронь без зеркала: создаём событие при первом удобном случае
			s.mirrorCreate(ctx, &cp)
		} else {
			s.mirrorUpdate(ctx, &cp)
		}
	}
	return &cp, nil
}

// Delete удаляет локальную строку всегда; событие календаря удаляется
// best-effort, сбой уходит в outbox
func (s *ReservationService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidInput
	}
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if s.mirror != nil && res.GoogleEventID != "" {
		if err := s.mirror.DeleteEvent(ctx, res.GoogleEventID); err != nil {
			s.log.Error("calendar delete failed", "reservation_id", id, "event_id", res.GoogleEventID, "error", err)
			s.enqueue(ctx, repository.OutboxOpDelete, *res, res.GoogleEventID)
		}
	}
	return s.repo.Delete(ctx, id)
}

func (s *ReservationService) List(ctx context.Context) ([]domain.Reservation, error) {
	return s.repo.List(ctx)
}

// ListEvents отдаёт декодированные события календаря на ближайшие 30 дней
func (s *ReservationService) ListEvents(ctx context.Context) ([]domain.Event, error) {
	if s.mirror == nil {
		return nil, ErrCalendarDisabled
	}
	from := time.Now()
	to := from.AddDate(0, 0, eventWindowDays)
	events, err := s.mirror.ListEvents(ctx, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Event, 0, len(events))
	for _, ev := range events {
		out = append(out, calendar.Decode(ev))
	}
	return out, nil
}

func (s *ReservationService) mirrorCreate(ctx context.Context, res *domain.Reservation) {
	if s.mirror == nil {
		return
	}
	ev, err := s.enc.Encode(*res)
	if err != nil {
		s.log.Error("encode reservation failed", "reservation_id", res.ID, "error", err)
		return
	}
	created, err := s.mirror.CreateEvent(ctx, ev)
	if err != nil {
		s.log.Error("calendar create failed", "reservation_id", res.ID, "error", err)
		s.enqueue(ctx, repository.OutboxOpCreate, *res, "")
		return
	}
	if err := s.repo.SetEventID(ctx, res.ID, created.Id); err != nil {
		s.log.Error("store event id failed", "reservation_id", res.ID, "event_id", created.Id, "error", err)
		return
	}
	res.GoogleEventID = created.Id
	s.log.Info("reservation mirrored", "reservation_id", res.ID, "event_id", created.Id)
}

func (s *ReservationService) mirrorUpdate(ctx context.Context, res *domain.Reservation) {
	ev, err := s.enc.Encode(*res)
	if err != nil {
		s.log.Error("encode reservation failed", "reservation_id", res.ID, "error", err)
		return
	}
	if _, err := s.mirror.UpdateEvent(ctx, res.GoogleEventID, ev); err != nil {
		s.log.Error("calendar update failed", "reservation_id", res.ID, "event_id", res.GoogleEventID, "error", err)
		s.enqueue(ctx, repository.OutboxOpUpdate, *res, res.GoogleEventID)
	}
}

func (s *ReservationService) enqueue(ctx context.Context, op string, res domain.Reservation, eventID string) {
	if s.outbox == nil {
		return
	}
	e := repository.OutboxEntry{
		ReservationID: res.ID,
		Op:            op,
		EventID:       eventID,
		Payload:       res,
	}
	if err := s.outbox.Enqueue(ctx, &e); err != nil {
		s.log.Error("outbox enqueue failed", "reservation_id", res.ID, "op", op, "error", err)
	}
}
