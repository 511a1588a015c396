package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"restodash/internal/calendar"
	"restodash/internal/repository"
)

// OutboxService периодически доигрывает операции календаря, не прошедшие
// при обработке запроса. Это и есть компенсация best-effort двойной
// записи: расхождение ограничено повторами вместо молчаливой потери.
type OutboxService struct {
	outbox       repository.OutboxRepository
	reservations repository.ReservationRepository
	mirror       CalendarMirror
	enc          *calendar.Encoder
	log          *slog.Logger
	batchSize    int
}

func NewOutboxService(outbox repository.OutboxRepository, reservations repository.ReservationRepository, mirror CalendarMirror, enc *calendar.Encoder, log *slog.Logger) *OutboxService {
	return &OutboxService{
		outbox:       outbox,
		reservations: reservations,
		mirror:       mirror,
		enc:          enc,
		log:          log,
		batchSize:    20,
	}
}

// Run гоняет ProcessPending по тикеру до отмены контекста
func (s *OutboxService) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n, err := s.ProcessPending(ctx)
			if err != nil {
				s.log.Error("outbox pass failed", "error", err)
				continue
			}
			if n > 0 {
				s.log.Info("outbox entries replayed", "count", n)
			}
		}
	}
}

// ProcessPending проигрывает очередь; возвращает число успешных операций
func (s *OutboxService) ProcessPending(ctx context.Context) (int, error) {
	entries, err := s.outbox.ListPending(ctx, s.batchSize)
	if err != nil {
		return 0, fmt.Errorf("list pending: %w", err)
	}
	done := 0
	for _, e := range entries {
		if err := s.apply(ctx, e); err != nil {
			s.log.Warn("outbox replay failed", "outbox_id", e.ID, "op", e.Op, "attempts", e.Attempts+1, "error", err)
			if err := s.outbox.MarkFailed(ctx, e.ID, err.Error()); err != nil {
				s.log.Error("outbox mark failed", "outbox_id", e.ID, "error", err)
			}
			continue
		}
		if err := s.outbox.MarkDone(ctx, e.ID); err != nil {
			s.log.Error("outbox mark done", "outbox_id", e.ID, "error", err)
			continue
		}
		done++
	}
	return done, nil
}

func (s *OutboxService) apply(ctx context.Context, e repository.OutboxEntry) error {
	switch e.Op {
	case repository.OutboxOpCreate:
		ev, err := s.enc.Encode(e.Payload)
		if err != nil {
			return err
		}
		created, err := s.mirror.CreateEvent(ctx, ev)
		if err != nil {
			return err
		}
		if err := s.reservations.SetEventID(ctx, e.ReservationID, created.Id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				// бронь успели удалить; событие-сирота не нужно
				return s.mirror.DeleteEvent(ctx, created.Id)
			}
			return err
		}
		return nil
	case repository.OutboxOpUpdate:
		if e.EventID == "" {
			return errors.New("update entry without event id")
		}
		ev, err := s.enc.Encode(e.Payload)
		if err != nil {
			return err
		}
		_, err = s.mirror.UpdateEvent(ctx, e.EventID, ev)
		return err
	case repository.OutboxOpDelete:
		if e.EventID == "" {
			return errors.New("delete entry without event id")
		}
		return s.mirror.DeleteEvent(ctx, e.EventID)
	default:
		return fmt.Errorf("unknown outbox op %q", e.Op)
	}
}
