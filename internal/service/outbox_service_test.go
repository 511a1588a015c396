package service

import (
	"context"
	"testing"

	"restodash/internal/repository"
)

type obFixture struct {
	svc    *OutboxService
	res    rsFixture
	outbox *repository.MemoryOutbox
	mirror *fakeMirror
}

func setupOB(t *testing.T) obFixture {
	t.Helper()
	res := setupRS(t)
	svc := NewOutboxService(res.outbox, res.repo, res.mirror, testEncoder(t), testLogger())
	return obFixture{svc: svc, res: res, outbox: res.outbox, mirror: res.mirror}
}

func TestOutbox_ReplayCreate(t *testing.T) {
	ctx := context.Background()
	f := setupOB(t)

	// бронь создана при лежащем календаре
	f.mirror.fail = true
	r, err := f.res.svc.Create(ctx, anaReservation())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// календарь ожил, повтор должен дозеркалировать бронь
	f.mirror.fail = false
	n, err := f.svc.ProcessPending(ctx)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if n != 1 {
		t.Fatalf("replayed %d", n)
	}

	stored, err := f.res.repo.GetByID(ctx, r.ID)
	if err != nil || stored.GoogleEventID == "" {
		t.Fatalf("event id not set after replay: %v %+v", err, stored)
	}
	pending, _ := f.outbox.ListPending(ctx, 10)
	if len(pending) != 0 {
		t.Fatalf("queue not drained: %+v", pending)
	}
}

func TestOutbox_FailureKeepsEntry(t *testing.T) {
	ctx := context.Background()
	f := setupOB(t)

	f.mirror.fail = true
	if _, err := f.res.svc.Create(ctx, anaReservation()); err != nil {
		t.Fatalf("create: %v", err)
	}

	// календарь всё ещё лежит: запись остаётся с инкрементом попыток
	n, err := f.svc.ProcessPending(ctx)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if n != 0 {
		t.Fatalf("replayed %d", n)
	}
	pending, _ := f.outbox.ListPending(ctx, 10)
	if len(pending) != 1 || pending[0].Attempts != 1 || pending[0].LastError == "" {
		t.Fatalf("entry: %+v", pending)
	}
}

func TestOutbox_OrphanEventCleanedUp(t *testing.T) {
	ctx := context.Background()
	f := setupOB(t)

	f.mirror.fail = true
	r, err := f.res.svc.Create(ctx, anaReservation())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	// бронь удалили до повтора; outbox пуст не будет, событие-сирота
	// должно быть создано и сразу убрано
	f.mirror.fail = false
	if err := f.res.repo.Delete(ctx, r.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	n, err := f.svc.ProcessPending(ctx)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if n != 1 {
		t.Fatalf("replayed %d", n)
	}
	if len(f.mirror.events) != 0 {
		t.Fatalf("orphan event left: %+v", f.mirror.events)
	}
	if len(f.mirror.deleted) != 1 {
		t.Fatalf("orphan not deleted: %+v", f.mirror.deleted)
	}
}

func TestOutbox_ReplayDelete(t *testing.T) {
	ctx := context.Background()
	f := setupOB(t)

	r, err := f.res.svc.Create(ctx, anaReservation())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	eventID := r.GoogleEventID

	f.mirror.fail = true
	if err := f.res.svc.Delete(ctx, r.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	f.mirror.fail = false
	n, err := f.svc.ProcessPending(ctx)
	if err != nil || n != 1 {
		t.Fatalf("process: %v %d", err, n)
	}
	if _, ok := f.mirror.events[eventID]; ok {
		t.Fatalf("event %q survived replayed delete", eventID)
	}
}
