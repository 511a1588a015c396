package calendar

import (
	"strings"
	"testing"
	"time"

	gcal "google.golang.org/api/calendar/v3"

	"restodash/internal/domain"
)

func setupEnc(t *testing.T) *Encoder {
	t.Helper()
	enc, err := NewEncoder("Europe/Madrid", time.Hour)
	if err != nil {
		t.Fatalf("encoder: %v", err)
	}
	return enc
}

func TestEncode_SummaryAndDescription(t *testing.T) {
	enc := setupEnc(t)
	ev, err := enc.Encode(domain.Reservation{
		ID:           7,
		CustomerName: "Ana",
		Phone:        "555-1234",
		Date:         "2024-06-01",
		Time:         "20:00",
		People:       4,
		TableNumber:  "7",
		Observations: "terraza",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if ev.Summary != "Ana (4 pax) Mesa 7" {
		t.Fatalf("summary %q", ev.Summary)
	}
	for _, line := range []string{"Teléfono: 555-1234", "Personas: 4", "Mesa: 7", "Observaciones: terraza"} {
		if !strings.Contains(ev.Description, line) {
			t.Fatalf("description missing %q: %q", line, ev.Description)
		}
	}
	// июнь в Мадриде — CEST, +02:00
	if ev.Start.DateTime != "2024-06-01T20:00:00+02:00" {
		t.Fatalf("start %q", ev.Start.DateTime)
	}
	if ev.End.DateTime != "2024-06-01T21:00:00+02:00" {
		t.Fatalf("end %q", ev.End.DateTime)
	}
	if ev.Start.TimeZone != "Europe/Madrid" || ev.End.TimeZone != "Europe/Madrid" {
		t.Fatalf("timezone %q / %q", ev.Start.TimeZone, ev.End.TimeZone)
	}
}

func TestEncode_Placeholders(t *testing.T) {
	enc := setupEnc(t)
	ev, err := enc.Encode(domain.Reservation{
		CustomerName: "Luis",
		Date:         "2024-06-01",
		Time:         "13:30",
		People:       2,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if ev.Summary != "Luis (2 pax) Mesa S/N" {
		t.Fatalf("summary %q", ev.Summary)
	}
	for _, line := range []string{"Teléfono: No especificado", "Mesa: Sin asignar", "Observaciones: Ninguna"} {
		if !strings.Contains(ev.Description, line) {
			t.Fatalf("description missing %q: %q", line, ev.Description)
		}
	}
}

func TestEncode_Reminders(t *testing.T) {
	enc := setupEnc(t)
	ev, err := enc.Encode(domain.Reservation{CustomerName: "Ana", Date: "2024-06-01", Time: "20:00", People: 1})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	r := ev.Reminders
	if r == nil || r.UseDefault {
		t.Fatalf("expected custom reminders")
	}
	if len(r.Overrides) != 2 {
		t.Fatalf("overrides %d", len(r.Overrides))
	}
	if r.Overrides[0].Method != "email" || r.Overrides[0].Minutes != 24*60 {
		t.Fatalf("email override %+v", r.Overrides[0])
	}
	if r.Overrides[1].Method != "popup" || r.Overrides[1].Minutes != 30 {
		t.Fatalf("popup override %+v", r.Overrides[1])
	}
}

func TestEncode_InvalidDate(t *testing.T) {
	enc := setupEnc(t)
	if _, err := enc.Encode(domain.Reservation{CustomerName: "X", Date: "01/06/2024", Time: "20:00", People: 2}); err == nil {
		t.Fatalf("expected error on bad date")
	}
	if _, err := enc.Encode(domain.Reservation{CustomerName: "X", Date: "2024-06-01", Time: "8pm", People: 2}); err == nil {
		t.Fatalf("expected error on bad time")
	}
}

func TestDecode_RoundTrip(t *testing.T) {
	enc := setupEnc(t)
	ev, err := enc.Encode(domain.Reservation{
		ID:           12,
		CustomerName: "Ana",
		Phone:        "555-1234",
		Date:         "2024-06-01",
		Time:         "20:00",
		People:       4,
		TableNumber:  "7",
		Observations: "terraza",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ev.Id = "abc123"
	got := Decode(ev)
	if got.CustomerName != "Ana" || got.Phone != "555-1234" || got.People != 4 || got.Table != "7" || got.Observations != "terraza" {
		t.Fatalf("decoded %+v", got)
	}
	if got.Start != "2024-06-01T20:00:00+02:00" {
		t.Fatalf("start %q", got.Start)
	}
}

func TestDecode_FreeText(t *testing.T) {
	got := Decode(&gcal.Event{
		Id:          "legacy1",
		Summary:     "Ana García (4 pax) Mesa 7",
		Description: "Teléfono: 555-1234\nPersonas: 4\nMesa: 7\nObservaciones: sin gluten",
	})
	if got.CustomerName != "Ana García" {
		t.Fatalf("name %q", got.CustomerName)
	}
	if got.People != 4 {
		t.Fatalf("people %d", got.People)
	}
	if got.Table != "7" {
		t.Fatalf("table %q", got.Table)
	}
	if got.Phone != "555-1234" {
		t.Fatalf("phone %q", got.Phone)
	}
	if got.Observations != "sin gluten" {
		t.Fatalf("observations %q", got.Observations)
	}
}

func TestDecode_FreeTextDefaults(t *testing.T) {
	got := Decode(&gcal.Event{Summary: "Cumpleaños de Marta"})
	if got.CustomerName != "Cumpleaños de Marta" {
		t.Fatalf("name %q", got.CustomerName)
	}
	if got.People != 1 {
		t.Fatalf("people default %d", got.People)
	}
	if got.Table != "N/A" {
		t.Fatalf("table default %q", got.Table)
	}
	// без метки "Teléfono:" телефон пустой, описание не подставляется
	if got.Phone != "" {
		t.Fatalf("phone %q", got.Phone)
	}
}

func TestDecode_FreeTextVariants(t *testing.T) {
	// "personas" вместо "pax", стол только в описании, телефон без акцента
	got := Decode(&gcal.Event{
		Summary:     "Reserva Pérez (6 personas)",
		Description: "Telefono: 611 22 33 44\nMesa: S/N",
	})
	if got.People != 6 {
		t.Fatalf("people %d", got.People)
	}
	if got.Table != "S/N" {
		t.Fatalf("table %q", got.Table)
	}
	if got.Phone != "611 22 33 44" {
		t.Fatalf("phone %q", got.Phone)
	}
	if got.CustomerName != "Reserva Pérez" {
		t.Fatalf("name %q", got.CustomerName)
	}
}

func TestDecode_PlaceholdersNormalized(t *testing.T) {
	got := Decode(&gcal.Event{
		Summary:     "Luis (2 pax) Mesa S/N",
		Description: "Teléfono: No especificado\nPersonas: 2\nMesa: Sin asignar\nObservaciones: Ninguna",
	})
	if got.Phone != "" {
		t.Fatalf("placeholder phone leaked: %q", got.Phone)
	}
	if got.Observations != "" {
		t.Fatalf("placeholder observations leaked: %q", got.Observations)
	}
	if got.Table != "S/N" {
		t.Fatalf("table %q", got.Table)
	}
}

func TestDecode_AllDayEvent(t *testing.T) {
	got := Decode(&gcal.Event{
		Summary: "Cierre por vacaciones",
		Start:   &gcal.EventDateTime{Date: "2024-08-01"},
		End:     &gcal.EventDateTime{Date: "2024-08-15"},
	})
	if got.Start != "2024-08-01" || got.End != "2024-08-15" {
		t.Fatalf("all-day window %q .. %q", got.Start, got.End)
	}
}
