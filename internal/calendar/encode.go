package calendar

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	gcal "google.golang.org/api/calendar/v3"

	"restodash/internal/domain"
)

// Текстовые заполнители опциональных полей в summary/description.
// Формат совместим с уже существующими событиями в календаре.
const (
	noTable      = "S/N"
	noTableLong  = "Sin asignar"
	noPhone      = "No especificado"
	noObs        = "Ninguna"
	unknownTable = "N/A"
)

// Encoder строит событие календаря из брони. Все даты кодируются в явной
// IANA-зоне, без нормализации в UTC.
type Encoder struct {
	timezone string
	loc      *time.Location
	duration time.Duration
}

func NewEncoder(timezone string, duration time.Duration) (*Encoder, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	if duration <= 0 {
		duration = time.Hour
	}
	return &Encoder{timezone: timezone, loc: loc, duration: duration}, nil
}

// Encode кодирует бронь в событие: структурные поля дублируются в
// extended properties, summary/description остаются человекочитаемыми.
func (e *Encoder) Encode(r domain.Reservation) (*gcal.Event, error) {
	start, err := time.ParseInLocation("2006-01-02T15:04", r.Date+"T"+r.Time, e.loc)
	if err != nil {
		return nil, fmt.Errorf("invalid date/time %q T %q: %w", r.Date, r.Time, err)
	}
	end := start.Add(e.duration)

	table := r.TableNumber
	if table == "" {
		table = noTable
	}

	ev := &gcal.Event{
		Summary:     fmt.Sprintf("%s (%d pax) Mesa %s", r.CustomerName, r.People, table),
		Description: e.description(r),
		Start: &gcal.EventDateTime{
			DateTime: start.Format(time.RFC3339),
			TimeZone: e.timezone,
		},
		End: &gcal.EventDateTime{
			DateTime: end.Format(time.RFC3339),
			TimeZone: e.timezone,
		},
		Reminders: &gcal.EventReminders{
			UseDefault: false,
			Overrides: []*gcal.EventReminder{
				{Method: "email", Minutes: 24 * 60},
				{Method: "popup", Minutes: 30},
			},
			ForceSendFields: []string{"UseDefault"},
		},
		ExtendedProperties: &gcal.EventExtendedProperties{
			Private: map[string]string{
				"customer_name":  r.CustomerName,
				"phone":          r.Phone,
				"people":         strconv.FormatInt(r.People, 10),
				"table":          r.TableNumber,
				"observations":   r.Observations,
				"reservation_id": strconv.FormatInt(r.ID, 10),
			},
		},
	}
	return ev, nil
}

func (e *Encoder) description(r domain.Reservation) string {
	phone := r.Phone
	if phone == "" {
		phone = noPhone
	}
	table := r.TableNumber
	if table == "" {
		table = noTableLong
	}
	obs := r.Observations
	if obs == "" {
		obs = noObs
	}
	return strings.Join([]string{
		"Teléfono: " + phone,
		"Personas: " + strconv.FormatInt(r.People, 10),
		"Mesa: " + table,
		"Observaciones: " + obs,
	}, "\n")
}

var (
	rePeopleTitle = regexp.MustCompile(`(?i)\((\d+)\s*(?:pax|personas?)\)`)
	rePeopleDesc  = regexp.MustCompile(`(?i)Personas:\s*(\d+)`)
	reTable       = regexp.MustCompile(`(?i)Mesa[:\s]*(\d+|S/N)`)
	rePhone       = regexp.MustCompile(`(?i)Tel[ée]fono:\s*([^\n]+)`)
	reObs         = regexp.MustCompile(`(?i)Observaciones:\s*([^\n]+)`)
	reSpaces      = regexp.MustCompile(`\s+`)
)

// Decode восстанавливает поля брони из события. Сначала extended
// properties, затем разбор свободного текста для событий, созданных до
// появления структурных метаданных.
func Decode(ev *gcal.Event) domain.Event {
	out := domain.Event{
		ID:          ev.Id,
		Title:       ev.Summary,
		Description: ev.Description,
		Location:    ev.Location,
		Status:      ev.Status,
		HTMLLink:    ev.HtmlLink,
		People:      1,
		Table:       unknownTable,
	}
	if ev.Start != nil {
		out.Start = firstNonEmpty(ev.Start.DateTime, ev.Start.Date)
	}
	if ev.End != nil {
		out.End = firstNonEmpty(ev.End.DateTime, ev.End.Date)
	}

	if p := ev.ExtendedProperties; p != nil && p.Private["customer_name"] != "" {
		out.CustomerName = p.Private["customer_name"]
		out.Phone = p.Private["phone"]
		if n, err := strconv.ParseInt(p.Private["people"], 10, 64); err == nil && n > 0 {
			out.People = n
		}
		if t := p.Private["table"]; t != "" {
			out.Table = t
		}
		out.Observations = p.Private["observations"]
		return out
	}

	decodeFreeText(ev, &out)
	return out
}

func decodeFreeText(ev *gcal.Event, out *domain.Event) {
	title := ev.Summary
	desc := ev.Description

	if m := rePeopleTitle.FindStringSubmatch(title); m != nil {
		out.People = mustInt(m[1], 1)
	} else if m := rePeopleDesc.FindStringSubmatch(desc); m != nil {
		out.People = mustInt(m[1], 1)
	}

	if m := reTable.FindStringSubmatch(desc); m != nil {
		out.Table = m[1]
	} else if m := reTable.FindStringSubmatch(title); m != nil {
		out.Table = m[1]
	}

	// Нет метки "Teléfono:" — телефон остаётся пустым. Исходный фронтенд
	// в этом случае подставлял всё описание целиком, что считается багом.
	if m := rePhone.FindStringSubmatch(desc); m != nil {
		if v := strings.TrimSpace(m[1]); v != noPhone {
			out.Phone = v
		}
	}

	if m := reObs.FindStringSubmatch(desc); m != nil {
		if v := strings.TrimSpace(m[1]); v != noObs {
			out.Observations = v
		}
	}

	name := rePeopleTitle.ReplaceAllString(title, "")
	name = reTable.ReplaceAllString(name, "")
	out.CustomerName = strings.TrimSpace(reSpaces.ReplaceAllString(name, " "))
}

func mustInt(s string, def int64) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
