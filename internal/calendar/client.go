package calendar

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"restodash/internal/config"
)

// Client адаптер Google Calendar API v3. Токен сервисного аккаунта
// кэширует и обновляет oauth2 TokenSource, повторный refresh из
// конкурентных запросов исключён его внутренней блокировкой.
type Client struct {
	svc        *gcal.Service
	calendarID string
}

func NewClient(ctx context.Context, cfg config.CalendarConfig) (*Client, error) {
	if cfg.CalendarID == "" {
		return nil, errors.New("calendar id is not configured")
	}
	jwtCfg, err := jwtConfig(cfg)
	if err != nil {
		return nil, err
	}
	svc, err := gcal.NewService(ctx, option.WithTokenSource(jwtCfg.TokenSource(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	return &Client{svc: svc, calendarID: cfg.CalendarID}, nil
}

func jwtConfig(cfg config.CalendarConfig) (*jwt.Config, error) {
	if cfg.KeyPath != "" {
		data, err := os.ReadFile(cfg.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("read service account key: %w", err)
		}
		c, err := google.JWTConfigFromJSON(data, gcal.CalendarScope)
		if err != nil {
			return nil, fmt.Errorf("parse service account key: %w", err)
		}
		return c, nil
	}
	if cfg.Email == "" || cfg.PrivateKey == "" {
		return nil, errors.New("service account credentials are not configured")
	}
	// переменные окружения обычно несут ключ с литеральными \n
	key := strings.ReplaceAll(cfg.PrivateKey, `\n`, "\n")
	return &jwt.Config{
		Email:      cfg.Email,
		PrivateKey: []byte(key),
		Scopes:     []string{gcal.CalendarScope},
		TokenURL:   google.JWTTokenURL,
	}, nil
}

func (c *Client) CreateEvent(ctx context.Context, ev *gcal.Event) (*gcal.Event, error) {
	created, err := c.svc.Events.Insert(c.calendarID, ev).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return created, nil
}

func (c *Client) UpdateEvent(ctx context.Context, eventID string, ev *gcal.Event) (*gcal.Event, error) {
	updated, err := c.svc.Events.Update(c.calendarID, eventID, ev).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("update event %s: %w", eventID, err)
	}
	return updated, nil
}

func (c *Client) GetEvent(ctx context.Context, eventID string) (*gcal.Event, error) {
	ev, err := c.svc.Events.Get(c.calendarID, eventID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get event %s: %w", eventID, err)
	}
	return ev, nil
}

// DeleteEvent удаляет событие; уже отсутствующее считается удалённым
func (c *Client) DeleteEvent(ctx context.Context, eventID string) error {
	err := c.svc.Events.Delete(c.calendarID, eventID).Context(ctx).Do()
	if err != nil && !isGone(err) {
		return fmt.Errorf("delete event %s: %w", eventID, err)
	}
	return nil
}

// ListEvents отдаёт одиночные события окна [from, to) по возрастанию начала
func (c *Client) ListEvents(ctx context.Context, from, to time.Time) ([]*gcal.Event, error) {
	res, err := c.svc.Events.List(c.calendarID).
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return res.Items, nil
}

func isGone(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == 404 || gerr.Code == 410
	}
	return false
}
