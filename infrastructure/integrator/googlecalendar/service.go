package googlecalendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/traffic-budget-api/internal/config"
	"github.com/vfg2006/traffic-budget-api/internal/domain"
	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

var ErrNotConfigured = errors.New("google calendar not configured")

var calendarScopes = []string{
	calendar.CalendarEventsScope,
}

// CalendarIntegrator cria lembretes na agenda configurada
type CalendarIntegrator struct {
	calendarID string
	service    *calendar.Service
}

// New cria o integrador. Sem credenciais o integrador fica indisponível, sem erro.
func New(ctx context.Context, cfg config.Google) (*CalendarIntegrator, error) {
	if !cfg.IsConfigured() {
		logrus.Warn("Google Calendar não configurado. Lembretes serão apenas registrados no log")
		return &CalendarIntegrator{calendarID: cfg.CalendarID}, nil
	}

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Scopes:       calendarScopes,
		Endpoint:     googleoauth.Endpoint,
	}
	httpClient := oauthCfg.Client(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})

	svc, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("erro ao criar cliente do Google Calendar: %w", err)
	}

	return NewWithService(cfg.CalendarID, svc), nil
}

func NewWithService(calendarID string, svc *calendar.Service) *CalendarIntegrator {
	if calendarID == "" {
		calendarID = "primary"
	}

	return &CalendarIntegrator{
		calendarID: calendarID,
		service:    svc,
	}
}

func (c *CalendarIntegrator) Available() bool {
	return c != nil && c.service != nil
}

func (c *CalendarIntegrator) CreateEvent(ctx context.Context, event domain.CalendarEvent) error {
	if !c.Available() {
		return ErrNotConfigured
	}

	created, err := c.service.Events.Insert(c.calendarID, &calendar.Event{
		Summary:     event.Summary,
		Description: event.Description,
		Start:       &calendar.EventDateTime{DateTime: event.Start.Format(time.RFC3339), TimeZone: event.TimeZone},
		End:         &calendar.EventDateTime{DateTime: event.End.Format(time.RFC3339), TimeZone: event.TimeZone},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("erro ao criar evento no calendário: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"event_id": created.Id,
		"summary":  created.Summary,
	}).Debug("calendar: evento criado")

	return nil
}
