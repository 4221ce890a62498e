package googlecalendar

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/traffic-budget-api/internal/config"
	"github.com/vfg2006/traffic-budget-api/internal/domain"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

func newTestIntegrator(t *testing.T, handler http.HandlerFunc) *CalendarIntegrator {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc, err := calendar.NewService(context.Background(),
		option.WithHTTPClient(server.Client()),
		option.WithEndpoint(server.URL+"/"),
	)
	require.NoError(t, err)

	return NewWithService("agenda@example.com", svc)
}

func TestCalendarIntegrator_CreateEvent(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)
	start := time.Date(2024, 3, 11, 9, 0, 0, 0, loc)

	var received calendar.Event
	integrator := newTestIntegrator(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/calendars/agenda@example.com/events", r.URL.Path)

		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, jsoniter.Unmarshal(body, &received))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"evt-1","summary":"REPOR ORÇAMENTO: Varejo Moderno"}`))
	})

	err = integrator.CreateEvent(context.Background(), domain.CalendarEvent{
		Summary:     "REPOR ORÇAMENTO: Varejo Moderno",
		Description: "O saldo atual é BRL 50. Previsão de término em 1 dias.",
		Start:       start,
		End:         start.Add(time.Hour),
		TimeZone:    "America/Sao_Paulo",
	})

	require.NoError(t, err)
	assert.True(t, integrator.Available())
	assert.Equal(t, "REPOR ORÇAMENTO: Varejo Moderno", received.Summary)
	assert.Equal(t, "2024-03-11T09:00:00-03:00", received.Start.DateTime)
	assert.Equal(t, "2024-03-11T10:00:00-03:00", received.End.DateTime)
	assert.Equal(t, "America/Sao_Paulo", received.Start.TimeZone)
}

func TestCalendarIntegrator_CreateEvent_APIError(t *testing.T) {
	integrator := newTestIntegrator(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"insufficient permissions"}}`))
	})

	err := integrator.CreateEvent(context.Background(), domain.CalendarEvent{Start: time.Now(), End: time.Now()})

	assert.Error(t, err)
}

func TestCalendarIntegrator_NotConfigured(t *testing.T) {
	integrator, err := New(context.Background(), config.Google{CalendarID: "primary"})
	require.NoError(t, err)

	assert.False(t, integrator.Available())
	assert.ErrorIs(t, integrator.CreateEvent(context.Background(), domain.CalendarEvent{}), ErrNotConfigured)
}
