package notifying

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	repomocks "github.com/vfg2006/traffic-budget-api/infrastructure/repository/mocks"
	"github.com/vfg2006/traffic-budget-api/internal/domain"
	"github.com/vfg2006/traffic-budget-api/internal/usecases/notifying/mocks"
	"go.uber.org/mock/gomock"
)

var saoPaulo = time.FixedZone("BRT", -3*60*60)

func criticalClient() (domain.Client, domain.PredictionResult) {
	client := domain.Client{
		ID:             "c3",
		Name:           "Líder Social",
		Company:        "Varejo Moderno",
		Platform:       domain.PlatformTikTokAds,
		CurrentBalance: decimal.NewFromInt(50),
		DailySpend:     decimal.NewFromInt(45),
		Currency:       "BRL",
	}

	return client, domain.PredictionResult{
		ClientID:      client.ID,
		DaysRemaining: 1,
		Status:        domain.HealthStatusCritical,
	}
}

func TestDispatcher_MaybeNotify(t *testing.T) {
	now := time.Date(2024, 3, 10, 15, 30, 0, 0, saoPaulo)
	client, prediction := criticalClient()

	tests := []struct {
		name              string
		prediction        domain.PredictionResult
		existingLog       []domain.NotificationLog
		calendarAvailable bool
		setup             func(calendar *mocks.MockCalendar)
		expectNil         bool
		expectedStatus    domain.NotificationStatus
		expectedMessage   string
	}{
		{
			name:              "Agenda disponível - evento criado",
			prediction:        prediction,
			calendarAvailable: true,
			setup: func(calendar *mocks.MockCalendar) {
				calendar.EXPECT().
					CreateEvent(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, event domain.CalendarEvent) error {
						assert.Equal(t, "REPOR ORÇAMENTO: Varejo Moderno", event.Summary)
						assert.Equal(t, "O saldo atual é BRL 50. Previsão de término em 1 dias.", event.Description)
						assert.Equal(t, time.Date(2024, 3, 11, 9, 0, 0, 0, saoPaulo), event.Start)
						assert.Equal(t, time.Date(2024, 3, 11, 10, 0, 0, 0, saoPaulo), event.End)
						return nil
					})
			},
			expectedStatus:  domain.NotificationStatusSent,
			expectedMessage: `Evento Adicionado: "REPOR ORÇAMENTO: Varejo Moderno" agendado para amanhã.`,
		},
		{
			name:              "Agenda recusa o evento - registro FAILED",
			prediction:        prediction,
			calendarAvailable: true,
			setup: func(calendar *mocks.MockCalendar) {
				calendar.EXPECT().
					CreateEvent(gomock.Any(), gomock.Any()).
					Return(errors.New("403 insufficient permissions"))
			},
			expectedStatus:  domain.NotificationStatusFailed,
			expectedMessage: "Falha ao criar evento no Calendar para Varejo Moderno.",
		},
		{
			name:              "Agenda desconectada - registro SENT de aviso",
			prediction:        prediction,
			calendarAvailable: false,
			setup:             func(calendar *mocks.MockCalendar) {},
			expectedStatus:    domain.NotificationStatusSent,
			expectedMessage:   `Alerta (Calendar Desconectado): "REPOR ORÇAMENTO: Varejo Moderno" seria agendado para amanhã.`,
		},
		{
			name: "Cliente não crítico - nada a fazer",
			prediction: domain.PredictionResult{
				ClientID: client.ID,
				Status:   domain.HealthStatusWarning,
			},
			calendarAvailable: true,
			setup:             func(calendar *mocks.MockCalendar) {},
			expectNil:         true,
		},
		{
			name:       "Já notificado hoje - sem nova tentativa",
			prediction: prediction,
			existingLog: []domain.NotificationLog{
				{ClientID: client.ID, Timestamp: time.Date(2024, 3, 10, 0, 10, 0, 0, saoPaulo), Status: domain.NotificationStatusFailed},
			},
			calendarAvailable: true,
			setup:             func(calendar *mocks.MockCalendar) {},
			expectNil:         true,
		},
		{
			name:       "Notificado ontem - novo dia libera o lembrete",
			prediction: prediction,
			existingLog: []domain.NotificationLog{
				{ClientID: client.ID, Timestamp: time.Date(2024, 3, 9, 23, 50, 0, 0, saoPaulo), Status: domain.NotificationStatusSent},
			},
			calendarAvailable: false,
			setup:             func(calendar *mocks.MockCalendar) {},
			expectedStatus:    domain.NotificationStatusSent,
			expectedMessage:   `Alerta (Calendar Desconectado): "REPOR ORÇAMENTO: Varejo Moderno" seria agendado para amanhã.`,
		},
		{
			name:       "Registro de outro cliente não bloqueia",
			prediction: prediction,
			existingLog: []domain.NotificationLog{
				{ClientID: "outro", Timestamp: now, Status: domain.NotificationStatusSent},
			},
			calendarAvailable: false,
			setup:             func(calendar *mocks.MockCalendar) {},
			expectedStatus:    domain.NotificationStatusSent,
			expectedMessage:   `Alerta (Calendar Desconectado): "REPOR ORÇAMENTO: Varejo Moderno" seria agendado para amanhã.`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			calendar := mocks.NewMockCalendar(ctrl)
			tt.setup(calendar)

			dispatcher := NewDispatcher(calendar, nil, saoPaulo)
			entry := dispatcher.MaybeNotify(context.Background(), client, tt.prediction, tt.existingLog, tt.calendarAvailable, now)

			if tt.expectNil {
				assert.Nil(t, entry)
				return
			}

			require.NotNil(t, entry)
			assert.NotEmpty(t, entry.ID)
			assert.Equal(t, client.ID, entry.ClientID)
			assert.Equal(t, "Varejo Moderno", entry.ClientName)
			assert.Equal(t, domain.NotificationTypeCalendar, entry.Type)
			assert.Equal(t, now, entry.Timestamp)
			assert.Equal(t, tt.expectedStatus, entry.Status)
			assert.Equal(t, tt.expectedMessage, entry.Message)
		})
	}
}

func TestDispatcher_NotifyCritical_DedupsWithinAPass(t *testing.T) {
	ctrl := gomock.NewController(t)
	calendar := mocks.NewMockCalendar(ctrl)
	logRepo := repomocks.NewMockNotificationLogRepository(ctrl)

	now := time.Date(2024, 3, 10, 15, 30, 0, 0, saoPaulo)
	client, prediction := criticalClient()

	logRepo.EXPECT().
		ListSince(gomock.Any(), time.Date(2024, 3, 10, 0, 0, 0, 0, saoPaulo)).
		Return([]domain.NotificationLog{}, nil)
	calendar.EXPECT().CreateEvent(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	logRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	dispatcher := NewDispatcher(calendar, logRepo, saoPaulo)

	// O mesmo cliente aparece duas vezes na rodada
	created, err := dispatcher.NotifyCritical(
		context.Background(),
		[]domain.Client{client, client},
		[]domain.PredictionResult{prediction},
		true,
		now,
	)

	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, domain.NotificationStatusSent, created[0].Status)
}

func TestDispatcher_NotifyCritical_RespectsStoredLog(t *testing.T) {
	ctrl := gomock.NewController(t)
	calendar := mocks.NewMockCalendar(ctrl)
	logRepo := repomocks.NewMockNotificationLogRepository(ctrl)

	now := time.Date(2024, 3, 10, 15, 30, 0, 0, saoPaulo)
	client, prediction := criticalClient()

	logRepo.EXPECT().
		ListSince(gomock.Any(), gomock.Any()).
		Return([]domain.NotificationLog{{ClientID: client.ID, Timestamp: now.Add(-time.Hour)}}, nil)

	created, err := NewDispatcher(calendar, logRepo, saoPaulo).
		NotifyCritical(context.Background(), []domain.Client{client}, []domain.PredictionResult{prediction}, true, now)

	require.NoError(t, err)
	assert.Empty(t, created)
}

func TestDispatcher_NotifyCritical_LogUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	calendar := mocks.NewMockCalendar(ctrl)
	logRepo := repomocks.NewMockNotificationLogRepository(ctrl)

	client, prediction := criticalClient()

	logRepo.EXPECT().ListSince(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

	created, err := NewDispatcher(calendar, logRepo, saoPaulo).
		NotifyCritical(context.Background(), []domain.Client{client}, []domain.PredictionResult{prediction}, true, time.Now())

	assert.ErrorIs(t, err, ErrLoadNotifications)
	assert.Nil(t, created)
}

func TestDispatcher_NotifyCritical_PersistFailureIsReported(t *testing.T) {
	ctrl := gomock.NewController(t)
	calendar := mocks.NewMockCalendar(ctrl)
	logRepo := repomocks.NewMockNotificationLogRepository(ctrl)

	client, prediction := criticalClient()

	logRepo.EXPECT().ListSince(gomock.Any(), gomock.Any()).Return(nil, nil)
	logRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("insert failed"))

	created, err := NewDispatcher(calendar, logRepo, saoPaulo).
		NotifyCritical(context.Background(), []domain.Client{client}, []domain.PredictionResult{prediction}, false, time.Now())

	assert.ErrorIs(t, err, ErrPersistNotification)
	assert.Len(t, created, 1)
}

func TestDispatcher_NotifyCritical_NoCriticalSkipsStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	calendar := mocks.NewMockCalendar(ctrl)
	logRepo := repomocks.NewMockNotificationLogRepository(ctrl)

	client, _ := criticalClient()
	healthy := domain.PredictionResult{ClientID: client.ID, DaysRemaining: 20, Status: domain.HealthStatusHealthy}

	created, err := NewDispatcher(calendar, logRepo, saoPaulo).
		NotifyCritical(context.Background(), []domain.Client{client}, []domain.PredictionResult{healthy}, true, time.Now())

	assert.NoError(t, err)
	assert.Empty(t, created)
}

func TestDispatcher_NotifyCritical_UnsavedEntryStillDedups(t *testing.T) {
	now := time.Date(2024, 3, 10, 15, 30, 0, 0, saoPaulo)
	client, prediction := criticalClient()
	clients := []domain.Client{client}
	predictions := []domain.PredictionResult{prediction}

	t.Run("nova rodada no mesmo dia não repete o evento e regrava o registro", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		calendar := mocks.NewMockCalendar(ctrl)
		logRepo := repomocks.NewMockNotificationLogRepository(ctrl)
		dispatcher := NewDispatcher(calendar, logRepo, saoPaulo)

		gomock.InOrder(
			logRepo.EXPECT().ListSince(gomock.Any(), gomock.Any()).Return(nil, nil),
			calendar.EXPECT().CreateEvent(gomock.Any(), gomock.Any()).Return(nil),
			logRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("insert failed")),
		)

		_, err := dispatcher.NotifyCritical(context.Background(), clients, predictions, true, now)
		require.ErrorIs(t, err, ErrPersistNotification)

		gomock.InOrder(
			logRepo.EXPECT().ListSince(gomock.Any(), gomock.Any()).Return(nil, nil),
			logRepo.EXPECT().
				Create(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, entry *domain.NotificationLog) error {
					assert.Equal(t, client.ID, entry.ClientID)
					return nil
				}),
		)

		created, err := dispatcher.NotifyCritical(context.Background(), clients, predictions, true, now.Add(time.Hour))

		require.NoError(t, err)
		assert.Empty(t, created)
		assert.Empty(t, dispatcher.unsaved)
	})

	t.Run("pendência de outro dia é descartada", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		calendar := mocks.NewMockCalendar(ctrl)
		logRepo := repomocks.NewMockNotificationLogRepository(ctrl)
		dispatcher := NewDispatcher(calendar, logRepo, saoPaulo)
		dispatcher.unsaved = []domain.NotificationLog{{ClientID: client.ID, Timestamp: now.AddDate(0, 0, -1)}}

		logRepo.EXPECT().ListSince(gomock.Any(), gomock.Any()).Return(nil, nil)
		calendar.EXPECT().CreateEvent(gomock.Any(), gomock.Any()).Return(nil)
		logRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		created, err := dispatcher.NotifyCritical(context.Background(), clients, predictions, true, now)

		require.NoError(t, err)
		assert.Len(t, created, 1)
		assert.Empty(t, dispatcher.unsaved)
	})
}
