package notifying

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/traffic-budget-api/infrastructure/repository"
	"github.com/vfg2006/traffic-budget-api/internal/domain"
	"github.com/vfg2006/traffic-budget-api/internal/metrics"
	"github.com/vfg2006/traffic-budget-api/pkg/log"
	"github.com/vfg2006/traffic-budget-api/pkg/utils"
)

const (
	reminderStartHour = 9
	reminderEndHour   = 10
)

type Notifier interface {
	MaybeNotify(ctx context.Context, client domain.Client, prediction domain.PredictionResult, existingLog []domain.NotificationLog, calendarAvailable bool, now time.Time) *domain.NotificationLog
	NotifyCritical(ctx context.Context, clients []domain.Client, predictions []domain.PredictionResult, calendarAvailable bool, now time.Time) ([]domain.NotificationLog, error)
}

type Dispatcher struct {
	calendar      Calendar
	logRepository repository.NotificationLogRepository
	location      *time.Location

	mu      sync.Mutex
	unsaved []domain.NotificationLog // lembretes do dia cuja gravação falhou
}

func NewDispatcher(calendar Calendar, logRepository repository.NotificationLogRepository, location *time.Location) *Dispatcher {
	if location == nil {
		location = time.Local
	}

	return &Dispatcher{
		calendar:      calendar,
		logRepository: logRepository,
		location:      location,
	}
}

// MaybeNotify decide se um cliente crítico recebe lembrete hoje.
// Retorna nil quando o cliente não é crítico ou já possui registro no dia.
func (d *Dispatcher) MaybeNotify(
	ctx context.Context,
	client domain.Client,
	prediction domain.PredictionResult,
	existingLog []domain.NotificationLog,
	calendarAvailable bool,
	now time.Time,
) *domain.NotificationLog {
	if prediction.Status != domain.HealthStatusCritical {
		return nil
	}

	if d.alreadyNotified(client.ID, existingLog, now) {
		return nil
	}

	entry := &domain.NotificationLog{
		ID:         d.newID(),
		ClientID:   client.ID,
		ClientName: client.Company,
		Type:       domain.NotificationTypeCalendar,
		Timestamp:  now,
		Status:     domain.NotificationStatusSent,
	}

	summary := fmt.Sprintf("REPOR ORÇAMENTO: %s", client.Company)

	switch {
	case !calendarAvailable || d.calendar == nil:
		entry.Message = fmt.Sprintf(`Alerta (Calendar Desconectado): "%s" seria agendado para amanhã.`, summary)

	default:
		err := d.calendar.CreateEvent(ctx, d.reminderEvent(client, prediction, summary, now))
		if err != nil {
			calendarErr := NewCalendarError(client.ID, err)
			log.FromContext(ctx).WithFields(logrus.Fields{
				"client_id": client.ID,
				"company":   client.Company,
				"error":     calendarErr,
			}).Warn("Falha ao criar lembrete na agenda")

			entry.Status = domain.NotificationStatusFailed
			entry.Message = fmt.Sprintf("Falha ao criar evento no Calendar para %s.", client.Company)
			break
		}

		entry.Message = fmt.Sprintf(`Evento Adicionado: "%s" agendado para amanhã.`, summary)
	}

	metrics.Notification(entry.Status)

	return entry
}

// NotifyCritical percorre as previsões e grava no máximo um lembrete por cliente por dia
func (d *Dispatcher) NotifyCritical(
	ctx context.Context,
	clients []domain.Client,
	predictions []domain.PredictionResult,
	calendarAvailable bool,
	now time.Time,
) ([]domain.NotificationLog, error) {
	if !hasCritical(predictions) {
		return nil, nil
	}

	todayLog, err := d.logRepository.ListSince(ctx, utils.StartOfDay(now, d.location))
	if err != nil {
		log.FromContext(ctx).WithError(err).Error("Erro ao carregar lembretes do dia")
		return nil, fmt.Errorf("%w: %v", ErrLoadNotifications, err)
	}

	todayLog = append(todayLog, d.retryUnsaved(ctx, todayLog, now)...)

	byClient := make(map[string]domain.PredictionResult, len(predictions))
	for _, p := range predictions {
		byClient[p.ClientID] = p
	}

	created := make([]domain.NotificationLog, 0)
	var errs []error

	for _, client := range clients {
		prediction, ok := byClient[client.ID]
		if !ok {
			continue
		}

		entry := d.MaybeNotify(ctx, client, prediction, todayLog, calendarAvailable, now)
		if entry == nil {
			continue
		}

		// O registro entra no log da rodada mesmo se a gravação falhar, para não repetir a chamada à agenda
		todayLog = append(todayLog, *entry)
		created = append(created, *entry)

		if err := d.logRepository.Create(ctx, entry); err != nil {
			log.FromContext(ctx).WithFields(logrus.Fields{
				"client_id": client.ID,
				"error":     err,
			}).Error("Erro ao gravar registro de lembrete")
			errs = append(errs, fmt.Errorf("%w: client %s: %v", ErrPersistNotification, client.ID, err))
			d.keepUnsaved(*entry)
			continue
		}

		log.FromContext(ctx).WithFields(logrus.Fields{
			"client_id": client.ID,
			"company":   client.Company,
			"status":    entry.Status,
		}).Info(entry.Message)
	}

	return created, errors.Join(errs...)
}

// retryUnsaved tenta gravar de novo os lembretes do dia que falharam antes e devolve
// todos eles para entrarem no log da rodada. Pendências de dias anteriores são descartadas.
func (d *Dispatcher) retryUnsaved(ctx context.Context, stored []domain.NotificationLog, now time.Time) []domain.NotificationLog {
	d.mu.Lock()
	defer d.mu.Unlock()

	var (
		known   []domain.NotificationLog
		pending []domain.NotificationLog
	)

	for _, entry := range d.unsaved {
		if !utils.IsSameDay(entry.Timestamp, now, d.location) || d.alreadyNotified(entry.ClientID, stored, now) {
			continue
		}

		known = append(known, entry)

		if err := d.logRepository.Create(ctx, &entry); err != nil {
			log.FromContext(ctx).WithFields(logrus.Fields{
				"client_id": entry.ClientID,
				"error":     err,
			}).Warn("Registro de lembrete continua pendente")
			pending = append(pending, entry)
		}
	}

	d.unsaved = pending

	return known
}

func (d *Dispatcher) keepUnsaved(entry domain.NotificationLog) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.unsaved = append(d.unsaved, entry)
}

func hasCritical(predictions []domain.PredictionResult) bool {
	for _, p := range predictions {
		if p.Status == domain.HealthStatusCritical {
			return true
		}
	}
	return false
}

func (d *Dispatcher) alreadyNotified(clientID string, existingLog []domain.NotificationLog, now time.Time) bool {
	for _, entry := range existingLog {
		if entry.ClientID == clientID && utils.IsSameDay(entry.Timestamp, now, d.location) {
			return true
		}
	}
	return false
}

func (d *Dispatcher) reminderEvent(client domain.Client, prediction domain.PredictionResult, summary string, now time.Time) domain.CalendarEvent {
	tomorrow := utils.StartOfDay(now, d.location).AddDate(0, 0, 1)
	y, m, day := tomorrow.Date()

	return domain.CalendarEvent{
		Summary: summary,
		Description: fmt.Sprintf(
			"O saldo atual é %s %s. Previsão de término em %d dias.",
			client.Currency, utils.RoundCurrency(client.CurrentBalance).String(), prediction.DaysRemaining,
		),
		Start:    time.Date(y, m, day, reminderStartHour, 0, 0, 0, d.location),
		End:      time.Date(y, m, day, reminderEndHour, 0, 0, 0, d.location),
		TimeZone: d.location.String(),
	}
}

func (d *Dispatcher) newID() string {
	id, err := utils.GenerateID()
	if err != nil {
		logrus.WithError(err).Warn("Erro ao gerar ID curto, usando UUID")
		return uuid.NewString()
	}
	return id
}
