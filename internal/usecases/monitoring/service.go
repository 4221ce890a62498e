package monitoring

//go:generate mockgen -source=service.go -destination=mocks/service.go -package=mocks

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/traffic-budget-api/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/traffic-budget-api/infrastructure/repository"
	"github.com/vfg2006/traffic-budget-api/internal/domain"
	"github.com/vfg2006/traffic-budget-api/internal/metrics"
	"github.com/vfg2006/traffic-budget-api/internal/usecases/forecasting"
	"github.com/vfg2006/traffic-budget-api/internal/usecases/insighting"
	"github.com/vfg2006/traffic-budget-api/internal/usecases/notifying"
	"github.com/vfg2006/traffic-budget-api/internal/usecases/settling"
	"github.com/vfg2006/traffic-budget-api/internal/usecases/syncing"
	"github.com/vfg2006/traffic-budget-api/pkg/apiErrors"
	"github.com/vfg2006/traffic-budget-api/pkg/log"
	"github.com/vfg2006/traffic-budget-api/pkg/utils"
)

const defaultNotificationLimit = 50

type Monitor interface {
	Load(ctx context.Context) (*domain.Snapshot, error)
	Snapshot() domain.Snapshot
	AddClient(ctx context.Context, request *domain.NewClientRequest) (*domain.Client, error)
	UpdateBalance(ctx context.Context, clientID string, balance decimal.Decimal) (*domain.Client, error)
	LinkMetaAccount(ctx context.Context, clientID, accountID string, credentials domain.MetaCredentials) (*domain.Client, error)
	SyncMeta(ctx context.Context, credentials domain.MetaCredentials) (*domain.Snapshot, error)
	ListAdAccounts(ctx context.Context, credentials domain.MetaCredentials) ([]domain.AdAccount, error)
	Notifications(ctx context.Context, limit int) ([]domain.NotificationLog, error)
	Analyze(ctx context.Context) *domain.BudgetInsights
}

// Service mantém o snapshot atual de clientes e previsões.
// Mutações são serializadas por mu; leituras usam o ponteiro atômico e nunca bloqueiam.
type Service struct {
	clientRepository repository.ClientRepository
	logRepository    repository.NotificationLogRepository
	settler          settling.Settler
	notifier         notifying.Notifier
	syncer           syncing.Syncer
	analyzer         insighting.Analyzer
	calendar         notifying.Calendar
	defaultCurrency  string
	clock            func() time.Time

	mu       sync.Mutex
	snapshot atomic.Pointer[domain.Snapshot]
}

func NewService(
	clientRepository repository.ClientRepository,
	logRepository repository.NotificationLogRepository,
	settler settling.Settler,
	notifier notifying.Notifier,
	syncer syncing.Syncer,
	analyzer insighting.Analyzer,
	calendar notifying.Calendar,
	defaultCurrency string,
) *Service {
	if defaultCurrency == "" {
		defaultCurrency = "BRL"
	}

	return &Service{
		clientRepository: clientRepository,
		logRepository:    logRepository,
		settler:          settler,
		notifier:         notifier,
		syncer:           syncer,
		analyzer:         analyzer,
		calendar:         calendar,
		defaultCurrency:  defaultCurrency,
		clock:            time.Now,
	}
}

// WithClock substitui o relógio usado nas liquidações e lembretes
func (s *Service) WithClock(clock func() time.Time) *Service {
	s.clock = clock
	return s
}

// Load relê os clientes do banco, aplica a liquidação diária e recalcula as previsões
func (s *Service) Load(ctx context.Context) (*domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadLocked(ctx)
}

func (s *Service) loadLocked(ctx context.Context) (*domain.Snapshot, error) {
	now := s.clock()

	clients, err := s.clientRepository.List(ctx)
	if err != nil {
		log.FromContext(ctx).WithError(err).Error("Erro ao listar clientes")
		return nil, NewMonitorError(ErrFetchClients, apiErrors.ErrDatabaseOperation, "Falha ao listar clientes no banco de dados")
	}

	settled, err := s.settler.Settle(ctx, clients, now)
	if err != nil {
		// Falhas de liquidação são por cliente e não impedem a publicação
		log.FromContext(ctx).WithError(err).Warn("Liquidação diária concluída com falhas")
	}

	return s.publish(ctx, settled, now), nil
}

// Snapshot retorna a última visão publicada; vazia antes do primeiro Load
func (s *Service) Snapshot() domain.Snapshot {
	current := s.snapshot.Load()
	if current == nil {
		return domain.Snapshot{
			Clients:     []domain.Client{},
			Predictions: []domain.PredictionResult{},
		}
	}
	return *current
}

func (s *Service) AddClient(ctx context.Context, request *domain.NewClientRequest) (*domain.Client, error) {
	if err := validateNewClient(request); err != nil {
		return nil, NewMonitorError(err, apiErrors.ErrInvalidClient, "Dados do cliente inválidos")
	}

	id, err := utils.GenerateID()
	if err != nil {
		return nil, NewMonitorError(ErrGenerateID, apiErrors.ErrInternalServer, "Falha ao gerar identificador único para cliente")
	}

	currency := strings.ToUpper(strings.TrimSpace(request.Currency))
	if currency == "" {
		currency = s.defaultCurrency
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	clients, err := s.currentLocked(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	client := domain.Client{
		ID:             id,
		Name:           strings.TrimSpace(request.Name),
		Company:        strings.TrimSpace(request.Company),
		Platform:       request.Platform,
		CurrentBalance: request.CurrentBalance,
		DailySpend:     request.DailySpend,
		Currency:       currency,
		LastUpdated:    now,
	}

	if err := s.clientRepository.Create(ctx, &client); err != nil {
		log.FromContext(ctx).WithError(err).Error("Erro ao criar cliente")
		return nil, NewMonitorError(ErrCreateClient, apiErrors.ErrDatabaseOperation, "Falha ao salvar cliente no banco de dados")
	}

	log.FromContext(ctx).WithFields(logrus.Fields{
		"client_id": client.ID,
		"company":   client.Company,
		"platform":  client.Platform,
	}).Info("Cliente cadastrado")

	s.publish(ctx, append(clients, client), now)

	return &client, nil
}

// UpdateBalance registra um saldo informado manualmente; o cliente deixa de ser sincronizado
func (s *Service) UpdateBalance(ctx context.Context, clientID string, balance decimal.Decimal) (*domain.Client, error) {
	if clientID == "" {
		return nil, ErrClientIDRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	clients, err := s.currentLocked(ctx)
	if err != nil {
		return nil, err
	}

	clients, idx, err := s.locateLocked(ctx, clients, clientID)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	synced := false
	if err := s.clientRepository.UpdateClient(ctx, &domain.UpdateClientRequest{
		ID:             clientID,
		CurrentBalance: &balance,
		LastUpdated:    &now,
		IsSynced:       &synced,
	}); err != nil {
		log.FromContext(ctx).WithFields(logrus.Fields{
			"client_id": clientID,
			"error":     err,
		}).Error("Erro ao atualizar saldo")

		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewMonitorErrorWithID(ErrClientNotFound, apiErrors.ErrClientNotFound, clientID, "Cliente não encontrado")
		}
		return nil, NewMonitorErrorWithID(ErrUpdateClient, apiErrors.ErrDatabaseOperation, clientID, "Erro ao atualizar saldo no banco de dados")
	}

	updated := clients[idx]
	updated.CurrentBalance = balance
	updated.LastUpdated = now
	updated.IsSynced = false
	clients[idx] = updated

	s.publish(ctx, clients, now)

	return &updated, nil
}

func (s *Service) LinkMetaAccount(ctx context.Context, clientID, accountID string, credentials domain.MetaCredentials) (*domain.Client, error) {
	if clientID == "" {
		return nil, ErrClientIDRequired
	}

	if credentials.IsEmpty() {
		return nil, NewMonitorErrorWithID(ErrMetaNotConnected, apiErrors.ErrMetaNotConnected, clientID, "Conecte a conta do Meta antes de vincular clientes")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	clients, err := s.currentLocked(ctx)
	if err != nil {
		return nil, err
	}

	clients, idx, err := s.locateLocked(ctx, clients, clientID)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	linked, err := s.syncer.LinkAccount(ctx, clients[idx], accountID, credentials, now)
	if err != nil {
		log.FromContext(ctx).WithFields(logrus.Fields{
			"client_id":  clientID,
			"account_id": accountID,
			"error":      err,
		}).Error("Erro ao vincular conta do Meta")

		return nil, s.integrationError(err, clientID)
	}

	clients[idx] = linked
	s.publish(ctx, clients, now)

	return &linked, nil
}

// SyncMeta reconcilia os saldos vinculados; falhas parciais voltam junto com o snapshot publicado
func (s *Service) SyncMeta(ctx context.Context, credentials domain.MetaCredentials) (*domain.Snapshot, error) {
	if credentials.IsEmpty() {
		return nil, NewMonitorError(ErrMetaNotConnected, apiErrors.ErrMetaNotConnected, "Nenhuma conta do Meta conectada")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	clients, err := s.currentLocked(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	now := s.clock()

	synced, syncErr := s.syncer.SyncAll(ctx, clients, credentials, now)
	metrics.BalanceSyncDuration(time.Since(start).Seconds())

	snapshot := s.publish(ctx, synced, now)

	if syncErr != nil {
		if errors.Is(syncErr, metaclient.ErrTokenExpired) {
			return snapshot, NewMonitorError(ErrMetaTokenExpired, apiErrors.ErrExpiredToken, syncErr.Error()).WithCause(syncErr)
		}
		return snapshot, NewMonitorError(ErrMetaIntegration, apiErrors.ErrExternalService, syncErr.Error()).WithCause(syncErr)
	}

	return snapshot, nil
}

func (s *Service) ListAdAccounts(ctx context.Context, credentials domain.MetaCredentials) ([]domain.AdAccount, error) {
	if credentials.IsEmpty() {
		return nil, NewMonitorError(ErrMetaNotConnected, apiErrors.ErrMetaNotConnected, "Nenhuma conta do Meta conectada")
	}

	accounts, err := s.syncer.ListAdAccounts(ctx, credentials)
	if err != nil {
		log.FromContext(ctx).WithError(err).Error("Erro ao listar contas de anúncio do Meta")
		return nil, s.integrationError(err, "")
	}

	return accounts, nil
}

func (s *Service) Notifications(ctx context.Context, limit int) ([]domain.NotificationLog, error) {
	if limit <= 0 {
		limit = defaultNotificationLimit
	}

	logs, err := s.logRepository.List(ctx, limit)
	if err != nil {
		log.FromContext(ctx).WithError(err).Error("Erro ao listar histórico de lembretes")
		return nil, NewMonitorError(ErrFetchLogs, apiErrors.ErrDatabaseOperation, "Falha ao consultar histórico de lembretes")
	}

	return logs, nil
}

// Analyze pede ao modelo um resumo da carteira atual; nil quando indisponível
func (s *Service) Analyze(ctx context.Context) *domain.BudgetInsights {
	if s.analyzer == nil {
		return nil
	}

	return s.analyzer.Analyze(ctx, s.Snapshot().Clients)
}

// currentLocked devolve uma cópia dos clientes publicados, carregando do banco se ainda não houver snapshot
func (s *Service) currentLocked(ctx context.Context) ([]domain.Client, error) {
	current := s.snapshot.Load()
	if current == nil {
		loaded, err := s.loadLocked(ctx)
		if err != nil {
			return nil, err
		}
		current = loaded
	}

	clients := make([]domain.Client, len(current.Clients))
	copy(clients, current.Clients)
	return clients, nil
}

// locateLocked acha o cliente no snapshot; se não estiver lá (criado por outra instância,
// por exemplo) busca no banco e o acrescenta à cópia
func (s *Service) locateLocked(ctx context.Context, clients []domain.Client, clientID string) ([]domain.Client, int, error) {
	if idx := indexOf(clients, clientID); idx >= 0 {
		return clients, idx, nil
	}

	client, err := s.clientRepository.GetByID(ctx, clientID)
	if err != nil {
		log.FromContext(ctx).WithFields(logrus.Fields{
			"client_id": clientID,
			"error":     err,
		}).Error("Erro ao buscar cliente")
		return nil, -1, NewMonitorErrorWithID(ErrFetchClients, apiErrors.ErrDatabaseOperation, clientID, "Erro ao buscar cliente no banco de dados").WithCause(err)
	}
	if client == nil {
		return nil, -1, NewMonitorErrorWithID(ErrClientNotFound, apiErrors.ErrClientNotFound, clientID, "Cliente não encontrado")
	}

	return append(clients, *client), len(clients), nil
}

// publish recalcula previsões, dispara lembretes e troca o snapshot inteiro
func (s *Service) publish(ctx context.Context, clients []domain.Client, now time.Time) *domain.Snapshot {
	predictions := forecasting.Predict(clients, now)

	calendarAvailable := s.calendar != nil && s.calendar.Available()
	if s.notifier != nil {
		if _, err := s.notifier.NotifyCritical(ctx, clients, predictions, calendarAvailable, now); err != nil {
			log.FromContext(ctx).WithError(err).Warn("Lembretes processados com falhas")
		}
	}

	summary := forecasting.Summarize(clients, predictions)
	metrics.ObserveHealth(summary)

	snapshot := &domain.Snapshot{
		Clients:     clients,
		Predictions: predictions,
		Summary:     summary,
		GeneratedAt: now,
	}
	s.snapshot.Store(snapshot)

	return snapshot
}

func (s *Service) integrationError(err error, clientID string) error {
	var (
		syncErr  *syncing.SyncError
		storeErr *settling.StoreError
	)

	switch {
	case errors.Is(err, syncing.ErrMissingCredentials):
		return NewMonitorErrorWithID(ErrMetaNotConnected, apiErrors.ErrMetaNotConnected, clientID, "Nenhuma conta do Meta conectada")
	case errors.Is(err, syncing.ErrAccountIDRequired):
		return NewMonitorErrorWithID(err, apiErrors.ErrMissingRequiredData, clientID, "ID da conta de anúncios é obrigatório")
	case errors.Is(err, metaclient.ErrTokenExpired):
		return NewMonitorErrorWithID(ErrMetaTokenExpired, apiErrors.ErrExpiredToken, clientID, "Token do Meta expirado, conecte a conta novamente").WithCause(err)
	case errors.As(err, &storeErr):
		return NewMonitorErrorWithID(ErrUpdateClient, apiErrors.ErrDatabaseOperation, clientID, storeErr.Error()).WithCause(err)
	case errors.As(err, &syncErr):
		return NewMonitorErrorWithID(ErrMetaIntegration, apiErrors.ErrExternalService, clientID, syncErr.Error()).WithCause(err)
	default:
		return NewMonitorErrorWithID(ErrMetaIntegration, apiErrors.ErrExternalService, clientID, err.Error()).WithCause(err)
	}
}

func validateNewClient(request *domain.NewClientRequest) error {
	if request == nil || strings.TrimSpace(request.Company) == "" {
		return ErrCompanyRequired
	}

	if strings.TrimSpace(request.Name) == "" {
		return ErrNameRequired
	}

	if !request.Platform.IsValid() {
		return ErrInvalidPlatform
	}

	if request.DailySpend.IsNegative() {
		return ErrNegativeSpend
	}

	return nil
}

func indexOf(clients []domain.Client, clientID string) int {
	for i, c := range clients {
		if c.ID == clientID {
			return i
		}
	}
	return -1
}
