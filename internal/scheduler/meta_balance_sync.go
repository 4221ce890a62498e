package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/traffic-budget-api/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/traffic-budget-api/internal/config"
	"github.com/vfg2006/traffic-budget-api/internal/domain"
	"github.com/vfg2006/traffic-budget-api/pkg/log"
)

const (
	metaBalanceSyncTag     = "meta-balance-sync"
	metaBalanceSyncTimeout = 2 * time.Minute
	defaultSyncInterval    = 5 * time.Minute
)

// MetaBalanceSyncConfig representa a configuração da sincronização de saldos do Meta
type MetaBalanceSyncConfig struct {
	Interval          time.Duration
	MaxConcurrentJobs int
}

// MetaBalanceSyncService mantém a credencial do Meta e o job periódico de sincronização de saldos.
// O job existe apenas enquanto há uma credencial conectada.
type MetaBalanceSyncService struct {
	scheduler    *gocron.Scheduler
	config       MetaBalanceSyncConfig
	initialToken string
	syncer       BalanceSyncer
	exchanger    TokenExchanger

	ctx         context.Context
	credMutex   sync.RWMutex
	credentials *domain.MetaCredentials
	connectedAt time.Time

	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastSyncError       string
}

func NewMetaBalanceSyncService(
	syncer BalanceSyncer,
	exchanger TokenExchanger,
	appConfig *config.Config,
) *MetaBalanceSyncService {
	syncConfig := MetaBalanceSyncConfig{
		Interval:          appConfig.MetaBalanceSync.Interval,
		MaxConcurrentJobs: appConfig.MetaBalanceSync.MaxConcurrentJobs,
	}
	if syncConfig.Interval <= 0 {
		syncConfig.Interval = defaultSyncInterval
	}

	location := appConfig.Location
	if location == nil {
		location = time.Local
	}

	logrus.WithFields(logrus.Fields{
		"interval":            syncConfig.Interval.String(),
		"max_concurrent_jobs": syncConfig.MaxConcurrentJobs,
	}).Info("Configuração da sincronização de saldos do Meta carregada")

	return &MetaBalanceSyncService{
		scheduler:    gocron.NewScheduler(location),
		config:       syncConfig,
		initialToken: appConfig.Meta.AccessToken,
		syncer:       syncer,
		exchanger:    exchanger,
		ctx:          context.Background(),
	}
}

// Start inicia o agendador e conecta automaticamente quando há META_ACCESS_TOKEN configurado
func (s *MetaBalanceSyncService) Start(ctx context.Context) error {
	s.ctx = ctx
	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de sincronização de saldos do Meta")
		s.scheduler.Stop()
	}()

	if s.initialToken == "" {
		logrus.Info("Nenhum token do Meta configurado; sincronização aguardando conexão")
		return nil
	}

	if err := s.Connect(ctx, s.initialToken); err != nil {
		return fmt.Errorf("erro ao conectar com o token configurado: %w", err)
	}

	return nil
}

// Connect troca o token por um de longa duração, guarda a credencial e agenda a sincronização
func (s *MetaBalanceSyncService) Connect(ctx context.Context, accessToken string) error {
	token, err := s.exchanger.ExchangeToken(ctx, accessToken)
	if err != nil {
		logrus.WithError(err).Error("Erro ao obter token de longa duração do Meta")
		return err
	}

	s.credMutex.Lock()
	s.credentials = &domain.MetaCredentials{AccessToken: token}
	s.connectedAt = time.Now()
	s.credMutex.Unlock()

	// Reconectar substitui o job anterior
	_ = s.scheduler.RemoveByTag(metaBalanceSyncTag)

	_, err = s.scheduler.Every(s.config.Interval).
		Tag(metaBalanceSyncTag).
		WaitForSchedule().
		Do(s.syncMetaBalances)
	if err != nil {
		return fmt.Errorf("erro ao agendar sincronização de saldos do Meta: %w", err)
	}

	logrus.WithField("interval", s.config.Interval.String()).Info("Meta conectado; sincronização de saldos agendada")
	return nil
}

// Disconnect remove o job periódico e descarta a credencial
func (s *MetaBalanceSyncService) Disconnect() {
	if err := s.scheduler.RemoveByTag(metaBalanceSyncTag); err != nil {
		logrus.WithError(err).Debug("Nenhum job de sincronização de saldos para remover")
	}

	s.credMutex.Lock()
	s.credentials = nil
	s.connectedAt = time.Time{}
	s.credMutex.Unlock()

	logrus.Info("Meta desconectado; sincronização de saldos interrompida")
}

// Credentials retorna a credencial atual; vazia quando desconectado
func (s *MetaBalanceSyncService) Credentials() domain.MetaCredentials {
	s.credMutex.RLock()
	defer s.credMutex.RUnlock()

	if s.credentials == nil {
		return domain.MetaCredentials{}
	}
	return *s.credentials
}

func (s *MetaBalanceSyncService) IsConnected() bool {
	creds := s.Credentials()
	return !creds.IsEmpty()
}

// syncMetaBalances executa uma rodada de sincronização; rodadas sobrepostas são ignoradas
func (s *MetaBalanceSyncService) syncMetaBalances() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Sincronização de saldos do Meta já em andamento, ignorando")
		return
	}
	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	s.syncMutex.Unlock()

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.syncMutex.Unlock()
	}()

	credentials := s.Credentials()
	if credentials.IsEmpty() {
		logrus.Debug("Meta desconectado, sincronização de saldos ignorada")
		return
	}

	ctx, cancel := context.WithTimeout(s.ctx, metaBalanceSyncTimeout)
	defer cancel()
	ctx, _ = log.WithCorrelationID(ctx)

	startTime := time.Now()
	snapshot, err := s.syncer.SyncMeta(ctx, credentials)

	s.syncMutex.Lock()
	s.lastSyncCompletedAt = time.Now()
	s.lastSyncError = ""
	if err != nil {
		s.lastSyncError = err.Error()
	}
	s.syncMutex.Unlock()

	fields := logrus.Fields{"duration": time.Since(startTime).String()}
	if snapshot != nil {
		fields["clients"] = snapshot.Summary.ClientCount
		fields["critical"] = snapshot.Summary.CriticalCount
	}

	if errors.Is(err, metaclient.ErrTokenExpired) {
		log.FromContext(ctx).WithFields(fields).WithError(err).Error("Token do Meta expirado, desconectando sincronização de saldos")
		s.Disconnect()
		return
	}

	if err != nil {
		log.FromContext(ctx).WithFields(fields).WithError(err).Warn("Sincronização de saldos do Meta concluída com falhas")
		return
	}

	log.FromContext(ctx).WithFields(fields).Info("Sincronização de saldos do Meta concluída")
}

// TriggerManualSync inicia manualmente uma sincronização de saldos do Meta
func (s *MetaBalanceSyncService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Sincronização de saldos do Meta já em andamento, ignorando solicitação manual")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando sincronização manual de saldos do Meta")
	go s.syncMetaBalances()
}

// GetStatus retorna o status atual do agendador
func (s *MetaBalanceSyncService) GetStatus() map[string]any {
	s.credMutex.RLock()
	connected := s.credentials != nil
	connectedAt := s.connectedAt
	s.credMutex.RUnlock()

	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"connected":              connected,
		"connected_at":           connectedAt,
		"sync_interval":          s.config.Interval.String(),
		"sync_max_concurrent":    s.config.MaxConcurrentJobs,
		"sync_running":           s.syncRunning,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_sync_error":        s.lastSyncError,
	}
}
