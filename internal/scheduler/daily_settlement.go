package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/traffic-budget-api/internal/config"
	"github.com/vfg2006/traffic-budget-api/pkg/log"
)

const dailySettlementTimeout = 5 * time.Minute

// DailySettlementConfig representa a configuração da liquidação diária
type DailySettlementConfig struct {
	CronSchedule string
	Enabled      bool
}

// DailySettlementService recarrega os clientes uma vez por dia, para que liquidação e lembretes
// aconteçam mesmo sem tráfego na API
type DailySettlementService struct {
	scheduler *gocron.Scheduler
	config    DailySettlementConfig
	loader    SnapshotLoader
	ctx       context.Context

	syncRunning      bool
	syncMutex        sync.Mutex
	lastRunStartedAt time.Time
	lastRunEndedAt   time.Time
	lastRunError     string
}

func NewDailySettlementService(loader SnapshotLoader, appConfig *config.Config) *DailySettlementService {
	settlementConfig := DailySettlementConfig{
		CronSchedule: appConfig.DailySettlement.CronSchedule,
		Enabled:      appConfig.DailySettlement.Enabled,
	}

	location := appConfig.Location
	if location == nil {
		location = time.Local
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule": settlementConfig.CronSchedule,
		"enabled":       settlementConfig.Enabled,
		"timezone":      location.String(),
	}).Info("Configuração da liquidação diária carregada")

	return &DailySettlementService{
		scheduler: gocron.NewScheduler(location),
		config:    settlementConfig,
		loader:    loader,
		ctx:       context.Background(),
	}
}

// Start inicia o agendador
func (s *DailySettlementService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("Liquidação diária desabilitada por configuração")
		return nil
	}

	s.ctx = ctx

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(s.runSettlement)
	if err != nil {
		return fmt.Errorf("erro ao agendar liquidação diária: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de liquidação diária")
		s.scheduler.Stop()
	}()

	return nil
}

func (s *DailySettlementService) runSettlement() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Liquidação diária já em andamento, ignorando")
		return
	}
	s.syncRunning = true
	s.lastRunStartedAt = time.Now()
	s.syncMutex.Unlock()

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.syncMutex.Unlock()
	}()

	ctx, cancel := context.WithTimeout(s.ctx, dailySettlementTimeout)
	defer cancel()
	ctx, _ = log.WithCorrelationID(ctx)

	snapshot, err := s.loader.Load(ctx)

	s.syncMutex.Lock()
	s.lastRunEndedAt = time.Now()
	s.lastRunError = ""
	if err != nil {
		s.lastRunError = err.Error()
	}
	s.syncMutex.Unlock()

	if err != nil {
		log.FromContext(ctx).WithError(err).Error("Erro na liquidação diária")
		return
	}

	log.FromContext(ctx).WithFields(logrus.Fields{
		"clients":  snapshot.Summary.ClientCount,
		"critical": snapshot.Summary.CriticalCount,
		"warning":  snapshot.Summary.WarningCount,
	}).Info("Liquidação diária concluída")
}

// TriggerManualSync executa a liquidação fora do horário agendado
func (s *DailySettlementService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Liquidação diária já em andamento, ignorando solicitação manual")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando liquidação manual")
	go s.runSettlement()
}

func (s *DailySettlementService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"enabled":           s.config.Enabled,
		"cron":              s.config.CronSchedule,
		"running":           s.syncRunning,
		"last_run_started":  s.lastRunStartedAt,
		"last_run_finished": s.lastRunEndedAt,
		"last_run_error":    s.lastRunError,
	}
}
