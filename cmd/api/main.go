package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/traffic-budget-api/infrastructure/database/postgres"
	"github.com/vfg2006/traffic-budget-api/infrastructure/integrator/gemini"
	"github.com/vfg2006/traffic-budget-api/infrastructure/integrator/googlecalendar"
	"github.com/vfg2006/traffic-budget-api/infrastructure/integrator/httpclient"
	"github.com/vfg2006/traffic-budget-api/infrastructure/integrator/meta"
	"github.com/vfg2006/traffic-budget-api/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/traffic-budget-api/infrastructure/repository"
	"github.com/vfg2006/traffic-budget-api/internal/api"
	"github.com/vfg2006/traffic-budget-api/internal/api/handler"
	"github.com/vfg2006/traffic-budget-api/internal/config"
	"github.com/vfg2006/traffic-budget-api/internal/scheduler"
	"github.com/vfg2006/traffic-budget-api/internal/usecases/authenticating"
	"github.com/vfg2006/traffic-budget-api/internal/usecases/insighting"
	"github.com/vfg2006/traffic-budget-api/internal/usecases/monitoring"
	"github.com/vfg2006/traffic-budget-api/internal/usecases/notifying"
	"github.com/vfg2006/traffic-budget-api/internal/usecases/settling"
	"github.com/vfg2006/traffic-budget-api/internal/usecases/syncing"
)

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	clientRepo := repository.NewClientRepository(pgConn)
	notificationLogRepo := repository.NewNotificationLogRepository(pgConn)
	userRepo := repository.NewUserRepository(pgConn)

	authenticator := authenticating.NewService(userRepo, cfg)

	httpClient := httpclient.New(cfg.HTTPClient)

	metaClient := metaclient.NewClient(cfg.Meta, httpClient)
	metaIntegrator := meta.New(cfg.Meta, metaClient)

	calendarIntegrator, err := googlecalendar.New(ctx, cfg.Google)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao configurar o Google Calendar")
	}

	// Sem chave o resumo por IA fica desligado
	var summarizer insighting.Summarizer
	if cfg.Gemini.APIKey != "" {
		summarizer = gemini.New(cfg.Gemini, httpClient)
	} else {
		logrus.Warn("GEMINI_API_KEY não configurada. Análise por IA desabilitada")
	}
	analyzer := insighting.NewService(summarizer)

	settler := settling.NewService(clientRepo, cfg.Location)
	dispatcher := notifying.NewDispatcher(calendarIntegrator, notificationLogRepo, cfg.Location)
	orchestrator := syncing.NewOrchestrator(metaIntegrator, clientRepo, cfg.MetaBalanceSync.MaxConcurrentJobs)

	monitor := monitoring.NewService(
		clientRepo,
		notificationLogRepo,
		settler,
		dispatcher,
		orchestrator,
		analyzer,
		calendarIntegrator,
		cfg.App.DefaultCurrency,
	)

	snapshot, err := monitor.Load(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao carregar clientes")
	}
	logrus.WithFields(logrus.Fields{
		"clients":  snapshot.Summary.ClientCount,
		"critical": snapshot.Summary.CriticalCount,
		"warning":  snapshot.Summary.WarningCount,
	}).Info("Clientes carregados")

	// Inicializa os agendadores
	metaBalanceSyncService := scheduler.NewMetaBalanceSyncService(monitor, metaIntegrator, cfg)
	dailySettlementService := scheduler.NewDailySettlementService(monitor, cfg)

	if err := metaBalanceSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de sincronização de saldos do Meta")
	} else {
		logrus.Info("Agendador de sincronização de saldos do Meta iniciado com sucesso")
	}

	if err := dailySettlementService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de liquidação diária")
	} else {
		logrus.Info("Agendador de liquidação diária iniciado com sucesso")
	}

	server, err := api.New(
		cfg,
		monitor,
		authenticator,
		handler.IntegrationServices{
			Meta:     metaBalanceSyncService,
			Calendar: calendarIntegrator,
			Analysis: analyzer,
		},
		handler.CronJobServices{
			MetaBalanceSyncService: metaBalanceSyncService,
			DailySettlementService: dailySettlementService,
		},
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
