package main

import (
	"context"
	"database/sql"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/traffic-budget-api/infrastructure/database/postgres"
	"github.com/vfg2006/traffic-budget-api/infrastructure/migration"
	"github.com/vfg2006/traffic-budget-api/internal/config"
)

func setupLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	logrus.Info("Iniciando script de migração...")
}

func main() {
	setupLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatalf("ERRO ao carregar configuração: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	logrus.Info("Conectando ao banco de dados...")
	conn, err := postgres.NewConnection(ctx, cfg.Database)
	if err != nil {
		logrus.Fatalf("ERRO ao conectar ao banco de dados: %v", err)
	}
	defer conn.Close()
	logrus.Info("Conexão com o banco de dados estabelecida com sucesso")

	startTime := time.Now()

	err = conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		if err := migration.Apply(ctx, tx); err != nil {
			return err
		}

		inserted, err := migration.Seed(ctx, tx, migration.DemoClients, cfg.App.DefaultCurrency, time.Now().In(cfg.Location))
		if err != nil {
			return err
		}

		logrus.Infof("Carga inicial: %d clientes inseridos", inserted)
		return nil
	})
	if err != nil {
		logrus.Fatalf("ERRO na migração, transação revertida: %v", err)
	}

	logrus.Infof("Migração concluída em %v!", time.Since(startTime))
}
