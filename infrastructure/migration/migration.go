package migration

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/traffic-budget-api/infrastructure/database/postgres"
	"github.com/vfg2006/traffic-budget-api/infrastructure/repository"
	"github.com/vfg2006/traffic-budget-api/internal/domain"
	"github.com/vfg2006/traffic-budget-api/pkg/utils"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS clients (
		id VARCHAR(32) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		company VARCHAR(255) NOT NULL,
		platform VARCHAR(32) NOT NULL,
		current_balance NUMERIC(14, 2) NOT NULL DEFAULT 0,
		daily_spend NUMERIC(14, 2) NOT NULL DEFAULT 0,
		currency VARCHAR(3) NOT NULL DEFAULT 'BRL',
		last_updated TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		meta_account_id VARCHAR(64),
		is_synced BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS notification_logs (
		id VARCHAR(36) PRIMARY KEY,
		client_id VARCHAR(32) NOT NULL REFERENCES clients (id),
		client_name VARCHAR(255) NOT NULL,
		type VARCHAR(16) NOT NULL,
		status VARCHAR(16) NOT NULL,
		message TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS notification_logs_created_at_idx ON notification_logs (created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		lastname VARCHAR(255) NOT NULL DEFAULT '',
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		role_id INTEGER NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// SeedClient é um cliente de demonstração da carga inicial
type SeedClient struct {
	Name       string
	Company    string
	Platform   domain.Platform
	Balance    string
	DailySpend string
}

var DemoClients = []SeedClient{
	{"Equipe de Marketing A", "Nexus Tech Brasil", domain.PlatformGoogleAds, "1250.50", "150"},
	{"Unidade de Vendas 4", "Energia Verde Co.", domain.PlatformMetaAds, "240", "85"},
	{"Líder Social", "Varejo Moderno", domain.PlatformTikTokAds, "50", "45"},
	{"Crescimento Enterprise", "Blue Chip Corp", domain.PlatformLinkedInAds, "5000", "200"},
}

// Apply cria as tabelas que ainda não existem
func Apply(ctx context.Context, q postgres.Queryer) error {
	for i, stmt := range schema {
		if _, err := q.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("erro ao aplicar migração %d: %w", i+1, err)
		}
	}

	logrus.WithField("statements", len(schema)).Info("Esquema do banco aplicado com sucesso")
	return nil
}

// Seed insere os clientes de demonstração quando a tabela está vazia. Retorna quantos foram inseridos.
func Seed(ctx context.Context, q postgres.Queryer, seeds []SeedClient, currency string, now time.Time) (int, error) {
	var count int
	if err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM clients").Scan(&count); err != nil {
		return 0, fmt.Errorf("erro ao contar clientes: %w", err)
	}

	if count > 0 {
		logrus.WithField("clients", count).Info("Tabela de clientes já populada, carga inicial ignorada")
		return 0, nil
	}

	clientRepository := repository.NewClientRepository(q)

	for i, seed := range seeds {
		id, err := utils.GenerateID()
		if err != nil {
			return i, err
		}

		balance, err := decimal.NewFromString(seed.Balance)
		if err != nil {
			return i, fmt.Errorf("saldo inválido para %s: %w", seed.Company, err)
		}
		dailySpend, err := decimal.NewFromString(seed.DailySpend)
		if err != nil {
			return i, fmt.Errorf("gasto diário inválido para %s: %w", seed.Company, err)
		}

		client := &domain.Client{
			ID:             id,
			Name:           seed.Name,
			Company:        seed.Company,
			Platform:       seed.Platform,
			CurrentBalance: balance,
			DailySpend:     dailySpend,
			Currency:       currency,
			LastUpdated:    now,
		}

		if err := clientRepository.Create(ctx, client); err != nil {
			return i, fmt.Errorf("erro ao inserir cliente %s: %w", seed.Company, err)
		}

		logrus.WithFields(logrus.Fields{
			"client_id": id,
			"company":   seed.Company,
		}).Debug("Cliente de demonstração inserido")
	}

	return len(seeds), nil
}
