package scheduler

//go:generate mockgen -source=interfaces.go -destination=mocks/interfaces.go -package=mocks

import (
	"context"

	"github.com/vfg2006/traffic-budget-api/internal/domain"
)

// BalanceSyncer reconcilia os saldos dos clientes vinculados ao Meta
type BalanceSyncer interface {
	SyncMeta(ctx context.Context, credentials domain.MetaCredentials) (*domain.Snapshot, error)
}

// TokenExchanger troca o token informado pelo usuário por um de longa duração
type TokenExchanger interface {
	ExchangeToken(ctx context.Context, accessToken string) (string, error)
}

// SnapshotLoader recarrega os clientes, aplicando a liquidação diária
type SnapshotLoader interface {
	Load(ctx context.Context) (*domain.Snapshot, error)
}

// Job é uma rotina agendada que também pode ser disparada manualmente
type Job interface {
	TriggerManualSync()
	GetStatus() map[string]any
}
