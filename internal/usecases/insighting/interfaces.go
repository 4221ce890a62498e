package insighting

//go:generate mockgen -source=interfaces.go -destination=mocks/interfaces.go -package=mocks

import (
	"context"

	"github.com/vfg2006/traffic-budget-api/internal/domain"
)

// Summarizer gera o resumo narrativo da carteira a partir dos saldos atuais
type Summarizer interface {
	// Summarize retorna o resumo e a ação recomendada para cada cliente crítico
	Summarize(ctx context.Context, clients []domain.Client) (*domain.BudgetInsights, error)
}

// Analyzer é a interface consumida pela camada HTTP e pelo monitoramento
type Analyzer interface {
	// Analyze nunca falha: sem modelo configurado ou em caso de erro retorna nil
	Analyze(ctx context.Context, clients []domain.Client) *domain.BudgetInsights
}
