package insighting

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/traffic-budget-api/internal/domain"
	"github.com/vfg2006/traffic-budget-api/internal/metrics"
)

type Service struct {
	summarizer Summarizer
}

// NewService aceita summarizer nil quando a chave do modelo não está configurada
func NewService(summarizer Summarizer) *Service {
	return &Service{
		summarizer: summarizer,
	}
}

// Available indica se há um modelo configurado para gerar análises
func (s *Service) Available() bool {
	return s != nil && s.summarizer != nil
}

func (s *Service) Analyze(ctx context.Context, clients []domain.Client) *domain.BudgetInsights {
	insights, err := s.analyze(ctx, clients)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"clients": len(clients),
			"error":   err,
		}).Warn("Análise de orçamento indisponível")

		metrics.InsightAnalysis(metrics.ResultError)
		return nil
	}

	metrics.InsightAnalysis(metrics.ResultSuccess)
	return insights
}

func (s *Service) analyze(ctx context.Context, clients []domain.Client) (*domain.BudgetInsights, error) {
	if s.summarizer == nil {
		return nil, NewAnalysisError(ErrSummarizerUnavailable, "")
	}

	insights, err := s.summarizer.Summarize(ctx, clients)
	if err != nil {
		return nil, NewAnalysisError(ErrSummarize, err.Error())
	}

	if insights == nil {
		return nil, NewAnalysisError(ErrSummarize, "empty response")
	}

	// Descarta recomendações para clientes que não estão na carteira
	known := make(map[string]struct{}, len(clients))
	for _, c := range clients {
		known[c.ID] = struct{}{}
	}

	filtered := make([]domain.CriticalClientInsight, 0, len(insights.CriticalClients))
	for _, critical := range insights.CriticalClients {
		if _, ok := known[critical.ClientID]; ok {
			filtered = append(filtered, critical)
		}
	}
	insights.CriticalClients = filtered

	return insights, nil
}
