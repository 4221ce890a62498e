package forecasting

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/traffic-budget-api/internal/domain"
)

// Valor usado quando não há gasto diário: o saldo nunca acaba
const NoSpendRatio = 999

var (
	criticalThreshold = decimal.NewFromInt(3)
	warningThreshold  = decimal.NewFromInt(7)
)

// Predict calcula a previsão de esgotamento de cada cliente, na mesma ordem de entrada
func Predict(clients []domain.Client, now time.Time) []domain.PredictionResult {
	results := make([]domain.PredictionResult, 0, len(clients))
	for _, c := range clients {
		results = append(results, PredictClient(c, now))
	}
	return results
}

func PredictClient(c domain.Client, now time.Time) domain.PredictionResult {
	ratio := decimal.NewFromInt(NoSpendRatio)
	if c.DailySpend.IsPositive() {
		ratio = c.CurrentBalance.Div(c.DailySpend)
	}

	// A classificação usa a razão sem arredondamento: 3.5 dias ainda é WARNING
	status := domain.HealthStatusHealthy
	switch {
	case ratio.LessThanOrEqual(criticalThreshold):
		status = domain.HealthStatusCritical
	case ratio.LessThanOrEqual(warningThreshold):
		status = domain.HealthStatusWarning
	}

	days := ratio.Floor().IntPart()

	return domain.PredictionResult{
		ClientID:      c.ID,
		DaysRemaining: days,
		DepletionDate: now.AddDate(0, 0, int(days)),
		Status:        status,
	}
}

// Summarize agrega os totais exibidos no painel
func Summarize(clients []domain.Client, predictions []domain.PredictionResult) domain.DashboardSummary {
	summary := domain.DashboardSummary{
		TotalBalance:    decimal.Zero,
		TotalDailySpend: decimal.Zero,
		ClientCount:     len(clients),
	}

	for _, c := range clients {
		summary.TotalBalance = summary.TotalBalance.Add(c.CurrentBalance)
		summary.TotalDailySpend = summary.TotalDailySpend.Add(c.DailySpend)
	}

	for _, p := range predictions {
		switch p.Status {
		case domain.HealthStatusCritical:
			summary.CriticalCount++
		case domain.HealthStatusWarning:
			summary.WarningCount++
		default:
			summary.HealthyCount++
		}
	}

	return summary
}
