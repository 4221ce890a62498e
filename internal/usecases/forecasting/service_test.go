package forecasting

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/traffic-budget-api/internal/domain"
)

func client(id string, balance, spend string) domain.Client {
	return domain.Client{
		ID:             id,
		CurrentBalance: decimal.RequireFromString(balance),
		DailySpend:     decimal.RequireFromString(spend),
	}
}

func TestPredictClient(t *testing.T) {
	now := time.Date(2024, 3, 10, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name          string
		client        domain.Client
		expectedDays  int64
		expectedState domain.HealthStatus
	}{
		{
			name:          "Saldo alto - saudável",
			client:        client("1", "1250.50", "150"),
			expectedDays:  8,
			expectedState: domain.HealthStatusHealthy,
		},
		{
			name:          "Exatamente 3 dias - crítico",
			client:        client("2", "300", "100"),
			expectedDays:  3,
			expectedState: domain.HealthStatusCritical,
		},
		{
			name:          "3.01 dias - alerta",
			client:        client("2b", "301", "100"),
			expectedDays:  3,
			expectedState: domain.HealthStatusWarning,
		},
		{
			name:          "3.5 dias - alerta com dias arredondados para baixo",
			client:        client("3", "350", "100"),
			expectedDays:  3,
			expectedState: domain.HealthStatusWarning,
		},
		{
			name:          "Exatamente 7 dias - alerta",
			client:        client("4", "700", "100"),
			expectedDays:  7,
			expectedState: domain.HealthStatusWarning,
		},
		{
			name:          "7.01 dias - saudável",
			client:        client("5", "701", "100"),
			expectedDays:  7,
			expectedState: domain.HealthStatusHealthy,
		},
		{
			name:          "Gasto zero - nunca esgota",
			client:        client("6", "10", "0"),
			expectedDays:  NoSpendRatio,
			expectedState: domain.HealthStatusHealthy,
		},
		{
			name:          "Gasto negativo tratado como zero",
			client:        client("7", "10", "-5"),
			expectedDays:  NoSpendRatio,
			expectedState: domain.HealthStatusHealthy,
		},
		{
			name:          "Saldo negativo - crítico com dias negativos",
			client:        client("8", "-50", "100"),
			expectedDays:  -1,
			expectedState: domain.HealthStatusCritical,
		},
		{
			name:          "Saldo menor que o gasto - crítico com um dia",
			client:        client("9", "50", "45"),
			expectedDays:  1,
			expectedState: domain.HealthStatusCritical,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := PredictClient(tt.client, now)

			assert.Equal(t, tt.client.ID, result.ClientID)
			assert.Equal(t, tt.expectedDays, result.DaysRemaining)
			assert.Equal(t, tt.expectedState, result.Status)
			assert.Equal(t, now.AddDate(0, 0, int(tt.expectedDays)), result.DepletionDate)
		})
	}
}

func TestPredict_PreservesOrder(t *testing.T) {
	now := time.Now()
	clients := []domain.Client{
		client("c", "10", "10"),
		client("a", "1000", "10"),
		client("b", "60", "10"),
	}

	results := Predict(clients, now)

	assert.Len(t, results, 3)
	assert.Equal(t, "c", results[0].ClientID)
	assert.Equal(t, "a", results[1].ClientID)
	assert.Equal(t, "b", results[2].ClientID)
	assert.Equal(t, domain.HealthStatusCritical, results[0].Status)
	assert.Equal(t, domain.HealthStatusHealthy, results[1].Status)
	assert.Equal(t, domain.HealthStatusWarning, results[2].Status)
}

func TestPredict_Empty(t *testing.T) {
	assert.Empty(t, Predict(nil, time.Now()))
}

func TestSummarize(t *testing.T) {
	clients := []domain.Client{
		client("1", "1250.50", "150"),
		client("2", "240", "85"),
		client("3", "50", "45"),
		client("4", "5000", "200"),
	}
	predictions := Predict(clients, time.Now())

	summary := Summarize(clients, predictions)

	assert.True(t, decimal.RequireFromString("6540.50").Equal(summary.TotalBalance))
	assert.True(t, decimal.NewFromInt(480).Equal(summary.TotalDailySpend))
	assert.Equal(t, 4, summary.ClientCount)
	assert.Equal(t, 2, summary.CriticalCount)
	assert.Equal(t, 0, summary.WarningCount)
	assert.Equal(t, 2, summary.HealthyCount)
}
