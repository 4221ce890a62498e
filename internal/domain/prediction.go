package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type HealthStatus string

const (
	HealthStatusHealthy  HealthStatus = "HEALTHY"
	HealthStatusWarning  HealthStatus = "WARNING"
	HealthStatusCritical HealthStatus = "CRITICAL"
)

type PredictionResult struct {
	ClientID      string       `json:"clientId"`
	DaysRemaining int64        `json:"daysRemaining"`
	DepletionDate time.Time    `json:"depletionDate"`
	Status        HealthStatus `json:"status"`
}

type DashboardSummary struct {
	TotalBalance    decimal.Decimal `json:"totalBalance"`
	TotalDailySpend decimal.Decimal `json:"totalDailySpend"`
	ClientCount     int             `json:"clientCount"`
	CriticalCount   int             `json:"criticalCount"`
	WarningCount    int             `json:"warningCount"`
	HealthyCount    int             `json:"healthyCount"`
}

// Snapshot é a visão consistente de clientes e previsões publicada após cada alteração
type Snapshot struct {
	Clients     []Client           `json:"clients"`
	Predictions []PredictionResult `json:"predictions"`
	Summary     DashboardSummary   `json:"summary"`
	GeneratedAt time.Time          `json:"generatedAt"`
}
