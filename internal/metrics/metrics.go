package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vfg2006/traffic-budget-api/internal/domain"
)

const namespace = "traffic_budget"

const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultSkipped = "skipped"
)

var (
	settlementsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settlements_total",
			Help:      "Clientes processados pela liquidação diária",
		},
		[]string{"result"},
	)

	notificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Lembretes de reposição registrados por status",
		},
		[]string{"status"},
	)

	balanceSyncTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "balance_sync_fetches_total",
			Help:      "Consultas de saldo na API do Meta",
		},
		[]string{"result"},
	)

	balanceSyncDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "balance_sync_duration_seconds",
			Help:      "Duração de cada ciclo de sincronização de saldos",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 8), // 0.25s a ~32s
		},
	)

	insightAnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "insight_analyses_total",
			Help:      "Análises de orçamento geradas pelo modelo",
		},
		[]string{"result"},
	)

	clientsByHealth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "clients_by_health",
			Help:      "Quantidade de clientes por status de saúde do orçamento",
		},
		[]string{"status"},
	)
)

func Settlement(result string) {
	settlementsTotal.WithLabelValues(result).Inc()
}

func Notification(status domain.NotificationStatus) {
	notificationsTotal.WithLabelValues(string(status)).Inc()
}

func BalanceSync(result string) {
	balanceSyncTotal.WithLabelValues(result).Inc()
}

func BalanceSyncDuration(seconds float64) {
	balanceSyncDuration.Observe(seconds)
}

func InsightAnalysis(result string) {
	insightAnalysesTotal.WithLabelValues(result).Inc()
}

// ObserveHealth publica a distribuição atual de clientes por status
func ObserveHealth(summary domain.DashboardSummary) {
	clientsByHealth.WithLabelValues(string(domain.HealthStatusCritical)).Set(float64(summary.CriticalCount))
	clientsByHealth.WithLabelValues(string(domain.HealthStatusWarning)).Set(float64(summary.WarningCount))
	clientsByHealth.WithLabelValues(string(domain.HealthStatusHealthy)).Set(float64(summary.HealthyCount))
}
