package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/traffic-budget-api/internal/config"
	"github.com/vfg2006/traffic-budget-api/internal/domain"
	"github.com/vfg2006/traffic-budget-api/internal/scheduler/mocks"
	"go.uber.org/mock/gomock"
)

func newDailySettlementService(t *testing.T, cron string, enabled bool) (*DailySettlementService, *mocks.MockSnapshotLoader) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockSnapshotLoader(ctrl)

	cfg := &config.Config{
		DailySettlement: config.DailySettlement{CronSchedule: cron, Enabled: enabled},
		Location:        time.UTC,
	}

	return NewDailySettlementService(loader, cfg), loader
}

func TestDailySettlementService_Start(t *testing.T) {
	tests := []struct {
		name         string
		cron         string
		enabled      bool
		expectError  bool
		expectedJobs int
	}{
		{name: "Desabilitado não agenda", cron: "1 0 * * *", enabled: false, expectedJobs: 0},
		{name: "Habilitado agenda o job", cron: "1 0 * * *", enabled: true, expectedJobs: 1},
		{name: "Cron inválido", cron: "todo dia", enabled: true, expectError: true, expectedJobs: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _ := newDailySettlementService(t, tt.cron, tt.enabled)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			err := service.Start(ctx)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expectedJobs, service.scheduler.Len())
		})
	}
}

func TestDailySettlementService_runSettlement(t *testing.T) {
	t.Run("Recarrega os clientes", func(t *testing.T) {
		service, loader := newDailySettlementService(t, "1 0 * * *", true)
		loader.EXPECT().Load(gomock.Any()).Return(&domain.Snapshot{
			Summary: domain.DashboardSummary{ClientCount: 4, CriticalCount: 2},
		}, nil)

		service.runSettlement()

		status := service.GetStatus()
		assert.Equal(t, "", status["last_run_error"])
		assert.False(t, status["running"].(bool))
		assert.False(t, status["last_run_finished"].(time.Time).IsZero())
	})

	t.Run("Registra erro do banco", func(t *testing.T) {
		service, loader := newDailySettlementService(t, "1 0 * * *", true)
		loader.EXPECT().Load(gomock.Any()).Return(nil, errors.New("connection refused"))

		service.runSettlement()

		assert.Equal(t, "connection refused", service.GetStatus()["last_run_error"])
	})

	t.Run("Execução em andamento é ignorada", func(t *testing.T) {
		service, _ := newDailySettlementService(t, "1 0 * * *", true)
		service.syncRunning = true

		service.runSettlement()

		require.True(t, service.lastRunEndedAt.IsZero())
	})
}
