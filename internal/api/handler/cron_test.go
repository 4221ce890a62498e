package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/traffic-budget-api/internal/scheduler/mocks"
	"go.uber.org/mock/gomock"
)

func TestRunCronJob(t *testing.T) {
	tests := []struct {
		name           string
		cronType       string
		metaCalls      int
		settleCalls    int
		expectedStatus int
	}{
		{name: "Sincronização de saldos", cronType: CronJobTypeMetaBalance, metaCalls: 1, expectedStatus: http.StatusAccepted},
		{name: "Liquidação diária", cronType: CronJobTypeSettlement, settleCalls: 1, expectedStatus: http.StatusAccepted},
		{name: "Todas", cronType: CronJobTypeAll, metaCalls: 1, settleCalls: 1, expectedStatus: http.StatusAccepted},
		{name: "Tipo inválido", cronType: "relatorio", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			metaJob := mocks.NewMockJob(ctrl)
			settlementJob := mocks.NewMockJob(ctrl)

			metaJob.EXPECT().TriggerManualSync().Times(tt.metaCalls)
			settlementJob.EXPECT().TriggerManualSync().Times(tt.settleCalls)

			services := CronJobServices{
				MetaBalanceSyncService: metaJob,
				DailySettlementService: settlementJob,
			}

			rec := httptest.NewRecorder()
			req := newRequest(http.MethodPost, "/v1/cron/"+tt.cronType+"/run", "", httprouter.Param{Key: "type", Value: tt.cronType})
			RunCronJob(services).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestGetCronStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	metaJob := mocks.NewMockJob(ctrl)
	settlementJob := mocks.NewMockJob(ctrl)

	metaJob.EXPECT().GetStatus().Return(map[string]any{"connected": true})
	settlementJob.EXPECT().GetStatus().Return(map[string]any{"enabled": true})

	rec := httptest.NewRecorder()
	GetCronStatus(CronJobServices{
		MetaBalanceSyncService: metaJob,
		DailySettlementService: settlementJob,
	}).ServeHTTP(rec, newRequest(http.MethodGet, "/v1/cron/status", ""))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, true, body[CronJobTypeMetaBalance]["connected"])
	assert.Equal(t, true, body[CronJobTypeSettlement]["enabled"])
}
