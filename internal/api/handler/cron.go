package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/traffic-budget-api/internal/scheduler"
	"github.com/vfg2006/traffic-budget-api/pkg/apiErrors"
	"github.com/vfg2006/traffic-budget-api/pkg/log"
)

// CronJobType define o tipo de cron job que será executada
const (
	CronJobTypeMetaBalance = "meta-balance"
	CronJobTypeSettlement  = "settlement"
	CronJobTypeAll         = "all"
)

// CronJobServices contém os serviços de cron necessários para executar manualmente
type CronJobServices struct {
	MetaBalanceSyncService scheduler.Job
	DailySettlementService scheduler.Job
}

// RunCronJob executa manualmente uma cron job específica
func RunCronJob(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.FromContext(r.Context()).Info("INIT - RunCronJob")

		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if cronType == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Tipo de cron job não especificado", nil)
			return
		}

		switch cronType {
		case CronJobTypeMetaBalance:
			if services.MetaBalanceSyncService == nil {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de sincronização de saldos do Meta não disponível", nil)
				return
			}
			services.MetaBalanceSyncService.TriggerManualSync()

		case CronJobTypeSettlement:
			if services.DailySettlementService == nil {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de liquidação diária não disponível", nil)
				return
			}
			services.DailySettlementService.TriggerManualSync()

		case CronJobTypeAll:
			if services.DailySettlementService != nil {
				services.DailySettlementService.TriggerManualSync()
			}
			if services.MetaBalanceSyncService != nil {
				services.MetaBalanceSyncService.TriggerManualSync()
			}

		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Tipo de cron job inválido. Valores aceitos: meta-balance, settlement, all", nil)
			return
		}

		writeResponse(w, http.StatusAccepted, map[string]any{
			"message": "Cron job iniciada com sucesso",
			"type":    cronType,
		})
	}
}

// GetCronStatus retorna o status das cron jobs
func GetCronStatus(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]any{}

		if services.MetaBalanceSyncService != nil {
			status[CronJobTypeMetaBalance] = services.MetaBalanceSyncService.GetStatus()
		}
		if services.DailySettlementService != nil {
			status[CronJobTypeSettlement] = services.DailySettlementService.GetStatus()
		}

		writeResponse(w, http.StatusOK, status)
	}
}
