package handler

import (
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/traffic-budget-api/internal/domain"
	"github.com/vfg2006/traffic-budget-api/internal/usecases/monitoring"
	"github.com/vfg2006/traffic-budget-api/pkg/apiErrors"
	"github.com/vfg2006/traffic-budget-api/pkg/log"
)

const maxNotificationLimit = 500

func ListClients(service monitoring.Monitor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeResponse(w, http.StatusOK, service.Snapshot().Clients)
	})
}

func CreateClient(service monitoring.Monitor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.FromContext(r.Context()).Info("INIT - CreateClient")

		var request domain.NewClientRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Corpo da requisição inválido: "+err.Error(), nil)
			return
		}

		client, err := service.AddClient(r.Context(), &request)
		if err != nil {
			log.FromContext(r.Context()).WithError(err).Error("Erro ao cadastrar cliente")
			writeMonitorError(w, err, "Erro ao cadastrar cliente")
			return
		}

		writeResponse(w, http.StatusCreated, client)
	})
}

func UpdateClientBalance(service monitoring.Monitor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.FromContext(r.Context()).Info("INIT - UpdateClientBalance")

		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if id == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID do cliente é obrigatório", nil)
			return
		}

		var request domain.UpdateBalanceRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Corpo da requisição inválido: "+err.Error(), nil)
			return
		}

		client, err := service.UpdateBalance(r.Context(), id, request.Balance)
		if err != nil {
			log.FromContext(r.Context()).WithFields(logrus.Fields{
				"client_id": id,
				"error":     err,
			}).Error("Erro ao atualizar saldo do cliente")
			writeMonitorError(w, err, "Erro ao atualizar saldo do cliente")
			return
		}

		writeResponse(w, http.StatusOK, client)
	})
}

func LinkClientMetaAccount(service monitoring.Monitor, meta MetaConnection) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.FromContext(r.Context()).Info("INIT - LinkClientMetaAccount")

		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if id == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID do cliente é obrigatório", nil)
			return
		}

		var request domain.LinkMetaAccountRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Corpo da requisição inválido: "+err.Error(), nil)
			return
		}

		client, err := service.LinkMetaAccount(r.Context(), id, request.AccountID, meta.Credentials())
		if err != nil {
			writeMonitorError(w, err, "Erro ao vincular conta do Meta")
			return
		}

		writeResponse(w, http.StatusOK, client)
	})
}

// GetDashboard retorna clientes, previsões e o resumo da carteira
func GetDashboard(service monitoring.Monitor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeResponse(w, http.StatusOK, service.Snapshot())
	})
}

func ListPredictions(service monitoring.Monitor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeResponse(w, http.StatusOK, service.Snapshot().Predictions)
	})
}

func ListNotifications(service monitoring.Monitor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 0 {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Parâmetro limit inválido", nil)
				return
			}
			limit = min(parsed, maxNotificationLimit)
		}

		logs, err := service.Notifications(r.Context(), limit)
		if err != nil {
			writeMonitorError(w, err, "Erro ao consultar histórico de lembretes")
			return
		}

		writeResponse(w, http.StatusOK, logs)
	})
}

func AnalyzeBudget(service monitoring.Monitor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.FromContext(r.Context()).Info("INIT - AnalyzeBudget")

		insights := service.Analyze(r.Context())
		if insights == nil {
			apiErrors.WriteError(w, apiErrors.ErrAnalysisUnavailable, "Análise por IA indisponível no momento", nil)
			return
		}

		writeResponse(w, http.StatusOK, insights)
	})
}
