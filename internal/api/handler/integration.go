package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/vfg2006/traffic-budget-api/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/traffic-budget-api/internal/domain"
	"github.com/vfg2006/traffic-budget-api/internal/usecases/monitoring"
	"github.com/vfg2006/traffic-budget-api/pkg/apiErrors"
	"github.com/vfg2006/traffic-budget-api/pkg/log"
)

// MetaConnection guarda a credencial ativa do Meta e o job de sincronização associado
type MetaConnection interface {
	Connect(ctx context.Context, accessToken string) error
	Disconnect()
	Credentials() domain.MetaCredentials
	IsConnected() bool
	GetStatus() map[string]any
}

// Availability indica se uma integração opcional está configurada
type Availability interface {
	Available() bool
}

// IntegrationServices reúne as integrações expostas pela API
type IntegrationServices struct {
	Meta     MetaConnection
	Calendar Availability
	Analysis Availability
}

type SyncResponse struct {
	Dashboard *domain.Snapshot `json:"dashboard"`
	Warning   string           `json:"warning,omitempty"`
}

func ConnectMeta(meta MetaConnection) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.FromContext(r.Context()).Info("INIT - ConnectMeta")

		var request domain.MetaConnectRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Corpo da requisição inválido: "+err.Error(), nil)
			return
		}

		token := strings.TrimSpace(request.AccessToken)
		if token == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Token de acesso do Meta é obrigatório", nil)
			return
		}

		if err := meta.Connect(r.Context(), token); err != nil {
			log.FromContext(r.Context()).WithError(err).Error("Erro ao conectar conta do Meta")

			if errors.Is(err, metaclient.ErrTokenExpired) {
				apiErrors.WriteError(w, apiErrors.ErrExpiredToken, "Token do Meta expirado ou inválido", nil)
				return
			}
			apiErrors.WriteError(w, apiErrors.ErrMetaTokenExchange, "Não foi possível validar o token do Meta", nil)
			return
		}

		writeResponse(w, http.StatusOK, meta.GetStatus())
	})
}

func DisconnectMeta(meta MetaConnection) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.FromContext(r.Context()).Info("INIT - DisconnectMeta")

		meta.Disconnect()
		w.WriteHeader(http.StatusNoContent)
	})
}

func ListMetaAdAccounts(service monitoring.Monitor, meta MetaConnection) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accounts, err := service.ListAdAccounts(r.Context(), meta.Credentials())
		if err != nil {
			writeMonitorError(w, err, "Erro ao listar contas de anúncio do Meta")
			return
		}

		writeResponse(w, http.StatusOK, accounts)
	})
}

// SyncMetaBalances sincroniza os saldos na hora; falhas parciais voltam como aviso junto do painel
func SyncMetaBalances(service monitoring.Monitor, meta MetaConnection) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.FromContext(r.Context()).Info("INIT - SyncMetaBalances")

		snapshot, err := service.SyncMeta(r.Context(), meta.Credentials())
		if errors.Is(err, metaclient.ErrTokenExpired) {
			meta.Disconnect()
			writeMonitorError(w, err, "Token do Meta expirado")
			return
		}
		if err != nil && snapshot == nil {
			writeMonitorError(w, err, "Erro ao sincronizar saldos do Meta")
			return
		}

		response := SyncResponse{Dashboard: snapshot}
		if err != nil {
			log.FromContext(r.Context()).WithError(err).Warn("Sincronização manual concluída com falhas")
			response.Warning = err.Error()
		}

		writeResponse(w, http.StatusOK, response)
	})
}

func GetIntegrationStatus(services IntegrationServices) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeResponse(w, http.StatusOK, map[string]any{
			"meta":     services.Meta.GetStatus(),
			"calendar": available(services.Calendar),
			"analysis": available(services.Analysis),
		})
	})
}

func available(a Availability) bool {
	return a != nil && a.Available()
}
