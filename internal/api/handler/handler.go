package handler

import (
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/traffic-budget-api/internal/usecases/monitoring"
	"github.com/vfg2006/traffic-budget-api/pkg/apiErrors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// writeMonitorError traduz erros do monitoramento para a resposta padronizada
func writeMonitorError(w http.ResponseWriter, err error, fallback string) {
	var monitorErr *monitoring.MonitorError
	if errors.As(err, &monitorErr) {
		details := map[string]any{}
		if monitorErr.ClientID != "" {
			details["client_id"] = monitorErr.ClientID
		}
		if len(details) == 0 {
			details = nil
		}
		apiErrors.WriteError(w, monitorErr.Code, monitorErr.Error(), details)
		return
	}

	switch {
	case errors.Is(err, monitoring.ErrClientIDRequired):
		apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID do cliente é obrigatório", nil)
	case errors.Is(err, monitoring.ErrClientNotFound):
		apiErrors.WriteError(w, apiErrors.ErrClientNotFound, "Cliente não encontrado", nil)
	default:
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, fallback, nil)
	}
}

func writeResponse(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logrus.WithError(err).Error("Erro ao codificar resposta")
	}
}
