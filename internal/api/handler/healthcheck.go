package handler

import (
	"net/http"
	"time"

	"github.com/vfg2006/traffic-budget-api/pkg/log"
)

func HealthcheckHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := w.Write([]byte(time.Now().Format(time.RFC3339)))
		if err != nil {
			log.FromContext(r.Context()).WithError(err).Warn("error responding to healthcheck")
		}
	})
}
