package router

import (
	"net/http"
	"strings"

	"github.com/shandysiswandi/gocle/pkg/config"
	"github.com/shandysiswandi/gocle/pkg/response"
)

const messageMaintenance = "Service is under maintenance"

// middlewareMaintenance answers 503 for the route patterns listed under
// app.maintenance.endpoints. A "*" entry blocks every route.
func middlewareMaintenance(cfg config.Config) Middleware {
	endpoints := make(map[string]struct{})
	if cfg != nil {
		for _, endpoint := range cfg.GetArray("app.maintenance.endpoints") {
			if endpoint = strings.TrimSpace(endpoint); endpoint != "" {
				endpoints[endpoint] = struct{}{}
			}
		}
	}

	return func(next http.Handler) http.Handler {
		if len(endpoints) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, all := endpoints["*"]
			_, blocked := endpoints[matchedRoutePath(r)]
			if all || blocked {
				writeEnvelope(r.Context(), w, response.Error(http.StatusServiceUnavailable, messageMaintenance))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
