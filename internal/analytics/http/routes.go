package analytichttp

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/insightboard/insightboard/internal/platform/httpx"
)

// APIRequestsPerMinute bounds JSON API calls per client IP.
const APIRequestsPerMinute = 120

// MountRoutes registers dashboard and API endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	limiter := httprate.Limit(APIRequestsPerMinute, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			httpx.Problem(w, http.StatusTooManyRequests, http.StatusText(http.StatusTooManyRequests), "")
		}),
	)

	r.Get("/", h.handleDashboard)
	r.Get("/charts/{chart}.svg", h.handleChartSVG)
	r.Route("/api", func(api chi.Router) {
		api.Use(limiter)
		api.Get("/insights", h.handleAPIInsights)
		api.Get("/summary", h.handleAPISummary)
		api.Get("/filters", h.handleAPIFilters)
		api.Get("/charts/{chart}", h.handleAPIChart)
	})
}
