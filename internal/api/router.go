package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MikeSquared-Agency/ValueCharts/internal/session"
	"github.com/MikeSquared-Agency/ValueCharts/internal/store"
)

func NewRouter(m *session.Manager, s store.Store, adminToken string, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(600))

	v := newValidator()
	charts := NewChartsHandler(m, s, v, logger)
	prefs := NewPreferencesHandler(m, v, logger)
	admin := NewAdminHandler(m)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/charts", charts.Create)
		r.Get("/charts", charts.List)
		r.Get("/charts/{chartID}", charts.Get)
		r.Put("/charts/{chartID}", charts.Update)
		r.Get("/charts/{chartID}/preferences", charts.Preferences)

		r.Route("/charts/{chartID}/users/{username}", func(r chi.Router) {
			r.Get("/preferences", prefs.Get)
			r.Get("/events", charts.Events)

			r.Put("/weights", prefs.SetWeights)
			r.Post("/weights/rank", prefs.Rank)
			r.Post("/weights/pump", prefs.Pump)
			r.Put("/interaction", prefs.SetInteraction)
			r.Post("/weights/drag/start", prefs.StartDrag)
			r.Post("/weights/drag/move", prefs.MoveDrag)
			r.Post("/weights/drag/end", prefs.EndDrag)

			r.Put("/score-functions/{objectiveID}", prefs.SetScoreFunction)
			r.Put("/alternatives/order", prefs.SetAlternativeOrder)
			r.Put("/objectives/{objectiveID}", prefs.EditObjective)

			r.Post("/undo", prefs.Undo)
			r.Post("/redo", prefs.Redo)
			r.Get("/history", prefs.History)
			r.Get("/scores", prefs.Scores)
			r.Post("/commit", prefs.Commit)
		})

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(adminToken))
			r.Get("/admin/sessions", admin.Sessions)
			r.Delete("/admin/sessions", admin.EvictAll)
			r.Delete("/admin/sessions/{chartID}/{username}", admin.Evict)
		})
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}
