package dashboard

import (
	"github.com/go-chi/chi/v5"
	"github.com/raiamitrai/coursehub/internal/app/system/auth"
)

// Routes mounts the dashboard (typically at "/dashboard").
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Get("/", h.ServeDashboard)
	return r
}
