package login

import "github.com/go-chi/chi/v5"

// Routes mounts the sign-in endpoints (typically at "/users/login").
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeForm)
	r.Post("/", h.HandleSubmit)
	return r
}
