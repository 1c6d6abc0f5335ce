package register

import "github.com/go-chi/chi/v5"

// Routes mounts the registration endpoints (typically at "/users/register").
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeForm)
	r.Post("/", h.HandleSubmit)
	return r
}
