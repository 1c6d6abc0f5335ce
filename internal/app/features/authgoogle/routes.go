package authgoogle

import "github.com/go-chi/chi/v5"

// Routes mounts the Google sign-in round-trip (typically at "/auth/google").
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.HandleStart)
	r.Get("/callback", h.HandleCallback)
	return r
}
