package courses

import (
	"github.com/go-chi/chi/v5"
	"github.com/raiamitrai/coursehub/internal/app/system/auth"
)

// Routes mounts the catalog under its base path (typically "/courses").
// Browsing is public; everything that mutates requires a signed-in user.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// Public browsing
	r.Get("/", h.ServeList)
	r.Get("/{id}", h.ServeView)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		// CREATE
		pr.Get("/new", h.ServeNew)
		pr.Post("/", h.HandleCreate)

		// UPDATE (PUT for non-form clients, POST alias for the form)
		pr.Get("/{id}/edit", h.ServeEdit)
		pr.Put("/{id}", h.HandleUpdate)
		pr.Post("/{id}/edit", h.HandleUpdate)

		// DELETE (same pairing)
		pr.Delete("/{id}", h.HandleDelete)
		pr.Post("/{id}/delete", h.HandleDelete)

		// ENROLLMENT
		pr.Post("/{id}/enroll", h.HandleEnroll)
		pr.Post("/{id}/unenroll", h.HandleUnenroll)
	})

	return r
}
