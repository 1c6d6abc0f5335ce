package home

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/raiamitrai/coursehub/internal/app/system/viewdata"
	"go.uber.org/zap"
)

type pageData struct {
	viewdata.BaseVM
}

type Handler struct {
	Log *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger}
}

// ServeHome renders the landing page. It is also the safe fallback when the
// course list cannot be fetched, so it resolves ?err= notice codes.
func (h *Handler) ServeHome(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "home", pageData{
		BaseVM: viewdata.NewBaseVM(r, "Welcome", "/"),
	})
}
