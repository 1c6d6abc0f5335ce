package courses

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/raiamitrai/coursehub/internal/app/system/timeouts"
	"github.com/raiamitrai/coursehub/internal/app/system/viewdata"
	"go.uber.org/zap"
)

// ServeList renders the catalog, newest course first.
// GET /courses
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Courses.List(ctx)
	if err != nil {
		h.Log.Error("list courses failed", zap.Error(err))
		http.Redirect(w, r, "/?err=list_failed", http.StatusSeeOther)
		return
	}

	items := make([]courseVM, 0, len(list))
	for _, c := range list {
		items = append(items, toVM(c))
	}

	templates.Render(w, r, "course_list", listData{
		BaseVM: viewdata.NewBaseVM(r, "Courses", "/"),
		Items:  items,
		Total:  len(items),
	})
}
