package routes

import (
	"net/http"

	"physiofit/physiofit/controllers"
	"physiofit/physiofit/types"

	"github.com/go-chi/chi/v5"
)

// ChatRoutes serves POST / (mounted at /api/chat). The relay does not look
// at the session.
func ChatRoutes(ctrl *controllers.ChatController) chi.Router {
	r := chi.NewRouter()
	r.Post("/", handleJSON(func(r *http.Request) (any, error) {
		var req types.ChatRequest
		if err := decodeJSON(r, &req); err != nil {
			return nil, badRequest(err)
		}
		return ctrl.Chat(r.Context(), req)
	}))
	return r
}
