package routes

import (
	"net/http"

	"physiofit/physiofit/controllers"
	"physiofit/physiofit/middlewares"
	"physiofit/physiofit/types"

	"github.com/go-chi/chi/v5"
)

// PainRoutes serves POST / (mounted at /api/pain-log).
func PainRoutes(ctrl *controllers.PainController) chi.Router {
	r := chi.NewRouter()
	r.Post("/", handleJSON(func(r *http.Request) (any, error) {
		var req types.PainLogRequest
		if err := decodeJSON(r, &req); err != nil {
			return nil, badRequest(err)
		}
		return ctrl.Log(r.Context(), middlewares.UserFromContext(r.Context()), req)
	}))
	return r
}
