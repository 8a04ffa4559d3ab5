package controllers

import (
	"encoding/json"
	"net/http"

	"physiofit/physiofit/utils/logging"

	"go.uber.org/zap"
)

type HealthController struct {
	model string
}

// NewHealthController reports the configured model so a misconfigured
// deployment is visible without calling the inference server.
func NewHealthController(model string) *HealthController {
	return &HealthController{model: model}
}

func (h *HealthController) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok", "model": h.model}); err != nil {
		logging.ErrorLogger.Error("encoding health response", zap.Error(err))
	}
}
