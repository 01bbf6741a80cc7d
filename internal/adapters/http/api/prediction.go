package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okian/foundermatch/internal/domain/model"
	"github.com/okian/foundermatch/internal/domain/prediction"
)

// PredictionDependencies defines the interface for outcome predictions.
type PredictionDependencies interface {
	Predict(ctx context.Context, name string) (model.PredictionReport, error)
}

// PredictionHandler handles prediction requests.
type PredictionHandler struct {
	deps PredictionDependencies
}

// NewPredictionHandler creates a new prediction handler.
func NewPredictionHandler(deps PredictionDependencies) *PredictionHandler {
	return &PredictionHandler{deps: deps}
}

// HandleGetPrediction handles GET /profiles/{name}/prediction.
// ?format=text returns the rendered summary instead of JSON.
func (h *PredictionHandler) HandleGetPrediction(w http.ResponseWriter, r *http.Request) {
	report, err := h.deps.Predict(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if wantsText(r) {
		writeText(w, http.StatusOK, prediction.RenderText(report))
		return
	}
	writeJSON(w, http.StatusOK, report)
}
