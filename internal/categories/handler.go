package categories

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/redress/pkg/handlers"
	"github.com/JaimeStill/redress/pkg/routes"
)

// Handler provides the HTTP endpoint for categorization.
type Handler struct {
	sys     System
	logger  *slog.Logger
	maxBody int64
}

// NewHandler creates a Handler.
func NewHandler(sys System, logger *slog.Logger, maxBody int64) *Handler {
	return &Handler{
		sys:     sys,
		logger:  logger.With("handler", "categories"),
		maxBody: maxBody,
	}
}

// Routes returns the route group definition for categorization.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/category",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Summary: "Classify grievance text into a category", Handler: h.Categorize},
		},
	}
}

// Categorize returns the candidate categories and required fields for a grievance text.
func (h *Handler) Categorize(w http.ResponseWriter, r *http.Request) {
	req, err := handlers.DecodeJSON[Request](w, r, h.maxBody)
	if err != nil {
		handlers.RespondError(w, h.logger, handlers.DecodeStatus(err), err)
		return
	}

	resp, err := h.sys.Categorize(r.Context(), req.GrievanceText)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}
