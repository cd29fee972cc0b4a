package faqs

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/redress/pkg/handlers"
	"github.com/JaimeStill/redress/pkg/routes"
)

// Handler provides the HTTP endpoint for FAQ lookup.
type Handler struct {
	sys     System
	logger  *slog.Logger
	maxBody int64
}

// NewHandler creates a Handler.
func NewHandler(sys System, logger *slog.Logger, maxBody int64) *Handler {
	return &Handler{
		sys:     sys,
		logger:  logger.With("handler", "faqs"),
		maxBody: maxBody,
	}
}

// Routes returns the route group definition for FAQ lookup.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/faqs",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Summary: "Retrieve FAQs relevant to a grievance", Handler: h.Search},
		},
	}
}

// Search returns FAQs matching the query in the request body.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	req, err := handlers.DecodeJSON[Request](w, r, h.maxBody)
	if err != nil {
		handlers.RespondError(w, h.logger, handlers.DecodeStatus(err), err)
		return
	}

	resp, err := h.sys.Search(r.Context(), req)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}
