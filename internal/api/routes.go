package api

import (
	"net/http"

	"github.com/JaimeStill/redress/internal/config"
	"github.com/JaimeStill/redress/pkg/openapi"
	"github.com/JaimeStill/redress/pkg/routes"
)

func routeGroups(domain *Domain) []routes.Group {
	return []routes.Group{
		domain.Categories.Handler().Routes(),
		domain.FAQs.Handler().Routes(),
		domain.Users.Handler().Routes(),
		domain.Grievances.Handler().Routes(),
		domain.Prompts.Handler().Routes(),
	}
}

// registerRoutes mounts every domain group and serves the generated
// API document at /openapi.json.
func registerRoutes(mux *http.ServeMux, cfg *config.Config, domain *Domain) error {
	groups := routeGroups(domain)
	if err := routes.Register(mux, groups...); err != nil {
		return err
	}

	spec := cfg.API.OpenAPI.NewSpec(cfg.Version, cfg.API.BasePath)
	spec.AddRoutes(groups...)

	serve, err := openapi.Handler(spec)
	if err != nil {
		return err
	}
	mux.HandleFunc("GET /openapi.json", serve)

	return nil
}
