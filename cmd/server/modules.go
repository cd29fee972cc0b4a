package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JaimeStill/redress/internal/api"
	"github.com/JaimeStill/redress/internal/config"
	"github.com/JaimeStill/redress/internal/infrastructure"
	"github.com/JaimeStill/redress/pkg/handlers"
	"github.com/JaimeStill/redress/pkg/module"
)

type Modules struct {
	API *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	return &Modules{API: apiModule}, nil
}

func (m *Modules) Mount(router *module.Router) error {
	return router.Mount(m.API)
}

type readiness struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
	Hooks  map[string]string `json:"startup_errors,omitempty"`
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	router.HandleNative("GET /readyz", readyHandler(infra))
	router.HandleNative("GET /metrics", promhttp.Handler().ServeHTTP)

	return router
}

// readyHandler reports 200 only once startup hooks have finished, the
// database answers a ping, and the index connection is up.
func readyHandler(infra *infrastructure.Infrastructure) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := readiness{Status: "ready", Checks: map[string]string{}}

		check := func(name string, ok bool) {
			if ok {
				res.Checks[name] = "ok"
				return
			}
			res.Checks[name] = "unavailable"
			res.Status = "not ready"
		}

		check("startup", infra.Lifecycle.Ready())
		for name, err := range infra.Lifecycle.Failures() {
			if res.Hooks == nil {
				res.Hooks = map[string]string{}
			}
			res.Hooks[name] = err.Error()
		}
		check("database", infra.Database.Ping(r.Context()) == nil)
		check("index", infra.Index.Connected())

		status := http.StatusOK
		if res.Status != "ready" {
			status = http.StatusServiceUnavailable
		}
		handlers.RespondJSON(w, status, res)
	}
}
