// Package rest wires the HTTP surface of the editor: routing,
// middleware, and the JSON endpoints.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/shalles/web-mind/application/commands/bus"
	querybus "github.com/shalles/web-mind/application/queries/bus"
	"github.com/shalles/web-mind/infrastructure/config"
	"github.com/shalles/web-mind/infrastructure/persistence/schema"
	"github.com/shalles/web-mind/interfaces/http/rest/handlers"
	"github.com/shalles/web-mind/interfaces/http/rest/middleware"
	pkgerrors "github.com/shalles/web-mind/pkg/errors"
	"github.com/shalles/web-mind/pkg/observability"
)

// Router creates and configures the HTTP router
type Router struct {
	cfg        *config.Config
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	snapshots  *schema.SnapshotEvolution
	metrics    *observability.Collector
	logger     *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	cfg *config.Config,
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	snapshots *schema.SnapshotEvolution,
	metrics *observability.Collector,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:        cfg,
		commandBus: commandBus,
		queryBus:   queryBus,
		snapshots:  snapshots,
		metrics:    metrics,
		logger:     logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() (http.Handler, error) {
	router := chi.NewRouter()

	// Global middleware. Panics surface as JSON internal errors rather
	// than chi's plain-text 500.
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(pkgerrors.NewErrorHandler(rt.logger, rt.cfg.Environment != "production").Middleware)
	router.Use(middleware.Logger(rt.logger))
	router.Use(middleware.Metrics(rt.metrics))

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-User-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	if rt.metrics != nil {
		router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(
			rt.metrics.GetRegistry(),
			promhttp.HandlerOpts{},
		))
	}

	authenticate, err := middleware.Authenticate(rt.cfg, rt.logger)
	if err != nil {
		return nil, err
	}

	// API v1 routes
	router.Route("/api/v1", func(r chi.Router) {
		r.Use(authenticate)

		mapHandler := handlers.NewMapHandler(rt.commandBus, rt.queryBus, rt.logger)
		nodeHandler := handlers.NewNodeHandler(rt.commandBus, rt.queryBus, rt.logger)
		relationshipHandler := handlers.NewRelationshipHandler(rt.commandBus, rt.logger)
		historyHandler := handlers.NewHistoryHandler(rt.commandBus, rt.queryBus, rt.logger)
		dragHandler := handlers.NewDragHandler(rt.commandBus, rt.queryBus, rt.logger)
		snapshotHandler := handlers.NewSnapshotHandler(rt.commandBus, rt.queryBus, rt.snapshots, rt.logger)

		r.Route("/maps", func(r chi.Router) {
			r.Post("/", mapHandler.CreateMap)
			r.Get("/", mapHandler.ListMaps)

			r.Route("/{mapID}", func(r chi.Router) {
				r.Get("/", mapHandler.GetMap)
				r.Delete("/", mapHandler.DeleteMap)

				r.Get("/snapshot", snapshotHandler.Export)
				r.Put("/snapshot", snapshotHandler.Import)

				r.Route("/nodes", func(r chi.Router) {
					r.Post("/", nodeHandler.AddChild)

					r.Route("/{nodeID}", func(r chi.Router) {
						r.Get("/", nodeHandler.GetNode)
						r.Delete("/", nodeHandler.DeleteNode)
						r.Post("/siblings", nodeHandler.AddSibling)
						r.Patch("/content", nodeHandler.UpdateContent)
						r.Patch("/style", nodeHandler.UpdateStyle)
						r.Post("/toggle", nodeHandler.ToggleExpansion)
						r.Put("/position", nodeHandler.MoveNode)
						r.Post("/reorder", nodeHandler.Reorder)
					})
				})

				r.Route("/relationships", func(r chi.Router) {
					r.Post("/", relationshipHandler.Connect)
					r.Patch("/{relationshipID}", relationshipHandler.Update)
					r.Delete("/{relationshipID}", relationshipHandler.Disconnect)
				})

				r.Route("/history", func(r chi.Router) {
					r.Get("/", historyHandler.Status)
					r.Post("/undo", historyHandler.Undo)
					r.Post("/redo", historyHandler.Redo)
				})

				r.Route("/drag", func(r chi.Router) {
					r.Get("/", dragHandler.Status)
					r.Post("/begin", dragHandler.Begin)
					r.Post("/move", dragHandler.Move)
					r.Post("/end", dragHandler.End)
					r.Post("/tick", dragHandler.Tick)
					r.Post("/abort", dragHandler.Abort)
				})
			})
		})
	})

	return router, nil
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
