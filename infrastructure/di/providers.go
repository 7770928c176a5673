package di

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/shalles/web-mind/application/commands"
	"github.com/shalles/web-mind/application/commands/bus"
	"github.com/shalles/web-mind/application/ports"
	"github.com/shalles/web-mind/application/queries"
	querybus "github.com/shalles/web-mind/application/queries/bus"
	queries_handlers "github.com/shalles/web-mind/application/queries/handlers"
	"github.com/shalles/web-mind/application/services"
	domaincfg "github.com/shalles/web-mind/domain/config"
	"github.com/shalles/web-mind/domain/events"
	"github.com/shalles/web-mind/infrastructure/config"
	"github.com/shalles/web-mind/infrastructure/messaging"
	"github.com/shalles/web-mind/infrastructure/persistence/memory"
	"github.com/shalles/web-mind/infrastructure/persistence/schema"
	"github.com/shalles/web-mind/pkg/extensions"
	"github.com/shalles/web-mind/pkg/observability"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error

	if cfg.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}

	if err != nil {
		return nil, err
	}

	return logger, nil
}

// ProvideDomainConfig builds the editing limits for this environment
func ProvideDomainConfig(cfg *config.Config) (*domaincfg.DomainConfig, error) {
	return cfg.DomainConfig()
}

// ProvideMetrics creates the metrics collector. Disabled metrics yield
// a nil collector, which every recording helper tolerates.
func ProvideMetrics(cfg *config.Config) *observability.Collector {
	if !cfg.EnableMetrics {
		return nil
	}
	return observability.NewCollector("web_mind")
}

// ProvideMapRepository creates the mind map repository
func ProvideMapRepository(metrics *observability.Collector, logger *zap.Logger) ports.MindMapRepository {
	return memory.NewMapRepository(metrics, logger)
}

// ProvideEventStore creates the domain event store
func ProvideEventStore() ports.EventStore {
	return memory.NewEventStore()
}

// ProvideEventBus creates the in-process event bus, persisting every
// published event to the store.
func ProvideEventBus(store ports.EventStore, logger *zap.Logger) ports.EventBus {
	return messaging.NewInProcEventBus(store, logger)
}

// ProvideEventPublisher creates an event publisher (adapter for EventBus)
func ProvideEventPublisher(eventBus ports.EventBus) ports.EventPublisher {
	return &eventPublisherAdapter{eventBus: eventBus}
}

// eventPublisherAdapter adapts EventBus to EventPublisher interface
type eventPublisherAdapter struct {
	eventBus ports.EventBus
}

func (a *eventPublisherAdapter) Publish(ctx context.Context, event events.DomainEvent) error {
	return a.eventBus.Publish(ctx, event)
}

func (a *eventPublisherAdapter) PublishBatch(ctx context.Context, evts []events.DomainEvent) error {
	return a.eventBus.PublishBatch(ctx, evts)
}

// ProvideEditorService creates the editor service
func ProvideEditorService(
	repo ports.MindMapRepository,
	publisher ports.EventPublisher,
	metrics *observability.Collector,
	limits *domaincfg.DomainConfig,
	logger *zap.Logger,
) *services.EditorService {
	return services.NewEditorService(repo, publisher, metrics, limits, logger)
}

// ProvideSnapshotEvolution creates the snapshot schema migrator
func ProvideSnapshotEvolution() *schema.SnapshotEvolution {
	return schema.DefaultSnapshotEvolution()
}

// ProvideLimitsWatcher creates the limits file hot reloader
func ProvideLimitsWatcher(cfg *config.Config, limits *domaincfg.DomainConfig, logger *zap.Logger) (*config.LimitsWatcher, error) {
	return config.NewLimitsWatcher(cfg, limits, logger)
}

// ProvideInMemoryCache creates a simple in-memory cache
// In production, this would be Redis or similar
func ProvideInMemoryCache(metrics *observability.Collector) ports.Cache {
	return NewInMemoryCache(metrics)
}

// ProvideExtensionRegistry creates the hook/plugin registry. Plugins
// register against it before the server starts serving traffic.
func ProvideExtensionRegistry() *extensions.ExtensionRegistry {
	return extensions.NewExtensionRegistry()
}

// hooksMiddleware fires extension hooks around command execution.
// Before-hooks run synchronously and can veto the command; after and
// failure hooks run async so plugins cannot slow the request path.
func hooksMiddleware(registry *extensions.ExtensionRegistry) bus.Middleware {
	return func(next bus.CommandHandler) bus.CommandHandler {
		return bus.CommandHandlerFunc(func(ctx context.Context, cmd bus.Command) error {
			hooks := registry.GetHookManager()
			if err := hooks.Execute(ctx, extensions.HookBeforeCommandExecute, cmd); err != nil {
				return err
			}
			if err := next.Handle(ctx, cmd); err != nil {
				hooks.ExecuteAsync(ctx, extensions.HookCommandFailed, cmd)
				return err
			}
			hooks.ExecuteAsync(ctx, extensions.HookAfterCommandExecute, cmd)
			return nil
		})
	}
}

// CommandHandlerAdapter adapts specific command handlers to the generic interface
type CommandHandlerAdapter struct {
	handler func(context.Context, bus.Command) error
}

func (a *CommandHandlerAdapter) Handle(ctx context.Context, cmd bus.Command) error {
	return a.handler(ctx, cmd)
}

// ProvideCommandBus creates a command bus with registered handlers.
// Commands register by pointer: handlers that produce a value write it
// back into the command's Result field for the caller.
func ProvideCommandBus(
	editor *services.EditorService,
	registry *extensions.ExtensionRegistry,
	metrics *observability.Collector,
	logger *zap.Logger,
) *bus.CommandBus {
	commandBus := bus.NewCommandBus()

	middlewares := []bus.Middleware{
		bus.LoggingMiddleware(&zapLoggerAdapter{logger}),
		hooksMiddleware(registry),
	}
	if metrics != nil {
		middlewares = append(middlewares, bus.MetricsMiddleware(&commandMetricsAdapter{metrics}))
	}
	pipeline := bus.NewPipeline(middlewares...)

	register := func(cmdType bus.Command, handler func(context.Context, bus.Command) error) {
		commandBus.Register(cmdType, pipeline.Execute(&CommandHandlerAdapter{handler: handler}))
	}

	// Map lifecycle
	createMapHandler := commands.NewCreateMapHandler(editor, logger)
	register(&commands.CreateMapCommand{}, func(ctx context.Context, cmd bus.Command) error {
		c, ok := cmd.(*commands.CreateMapCommand)
		if !ok {
			return fmt.Errorf("invalid command type")
		}
		m, err := createMapHandler.Handle(ctx, *c)
		if err != nil {
			return err
		}
		c.Result = m
		return nil
	})

	deleteMapHandler := commands.NewDeleteMapHandler(editor, logger)
	register(&commands.DeleteMapCommand{}, func(ctx context.Context, cmd bus.Command) error {
		c, ok := cmd.(*commands.DeleteMapCommand)
		if !ok {
			return fmt.Errorf("invalid command type")
		}
		return deleteMapHandler.Handle(ctx, *c)
	})

	importSnapshotHandler := commands.NewImportSnapshotHandler(editor, logger)
	register(&commands.ImportSnapshotCommand{}, func(ctx context.Context, cmd bus.Command) error {
		c, ok := cmd.(*commands.ImportSnapshotCommand)
		if !ok {
			return fmt.Errorf("invalid command type")
		}
		return importSnapshotHandler.Handle(ctx, *c)
	})

	// Node editing
	addChildHandler := commands.NewAddChildHandler(editor, logger)
	register(&commands.AddChildCommand{}, func(ctx context.Context, cmd bus.Command) error {
		c, ok := cmd.(*commands.AddChildCommand)
		if !ok {
			return fmt.Errorf("invalid command type")
		}
		node, err := addChildHandler.Handle(ctx, *c)
		if err != nil {
			return err
		}
		c.Result = node
		return nil
	})

	addSiblingHandler := commands.NewAddSiblingHandler(editor, logger)
	register(&commands.AddSiblingCommand{}, func(ctx context.Context, cmd bus.Command) error {
		c, ok := cmd.(*commands.AddSiblingCommand)
		if !ok {
			return fmt.Errorf("invalid command type")
		}
		node, err := addSiblingHandler.Handle(ctx, *c)
		if err != nil {
			return err
		}
		c.Result = node
		return nil
	})

	deleteNodeHandler := commands.NewDeleteNodeHandler(editor, logger)
	register(&commands.DeleteNodeCommand{}, func(ctx context.Context, cmd bus.Command) error {
		c, ok := cmd.(*commands.DeleteNodeCommand)
		if !ok {
			return fmt.Errorf("invalid command type")
		}
		res, err := deleteNodeHandler.Handle(ctx, *c)
		if err != nil {
			return err
		}
		c.Result = res
		return nil
	})

	updateContentHandler := commands.NewUpdateNodeContentHandler(editor, logger)
	register(&commands.UpdateNodeContentCommand{}, func(ctx context.Context, cmd bus.Command) error {
		c, ok := cmd.(*commands.UpdateNodeContentCommand)
		if !ok {
			return fmt.Errorf("invalid command type")
		}
		return updateContentHandler.Handle(ctx, *c)
	})

	updateStyleHandler := commands.NewUpdateNodeStyleHandler(editor, logger)
	register(&commands.UpdateNodeStyleCommand{}, func(ctx context.Context, cmd bus.Command) error {
		c, ok := cmd.(*commands.UpdateNodeStyleCommand)
		if !ok {
			return fmt.Errorf("invalid command type")
		}
		return updateStyleHandler.Handle(ctx, *c)
	})

	toggleHandler := commands.NewToggleNodeExpansionHandler(editor, logger)
	register(&commands.ToggleNodeExpansionCommand{}, func(ctx context.Context, cmd bus.Command) error {
		c, ok := cmd.(*commands.ToggleNodeExpansionCommand)
		if !ok {
			return fmt.Errorf("invalid command type")
		}
		expanded, err := toggleHandler.Handle(ctx, *c)
		if err != nil {
			return err
		}
		c.Result = expanded
		return nil
	})

	moveNodeHandler := commands.NewMoveNodeHandler(editor, logger)
	register(&commands.MoveNodeCommand{}, func(ctx context.Context, cmd bus.Command) error {
		c, ok := cmd.(*commands.MoveNodeCommand)
		if !ok {
			return fmt.Errorf("invalid command type")
		}
		return moveNodeHandler.Handle(ctx, *c)
	})

	reorderHandler := commands.NewReorderNodeHandler(editor, logger)
	register(&commands.ReorderNodeCommand{}, func(ctx context.Context, cmd bus.Command) error {
		c, ok := cmd.(*commands.ReorderNodeCommand)
		if !ok {
			return fmt.Errorf("invalid command type")
		}
		moved, err := reorderHandler.Handle(ctx, *c)
		if err != nil {
			return err
		}
		c.Result = moved
		return nil
	})

	// Relationships
	connectHandler := commands.NewConnectNodesHandler(editor, logger)
	register(&commands.ConnectNodesCommand{}, func(ctx context.Context, cmd bus.Command) error {
		c, ok := cmd.(*commands.ConnectNodesCommand)
		if !ok {
			return fmt.Errorf("invalid command type")
		}
		rel, err := connectHandler.Handle(ctx, *c)
		if err != nil {
			return err
		}
		c.Result = rel
		return nil
	})

	updateRelationshipHandler := commands.NewUpdateRelationshipHandler(editor, logger)
	register(&commands.UpdateRelationshipCommand{}, func(ctx context.Context, cmd bus.Command) error {
		c, ok := cmd.(*commands.UpdateRelationshipCommand)
		if !ok {
			return fmt.Errorf("invalid command type")
		}
		return updateRelationshipHandler.Handle(ctx, *c)
	})

	disconnectHandler := commands.NewDisconnectNodesHandler(editor, logger)
	register(&commands.DisconnectNodesCommand{}, func(ctx context.Context, cmd bus.Command) error {
		c, ok := cmd.(*commands.DisconnectNodesCommand)
		if !ok {
			return fmt.Errorf("invalid command type")
		}
		return disconnectHandler.Handle(ctx, *c)
	})

	// History
	undoHandler := commands.NewUndoHandler(editor, logger)
	register(&commands.UndoCommand{}, func(ctx context.Context, cmd bus.Command) error {
		c, ok := cmd.(*commands.UndoCommand)
		if !ok {
			return fmt.Errorf("invalid command type")
		}
		return undoHandler.Handle(ctx, *c)
	})

	redoHandler := commands.NewRedoHandler(editor, logger)
	register(&commands.RedoCommand{}, func(ctx context.Context, cmd bus.Command) error {
		c, ok := cmd.(*commands.RedoCommand)
		if !ok {
			return fmt.Errorf("invalid command type")
		}
		return redoHandler.Handle(ctx, *c)
	})

	// Drag gesture
	beginDragHandler := commands.NewBeginDragHandler(editor, logger)
	register(&commands.BeginDragCommand{}, func(ctx context.Context, cmd bus.Command) error {
		c, ok := cmd.(*commands.BeginDragCommand)
		if !ok {
			return fmt.Errorf("invalid command type")
		}
		return beginDragHandler.Handle(ctx, *c)
	})

	updateDragHandler := commands.NewUpdateDragHandler(editor, logger)
	register(&commands.UpdateDragCommand{}, func(ctx context.Context, cmd bus.Command) error {
		c, ok := cmd.(*commands.UpdateDragCommand)
		if !ok {
			return fmt.Errorf("invalid command type")
		}
		target, err := updateDragHandler.Handle(ctx, *c)
		if err != nil {
			return err
		}
		c.Result = target
		return nil
	})

	endDragHandler := commands.NewEndDragHandler(editor, logger)
	register(&commands.EndDragCommand{}, func(ctx context.Context, cmd bus.Command) error {
		c, ok := cmd.(*commands.EndDragCommand)
		if !ok {
			return fmt.Errorf("invalid command type")
		}
		res, err := endDragHandler.Handle(ctx, *c)
		if err != nil {
			return err
		}
		c.Result = res
		return nil
	})

	tickSnapHandler := commands.NewTickSnapHandler(editor, logger)
	register(&commands.TickSnapCommand{}, func(ctx context.Context, cmd bus.Command) error {
		c, ok := cmd.(*commands.TickSnapCommand)
		if !ok {
			return fmt.Errorf("invalid command type")
		}
		res, err := tickSnapHandler.Handle(ctx, *c)
		if err != nil {
			return err
		}
		c.Result = res
		return nil
	})

	abortDragHandler := commands.NewAbortDragHandler(editor, logger)
	register(&commands.AbortDragCommand{}, func(ctx context.Context, cmd bus.Command) error {
		c, ok := cmd.(*commands.AbortDragCommand)
		if !ok {
			return fmt.Errorf("invalid command type")
		}
		return abortDragHandler.Handle(ctx, *c)
	})

	return commandBus
}

// QueryHandlerAdapter adapts specific query handlers to the generic interface
type QueryHandlerAdapter struct {
	handler func(context.Context, querybus.Query) (interface{}, error)
}

func (a *QueryHandlerAdapter) Handle(ctx context.Context, query querybus.Query) (interface{}, error) {
	return a.handler(ctx, query)
}

// ProvideQueryBus creates a query bus with registered handlers. Every
// handler is wrapped with version-keyed caching; queries that are not
// map-scoped pass straight through.
func ProvideQueryBus(
	repo ports.MindMapRepository,
	editor *services.EditorService,
	limits *domaincfg.DomainConfig,
	cache ports.Cache,
	cfg *config.Config,
	metrics *observability.Collector,
	logger *zap.Logger,
) *querybus.QueryBus {
	queryBus := querybus.NewQueryBus()

	caching := querybus.NewCachingMiddleware(cache, repo, cfg.CacheTTLSeconds)
	var queryMetrics *querybus.MetricsMiddleware
	if metrics != nil {
		queryMetrics = querybus.NewMetricsMiddleware(&queryMetricsAdapter{metrics})
	}

	register := func(queryType querybus.Query, handler func(context.Context, querybus.Query) (interface{}, error)) {
		wrapped := caching.Wrap(&QueryHandlerAdapter{handler: handler})
		if queryMetrics != nil {
			wrapped = queryMetrics.Wrap(wrapped)
		}
		queryBus.Register(queryType, wrapped)
	}

	getMapHandler := queries_handlers.NewGetMapHandler(repo, logger)
	register(queries.GetMapQuery{}, func(ctx context.Context, query querybus.Query) (interface{}, error) {
		q, ok := query.(queries.GetMapQuery)
		if !ok {
			return nil, fmt.Errorf("invalid query type")
		}
		return getMapHandler.Handle(ctx, q)
	})

	getNodeHandler := queries_handlers.NewGetNodeHandler(repo, logger)
	register(queries.GetNodeQuery{}, func(ctx context.Context, query querybus.Query) (interface{}, error) {
		q, ok := query.(queries.GetNodeQuery)
		if !ok {
			return nil, fmt.Errorf("invalid query type")
		}
		return getNodeHandler.Handle(ctx, q)
	})

	listMapsHandler := queries_handlers.NewListMapsHandler(repo, limits, logger)
	register(queries.ListMapsQuery{}, func(ctx context.Context, query querybus.Query) (interface{}, error) {
		q, ok := query.(queries.ListMapsQuery)
		if !ok {
			return nil, fmt.Errorf("invalid query type")
		}
		return listMapsHandler.Handle(ctx, q)
	})

	getHistoryHandler := queries_handlers.NewGetHistoryHandler(editor, logger)
	register(queries.GetHistoryQuery{}, func(ctx context.Context, query querybus.Query) (interface{}, error) {
		q, ok := query.(queries.GetHistoryQuery)
		if !ok {
			return nil, fmt.Errorf("invalid query type")
		}
		return getHistoryHandler.Handle(ctx, q)
	})

	exportSnapshotHandler := queries_handlers.NewExportSnapshotHandler(repo, logger)
	register(queries.ExportSnapshotQuery{}, func(ctx context.Context, query querybus.Query) (interface{}, error) {
		q, ok := query.(queries.ExportSnapshotQuery)
		if !ok {
			return nil, fmt.Errorf("invalid query type")
		}
		return exportSnapshotHandler.Handle(ctx, q)
	})

	getDragStatusHandler := queries_handlers.NewGetDragStatusHandler(editor, logger)
	register(queries.GetDragStatusQuery{}, func(ctx context.Context, query querybus.Query) (interface{}, error) {
		q, ok := query.(queries.GetDragStatusQuery)
		if !ok {
			return nil, fmt.Errorf("invalid query type")
		}
		return getDragStatusHandler.Handle(ctx, q)
	})

	return queryBus
}

// commandMetricsAdapter feeds the command bus middleware into the
// Prometheus collector.
type commandMetricsAdapter struct {
	metrics *observability.Collector
}

func (a *commandMetricsAdapter) StartTimer(metric, label string) bus.Timer {
	return &busTimer{
		start:   time.Now(),
		observe: a.metrics.BusDuration.WithLabelValues(metric, label).Observe,
	}
}

func (a *commandMetricsAdapter) Increment(metric, label string) {
	a.metrics.BusOperations.WithLabelValues(metric, label).Inc()
}

// queryMetricsAdapter does the same for the query bus. The two bus
// packages declare their own Timer interfaces, hence the twin.
type queryMetricsAdapter struct {
	metrics *observability.Collector
}

func (a *queryMetricsAdapter) StartTimer(metric, label string) querybus.Timer {
	return &busTimer{
		start:   time.Now(),
		observe: a.metrics.BusDuration.WithLabelValues(metric, label).Observe,
	}
}

func (a *queryMetricsAdapter) Increment(metric, label string) {
	a.metrics.BusOperations.WithLabelValues(metric, label).Inc()
}

type busTimer struct {
	start   time.Time
	observe func(float64)
}

func (t *busTimer) Stop() {
	t.observe(time.Since(t.start).Seconds())
}

// zapLoggerAdapter adapts zap.Logger to the bus Logger interface
type zapLoggerAdapter struct {
	logger *zap.Logger
}

func (a *zapLoggerAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Info(msg, a.fieldsToZap(keysAndValues...)...)
}

func (a *zapLoggerAdapter) Error(msg string, keysAndValues ...interface{}) {
	a.logger.Error(msg, a.fieldsToZap(keysAndValues...)...)
}

func (a *zapLoggerAdapter) fieldsToZap(keysAndValues ...interface{}) []zap.Field {
	var zapFields []zap.Field
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, _ := keysAndValues[i].(string)
		zapFields = append(zapFields, zap.Any(key, keysAndValues[i+1]))
	}
	return zapFields
}
