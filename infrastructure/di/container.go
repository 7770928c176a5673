// Package di wires the application together. wire.go holds the
// provider set; wire_gen.go is the generated injector.
package di

import (
	"go.uber.org/zap"

	"github.com/shalles/web-mind/application/commands/bus"
	"github.com/shalles/web-mind/application/ports"
	querybus "github.com/shalles/web-mind/application/queries/bus"
	"github.com/shalles/web-mind/application/services"
	domaincfg "github.com/shalles/web-mind/domain/config"
	"github.com/shalles/web-mind/infrastructure/config"
	"github.com/shalles/web-mind/infrastructure/persistence/schema"
	"github.com/shalles/web-mind/pkg/extensions"
	"github.com/shalles/web-mind/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config        *config.Config
	Limits        *domaincfg.DomainConfig
	Logger        *zap.Logger
	Metrics       *observability.Collector
	MapRepo       ports.MindMapRepository
	EventStore    ports.EventStore
	EventBus      ports.EventBus
	Editor        *services.EditorService
	CommandBus    *bus.CommandBus
	QueryBus      *querybus.QueryBus
	Cache         ports.Cache
	Snapshots     *schema.SnapshotEvolution
	Extensions    *extensions.ExtensionRegistry
	LimitsWatcher *config.LimitsWatcher
}

// Close releases background resources held by the container.
func (c *Container) Close() {
	if c.LimitsWatcher != nil {
		c.LimitsWatcher.Stop()
	}
	if c.Logger != nil {
		_ = c.Logger.Sync()
	}
}
