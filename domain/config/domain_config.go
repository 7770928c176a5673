// Package config holds the configurable business rules of the mind map
// editor. Geometry, history depth, and drag tuning live here so the
// layout and interaction code stays free of magic numbers.
package config

import (
	"fmt"
	"time"
)

// DomainConfig holds all configurable editor rules and constraints.
type DomainConfig struct {
	// Map constraints
	MaxNodesPerMap         int
	MaxRelationshipsPerMap int
	MaxContentLength       int
	DefaultMapName         string
	DefaultRootContent     string

	// Layout geometry. Node boxes have a fixed default size; style
	// overrides are honored per node. Positions refer to box centers.
	DefaultNodeWidth  float64
	DefaultNodeHeight float64
	HorizontalSpacing float64
	VerticalSpacing   float64

	// History. MaxHistoryDepth bounds the undo stack; zero means
	// unbounded. When the bound is hit the oldest entry is evicted.
	MaxHistoryDepth int

	// Drag and snap tuning. SnapThreshold is the pointer-to-center
	// distance within which a drop target is considered. The animation
	// duration is advisory; callers drive progress themselves.
	SnapThreshold         float64
	SnapAnimationDuration time.Duration

	// Validation settings
	AllowSelfRelationships      bool
	AllowDuplicateRelationships bool
	AllowEmptyContent           bool

	// Query limits
	MaxMapsPerPage int
}

// DefaultDomainConfig returns the default editor configuration.
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		// Map constraints
		MaxNodesPerMap:         10000,
		MaxRelationshipsPerMap: 5000,
		MaxContentLength:       10000,
		DefaultMapName:         "Untitled Map",
		DefaultRootContent:     "Central Topic",

		// Layout geometry
		DefaultNodeWidth:  100,
		DefaultNodeHeight: 40,
		HorizontalSpacing: 40,
		VerticalSpacing:   20,

		// History
		MaxHistoryDepth: 100,

		// Drag and snap
		SnapThreshold:         50,
		SnapAnimationDuration: 300 * time.Millisecond,

		// Validation settings
		AllowSelfRelationships:      false,
		AllowDuplicateRelationships: false,
		AllowEmptyContent:           true,

		// Query limits
		MaxMapsPerPage: 100,
	}
}

// ProductionDomainConfig returns the production configuration.
func ProductionDomainConfig() *DomainConfig {
	config := DefaultDomainConfig()

	config.MaxNodesPerMap = 5000
	config.MaxRelationshipsPerMap = 2500
	config.MaxContentLength = 5000
	config.MaxHistoryDepth = 50
	config.MaxMapsPerPage = 50

	return config
}

// DevelopmentDomainConfig returns the development configuration.
func DevelopmentDomainConfig() *DomainConfig {
	config := DefaultDomainConfig()

	config.MaxNodesPerMap = 100000
	config.MaxRelationshipsPerMap = 50000
	config.MaxHistoryDepth = 0 // unbounded
	config.AllowSelfRelationships = true
	config.AllowDuplicateRelationships = true

	return config
}

// LoadDomainConfig loads the configuration for an environment name.
func LoadDomainConfig(environment string) *DomainConfig {
	switch environment {
	case "production":
		return ProductionDomainConfig()
	case "development":
		return DevelopmentDomainConfig()
	default:
		return DefaultDomainConfig()
	}
}

// Validate checks that the configuration is internally consistent.
func (c *DomainConfig) Validate() error {
	if c.DefaultNodeWidth <= 0 || c.DefaultNodeHeight <= 0 {
		return fmt.Errorf("node dimensions must be positive, got %gx%g", c.DefaultNodeWidth, c.DefaultNodeHeight)
	}
	if c.HorizontalSpacing < 0 || c.VerticalSpacing < 0 {
		return fmt.Errorf("spacing must be non-negative, got h=%g v=%g", c.HorizontalSpacing, c.VerticalSpacing)
	}
	if c.MaxHistoryDepth < 0 {
		return fmt.Errorf("history depth must be zero or positive, got %d", c.MaxHistoryDepth)
	}
	if c.SnapThreshold <= 0 {
		return fmt.Errorf("snap threshold must be positive, got %g", c.SnapThreshold)
	}
	if c.SnapAnimationDuration <= 0 {
		return fmt.Errorf("snap animation duration must be positive, got %s", c.SnapAnimationDuration)
	}
	if c.MaxNodesPerMap <= 0 {
		return fmt.Errorf("max nodes per map must be positive, got %d", c.MaxNodesPerMap)
	}
	if c.MaxRelationshipsPerMap <= 0 {
		return fmt.Errorf("max relationships per map must be positive, got %d", c.MaxRelationshipsPerMap)
	}
	if c.MaxMapsPerPage <= 0 {
		return fmt.Errorf("max maps per page must be positive, got %d", c.MaxMapsPerPage)
	}
	return nil
}
