// Package schema versions the exported snapshot document format.
// Documents written by older releases are migrated step by step to the
// current shape before they reach the domain.
package schema

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/shalles/web-mind/domain/core/aggregates"
	pkgerrors "github.com/shalles/web-mind/pkg/errors"
)

// CurrentVersion is the schema version this release writes.
const CurrentVersion = 2

// document is the raw decoded form a migration operates on.
type document = map[string]interface{}

// MigrationFunc rewrites a document in place between adjacent versions.
type MigrationFunc func(doc document) (document, error)

// Migration represents one schema step
type Migration struct {
	FromVersion int
	ToVersion   int
	Description string
	Up          MigrationFunc
}

// AppliedMigration records one executed step
type AppliedMigration struct {
	Version     int       `json:"version"`
	Description string    `json:"description"`
	AppliedAt   time.Time `json:"applied_at"`
}

// SnapshotEvolution migrates snapshot documents to the current schema
type SnapshotEvolution struct {
	migrations []Migration
	history    []AppliedMigration
}

// NewSnapshotEvolution creates an evolution manager with no migrations
// registered.
func NewSnapshotEvolution() *SnapshotEvolution {
	return &SnapshotEvolution{}
}

// DefaultSnapshotEvolution creates an evolution manager with all known
// migrations registered.
func DefaultSnapshotEvolution() *SnapshotEvolution {
	e := NewSnapshotEvolution()
	// v1 documents predate collapse state and side assignment.
	_ = e.Register(Migration{
		FromVersion: 1,
		ToVersion:   2,
		Description: "default expanded and direction on nodes",
		Up:          migrateV1NodeFields,
	})
	return e
}

// Register registers a migration step
func (e *SnapshotEvolution) Register(migration Migration) error {
	if migration.FromVersion >= migration.ToVersion {
		return fmt.Errorf("invalid migration: from_version must be less than to_version")
	}
	for _, existing := range e.migrations {
		if existing.FromVersion == migration.FromVersion && existing.ToVersion == migration.ToVersion {
			return fmt.Errorf("migration from %d to %d already exists",
				migration.FromVersion, migration.ToVersion)
		}
	}
	e.migrations = append(e.migrations, migration)
	return nil
}

// Decode parses a snapshot document, migrating it forward as needed,
// and returns the snapshot together with the version it was written
// at. Documents without a version marker are treated as current.
func (e *SnapshotEvolution) Decode(raw []byte) (*aggregates.MapSnapshot, int, error) {
	var wrapper struct {
		SchemaVersion int             `json:"_schema_version"`
		Data          json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, 0, pkgerrors.NewValidationError(fmt.Sprintf("malformed snapshot document: %v", err))
	}

	payload := wrapper.Data
	version := wrapper.SchemaVersion
	if version == 0 && payload == nil {
		// Bare snapshot without the wrapper; assume current format.
		payload = raw
		version = CurrentVersion
	}
	if version > CurrentVersion || version < 1 {
		return nil, version, pkgerrors.ErrSchemaVersion(strconv.Itoa(version))
	}

	migrated, err := e.upgrade(payload, version)
	if err != nil {
		return nil, version, err
	}

	var snap aggregates.MapSnapshot
	if err := json.Unmarshal(migrated, &snap); err != nil {
		return nil, version, pkgerrors.NewValidationError(fmt.Sprintf("malformed snapshot payload: %v", err))
	}
	return &snap, version, nil
}

// Encode wraps a snapshot with the current schema version marker.
func (e *SnapshotEvolution) Encode(snap *aggregates.MapSnapshot) ([]byte, error) {
	wrapper := struct {
		SchemaVersion int                     `json:"_schema_version"`
		Data          *aggregates.MapSnapshot `json:"data"`
	}{
		SchemaVersion: CurrentVersion,
		Data:          snap,
	}
	return json.Marshal(wrapper)
}

// History returns the migrations applied so far.
func (e *SnapshotEvolution) History() []AppliedMigration {
	return e.history
}

// upgrade walks the migration chain from version to CurrentVersion.
func (e *SnapshotEvolution) upgrade(payload json.RawMessage, version int) (json.RawMessage, error) {
	if version == CurrentVersion {
		return payload, nil
	}

	var doc document
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, pkgerrors.NewValidationError(fmt.Sprintf("malformed snapshot payload: %v", err))
	}

	for version < CurrentVersion {
		migration := e.find(version, version+1)
		if migration == nil {
			return nil, pkgerrors.ErrSchemaVersion(strconv.Itoa(version))
		}

		migrated, err := migration.Up(doc)
		if err != nil {
			return nil, fmt.Errorf("migration %d->%d failed: %w",
				migration.FromVersion, migration.ToVersion, err)
		}
		doc = migrated

		e.history = append(e.history, AppliedMigration{
			Version:     migration.ToVersion,
			Description: migration.Description,
			AppliedAt:   time.Now(),
		})
		version = migration.ToVersion
	}

	return json.Marshal(doc)
}

func (e *SnapshotEvolution) find(from, to int) *Migration {
	for i := range e.migrations {
		if e.migrations[i].FromVersion == from && e.migrations[i].ToVersion == to {
			return &e.migrations[i]
		}
	}
	return nil
}

// migrateV1NodeFields fills the fields v1 exports never wrote: nodes
// default to expanded, and non-root nodes without a side fall on the
// right.
func migrateV1NodeFields(doc document) (document, error) {
	nodes, ok := doc["nodes"].([]interface{})
	if !ok {
		return doc, nil
	}

	for _, raw := range nodes {
		node, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		if _, exists := node["expanded"]; !exists {
			node["expanded"] = true
		}
		if _, exists := node["direction"]; !exists {
			if parent, hasParent := node["parentId"].(string); hasParent && parent != "" {
				node["direction"] = "right"
			} else {
				node["direction"] = ""
			}
		}
	}
	return doc, nil
}
