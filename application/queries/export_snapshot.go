package queries

import "errors"

// ExportSnapshotQuery captures a map's full state as a portable
// snapshot document.
type ExportSnapshotQuery struct {
	MapID string
}

// Validate validates the ExportSnapshotQuery
func (q ExportSnapshotQuery) Validate() error {
	if q.MapID == "" {
		return errors.New("map ID is required")
	}
	return nil
}

// MapScope marks the query as cacheable per map.
func (q ExportSnapshotQuery) MapScope() string {
	return q.MapID
}
