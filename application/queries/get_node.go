package queries

import "errors"

// GetNodeQuery fetches a single node of one map.
type GetNodeQuery struct {
	MapID  string
	NodeID string
}

// Validate validates the GetNodeQuery
func (q GetNodeQuery) Validate() error {
	if q.MapID == "" {
		return errors.New("map ID is required")
	}
	if q.NodeID == "" {
		return errors.New("node ID is required")
	}
	return nil
}

// MapScope marks the query as cacheable per map.
func (q GetNodeQuery) MapScope() string {
	return q.MapID
}

// GetNodeResult represents the result of getting a node
type GetNodeResult struct {
	Node NodeView `json:"node"`
}
