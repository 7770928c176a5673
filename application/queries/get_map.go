package queries

import "errors"

// GetMapQuery fetches one full map: metadata, every node in tree
// order, and all relationships.
type GetMapQuery struct {
	MapID string
}

// Validate validates the GetMapQuery
func (q GetMapQuery) Validate() error {
	if q.MapID == "" {
		return errors.New("map ID is required")
	}
	return nil
}

// MapScope marks the query as cacheable per map.
func (q GetMapQuery) MapScope() string {
	return q.MapID
}

// GetMapResult represents the result of getting a full map
type GetMapResult struct {
	ID            string             `json:"id"`
	UserID        string             `json:"user_id"`
	Name          string             `json:"name"`
	RootID        string             `json:"root_id"`
	Version       int64              `json:"version"`
	NodeCount     int                `json:"node_count"`
	CreatedAt     string             `json:"created_at"`
	UpdatedAt     string             `json:"updated_at"`
	Nodes         []NodeView         `json:"nodes"`
	Relationships []RelationshipView `json:"relationships"`
}
