package queries

import "errors"

// GetDragStatusQuery reports the live drag gesture state of one map.
// Gesture state changes without touching the map version, so this query
// is deliberately not map-scoped and never cached.
type GetDragStatusQuery struct {
	MapID string
}

// Validate validates the GetDragStatusQuery
func (q GetDragStatusQuery) Validate() error {
	if q.MapID == "" {
		return errors.New("map ID is required")
	}
	return nil
}

// SnapAnimationView describes an in-flight snap animation.
type SnapAnimationView struct {
	NodeID   string       `json:"node_id"`
	TargetID string       `json:"target_id"`
	From     PositionView `json:"from"`
	To       PositionView `json:"to"`
}

// GetDragStatusResult represents the gesture state of a session
type GetDragStatusResult struct {
	State     string             `json:"state"`
	NodeID    string             `json:"node_id,omitempty"`
	Position  *PositionView      `json:"position,omitempty"`
	TargetID  string             `json:"target_id,omitempty"`
	Animation *SnapAnimationView `json:"animation,omitempty"`
}
