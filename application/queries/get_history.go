package queries

import "errors"

// GetHistoryQuery reports the undo/redo state of one map's editing
// session.
type GetHistoryQuery struct {
	MapID string
}

// Validate validates the GetHistoryQuery
func (q GetHistoryQuery) Validate() error {
	if q.MapID == "" {
		return errors.New("map ID is required")
	}
	return nil
}

// MapScope marks the query as cacheable per map. Undo and redo both
// bump the map version, so cached entries stop matching as soon as the
// history moves.
func (q GetHistoryQuery) MapScope() string {
	return q.MapID
}

// HistoryEntryView is one recorded history step.
type HistoryEntryView struct {
	Label      string `json:"label"`
	Checksum   string `json:"checksum"`
	NodeCount  int    `json:"node_count"`
	CapturedAt string `json:"captured_at"`
}

// GetHistoryResult represents the undo/redo state of a session
type GetHistoryResult struct {
	CanUndo   bool               `json:"can_undo"`
	CanRedo   bool               `json:"can_redo"`
	UndoDepth int                `json:"undo_depth"`
	RedoDepth int                `json:"redo_depth"`
	MaxDepth  int                `json:"max_depth"`
	UndoLabel string             `json:"undo_label,omitempty"`
	RedoLabel string             `json:"redo_label,omitempty"`
	Undo      []HistoryEntryView `json:"undo"`
	Redo      []HistoryEntryView `json:"redo"`
}
