package errors

// Machine-readable codes carried by editor errors. The REST layer echoes
// these verbatim so clients can branch without parsing messages.
const (
	CodeMapNotFound          = "MAP_NOT_FOUND"
	CodeNodeNotFound         = "NODE_NOT_FOUND"
	CodeRelationshipNotFound = "RELATIONSHIP_NOT_FOUND"
	CodeRootDelete           = "ROOT_DELETE"
	CodeRootSibling          = "ROOT_SIBLING"
	CodeRootDrag             = "ROOT_DRAG"
	CodeReparentCycle        = "REPARENT_CYCLE"
	CodeUndoEmpty            = "UNDO_EMPTY"
	CodeRedoEmpty            = "REDO_EMPTY"
	CodeDragInProgress       = "DRAG_IN_PROGRESS"
	CodeNoDragActive         = "NO_DRAG_ACTIVE"
	CodeSnapInProgress       = "SNAP_IN_PROGRESS"
	CodeSelfRelationship     = "SELF_RELATIONSHIP"
	CodeDuplicateEdge        = "DUPLICATE_RELATIONSHIP"
	CodeNodeLimit            = "NODE_LIMIT_EXCEEDED"
	CodeRelationshipLimit    = "RELATIONSHIP_LIMIT_EXCEEDED"
	CodeStaleVersion         = "STALE_VERSION"
	CodeSchemaVersion        = "UNSUPPORTED_SCHEMA_VERSION"
)

// ErrMapNotFound reports a map ID that does not resolve.
func ErrMapNotFound(id string) *AppError {
	return NewNotFoundError("map").WithCode(CodeMapNotFound).WithDetail("map_id", id)
}

// ErrNodeNotFound reports a node ID that does not resolve.
func ErrNodeNotFound(id string) *AppError {
	return NewNotFoundError("node").WithCode(CodeNodeNotFound).WithDetail("node_id", id)
}

// ErrRelationshipNotFound reports a relationship ID that does not resolve.
func ErrRelationshipNotFound(id string) *AppError {
	return NewNotFoundError("relationship").WithCode(CodeRelationshipNotFound).WithDetail("relationship_id", id)
}

// ErrRootDelete reports an attempt to delete the root node.
func ErrRootDelete(id string) *AppError {
	return NewRootViolationError("root node cannot be deleted").
		WithCode(CodeRootDelete).WithDetail("node_id", id)
}

// ErrRootSibling reports an attempt to add a sibling next to the root node.
func ErrRootSibling(id string) *AppError {
	return NewRootViolationError("root node cannot have siblings").
		WithCode(CodeRootSibling).WithDetail("node_id", id)
}

// ErrRootDrag reports an attempt to drag the root node.
func ErrRootDrag(id string) *AppError {
	return NewRootViolationError("root node cannot be dragged").
		WithCode(CodeRootDrag).WithDetail("node_id", id)
}

// ErrReparentCycle reports a reparent that would place a node under one
// of its own descendants.
func ErrReparentCycle(nodeID, targetID string) *AppError {
	return NewCycleViolationError("reparent would create a cycle").
		WithCode(CodeReparentCycle).
		WithDetail("node_id", nodeID).
		WithDetail("target_id", targetID)
}

// ErrUndoEmpty reports an undo with no past states recorded.
func ErrUndoEmpty() *AppError {
	return NewEmptyHistoryError("nothing to undo").WithCode(CodeUndoEmpty)
}

// ErrRedoEmpty reports a redo with no undone states to reapply.
func ErrRedoEmpty() *AppError {
	return NewEmptyHistoryError("nothing to redo").WithCode(CodeRedoEmpty)
}

// ErrDragInProgress reports a second drag started before the first ended.
func ErrDragInProgress() *AppError {
	return NewDragStateError("a drag gesture is already in progress").WithCode(CodeDragInProgress)
}

// ErrNoDragActive reports a drag update or release without an active drag.
func ErrNoDragActive() *AppError {
	return NewDragStateError("no drag gesture in progress").WithCode(CodeNoDragActive)
}

// ErrSnapInProgress reports an edit attempted while a snap animation is
// still being ticked to completion.
func ErrSnapInProgress() *AppError {
	return NewDragStateError("snap animation in progress").WithCode(CodeSnapInProgress)
}

// ErrSelfRelationship reports a relationship whose source and target are
// the same node.
func ErrSelfRelationship(id string) *AppError {
	return NewValidationError("relationship cannot connect a node to itself").
		WithCode(CodeSelfRelationship).WithDetail("node_id", id)
}

// ErrDuplicateRelationship reports a second relationship over an already
// connected source and target pair.
func ErrDuplicateRelationship(sourceID, targetID string) *AppError {
	return NewConflictError("nodes are already connected").
		WithCode(CodeDuplicateEdge).
		WithDetail("source_id", sourceID).
		WithDetail("target_id", targetID)
}

// ErrNodeLimit reports a map that reached its configured node ceiling.
func ErrNodeLimit(limit int) *AppError {
	return NewConflictError("node limit exceeded").
		WithCode(CodeNodeLimit).WithDetail("limit", limit)
}

// ErrRelationshipLimit reports a map that reached its configured
// relationship ceiling.
func ErrRelationshipLimit(limit int) *AppError {
	return NewConflictError("relationship limit exceeded").
		WithCode(CodeRelationshipLimit).WithDetail("limit", limit)
}

// ErrStaleVersion reports a snapshot write conditioned on an outdated
// map version.
func ErrStaleVersion(expected, actual int64) *AppError {
	return NewConflictError("map was modified concurrently").
		WithCode(CodeStaleVersion).
		WithDetail("expected_version", expected).
		WithDetail("actual_version", actual)
}

// ErrSchemaVersion reports a snapshot document no migration path reaches.
func ErrSchemaVersion(version string) *AppError {
	return NewValidationError("unsupported snapshot schema version").
		WithCode(CodeSchemaVersion).WithDetail("schema_version", version)
}
