// Package versioning implements the undo/redo history for mind maps.
// History entries are full deep-copy snapshots rather than inverse
// operations, which keeps restore trivially correct at the cost of
// memory, bounded by a configurable depth.
package versioning

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/shalles/web-mind/domain/config"
	"github.com/shalles/web-mind/domain/core/aggregates"
	pkgerrors "github.com/shalles/web-mind/pkg/errors"
)

// DefaultMaxDepth bounds each stack when no explicit depth is given.
const DefaultMaxDepth = 100

type historyEntry struct {
	snapshot   *aggregates.MapSnapshot
	label      string
	checksum   string
	capturedAt time.Time
}

// EntryInfo describes one history entry without exposing its snapshot.
type EntryInfo struct {
	Label      string    `json:"label"`
	Checksum   string    `json:"checksum"`
	NodeCount  int       `json:"nodeCount"`
	CapturedAt time.Time `json:"capturedAt"`
}

// HistoryManager keeps bounded undo and redo stacks of map snapshots.
// A depth of zero means unbounded; when the undo stack is full the
// oldest entry is evicted. The manager owns deep copies of everything
// it stores, so callers may keep mutating the snapshots they pass in.
//
// It is not safe for concurrent use; the owning session serializes
// access.
type HistoryManager struct {
	maxDepth int
	undo     []historyEntry
	redo     []historyEntry
}

// NewHistoryManager creates a manager with the given stack depth.
// Zero means unbounded; negative values fall back to the default.
func NewHistoryManager(maxDepth int) *HistoryManager {
	if maxDepth < 0 {
		maxDepth = DefaultMaxDepth
	}
	return &HistoryManager{
		maxDepth: maxDepth,
		undo:     []historyEntry{},
		redo:     []historyEntry{},
	}
}

// NewHistoryManagerFromConfig creates a manager sized from the domain
// configuration.
func NewHistoryManagerFromConfig(cfg *config.DomainConfig) *HistoryManager {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return NewHistoryManager(cfg.MaxHistoryDepth)
}

// Push records the state as it was before a mutation and clears the
// redo stack, since the timeline has forked. Call it with the pre-state
// only after the mutation is known to succeed.
func (h *HistoryManager) Push(snap *aggregates.MapSnapshot, label string) error {
	if snap == nil {
		return pkgerrors.NewValidationError("cannot push a nil snapshot")
	}

	entry, err := newEntry(snap, label)
	if err != nil {
		return err
	}

	if h.maxDepth > 0 && len(h.undo) >= h.maxDepth {
		h.undo = h.undo[1:]
	}
	h.undo = append(h.undo, entry)
	h.redo = h.redo[:0]
	return nil
}

// Undo parks the current state on the redo stack and returns the most
// recently pushed state. The caller restores the returned snapshot.
func (h *HistoryManager) Undo(current *aggregates.MapSnapshot) (*aggregates.MapSnapshot, error) {
	if len(h.undo) == 0 {
		return nil, pkgerrors.ErrUndoEmpty()
	}
	if current == nil {
		return nil, pkgerrors.NewValidationError("current state is required to undo")
	}

	top := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]

	parked, err := newEntry(current, top.label)
	if err != nil {
		h.undo = append(h.undo, top)
		return nil, err
	}
	h.redo = append(h.redo, parked)

	return top.snapshot.Clone(), nil
}

// Redo parks the current state back on the undo stack and returns the
// most recently undone state.
func (h *HistoryManager) Redo(current *aggregates.MapSnapshot) (*aggregates.MapSnapshot, error) {
	if len(h.redo) == 0 {
		return nil, pkgerrors.ErrRedoEmpty()
	}
	if current == nil {
		return nil, pkgerrors.NewValidationError("current state is required to redo")
	}

	top := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]

	parked, err := newEntry(current, top.label)
	if err != nil {
		h.redo = append(h.redo, top)
		return nil, err
	}
	h.undo = append(h.undo, parked)

	return top.snapshot.Clone(), nil
}

// CanUndo reports whether an undo is available.
func (h *HistoryManager) CanUndo() bool {
	return len(h.undo) > 0
}

// CanRedo reports whether a redo is available.
func (h *HistoryManager) CanRedo() bool {
	return len(h.redo) > 0
}

// UndoDepth returns the number of undoable states.
func (h *HistoryManager) UndoDepth() int {
	return len(h.undo)
}

// RedoDepth returns the number of redoable states.
func (h *HistoryManager) RedoDepth() int {
	return len(h.redo)
}

// MaxDepth returns the configured bound, zero meaning unbounded.
func (h *HistoryManager) MaxDepth() int {
	return h.maxDepth
}

// UndoLabel returns the label of the entry Undo would restore.
func (h *HistoryManager) UndoLabel() (string, bool) {
	if len(h.undo) == 0 {
		return "", false
	}
	return h.undo[len(h.undo)-1].label, true
}

// RedoLabel returns the label of the entry Redo would restore.
func (h *HistoryManager) RedoLabel() (string, bool) {
	if len(h.redo) == 0 {
		return "", false
	}
	return h.redo[len(h.redo)-1].label, true
}

// Clear drops both stacks. Used when a map is closed or replaced by an
// import.
func (h *HistoryManager) Clear() {
	h.undo = h.undo[:0]
	h.redo = h.redo[:0]
}

// UndoEntries lists the undo stack newest-first, without snapshots.
func (h *HistoryManager) UndoEntries() []EntryInfo {
	return describe(h.undo)
}

// RedoEntries lists the redo stack newest-first, without snapshots.
func (h *HistoryManager) RedoEntries() []EntryInfo {
	return describe(h.redo)
}

func describe(stack []historyEntry) []EntryInfo {
	infos := make([]EntryInfo, 0, len(stack))
	for i := len(stack) - 1; i >= 0; i-- {
		e := stack[i]
		infos = append(infos, EntryInfo{
			Label:      e.label,
			Checksum:   e.checksum,
			NodeCount:  len(e.snapshot.Nodes),
			CapturedAt: e.capturedAt,
		})
	}
	return infos
}

func newEntry(snap *aggregates.MapSnapshot, label string) (historyEntry, error) {
	checksum, err := ChecksumSnapshot(snap)
	if err != nil {
		return historyEntry{}, err
	}
	return historyEntry{
		snapshot:   snap.Clone(),
		label:      label,
		checksum:   checksum,
		capturedAt: time.Now(),
	}, nil
}

// ChecksumSnapshot returns the hex SHA-256 of the snapshot's canonical
// JSON encoding. Equal states produce equal checksums.
func ChecksumSnapshot(snap *aggregates.MapSnapshot) (string, error) {
	if snap == nil {
		return "", pkgerrors.NewValidationError("cannot checksum a nil snapshot")
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return "", pkgerrors.NewInternalError("failed to encode snapshot for checksum", err)
	}

	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}
