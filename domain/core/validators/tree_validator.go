// Package validators holds field-level validation for imported map
// data. Structural invariants (single root, acyclicity) are enforced by
// the aggregate itself; the validators catch bad field values before an
// import is attempted, so callers get every problem in one report.
package validators

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shalles/web-mind/domain/config"
	"github.com/shalles/web-mind/domain/core/aggregates"
	pkgerrors "github.com/shalles/web-mind/pkg/errors"
)

// TreeValidator validates snapshot field values against domain limits.
type TreeValidator struct {
	maxNodes         int
	maxRelationships int
	maxContentLength int
	maxLabelLength   int
	maxStyleKeys     int
	allowEmptyText   bool
}

// NewTreeValidator creates a validator with the given domain limits.
// A nil config falls back to the defaults.
func NewTreeValidator(cfg *config.DomainConfig) *TreeValidator {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &TreeValidator{
		maxNodes:         cfg.MaxNodesPerMap,
		maxRelationships: cfg.MaxRelationshipsPerMap,
		maxContentLength: cfg.MaxContentLength,
		maxLabelLength:   500,
		maxStyleKeys:     64,
		allowEmptyText:   cfg.AllowEmptyContent,
	}
}

// ValidateSnapshot checks every node and relationship in a snapshot.
// All findings are collected into a single error report.
func (v *TreeValidator) ValidateSnapshot(snap *aggregates.MapSnapshot) error {
	ve := pkgerrors.NewValidationErrors()

	if snap == nil {
		ve.Add("snapshot", "snapshot is required")
		return ve.AsAppError()
	}

	if len(snap.Nodes) == 0 {
		ve.Add("nodes", "at least one node is required")
	}
	if len(snap.Nodes) > v.maxNodes {
		ve.Addf("nodes", "%d nodes exceeds the limit of %d", len(snap.Nodes), v.maxNodes)
	}
	if len(snap.Relationships) > v.maxRelationships {
		ve.Addf("relationships", "%d relationships exceeds the limit of %d", len(snap.Relationships), v.maxRelationships)
	}

	for i := range snap.Nodes {
		v.validateNode(ve, &snap.Nodes[i], i)
	}
	for i := range snap.Relationships {
		v.validateRelationship(ve, &snap.Relationships[i], i)
	}

	if ve.HasErrors() {
		return ve.AsAppError()
	}
	return nil
}

func (v *TreeValidator) validateNode(ve *pkgerrors.ValidationErrors, node *aggregates.NodeSnapshot, index int) {
	field := nodeField(node, index)

	if node.ID == "" {
		ve.Add(field+".id", "node ID is required")
	}

	text := node.Content
	if !v.allowEmptyText && strings.TrimSpace(text) == "" {
		ve.Add(field+".content", "content must not be empty")
	}
	if utf8.RuneCountInString(text) > v.maxContentLength {
		ve.Addf(field+".content", "content length %d exceeds the limit of %d",
			utf8.RuneCountInString(text), v.maxContentLength)
	}
	if containsScriptPayload(text) || containsScriptPayload(node.Note) {
		ve.Add(field+".content", "content contains executable markup")
	}

	if node.Direction != "" && node.Direction != "left" && node.Direction != "right" {
		ve.Addf(field+".direction", "direction %q is not a valid side", node.Direction)
	}
	if node.Level < 0 {
		ve.Addf(field+".level", "level %d must not be negative", node.Level)
	}
	if node.IsReference && node.RefID == "" {
		ve.Add(field+".refId", "reference nodes need a target ID")
	}

	if !isFinite(node.Position.X) || !isFinite(node.Position.Y) {
		ve.Add(field+".position", "coordinates must be finite numbers")
	}

	if len(node.Style) > v.maxStyleKeys {
		ve.Addf(field+".style", "%d style keys exceeds the limit of %d", len(node.Style), v.maxStyleKeys)
	}
}

func (v *TreeValidator) validateRelationship(ve *pkgerrors.ValidationErrors, rel *aggregates.RelationshipSnapshot, index int) {
	field := relationshipField(rel, index)

	if rel.ID == "" {
		ve.Add(field+".id", "relationship ID is required")
	}
	if rel.SourceID == "" {
		ve.Add(field+".sourceId", "source node ID is required")
	}
	if rel.TargetID == "" {
		ve.Add(field+".targetId", "target node ID is required")
	}
	if utf8.RuneCountInString(rel.Label) > v.maxLabelLength {
		ve.Addf(field+".label", "label length %d exceeds the limit of %d",
			utf8.RuneCountInString(rel.Label), v.maxLabelLength)
	}
	if containsScriptPayload(rel.Label) {
		ve.Add(field+".label", "label contains executable markup")
	}
	if len(rel.Style) > v.maxStyleKeys {
		ve.Addf(field+".style", "%d style keys exceeds the limit of %d", len(rel.Style), v.maxStyleKeys)
	}
}

func nodeField(node *aggregates.NodeSnapshot, index int) string {
	if node.ID != "" {
		return "nodes." + node.ID
	}
	return "nodes[" + strconv.Itoa(index) + "]"
}

func relationshipField(rel *aggregates.RelationshipSnapshot, index int) string {
	if rel.ID != "" {
		return "relationships." + rel.ID
	}
	return "relationships[" + strconv.Itoa(index) + "]"
}

func containsScriptPayload(s string) bool {
	lower := strings.ToLower(s)
	return strings.Contains(lower, "<script") || strings.Contains(lower, "javascript:")
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
