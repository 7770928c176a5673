package valueobjects

import (
	"fmt"
	"unicode/utf8"

	"github.com/shalles/web-mind/domain/config"
)

// NodeContent is a value object for the text and decorations of a node.
// Note, icon, and image are opaque to the editor; they are stored,
// copied, and serialized but never interpreted.
type NodeContent struct {
	text  string
	note  string
	icon  string
	image string
}

// NewNodeContent creates content validated against the default configuration.
func NewNodeContent(text string) (NodeContent, error) {
	return NewNodeContentWithConfig(text, config.DefaultDomainConfig())
}

// NewNodeContentWithConfig creates content validated against cfg.
func NewNodeContentWithConfig(text string, cfg *config.DomainConfig) (NodeContent, error) {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	if text == "" && !cfg.AllowEmptyContent {
		return NodeContent{}, fmt.Errorf("content cannot be empty")
	}

	if utf8.RuneCountInString(text) > cfg.MaxContentLength {
		return NodeContent{}, fmt.Errorf("content exceeds maximum length of %d characters", cfg.MaxContentLength)
	}

	return NodeContent{text: text}, nil
}

// Text returns the node text.
func (c NodeContent) Text() string {
	return c.text
}

// Note returns the attached note.
func (c NodeContent) Note() string {
	return c.note
}

// Icon returns the attached icon reference.
func (c NodeContent) Icon() string {
	return c.icon
}

// Image returns the attached image reference.
func (c NodeContent) Image() string {
	return c.image
}

// WithText returns a copy with the text replaced.
func (c NodeContent) WithText(text string) NodeContent {
	c.text = text
	return c
}

// WithNote returns a copy with the note replaced.
func (c NodeContent) WithNote(note string) NodeContent {
	c.note = note
	return c
}

// WithIcon returns a copy with the icon replaced.
func (c NodeContent) WithIcon(icon string) NodeContent {
	c.icon = icon
	return c
}

// WithImage returns a copy with the image replaced.
func (c NodeContent) WithImage(image string) NodeContent {
	c.image = image
	return c
}

// IsEmpty checks if the content carries no text and no decorations.
func (c NodeContent) IsEmpty() bool {
	return c.text == "" && c.note == "" && c.icon == "" && c.image == ""
}

// Equals checks if two contents are equal.
func (c NodeContent) Equals(other NodeContent) bool {
	return c.text == other.text &&
		c.note == other.note &&
		c.icon == other.icon &&
		c.image == other.image
}

// Summary returns the text truncated to maxLength runes.
func (c NodeContent) Summary(maxLength int) string {
	if maxLength <= 0 {
		return ""
	}

	if utf8.RuneCountInString(c.text) <= maxLength {
		return c.text
	}

	runes := []rune(c.text)
	if maxLength <= 3 {
		return string(runes[:maxLength])
	}
	return string(runes[:maxLength-3]) + "..."
}
