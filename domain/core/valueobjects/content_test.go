package valueobjects

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shalles/web-mind/domain/config"
)

func TestNewNodeContent(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{
			name:    "plain text",
			text:    "Central Topic",
			wantErr: false,
		},
		{
			name:    "empty text allowed by default",
			text:    "",
			wantErr: false,
		},
		{
			name:    "unicode text",
			text:    "思维导图",
			wantErr: false,
		},
		{
			name:    "text at maximum length",
			text:    strings.Repeat("a", 10000),
			wantErr: false,
		},
		{
			name:    "text over maximum length",
			text:    strings.Repeat("a", 10001),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, err := NewNodeContent(tt.text)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.text, content.Text())
			}
		})
	}
}

func TestNewNodeContentWithConfig(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	cfg.AllowEmptyContent = false

	_, err := NewNodeContentWithConfig("", cfg)
	assert.Error(t, err)

	content, err := NewNodeContentWithConfig("topic", cfg)
	require.NoError(t, err)
	assert.Equal(t, "topic", content.Text())

	// nil config falls back to defaults
	content, err = NewNodeContentWithConfig("", nil)
	require.NoError(t, err)
	assert.True(t, content.IsEmpty())
}

func TestNodeContent_Builders(t *testing.T) {
	base, err := NewNodeContent("topic")
	require.NoError(t, err)

	decorated := base.
		WithNote("remember this").
		WithIcon("star").
		WithImage("https://example.com/pic.png")

	assert.Equal(t, "topic", decorated.Text())
	assert.Equal(t, "remember this", decorated.Note())
	assert.Equal(t, "star", decorated.Icon())
	assert.Equal(t, "https://example.com/pic.png", decorated.Image())

	// Builders return copies; the base is untouched.
	assert.Empty(t, base.Note())
	assert.Empty(t, base.Icon())
	assert.Empty(t, base.Image())

	retexted := decorated.WithText("new topic")
	assert.Equal(t, "new topic", retexted.Text())
	assert.Equal(t, "remember this", retexted.Note())
}

func TestNodeContent_Equals(t *testing.T) {
	a, _ := NewNodeContent("topic")
	b, _ := NewNodeContent("topic")
	c, _ := NewNodeContent("other")

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
	assert.False(t, a.Equals(b.WithNote("n")))
}

func TestNodeContent_Summary(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		maxLength int
		expected  string
	}{
		{"short text unchanged", "topic", 100, "topic"},
		{"truncated with ellipsis", "a very long topic title", 10, "a very ..."},
		{"zero length", "topic", 0, ""},
		{"tiny budget without ellipsis", "topic", 2, "to"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, err := NewNodeContent(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, content.Summary(tt.maxLength))
		})
	}
}
