package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStyle_Merge(t *testing.T) {
	tests := []struct {
		name     string
		base     Style
		patch    Style
		expected Style
	}{
		{
			name:     "patch overwrites existing keys",
			base:     Style{"color": "red", "fontSize": 12},
			patch:    Style{"color": "blue"},
			expected: Style{"color": "blue", "fontSize": 12},
		},
		{
			name:     "patch adds new keys",
			base:     Style{"color": "red"},
			patch:    Style{"border": "dashed"},
			expected: Style{"color": "red", "border": "dashed"},
		},
		{
			name:     "empty patch preserves base",
			base:     Style{"color": "red"},
			patch:    Style{},
			expected: Style{"color": "red"},
		},
		{
			name:     "nil base behaves as empty",
			base:     nil,
			patch:    Style{"color": "green"},
			expected: Style{"color": "green"},
		},
		{
			name: "merge is shallow: nested values replaced whole",
			base: Style{"font": map[string]interface{}{"family": "serif", "size": 12}},
			patch: Style{
				"font": map[string]interface{}{"family": "mono"},
			},
			expected: Style{"font": map[string]interface{}{"family": "mono"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged := tt.base.Merge(tt.patch)
			assert.Equal(t, tt.expected, merged)
		})
	}
}

func TestStyle_MergeDoesNotModifyReceiver(t *testing.T) {
	base := Style{"color": "red"}
	_ = base.Merge(Style{"color": "blue", "extra": true})

	assert.Equal(t, Style{"color": "red"}, base)
}

func TestStyle_Clone(t *testing.T) {
	base := Style{"color": "red", "width": 120}
	clone := base.Clone()

	clone["color"] = "blue"
	assert.Equal(t, "red", base["color"])

	assert.Nil(t, Style(nil).Clone())
}

func TestStyle_SizeOverrides(t *testing.T) {
	tests := []struct {
		name     string
		style    Style
		wantW    float64
		wantWOk  bool
		wantH    float64
		wantHOk  bool
	}{
		{
			name:    "no overrides",
			style:   Style{"color": "red"},
			wantWOk: false,
			wantHOk: false,
		},
		{
			name:    "float overrides",
			style:   Style{"width": 140.0, "height": 60.0},
			wantW:   140, wantWOk: true,
			wantH: 60, wantHOk: true,
		},
		{
			name:    "int overrides",
			style:   Style{"width": 140, "height": 60},
			wantW:   140, wantWOk: true,
			wantH: 60, wantHOk: true,
		},
		{
			name:    "non-numeric ignored",
			style:   Style{"width": "wide", "height": true},
			wantWOk: false,
			wantHOk: false,
		},
		{
			name:    "non-positive ignored",
			style:   Style{"width": 0.0, "height": -5},
			wantWOk: false,
			wantHOk: false,
		},
		{
			name:    "nil style",
			style:   nil,
			wantWOk: false,
			wantHOk: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, ok := tt.style.Width()
			assert.Equal(t, tt.wantWOk, ok)
			if ok {
				assert.Equal(t, tt.wantW, w)
			}

			h, ok := tt.style.Height()
			assert.Equal(t, tt.wantHOk, ok)
			if ok {
				assert.Equal(t, tt.wantH, h)
			}
		})
	}
}
