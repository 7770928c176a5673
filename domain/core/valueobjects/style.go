package valueobjects

// Style is an opaque bag of visual attributes attached to nodes and
// relationships. The editor stores and merges it without interpreting
// the values, except for the box size keys the layout reads.
type Style map[string]interface{}

// Style keys the layout engine understands as box size overrides.
const (
	StyleKeyWidth  = "width"
	StyleKeyHeight = "height"
)

// NewStyle creates an empty style.
func NewStyle() Style {
	return Style{}
}

// Clone returns a copy of the style. Values are copied by reference;
// the merge discipline is shallow throughout.
func (s Style) Clone() Style {
	if s == nil {
		return nil
	}
	clone := make(Style, len(s))
	for k, v := range s {
		clone[k] = v
	}
	return clone
}

// Merge returns a new style with patch entries overwriting existing
// keys. Keys absent from the patch are preserved. The receiver is not
// modified.
func (s Style) Merge(patch Style) Style {
	merged := s.Clone()
	if merged == nil {
		merged = make(Style, len(patch))
	}
	for k, v := range patch {
		merged[k] = v
	}
	return merged
}

// Width returns the box width override, if the style carries a numeric one.
func (s Style) Width() (float64, bool) {
	return s.numeric(StyleKeyWidth)
}

// Height returns the box height override, if the style carries a numeric one.
func (s Style) Height() (float64, bool) {
	return s.numeric(StyleKeyHeight)
}

// numeric extracts a positive number under key. JSON decoding yields
// float64; int covers values set directly from Go code.
func (s Style) numeric(key string) (float64, bool) {
	v, ok := s[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		if n > 0 {
			return n, true
		}
	case int:
		if n > 0 {
			return float64(n), true
		}
	}
	return 0, false
}
