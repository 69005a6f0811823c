package jsonschema

// Schema is a minimal JSON Schema representation used for export.
// Keep this struct small and extend incrementally.
type Schema struct {
	// Core
	Title       string `json:"title,omitempty"`
	Type        any    `json:"type,omitempty"` // string, or []string for nullable types
	Format      string `json:"format,omitempty"`
	Default     any    `json:"default,omitempty"`
	Enum        []any  `json:"enum,omitempty"`
	Description string `json:"description,omitempty"`

	// Numeric
	Minimum *float64 `json:"minimum,omitempty"`
	Maximum *float64 `json:"maximum,omitempty"`

	// Object
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties any                `json:"additionalProperties,omitempty"`
	// XOrder records column order, which plain JSON Schema objects lose.
	XOrder []string `json:"x-order,omitempty"`
}

// Nullable widens s.Type to also accept null.
func (s *Schema) Nullable() *Schema {
	switch t := s.Type.(type) {
	case string:
		if t != "" && t != "null" {
			s.Type = []string{t, "null"}
		}
	case []string:
		for _, x := range t {
			if x == "null" {
				return s
			}
		}
		s.Type = append(t, "null")
	}
	return s
}
