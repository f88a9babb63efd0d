// Package configval converts loosely typed configuration values. TOML
// decoding yields int64, float64 and []any where callers set int and
// []string, so every getter accepts each of those forms.
package configval

// Lookup returns the raw value stored under key.
type Lookup func(key string) (any, bool)

// Getters provides the typed getters of driven.ConfigStore over a Lookup.
// Missing keys and mismatched types yield the zero value.
type Getters struct {
	lookup Lookup
}

// NewGetters returns getters reading through lookup.
func NewGetters(lookup Lookup) Getters {
	return Getters{lookup: lookup}
}

func (g Getters) get(key string) (any, bool) {
	if g.lookup == nil {
		return nil, false
	}
	return g.lookup(key)
}

// GetString retrieves a string configuration value.
func (g Getters) GetString(key string) string {
	v, _ := g.get(key)
	return String(v)
}

// GetInt retrieves an integer configuration value.
func (g Getters) GetInt(key string) int {
	v, _ := g.get(key)
	return Int(v)
}

// GetFloat retrieves a floating point configuration value.
func (g Getters) GetFloat(key string) float64 {
	v, _ := g.get(key)
	return Float(v)
}

// GetBool retrieves a boolean configuration value.
func (g Getters) GetBool(key string) bool {
	v, _ := g.get(key)
	return Bool(v)
}

// GetStringSlice retrieves a string slice configuration value.
func (g Getters) GetStringSlice(key string) []string {
	v, _ := g.get(key)
	return StringSlice(v)
}

// String returns v if it is a string.
func String(v any) string {
	s, _ := v.(string)
	return s
}

// Int converts integer and floating point values, truncating fractions.
func Int(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case float32:
		return int(n)
	default:
		return 0
	}
}

// Float converts floating point and integer values.
// "requests_per_second = 8" decodes as an integer.
func Float(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}

// Bool returns v if it is a bool. Strings such as "true" are not parsed.
func Bool(v any) bool {
	b, _ := v.(bool)
	return b
}

// StringSlice returns the string elements of a []string or []any.
func StringSlice(v any) []string {
	switch s := v.(type) {
	case []string:
		return s
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	default:
		return nil
	}
}
