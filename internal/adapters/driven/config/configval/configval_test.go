package configval

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConversions(t *testing.T) {
	tests := []struct {
		name      string
		value     any
		wantInt   int
		wantFloat float64
		wantStr   string
		wantBool  bool
	}{
		{"int", 42, 42, 42, "", false},
		{"int64 from toml", int64(7), 7, 7, "", false},
		{"float truncates", 3.9, 3, 3.9, "", false},
		{"float32", float32(0.5), 0, 0.5, "", false},
		{"string", "8", 0, 0, "8", false},
		{"bool", true, 0, 0, "", true},
		{"bool as string", "true", 0, 0, "true", false},
		{"nil", nil, 0, 0, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantInt, Int(tt.value))
			assert.InDelta(t, tt.wantFloat, Float(tt.value), 1e-6)
			assert.Equal(t, tt.wantStr, String(tt.value))
			assert.Equal(t, tt.wantBool, Bool(tt.value))
		})
	}
}

func TestStringSlice(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, StringSlice([]string{"a", "b"}))
	assert.Equal(t, []string{"a", "b"}, StringSlice([]any{"a", 1, "b"}))
	assert.Empty(t, StringSlice([]any{}))
	assert.Nil(t, StringSlice("a"))
	assert.Nil(t, StringSlice(nil))
}

func TestGetters(t *testing.T) {
	data := map[string]any{
		"loader.workers":                int64(4),
		"transport.requests_per_second": int64(8),
		"transport.user_agent":          "sceneload/test",
		"history.enabled":               true,
		"watch.paths":                   []any{"a.yaml"},
	}
	g := NewGetters(func(key string) (any, bool) {
		v, ok := data[key]
		return v, ok
	})

	assert.Equal(t, 4, g.GetInt("loader.workers"))
	assert.InDelta(t, 8.0, g.GetFloat("transport.requests_per_second"), 1e-9)
	assert.Equal(t, "sceneload/test", g.GetString("transport.user_agent"))
	assert.True(t, g.GetBool("history.enabled"))
	assert.Equal(t, []string{"a.yaml"}, g.GetStringSlice("watch.paths"))
	assert.Zero(t, g.GetInt("missing"))
}

func TestGetters_ZeroValue(t *testing.T) {
	var g Getters

	assert.Empty(t, g.GetString("any"))
	assert.Nil(t, g.GetStringSlice("any"))
}
