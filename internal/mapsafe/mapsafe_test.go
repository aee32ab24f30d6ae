package mapsafe

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	m := map[string]any{
		"name":    "board",
		"count":   json.Number("3"),
		"flag":    true,
		"netlist": map[string]any{"a": "n1"},
	}

	assert.Equal(t, "board", Get(m, "name", ""))
	assert.True(t, Get(m, "flag", false))
	assert.Equal(t, map[string]any{"a": "n1"}, Get[map[string]any](m, "netlist", nil))

	// Wrong type or missing key falls back to the default.
	assert.Equal(t, "fallback", Get(m, "count", "fallback"))
	assert.Equal(t, "fallback", Get(m, "missing", "fallback"))
	assert.Nil(t, Get[map[string]any](m, "name", nil))
	assert.Equal(t, "x", Get(nil, "name", "x"))
}

func TestLookup(t *testing.T) {
	m := map[string]any{"id": "T1", "n": json.Number("1")}

	id, ok := Lookup[string](m, "id")
	assert.True(t, ok)
	assert.Equal(t, "T1", id)

	_, ok = Lookup[string](m, "n")
	assert.False(t, ok)

	_, ok = Lookup[string](nil, "id")
	assert.False(t, ok)
}

func TestObjects(t *testing.T) {
	m := map[string]any{
		"components": []any{
			map[string]any{"id": "R1"},
			"junk",
			nil,
			map[string]any{"id": "C1"},
		},
		"scalar": "nope",
	}

	objs := Objects(m, "components")
	assert.Len(t, objs, 2)
	assert.Equal(t, "R1", objs[0]["id"])
	assert.Equal(t, "C1", objs[1]["id"])

	assert.Empty(t, Objects(m, "scalar"))
	assert.Empty(t, Objects(m, "missing"))
}
