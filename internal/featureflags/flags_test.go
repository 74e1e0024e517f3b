package featureflags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnabled_Boolean(t *testing.T) {
	m := NewManager("a=on,b=off,c=TRUE,d=false,e=1,f=0")

	for _, name := range []string{"a", "c", "e"} {
		assert.True(t, m.Enabled(name, 1), name)
	}
	for _, name := range []string{"b", "d", "f", "missing"} {
		assert.False(t, m.Enabled(name, 1), name)
	}
}

func TestEnabled_Rollout(t *testing.T) {
	m := NewManager("always=100%,never=0%,canary=25%,over=250%")

	assert.True(t, m.Enabled("always", 1))
	assert.True(t, m.Enabled("always", 0))
	assert.False(t, m.Enabled("never", 1))
	assert.True(t, m.Enabled("over", 7), "percentages clamp to 100")
	assert.False(t, m.Enabled("canary", 0), "anonymous callers are never in a partial rollout")

	first := m.Enabled("canary", 42)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, m.Enabled("CANARY", 42))
	}

	enabled := 0
	for id := uint(1); id <= 1000; id++ {
		if m.Enabled("canary", id) {
			enabled++
		}
	}
	assert.InDelta(t, 250, enabled, 100)
}

func TestParse(t *testing.T) {
	m := NewManager(" bad ,x=on, Y = 20% ,z=off,w=maybe,=on ")

	assert.Equal(t, []string{"x", "y", "z"}, m.Names())
	assert.Equal(t, map[string]string{"x": "on", "y": "20%", "z": "off"}, m.Rules())

	eval := m.Evaluate(123)
	assert.Len(t, eval, 3)
	assert.True(t, eval["x"])
	assert.False(t, eval["z"])
}

func TestNilManager(t *testing.T) {
	var m *Manager
	assert.False(t, m.Enabled(ProfileCache, 1))
	assert.Empty(t, m.Evaluate(1))
}
