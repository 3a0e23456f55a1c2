package debug

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger_DisabledDiscards(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	Init(false)
	t.Cleanup(func() { SetOutput(nil) })

	Debug("hidden", "k", 1)
	Error("hidden too")

	assert.False(t, Enabled())
	assert.Empty(t, buf.String())
}

func TestLogger_EnabledWritesToOutput(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	Init(true)
	t.Cleanup(func() {
		Init(false)
		SetOutput(nil)
	})

	Component("statement").Debug("prepared", "slots", 2)

	assert.True(t, Enabled())
	out := buf.String()
	assert.Contains(t, out, "level=DEBUG")
	assert.Contains(t, out, "component=statement")
	assert.Contains(t, out, "slots=2")
}
