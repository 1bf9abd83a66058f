package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_levels(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, false)
	l.Debug().Msg("hidden detail")
	l.Info().Msg("shown")
	assert.NotContains(t, buf.String(), "hidden detail")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	l = New(&buf, true)
	l.Debug().Msg("visible detail")
	assert.Contains(t, buf.String(), "visible detail")
}

func TestNew_noColorForBuffers(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, false)
	l.Warn().Msg("plain")
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	l := Component(New(&buf, false), "graph")
	l.Info().Msg("expanding")
	assert.Contains(t, buf.String(), "component=graph")
}

func TestOperationStart(t *testing.T) {
	var buf bytes.Buffer
	done := OperationStart(New(&buf, true), "expand")
	done()
	assert.Contains(t, buf.String(), "operation started")
	assert.Contains(t, buf.String(), "operation completed")
	assert.Contains(t, buf.String(), "operation=expand")
}
