package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	code := m.Run()
	SetOutput(os.Stderr)
	SetVerbose(false)
	os.Exit(code)
}

func TestDebug_VerboseOff(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Debug("hidden %d", 1)
	assert.Empty(t, buf.String())
}

func TestDebug_VerboseOn(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetVerbose(false)
	SetVerbose(true)

	Debug("shown %d", 2)
	assert.Equal(t, "[DEBUG] shown 2\n", buf.String())
}

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetVerbose(false)
	SetVerbose(true)

	Info("a")
	Warn("b")
	Section("c")

	out := buf.String()
	assert.Contains(t, out, "[INFO] a")
	assert.Contains(t, out, "[WARN] b")
	assert.Contains(t, out, "=== c ===")
}
