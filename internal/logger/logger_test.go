package logger

import (
	"bytes"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// capture redirects output to a buffer for the duration of the test.
func capture(t *testing.T, verboseOn bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(verboseOn)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestSetVerbose(t *testing.T) {
	capture(t, false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestLevels_WhenVerbose(t *testing.T) {
	tests := []struct {
		name     string
		log      func()
		expected string
	}{
		{"debug", func() { Debug("executed operation %d", 3) }, "[DEBUG] executed operation 3\n"},
		{"info", func() { Info("loaded %s", "skirt.xml") }, "[INFO] loaded skirt.xml\n"},
		{"warn", func() { Warn("recompute stopped") }, "[WARN] recompute stopped\n"},
		{"section", func() { Section("Recompute") }, "\n=== Recompute ===\n"},
		{"error", func() { Error("bad %s", "file") }, "[ERROR] bad file\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := capture(t, true)
			tt.log()
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestLevels_WhenNotVerbose(t *testing.T) {
	buf := capture(t, false)

	Debug("hidden")
	Info("hidden")
	Warn("hidden")
	Section("hidden")
	assert.Zero(t, buf.Len())

	Error("shown")
	assert.Equal(t, "[ERROR] shown\n", buf.String())
}

func TestTimed(t *testing.T) {
	buf := capture(t, true)

	done := Timed("Recompute")
	done()

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "\n=== Recompute ===\n"))
	assert.Contains(t, out, "[DEBUG] Recompute took ")
}

func TestConcurrentAccess(t *testing.T) {
	capture(t, false)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			SetVerbose(true)
			Debug("concurrent %d", i)
			IsVerbose()
			SetVerbose(false)
		}()
	}
	wg.Wait()
}
