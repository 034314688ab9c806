package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestNewLevel(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, false).Debug("hidden")
	assert.Empty(t, buf.String())

	New(&buf, true).Debug("scanned filter", "filter", "B")
	out := buf.String()
	assert.Contains(t, out, "level=DEBUG")
	assert.Contains(t, out, "filter=B")
}

func TestSetup(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	l := Setup(true)
	assert.Same(t, l, slog.Default())
	assert.True(t, l.Enabled(t.Context(), slog.LevelDebug))
}

func TestStatusLines(t *testing.T) {
	prev := color.NoColor
	t.Cleanup(func() { color.NoColor = prev })
	DisableColor(true)

	var buf bytes.Buffer
	Wrote(&buf, "plots/lc.png")
	Warn(&buf, "skipping", errors.New("bad header"))
	Error(&buf, errors.New("needs image and noise planes"))

	assert.Equal(t,
		"✅ Wrote plots/lc.png\n⚠️  skipping: bad header\n❌ needs image and noise planes\n",
		buf.String())
}

func TestDisableColor(t *testing.T) {
	prev := color.NoColor
	t.Cleanup(func() { color.NoColor = prev })

	color.NoColor = false
	DisableColor(false)
	assert.False(t, color.NoColor)
	DisableColor(true)
	assert.True(t, color.NoColor)
	DisableColor(false)
	assert.True(t, color.NoColor, "stays off once disabled")
}
