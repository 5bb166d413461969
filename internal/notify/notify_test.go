package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelRouting(t *testing.T) {
	n := New()

	var errs []string
	n.On(LevelError, func(note Notification) {
		errs = append(errs, note.Message)
	})

	n.Error("boom")
	n.Success("saved")
	n.Error("again")

	assert.Equal(t, []string{"boom", "again"}, errs)
}

func TestCatchAllSeesEveryLevel(t *testing.T) {
	n := New()

	var levels []Level
	n.OnAny(func(note Notification) {
		levels = append(levels, note.Level)
	})

	n.Success("a")
	n.Error("b")
	n.Info("c")
	n.Warning("d")

	assert.Equal(t, []Level{LevelSuccess, LevelError, LevelInfo, LevelWarning}, levels)
}

func TestPublishWithoutHandlers(t *testing.T) {
	n := New()

	// fire-and-forget: no handlers, no panic, no error
	n.Info("nobody is listening")
}
