package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBasename(t *testing.T) {
	s := &ScreenShotDebugger{now: func() time.Time {
		return time.Date(2025, 6, 30, 14, 5, 9, 0, time.UTC)
	}}

	assert.Equal(t, "entry-12_2025-06-30_14-05-09", s.basename("entry-12"))
	assert.Equal(t, "a_b_2025-06-30_14-05-09", s.basename("a/b"))
}
