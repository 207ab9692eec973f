package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimitHit(t *testing.T) {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	window := time.Minute

	t.Run("unset window starts at now", func(t *testing.T) {
		r := &RateLimit{}
		assert.True(t, r.Hit(start, window, 3))
		assert.Equal(t, 1, r.RequestCount)
		assert.Equal(t, start, r.WindowStart)
	})

	t.Run("counts up to the limit then denies", func(t *testing.T) {
		r := &RateLimit{}
		for i := 0; i < 3; i++ {
			assert.True(t, r.Hit(start.Add(time.Duration(i)*time.Second), window, 3))
		}
		assert.False(t, r.Hit(start.Add(10*time.Second), window, 3))
		assert.Equal(t, 3, r.RequestCount)
		assert.Equal(t, start, r.WindowStart)
	})

	t.Run("window boundary resets", func(t *testing.T) {
		r := &RateLimit{WindowStart: start, RequestCount: 3}
		assert.False(t, r.Hit(start.Add(window-time.Nanosecond), window, 3))
		assert.True(t, r.Hit(start.Add(window), window, 3))
		assert.Equal(t, 1, r.RequestCount)
		assert.Equal(t, start.Add(window), r.WindowStart)
	})

	t.Run("reset time", func(t *testing.T) {
		r := &RateLimit{WindowStart: start}
		assert.Equal(t, start.Add(window), r.ResetAt(window))
	})
}

func TestStringArrayColumn(t *testing.T) {
	v, err := StringArray{"food", "night market"}.Value()
	assert.NoError(t, err)
	assert.Equal(t, `["food","night market"]`, v)

	v, err = StringArray(nil).Value()
	assert.NoError(t, err)
	assert.Equal(t, "[]", v)

	var a StringArray
	assert.NoError(t, a.Scan([]byte(`["a","b"]`)))
	assert.Equal(t, StringArray{"a", "b"}, a)

	assert.NoError(t, a.Scan(nil))
	assert.Empty(t, a)

	assert.Error(t, a.Scan(42))
}
