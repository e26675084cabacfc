package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGet(t *testing.T) {
	c := New(true, time.Minute)
	etag := c.Set("k", []byte("payload"))

	data, got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("payload"), data)
	assert.Equal(t, etag, got)

	_, _, ok = c.Get("missing")
	assert.False(t, ok)

	stats := c.Stats()
	assert.Equal(t, uint64(1), stats["hits"])
	assert.Equal(t, uint64(1), stats["misses"])
	assert.Equal(t, 1, stats["active_keys"])
}

func TestExpiry(t *testing.T) {
	c := New(true, time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set("k", []byte("x"))
	now = now.Add(2 * time.Minute)

	_, _, ok := c.Get("k")
	assert.False(t, ok)

	assert.Equal(t, 1, c.Evict())
	assert.Equal(t, 0, c.Stats()["total_keys"])
}

func TestDisabled(t *testing.T) {
	c := New(false, 0)
	etag := c.Set("k", []byte("x"))
	assert.Equal(t, ComputeETag([]byte("x")), etag)

	_, _, ok := c.Get("k")
	assert.False(t, ok)
	assert.False(t, c.Enabled())
	assert.Equal(t, int(DefaultTTL.Seconds()), c.Stats()["ttl_seconds"])
}

func TestKey(t *testing.T) {
	assert.Equal(t, Key([]byte("ab"), []byte("c")), Key([]byte("ab"), []byte("c")))
	assert.NotEqual(t, Key([]byte("ab"), []byte("c")), Key([]byte("a"), []byte("bc")))
	assert.NotEqual(t, Key([]byte("a"), nil), Key([]byte("a")))
	assert.Len(t, Key(), 64)
}

func TestCheckETagMatch(t *testing.T) {
	etag := ComputeETag([]byte("x"))
	tests := []struct {
		header string
		want   bool
	}{
		{"", false},
		{"*", true},
		{etag, true},
		{"W/" + etag, true},
		{`"other"`, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CheckETagMatch(tt.header, etag), tt.header)
	}
}
