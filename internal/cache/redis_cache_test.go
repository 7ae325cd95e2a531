package cache

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *CacheManager {
	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)

	cm := newCacheManager(server.Addr())
	require.True(t, cm.IsAvailable())
	return cm
}

func TestCacheManager_SetGetRoundtrip(t *testing.T) {
	cm := newTestCache(t)

	type payload struct {
		Name string `json:"name"`
		XP   int64  `json:"xp"`
	}

	require.NoError(t, cm.Set("profile:user-1", payload{Name: "Learner", XP: 30}, time.Minute))

	var got payload
	found, err := cm.Get("profile:user-1", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload{Name: "Learner", XP: 30}, got)
}

func TestCacheManager_GetMiss(t *testing.T) {
	cm := newTestCache(t)

	var got map[string]interface{}
	found, err := cm.Get("missing", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCacheManager_Increment(t *testing.T) {
	cm := newTestCache(t)

	count, err := cm.Increment("counter:xp", 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)

	count, err = cm.Increment("counter:xp", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(8), count)
}

func TestCacheManager_UpdateMessageInvalidates(t *testing.T) {
	cm := newTestCache(t)

	require.NoError(t, cm.Set("race:standings:active", map[string]string{"stale": "yes"}, time.Minute))
	require.NoError(t, cm.Set("profile:user-1", map[string]string{"stale": "yes"}, time.Minute))

	cm.handleUpdateMessage(`{"action":"xp_updated","user_id":"user-1","timestamp":1}`)

	var got map[string]string
	found, err := cm.Get("race:standings:active", &got)
	require.NoError(t, err)
	assert.False(t, found, "standings cache is dropped when XP changes")

	found, err = cm.Get("profile:user-1", &got)
	require.NoError(t, err)
	assert.False(t, found)
}
