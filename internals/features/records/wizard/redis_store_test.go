package wizard

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisSessionStore[testRecord], *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisSessionStore[testRecord](rdb, "uji", ttl), mr
}

func TestRedisSessionStore_RoundTripAndTTL(t *testing.T) {
	st, mr := newRedisStore(t, time.Hour)
	ctx := context.Background()

	_, err := st.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	s := &Session[testRecord]{ID: "s1", Entity: "uji", CurrentStep: 2, TotalSteps: 3, UpdatedAt: time.Now()}
	s.Values.Profil.Nama = "Siti"
	require.NoError(t, st.Create(ctx, s))
	assert.Equal(t, time.Hour, mr.TTL(st.key("s1")))

	got, err := st.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.CurrentStep)
	assert.Equal(t, "Siti", got.Values.Profil.Nama)

	// Put memperpanjang TTL
	mr.FastForward(40 * time.Minute)
	require.NoError(t, st.Put(ctx, got))
	mr.FastForward(40 * time.Minute)
	_, err = st.Get(ctx, "s1")
	require.NoError(t, err)

	mr.FastForward(61 * time.Minute)
	_, err = st.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisSessionStore_Delete(t *testing.T) {
	st, mr := newRedisStore(t, time.Hour)
	ctx := context.Background()
	require.NoError(t, st.Create(ctx, &Session[testRecord]{ID: "s1"}))

	require.NoError(t, st.Delete(ctx, "s1"))
	assert.False(t, mr.Exists(st.key("s1")))
	_, err := st.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisSessionStore_LockRespectsContext(t *testing.T) {
	st, _ := newRedisStore(t, 0)
	unlock, err := st.Lock(context.Background(), "s1")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Millisecond)
	defer cancel()
	_, err = st.Lock(ctx, "s1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	again, err := st.Lock(context.Background(), "s1")
	require.NoError(t, err)
	again()
}

func TestRedisSessionStore_UnlockChecksToken(t *testing.T) {
	st, mr := newRedisStore(t, 0)
	ctx := context.Background()
	lockKey := st.key("s1") + ":lock"

	stale, err := st.Lock(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, redisLockTTL, mr.TTL(lockKey))

	// lock pertama kedaluwarsa, pemilik baru mengambil alih
	mr.FastForward(redisLockTTL + time.Second)
	fresh, err := st.Lock(ctx, "s1")
	require.NoError(t, err)

	stale()
	assert.True(t, mr.Exists(lockKey), "unlock lama tidak boleh melepas lock pemilik baru")

	fresh()
	assert.False(t, mr.Exists(lockKey))
}

func TestRedisSessionStore_Sweep(t *testing.T) {
	st, mr := newRedisStore(t, 0)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, st.Put(ctx, &Session[testRecord]{ID: "lama", UpdatedAt: now.Add(-48 * time.Hour), Handles: []string{"h1"}}))
	require.NoError(t, st.Put(ctx, &Session[testRecord]{ID: "kirim", UpdatedAt: now.Add(-48 * time.Hour), Submitting: true}))
	require.NoError(t, st.Put(ctx, &Session[testRecord]{ID: "aktif", UpdatedAt: now}))
	unlock, err := st.Lock(ctx, "lama")
	require.NoError(t, err)
	defer unlock()

	// entitas lain tidak ikut disapu
	other := NewRedisSessionStore[testRecord](st.RDB, "lain", 0)
	require.NoError(t, other.Put(ctx, &Session[testRecord]{ID: "x", UpdatedAt: now.Add(-48 * time.Hour)}))

	stale, err := st.Sweep(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, "lama", stale[0].ID)
	assert.Equal(t, []string{"h1"}, stale[0].Handles)

	assert.False(t, mr.Exists(st.key("lama")))
	assert.True(t, mr.Exists(st.key("kirim")))
	assert.True(t, mr.Exists(st.key("aktif")))
	assert.True(t, mr.Exists(other.key("x")))
}

func TestNewSessionStore_PicksBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	_, isRedis := NewSessionStore[testRecord](rdb, "uji", time.Hour).(*RedisSessionStore[testRecord])
	assert.True(t, isRedis)
	_, isMem := NewSessionStore[testRecord](nil, "uji", time.Hour).(*MemorySessionStore[testRecord])
	assert.True(t, isMem)
}
