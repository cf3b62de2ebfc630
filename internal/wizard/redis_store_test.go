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

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client, ttl), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, _ := newRedisStore(t, 30*time.Minute)

	sess := testSession()
	sess.SelectDoctor(sess.Doctors[0])
	require.NoError(t, sess.SelectDate("2026-09-11", testToday(), ict))
	sess.AvailableSlots = []string{"09:00", "09:30"}

	require.NoError(t, store.Save(context.Background(), sess))

	got, err := store.Load(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ClinicID, got.ClinicID)
	require.NotNil(t, got.SelectedDoctor)
	assert.Equal(t, "doc-1", got.SelectedDoctor.ID)
	assert.Equal(t, "2026-09-11", got.SelectedDate)
	assert.Equal(t, []string{"09:00", "09:30"}, got.AvailableSlots)
	assert.Equal(t, sess.SlotFetchSeq, got.SlotFetchSeq)
}

func TestRedisStoreUnknownID(t *testing.T) {
	store, _ := newRedisStore(t, 30*time.Minute)
	_, err := store.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisStoreTTLExpiry(t *testing.T) {
	store, mr := newRedisStore(t, 10*time.Minute)

	sess := testSession()
	require.NoError(t, store.Save(context.Background(), sess))

	mr.FastForward(11 * time.Minute)

	_, err := store.Load(context.Background(), sess.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisStoreDelete(t *testing.T) {
	store, _ := newRedisStore(t, 30*time.Minute)

	sess := testSession()
	require.NoError(t, store.Save(context.Background(), sess))
	require.NoError(t, store.Delete(context.Background(), sess.ID))

	_, err := store.Load(context.Background(), sess.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
