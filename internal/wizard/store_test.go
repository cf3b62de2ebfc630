package wizard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	sess := testSession()

	require.NoError(t, store.Save(context.Background(), sess))

	got, err := store.Load(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ClinicID, got.ClinicID)
	assert.Equal(t, sess.Step, got.Step)

	// Load returns a copy; mutating it must not touch the stored session.
	got.Step = StepConfirm
	again, err := store.Load(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, StepSelectDoctor, again.Step)
}

func TestMemoryStoreUnknownID(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	_, err := store.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore(10 * time.Minute)
	base := time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return base }

	sess := testSession()
	require.NoError(t, store.Save(context.Background(), sess))

	store.now = func() time.Time { return base.Add(9 * time.Minute) }
	_, err := store.Load(context.Background(), sess.ID)
	require.NoError(t, err)

	store.now = func() time.Time { return base.Add(11 * time.Minute) }
	_, err = store.Load(context.Background(), sess.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	sess := testSession()
	require.NoError(t, store.Save(context.Background(), sess))

	require.NoError(t, store.Delete(context.Background(), sess.ID))
	_, err := store.Load(context.Background(), sess.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// Deleting twice is fine.
	require.NoError(t, store.Delete(context.Background(), sess.ID))
}
