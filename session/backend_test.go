package session

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/techjourney/folio/models"
)

// exerciseBackend runs the contract every backend must satisfy.
func exerciseBackend(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()
	u := admin()

	ref, err := b.Save(ctx, "", State{User: &u, AccessToken: "tok"}, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, ref)

	st, err := b.Load(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, "tok", st.AccessToken)
	assert.Equal(t, "ada", st.User.Username)

	_, err = b.Load(ctx, "unknown")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryBackend(t *testing.T) {
	b := NewMemoryBackend(time.Minute)
	exerciseBackend(t, b)

	ref, err := b.Save(context.Background(), "", State{AccessToken: "x"}, time.Hour)
	require.NoError(t, err)
	require.NoError(t, b.Delete(context.Background(), ref))
	_, err = b.Load(context.Background(), ref)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rc.Close() })
	b := NewRedisBackend(rc)
	exerciseBackend(t, b)

	ref, err := b.Save(context.Background(), "", State{AccessToken: "x"}, time.Minute)
	require.NoError(t, err)
	assert.True(t, mr.Exists(redisKeyPrefix+ref))

	mr.FastForward(2 * time.Minute)
	_, err = b.Load(context.Background(), ref)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLBackend(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:sessions?mode=memory&cache=shared"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.WebSession{}))
	b := NewSQLBackend(db)
	exerciseBackend(t, b)

	ctx := context.Background()
	ref, err := b.Save(ctx, "", State{AccessToken: "v1"}, time.Hour)
	require.NoError(t, err)
	_, err = b.Save(ctx, ref, State{AccessToken: "v2"}, time.Hour)
	require.NoError(t, err)
	st, err := b.Load(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, "v2", st.AccessToken)

	b.now = func() time.Time { return time.Now().Add(3 * time.Hour) }
	_, err = b.Load(ctx, ref)
	assert.ErrorIs(t, err, ErrNotFound)
	n, err := b.Sweep(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestCookieBackend(t *testing.T) {
	b := NewCookieBackend("secret")
	exerciseBackend(t, b)

	ctx := context.Background()
	ref, err := b.Save(ctx, "", State{AccessToken: "tok"}, time.Hour)
	require.NoError(t, err)

	_, err = NewCookieBackend("other").Load(ctx, ref)
	assert.ErrorIs(t, err, ErrNotFound, "a different key must not open the cookie")

	tampered := []byte(ref)
	tampered[len(tampered)/2] ^= 1
	_, err = b.Load(ctx, string(tampered))
	assert.ErrorIs(t, err, ErrNotFound)

	b.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = b.Load(ctx, ref)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCookieBackendRevokesDeletedRefs(t *testing.T) {
	ctx := context.Background()
	b := NewCookieBackend("secret")

	ref, err := b.Save(ctx, "", State{AccessToken: "tok"}, time.Hour)
	require.NoError(t, err)
	require.NoError(t, b.Delete(ctx, ref))
	_, err = b.Load(ctx, ref)
	assert.ErrorIs(t, err, ErrNotFound, "a logged out cookie must not be accepted again")

	first, err := b.Save(ctx, "", State{AccessToken: "tok"}, time.Hour)
	require.NoError(t, err)
	second, err := b.Save(ctx, first, State{AccessToken: "tok2"}, time.Hour)
	require.NoError(t, err)
	_, err = b.Load(ctx, first)
	assert.ErrorIs(t, err, ErrNotFound)
	st, err := b.Load(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, "tok2", st.AccessToken)

	assert.NoError(t, b.Delete(ctx, "not-a-cookie"))
}

func TestCookieBackendRejectsOversizeState(t *testing.T) {
	u := admin()
	u.Bio = strings.Repeat("long biography ", 400)
	_, err := NewCookieBackend("secret").Save(context.Background(), "", State{User: &u, AccessToken: "tok"}, time.Hour)
	assert.ErrorIs(t, err, ErrStateTooLarge)
}
