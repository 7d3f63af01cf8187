package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/userhub/user-management/internal/infrastructure/session"
)

// fakeCmdable implements the three commands the store uses; anything else panics
// on the nil embedded interface.
type fakeCmdable struct {
	redis.Cmdable
	values map[string]string
	ttls   map[string]time.Duration
	err    error
}

func newFakeCmdable() *fakeCmdable {
	return &fakeCmdable{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeCmdable) Get(_ context.Context, key string) *redis.StringCmd {
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeCmdable) Set(_ context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	switch v := value.(type) {
	case []byte:
		f.values[key] = string(v)
	case string:
		f.values[key] = v
	}
	f.ttls[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeCmdable) Del(_ context.Context, keys ...string) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.values[k]; ok {
			delete(f.values, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestSessionStore_SaveLoadDelete(t *testing.T) {
	fake := newFakeCmdable()
	store := NewSessionStore(fake)
	ctx := context.Background()

	data := session.Data{UserID: 7, Username: "alice", Message: "hi"}
	require.NoError(t, store.Save(ctx, "abc", data, time.Hour))
	require.Equal(t, time.Hour, fake.ttls["sess:abc"])
	require.JSONEq(t, `{"userId":7,"username":"alice","message":"hi"}`, fake.values["sess:abc"])

	got, found, err := store.Load(ctx, "abc")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, data, got)

	require.NoError(t, store.Delete(ctx, "abc"))
	_, found, err = store.Load(ctx, "abc")
	require.NoError(t, err)
	require.False(t, found)
}

func TestSessionStore_LoadCorrupt(t *testing.T) {
	fake := newFakeCmdable()
	fake.values["sess:bad"] = "{not json"
	store := NewSessionStore(fake)

	_, _, err := store.Load(context.Background(), "bad")
	require.ErrorContains(t, err, "session decode")
}

func TestSessionStore_Errors(t *testing.T) {
	fake := newFakeCmdable()
	fake.err = errors.New("connection reset")
	store := NewSessionStore(fake)
	ctx := context.Background()

	_, _, err := store.Load(ctx, "abc")
	require.ErrorContains(t, err, "session load")
	require.ErrorContains(t, store.Save(ctx, "abc", session.Data{}, time.Minute), "session save")
	require.ErrorContains(t, store.Delete(ctx, "abc"), "session delete")
}
