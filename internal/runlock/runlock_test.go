package runlock

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRedis records the calls the lock issues.
type fakeRedis struct {
	setnxOK    bool
	scriptCall int
	keys       []string
	args       []interface{}
}

func (f *fakeRedis) SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) *redis.BoolCmd {
	return redis.NewBoolResult(f.setnxOK, nil)
}

func (f *fakeRedis) Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	f.scriptCall++
	f.keys, f.args = keys, args
	return redis.NewCmdResult(int64(1), nil)
}

func (f *fakeRedis) EvalSha(ctx context.Context, sha1 string, keys []string, args ...interface{}) *redis.Cmd {
	return f.Eval(ctx, sha1, keys, args...)
}

func (f *fakeRedis) EvalRO(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	return f.Eval(ctx, script, keys, args...)
}

func (f *fakeRedis) EvalShaRO(ctx context.Context, sha1 string, keys []string, args ...interface{}) *redis.Cmd {
	return f.Eval(ctx, sha1, keys, args...)
}

func (f *fakeRedis) ScriptExists(ctx context.Context, hashes ...string) *redis.BoolSliceCmd {
	return redis.NewBoolSliceResult(make([]bool, len(hashes)), nil)
}

func (f *fakeRedis) ScriptLoad(ctx context.Context, script string) *redis.StringCmd {
	return redis.NewStringResult("", nil)
}

// Without a configured Redis the lock degrades to a no-op: migrations on a
// workstation must not require infrastructure.
func TestNilClientIsNoOp(t *testing.T) {
	l := New(nil, time.Minute)
	ctx := context.Background()

	assert.NoError(t, l.Acquire(ctx, "run-1"))
	assert.NoError(t, l.Acquire(ctx, "run-2"))
	assert.NoError(t, l.Release(ctx, "run-1"))
}

func TestDefaultTTL(t *testing.T) {
	l := New(nil, 0)
	assert.Equal(t, 2*time.Hour, l.ttl)
}

func TestAcquireHeldByAnotherRun(t *testing.T) {
	l := &Lock{client: &fakeRedis{setnxOK: false}, ttl: time.Minute}
	assert.ErrorIs(t, l.Acquire(context.Background(), "run-2"), ErrHeld)
}

// Release must be one scripted check-and-delete, never a GET followed by a
// DEL: between those two steps the TTL can expire and another run can take
// the lock, and the DEL would then drop that run's lock.
func TestReleaseIsOneAtomicScriptCall(t *testing.T) {
	f := &fakeRedis{setnxOK: true}
	l := &Lock{client: f, ttl: time.Minute}

	require.NoError(t, l.Acquire(context.Background(), "run-1"))
	require.NoError(t, l.Release(context.Background(), "run-1"))

	assert.Equal(t, 1, f.scriptCall)
	assert.Equal(t, []string{lockKey}, f.keys)
	assert.Equal(t, []interface{}{"run-1"}, f.args)
}
