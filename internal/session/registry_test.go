package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/thinkd/internal/thinking"
)

func thought(n int) map[string]any {
	return map[string]any{
		"text":           "step",
		"sequenceNumber": float64(n),
		"estimatedTotal": float64(10),
		"continuesNext":  true,
	}
}

func TestRegistry_GetOrCreate(t *testing.T) {
	r := NewRegistry(thinking.DefaultOptions(), zap.NewNop())

	sess := r.GetOrCreate("sess-1")
	require.NotNil(t, sess)
	assert.Equal(t, "sess-1", sess.ID)

	// Same id returns the same session, not a fresh store.
	_, err := sess.Process(thought(1))
	require.NoError(t, err)

	again := r.GetOrCreate("sess-1")
	assert.Same(t, sess, again)
	assert.Equal(t, 1, again.Summary().HistoryLength)
}

func TestRegistry_GeneratesID(t *testing.T) {
	r := NewRegistry(thinking.DefaultOptions(), zap.NewNop())

	a := r.GetOrCreate("")
	b := r.GetOrCreate("")

	assert.NotEmpty(t, a.ID)
	assert.NotEmpty(t, b.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_GetUnknown(t *testing.T) {
	r := NewRegistry(thinking.DefaultOptions(), zap.NewNop())

	_, err := r.Get("missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRegistry_Remove(t *testing.T) {
	r := NewRegistry(thinking.DefaultOptions(), zap.NewNop())
	r.GetOrCreate("sess-1")

	r.Remove("sess-1")

	_, err := r.Get("sess-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, 0, r.Len())

	// Removing twice is harmless.
	r.Remove("sess-1")
}

func TestRegistry_ListOrdered(t *testing.T) {
	r := NewRegistry(thinking.DefaultOptions(), zap.NewNop())
	r.GetOrCreate("a")
	r.GetOrCreate("b")
	r.GetOrCreate("c")

	list := r.List()
	require.Len(t, list, 3)
}

func TestSession_SerializesConcurrentCallers(t *testing.T) {
	r := NewRegistry(thinking.Options{
		MaxThoughtHistory: 100,
		EnableAutoCleanup: true,
	}, zap.NewNop())
	sess := r.GetOrCreate("shared")

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := 1; n <= 25; n++ {
				_, err := sess.Process(thought(n))
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	// 200 open records through a bound of 100 leaves exactly 100.
	assert.Equal(t, 100, sess.Summary().HistoryLength)
}

func TestSession_BranchPassthrough(t *testing.T) {
	r := NewRegistry(thinking.DefaultOptions(), zap.NewNop())
	sess := r.GetOrCreate("s")

	in := thought(1)
	in["branchId"] = "alt"
	_, err := sess.Process(in)
	require.NoError(t, err)

	assert.Len(t, sess.Branch("alt"), 1)
	assert.Empty(t, sess.Branch("unknown"))
	assert.Equal(t, []string{"alt"}, sess.BranchIDs())

	meta, ok := sess.BranchMeta("alt")
	require.True(t, ok)
	assert.Equal(t, 1, meta.Length)

	sess.Reset()
	assert.Empty(t, sess.BranchIDs())
}
