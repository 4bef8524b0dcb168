package core_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/dreamlog/pkg/adapters/memory"
	"github.com/aretw0/dreamlog/pkg/codec"
	"github.com/aretw0/dreamlog/pkg/core"
)

// fakeClock returns base, then advances by step on every call.
type fakeClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func newFakeClock(step time.Duration) *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 24, 10, 0, 0, 0, time.UTC), step: step}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func setupService(t *testing.T, mutate ...func(*core.Config)) (*core.Service, *memory.Storage, *fakeClock) {
	t.Helper()
	storage := memory.NewStorage()
	clock := newFakeClock(time.Minute)
	cfg := core.Config{
		Storage: storage,
		Codec:   codec.JSON{},
		Clock:   clock.Now,
	}
	for _, m := range mutate {
		m(&cfg)
	}
	return core.NewService(cfg), storage, clock
}

func ptr[T any](v T) *T { return &v }

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("Stamps And Trims New Entry", func(t *testing.T) {
		svc, _, _ := setupService(t)

		d, err := svc.Create(ctx, core.Draft{
			Title:   "  Flying ",
			Content: "I flew over a city\n",
			Tags:    []string{"lucid"},
		})
		require.NoError(t, err)

		assert.NotEmpty(t, d.ID)
		assert.Equal(t, "Flying", d.Title)
		assert.Equal(t, "I flew over a city", d.Content)
		assert.Equal(t, []string{"lucid"}, d.Tags)
		assert.True(t, d.CreatedAt.Equal(d.UpdatedAt.Time))
	})

	t.Run("Rejects Blank Title", func(t *testing.T) {
		svc, storage, _ := setupService(t)

		_, err := svc.Create(ctx, core.Draft{Title: "", Content: "text"})
		assert.True(t, errors.Is(err, core.ErrValidation))

		_, written, _ := storage.Get(ctx, core.DefaultKey)
		assert.False(t, written, "nothing should be persisted")
	})

	t.Run("Rejects Whitespace Content", func(t *testing.T) {
		svc, _, _ := setupService(t)

		_, err := svc.Create(ctx, core.Draft{Title: "Title", Content: " \t\n"})
		assert.True(t, errors.Is(err, core.ErrValidation))
	})

	t.Run("Rejects Unknown Mood", func(t *testing.T) {
		svc, _, _ := setupService(t)

		_, err := svc.Create(ctx, core.Draft{Title: "T", Content: "C", Mood: "ecstatic"})
		assert.True(t, errors.Is(err, core.ErrValidation))
	})

	t.Run("Prepends To Collection", func(t *testing.T) {
		svc, _, _ := setupService(t)

		a, err := svc.Create(ctx, core.Draft{Title: "A", Content: "first"})
		require.NoError(t, err)
		b, err := svc.Create(ctx, core.Draft{Title: "B", Content: "second"})
		require.NoError(t, err)

		all, err := svc.List(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, b.ID, all[0].ID)
		assert.Equal(t, a.ID, all[1].ID)
	})

	t.Run("Generates Distinct Ids", func(t *testing.T) {
		svc, _, _ := setupService(t)

		seen := make(map[string]bool)
		for i := 0; i < 50; i++ {
			d, err := svc.Create(ctx, core.Draft{Title: fmt.Sprintf("Dream %d", i), Content: "c"})
			require.NoError(t, err)
			assert.False(t, seen[d.ID], "duplicate id %s", d.ID)
			seen[d.ID] = true
		}
	})

	t.Run("Redraws Colliding Ids", func(t *testing.T) {
		ids := []string{"same", "same", "other"}
		var n int
		svc, _, _ := setupService(t, func(c *core.Config) {
			c.NewID = func() string {
				id := ids[n%len(ids)]
				n++
				return id
			}
		})

		first, err := svc.Create(ctx, core.Draft{Title: "A", Content: "a"})
		require.NoError(t, err)
		second, err := svc.Create(ctx, core.Draft{Title: "B", Content: "b"})
		require.NoError(t, err)

		assert.Equal(t, "same", first.ID)
		assert.Equal(t, "other", second.ID)
	})

	t.Run("Gives Up On Constant Generator", func(t *testing.T) {
		svc, _, _ := setupService(t, func(c *core.Config) {
			c.NewID = func() string { return "fixed" }
		})

		_, err := svc.Create(ctx, core.Draft{Title: "A", Content: "a"})
		require.NoError(t, err)
		_, err = svc.Create(ctx, core.Draft{Title: "B", Content: "b"})
		assert.Error(t, err)
	})

	t.Run("Collapses Duplicate Tags", func(t *testing.T) {
		svc, _, _ := setupService(t)

		d, err := svc.Create(ctx, core.Draft{Title: "T", Content: "C", Tags: []string{"lucid", " epic", "lucid", ""}})
		require.NoError(t, err)
		assert.Equal(t, []string{"lucid", "epic"}, d.Tags)
	})
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setupService(t)

	created, err := svc.Create(ctx, core.Draft{
		Title:    "Ocean Dream",
		Content:  "Swimming in starlight",
		Tags:     []string{"fantastic", "healing"},
		Mood:     core.MoodHappy,
		Location: "Lisbon",
	})
	require.NoError(t, err)

	got, ok, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Ocean Dream", got.Title)
	assert.Equal(t, "Swimming in starlight", got.Content)
	assert.Equal(t, []string{"fantastic", "healing"}, got.Tags)
	assert.Equal(t, core.MoodHappy, got.Mood)
	assert.Equal(t, "Lisbon", got.Location)
	assert.True(t, got.CreatedAt.Equal(created.CreatedAt.Time))
	assert.True(t, got.UpdatedAt.Equal(created.UpdatedAt.Time))
}

func TestGet(t *testing.T) {
	svc, _, _ := setupService(t)

	_, ok, err := svc.Get(context.Background(), "missing")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("Preserves Identity And Advances UpdatedAt", func(t *testing.T) {
		svc, _, _ := setupService(t)
		created, err := svc.Create(ctx, core.Draft{Title: "Old", Content: "Body", Tags: []string{"lucid"}})
		require.NoError(t, err)

		updated, err := svc.Update(ctx, created.ID, core.Patch{Title: ptr("  New  ")})
		require.NoError(t, err)

		assert.Equal(t, created.ID, updated.ID)
		assert.True(t, updated.CreatedAt.Equal(created.CreatedAt.Time))
		assert.True(t, updated.UpdatedAt.After(created.UpdatedAt.Time))
		assert.Equal(t, "New", updated.Title)
		assert.Equal(t, "Body", updated.Content)
		assert.Equal(t, []string{"lucid"}, updated.Tags)

		stored, _, _ := svc.Get(ctx, created.ID)
		assert.Equal(t, "New", stored.Title)
	})

	t.Run("Never Moves UpdatedAt Backwards", func(t *testing.T) {
		svc, _, clock := setupService(t)
		created, err := svc.Create(ctx, core.Draft{Title: "T", Content: "C"})
		require.NoError(t, err)

		clock.Set(created.UpdatedAt.Add(-time.Hour))
		updated, err := svc.Update(ctx, created.ID, core.Patch{Content: ptr("Changed")})
		require.NoError(t, err)

		assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt.Time))
		assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt.Time))
	})

	t.Run("Missing Id Is NotFound", func(t *testing.T) {
		svc, storage, _ := setupService(t)
		_, err := svc.Create(ctx, core.Draft{Title: "T", Content: "C"})
		require.NoError(t, err)
		before, _, _ := storage.Get(ctx, core.DefaultKey)

		_, err = svc.Update(ctx, "missing-id", core.Patch{Title: ptr("x")})
		assert.True(t, errors.Is(err, core.ErrNotFound))

		after, _, _ := storage.Get(ctx, core.DefaultKey)
		assert.Equal(t, before, after)
	})

	t.Run("Rejects Blanking Fields", func(t *testing.T) {
		svc, _, _ := setupService(t)
		created, err := svc.Create(ctx, core.Draft{Title: "T", Content: "C"})
		require.NoError(t, err)

		_, err = svc.Update(ctx, created.ID, core.Patch{Content: ptr("   ")})
		assert.True(t, errors.Is(err, core.ErrValidation))

		stored, _, _ := svc.Get(ctx, created.ID)
		assert.Equal(t, "C", stored.Content)
	})

	t.Run("Replaces Tags And Flags", func(t *testing.T) {
		svc, _, _ := setupService(t)
		created, err := svc.Create(ctx, core.Draft{Title: "T", Content: "C", Tags: []string{"lucid"}})
		require.NoError(t, err)

		updated, err := svc.Update(ctx, created.ID, core.Patch{
			Tags:       &[]string{"nightmare", "nightmare"},
			Bookmarked: ptr(true),
			Mood:       ptr(core.MoodScary),
		})
		require.NoError(t, err)

		assert.Equal(t, []string{"nightmare"}, updated.Tags)
		assert.True(t, updated.Bookmarked)
		assert.Equal(t, core.MoodScary, updated.Mood)
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("Is Idempotent", func(t *testing.T) {
		svc, _, _ := setupService(t)
		a, _ := svc.Create(ctx, core.Draft{Title: "A", Content: "a"})
		b, _ := svc.Create(ctx, core.Draft{Title: "B", Content: "b"})

		require.NoError(t, svc.Delete(ctx, a.ID))
		once, _ := svc.List(ctx)
		require.NoError(t, svc.Delete(ctx, a.ID))
		twice, _ := svc.List(ctx)

		assert.Equal(t, once, twice)
		require.Len(t, twice, 1)
		assert.Equal(t, b.ID, twice[0].ID)
	})

	t.Run("Unknown Id Leaves Collection Untouched", func(t *testing.T) {
		svc, storage, _ := setupService(t)
		svc.Create(ctx, core.Draft{Title: "A", Content: "a"})
		before, _, _ := storage.Get(ctx, core.DefaultKey)

		assert.NoError(t, svc.Delete(ctx, "nope"))

		after, _, _ := storage.Get(ctx, core.DefaultKey)
		assert.Equal(t, before, after)
	})
}

func TestListFailOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("Missing Blob Is Empty", func(t *testing.T) {
		svc, _, _ := setupService(t)

		dreams, err := svc.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, dreams)
		assert.Empty(t, dreams)
	})

	t.Run("Corrupt Blob Reads As Empty", func(t *testing.T) {
		svc, storage, _ := setupService(t)
		require.NoError(t, storage.Set(ctx, core.DefaultKey, []byte("{ not json")))

		dreams, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, dreams)
	})

	t.Run("Strict Mode Surfaces Corruption", func(t *testing.T) {
		svc, storage, _ := setupService(t, func(c *core.Config) { c.Strict = true })
		require.NoError(t, storage.Set(ctx, core.DefaultKey, []byte("{ not json")))

		_, err := svc.List(ctx)
		assert.True(t, errors.Is(err, core.ErrCorrupt))

		_, err = svc.Create(ctx, core.Draft{Title: "T", Content: "C"})
		assert.True(t, errors.Is(err, core.ErrCorrupt), "writes must not clobber corrupt state")

		require.NoError(t, svc.Reset(ctx))
		dreams, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, dreams)
	})

	t.Run("Strict Mode Rejects Trailing Data", func(t *testing.T) {
		svc, storage, _ := setupService(t, func(c *core.Config) { c.Strict = true })
		blob := `[{"id":"a","title":"T","content":"C","tags":[],"createdAt":"2025-01-24T10:30:00.000Z","updatedAt":"2025-01-24T10:30:00.000Z"}] trailing junk`
		require.NoError(t, storage.Set(ctx, core.DefaultKey, []byte(blob)))

		_, err := svc.List(ctx)
		assert.True(t, errors.Is(err, core.ErrCorrupt))
	})

	t.Run("Trailing Data Reads As Empty", func(t *testing.T) {
		svc, storage, _ := setupService(t)
		blob := `[{"id":"a","title":"T","content":"C","tags":[],"createdAt":"2025-01-24T10:30:00.000Z","updatedAt":"2025-01-24T10:30:00.000Z"}] trailing junk`
		require.NoError(t, storage.Set(ctx, core.DefaultKey, []byte(blob)))

		dreams, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, dreams)
	})

	t.Run("Missing Tags Are Written As Empty Array", func(t *testing.T) {
		svc, storage, _ := setupService(t)
		blob := `[{"id":"a","title":"T","content":"C","createdAt":"2025-01-24T10:30:00.000Z","updatedAt":"2025-01-24T10:30:00.000Z"}]`
		require.NoError(t, storage.Set(ctx, core.DefaultKey, []byte(blob)))

		d, ok, err := svc.Get(ctx, "a")
		require.NoError(t, err)
		require.True(t, ok)
		assert.NotNil(t, d.Tags)

		_, err = svc.Update(ctx, "a", core.Patch{Title: ptr("New")})
		require.NoError(t, err)

		stored, _, _ := storage.Get(ctx, core.DefaultKey)
		assert.Contains(t, string(stored), `"tags":[]`)
		assert.NotContains(t, string(stored), `"tags":null`)
	})

	t.Run("Reads Blob Written Elsewhere", func(t *testing.T) {
		svc, storage, _ := setupService(t)
		blob := `[{"id":"a1b2c3","title":"Flying","content":"I was flying...","tags":["lucid"],"createdAt":"2025-01-24T10:30:00.000Z","updatedAt":"2025-01-24T10:30:00.000Z"}]`
		require.NoError(t, storage.Set(ctx, core.DefaultKey, []byte(blob)))

		d, ok, err := svc.Get(ctx, "a1b2c3")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "Flying", d.Title)
		assert.Equal(t, "2025-01-24T10:30:00.000Z", d.CreatedAt.String())
	})
}

func TestStorageErrors(t *testing.T) {
	ctx := context.Background()
	svc, storage, _ := setupService(t)
	created, err := svc.Create(ctx, core.Draft{Title: "T", Content: "C"})
	require.NoError(t, err)

	storage.FailWrites = errors.New("disk full")

	_, err = svc.Create(ctx, core.Draft{Title: "T2", Content: "C2"})
	assert.True(t, errors.Is(err, core.ErrStorage))

	_, err = svc.Update(ctx, created.ID, core.Patch{Title: ptr("x")})
	assert.True(t, errors.Is(err, core.ErrStorage))

	err = svc.Delete(ctx, created.ID)
	assert.True(t, errors.Is(err, core.ErrStorage))
	assert.ErrorContains(t, err, "disk full")
}

func TestReadOnly(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setupService(t, func(c *core.Config) { c.ReadOnly = true })

	_, err := svc.Create(ctx, core.Draft{Title: "T", Content: "C"})
	assert.True(t, errors.Is(err, core.ErrReadOnly))
	_, err = svc.Update(ctx, "x", core.Patch{})
	assert.True(t, errors.Is(err, core.ErrReadOnly))
	assert.True(t, errors.Is(svc.Delete(ctx, "x"), core.ErrReadOnly))
	assert.True(t, errors.Is(svc.Reset(ctx), core.ErrReadOnly))
}

type denyAll struct{}

func (denyAll) CheckTags(tags []string) error {
	if len(tags) > 0 {
		return errors.New("tags are disabled")
	}
	return nil
}

func TestTagPolicy(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setupService(t, func(c *core.Config) { c.TagPolicy = denyAll{} })

	_, err := svc.Create(ctx, core.Draft{Title: "T", Content: "C", Tags: []string{"x"}})
	assert.True(t, errors.Is(err, core.ErrValidation))

	d, err := svc.Create(ctx, core.Draft{Title: "T", Content: "C"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, d.ID, core.Patch{Tags: &[]string{"y"}})
	assert.True(t, errors.Is(err, core.ErrValidation))
}

func TestWatchUnsupported(t *testing.T) {
	svc, _, _ := setupService(t)

	_, err := svc.Watch(context.Background())
	assert.True(t, errors.Is(err, core.ErrNotSupported))
}

func TestConcurrentCreates(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setupService(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Create(ctx, core.Draft{Title: fmt.Sprintf("D%d", i), Content: "c"})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 20, "serialized mutations must not lose writes")
}

func TestState(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setupService(t)
	svc.Create(ctx, core.Draft{Title: "T", Content: "C"})

	state, ok := svc.State().(core.ServiceState)
	require.True(t, ok)
	assert.Equal(t, core.DefaultKey, state.Key)
	assert.Equal(t, "json", state.Codec)
	assert.Equal(t, "memory", state.StorageType)
	assert.Equal(t, 1, state.Writes)
	assert.NotNil(t, state.LastWrite)
	assert.Equal(t, "service", svc.ComponentType())
}
