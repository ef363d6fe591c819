package wishlist

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/product"
	"github.com/your-org/storefront/internal/infrastructure/storage"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func testProduct(id int, price string) product.Product {
	return product.Product{
		ID:       id,
		Name:     "Product",
		Price:    decimal.RequireFromString(price),
		Image:    "https://img.example.com/p.jpg",
		Category: "women's clothing",
		Sizes:    []string{"S", "M", "L", "XL"},
	}
}

// MockStore is a testify mock of storage.Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if b := args.Get(0); b != nil {
		return b.([]byte), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) Set(ctx context.Context, key string, value []byte) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) OnWishlistEvent(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) types() []EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func closeEngine(t *testing.T, e *Engine) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, e.Close(ctx))
}

func savedIDs(t *testing.T, store storage.Store) []int {
	t.Helper()
	data, err := store.Get(context.Background(), DefaultKey)
	require.NoError(t, err)
	var entries []Entry
	require.NoError(t, json.Unmarshal(data, &entries))
	ids := make([]int, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ProductID)
	}
	return ids
}

func entryIDs(entries []Entry) []int {
	ids := make([]int, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ProductID)
	}
	return ids
}

// ---------------------------------------------------------------------------
// Membership
// ---------------------------------------------------------------------------

func TestAddEntry_Idempotent(t *testing.T) {
	e := NewEngine(context.Background(), nil)
	p := testProduct(1, "10.00")

	first, added := e.AddEntry(p)
	assert.True(t, added)
	assert.Equal(t, 1, first.ProductID)

	second, added := e.AddEntry(p)
	assert.False(t, added)
	assert.Equal(t, first.AddedAt, second.AddedAt)
	assert.Equal(t, 1, e.Count())
}

func TestAddEntry_SnapshotsProduct(t *testing.T) {
	e := NewEngine(context.Background(), nil)
	p := testProduct(1, "10.00")
	e.AddEntry(p)

	p.Name = "Renamed"
	p.Sizes[0] = "XXS"

	entry, ok := e.Entry(1)
	require.True(t, ok)
	assert.Equal(t, "Product", entry.Name)
	assert.Equal(t, "S", entry.Sizes[0])
}

func TestRemoveEntry(t *testing.T) {
	e := NewEngine(context.Background(), nil)
	e.AddEntry(testProduct(1, "10.00"))
	e.AddEntry(testProduct(2, "20.00"))

	removed, ok := e.RemoveEntry(1)
	assert.True(t, ok)
	assert.Equal(t, 1, removed.ProductID)
	assert.False(t, e.IsPresent(1))
	assert.True(t, e.IsPresent(2))

	_, ok = e.RemoveEntry(1)
	assert.False(t, ok, "removing an absent entry is a no-op")
	assert.Equal(t, 1, e.Count())
}

func TestToggle_EvenCountRestoresMembership(t *testing.T) {
	e := NewEngine(context.Background(), nil)
	p := testProduct(5, "12.50")

	for i := 1; i <= 6; i++ {
		present := e.Toggle(p)
		assert.Equal(t, i%2 == 1, present)
	}
	assert.False(t, e.IsPresent(5))

	e.AddEntry(p)
	e.Toggle(p)
	e.Toggle(p)
	assert.True(t, e.IsPresent(5))
}

func TestEntries_InsertionOrderAndCopies(t *testing.T) {
	e := NewEngine(context.Background(), nil)
	for _, id := range []int{3, 1, 2} {
		e.AddEntry(testProduct(id, "1.00"))
	}

	entries := e.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, []int{3, 1, 2}, []int{entries[0].ProductID, entries[1].ProductID, entries[2].ProductID})

	entries[0].Name = "mutated"
	entries[0].Sizes[0] = "mutated"
	again, _ := e.Entry(3)
	assert.Equal(t, "Product", again.Name)
	assert.Equal(t, "S", again.Sizes[0])
}

func TestClear(t *testing.T) {
	rec := &recorder{}
	e := NewEngine(context.Background(), nil, WithListener(rec))
	e.AddEntry(testProduct(1, "1.00"))
	e.AddEntry(testProduct(2, "1.00"))

	e.Clear()

	assert.Zero(t, e.Count())
	assert.Empty(t, e.Entries())
	assert.Equal(t, []EventType{EventEntryAdded, EventEntryAdded, EventCleared}, rec.types())
}

func TestSummary(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	clock := now.Add(-10 * 24 * time.Hour)
	e := NewEngine(context.Background(), nil, WithClock(func() time.Time { return clock }))

	e.AddEntry(testProduct(1, "10.00"))
	clock = now.Add(-time.Hour)
	e.AddEntry(testProduct(2, "20.00"))
	e.AddEntry(testProduct(3, "15.55"))
	clock = now

	summary := e.Summary()
	assert.Equal(t, 3, summary.TotalItems)
	assert.Equal(t, "45.55", summary.TotalValue.StringFixed(2))
	assert.Equal(t, "15.18", summary.AveragePrice.StringFixed(2))
	assert.Equal(t, 2, summary.RecentlyAdded)
}

func TestSummary_Empty(t *testing.T) {
	summary := NewEngine(context.Background(), nil).Summary()
	assert.Zero(t, summary.TotalItems)
	assert.True(t, summary.TotalValue.IsZero())
	assert.True(t, summary.AveragePrice.IsZero())
}

func TestMoveToCart(t *testing.T) {
	e := NewEngine(context.Background(), nil)
	c := cart.NewEngine()
	e.AddEntry(testProduct(4, "9.99"))

	result, ok := e.MoveToCart(4, "", 2, c)
	require.True(t, ok)
	assert.Equal(t, "S", result.Line.Size, "empty size falls back to the first size")
	assert.Equal(t, 2, result.Line.Quantity)
	assert.False(t, e.IsPresent(4))
	assert.Equal(t, "19.98", c.Total().StringFixed(2))

	_, ok = e.MoveToCart(4, "M", 1, c)
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())
}

func TestEvents(t *testing.T) {
	rec := &recorder{}
	e := NewEngine(context.Background(), nil, WithListener(rec))
	p := testProduct(1, "1.00")

	e.AddEntry(p)
	e.AddEntry(p)
	e.RemoveEntry(1)
	e.RemoveEntry(1)

	assert.Equal(t, []EventType{EventEntryAdded, EventEntryRemoved}, rec.types())
	assert.Equal(t, 1, rec.events[0].Count)
	assert.Equal(t, 0, rec.events[1].Count)
}

func TestConcurrentToggles(t *testing.T) {
	e := NewEngine(context.Background(), storage.NewMemoryStore())
	defer closeEngine(t, e)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				e.Toggle(testProduct(g*1000+i%10+1, "1.00"))
				e.IsPresent(g*1000 + 1)
				e.Summary()
			}
		}(g)
	}
	wg.Wait()

	// Each id is toggled ten times, so every id ends up absent.
	assert.Zero(t, e.Count())
}

func TestAddEntry_RejectsInvalidIDs(t *testing.T) {
	rec := &recorder{}
	e := NewEngine(context.Background(), nil, WithListener(rec))

	for _, id := range []int{0, -1} {
		_, added := e.AddEntry(testProduct(id, "1.00"))
		assert.False(t, added)
		assert.False(t, e.Toggle(testProduct(id, "1.00")))
		assert.False(t, e.IsPresent(id))
	}

	assert.Zero(t, e.Count())
	assert.Empty(t, rec.types())
}

func TestToggle_SameIDConcurrently(t *testing.T) {
	e := NewEngine(context.Background(), storage.NewMemoryStore())
	defer closeEngine(t, e)

	const goroutines, toggles = 8, 100
	var mu sync.Mutex
	added := 0

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < toggles; i++ {
				if e.Toggle(testProduct(1, "1.00")) {
					mu.Lock()
					added++
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	// Every toggle flips presence, so half of an even number of toggles add.
	assert.Equal(t, goroutines*toggles/2, added)
	assert.False(t, e.IsPresent(1))
	assert.Zero(t, e.Count())
}

// ---------------------------------------------------------------------------
// Persistence
// ---------------------------------------------------------------------------

func TestPersistence_RoundTrip(t *testing.T) {
	store := storage.NewMemoryStore()

	e := NewEngine(context.Background(), store)
	e.AddEntry(testProduct(1, "10.00"))
	e.AddEntry(testProduct(2, "20.00"))
	e.AddEntry(testProduct(3, "30.00"))
	e.RemoveEntry(2)
	closeEngine(t, e)

	restarted := NewEngine(context.Background(), store)
	defer closeEngine(t, restarted)

	ids := make([]int, 0)
	for _, entry := range restarted.Entries() {
		ids = append(ids, entry.ProductID)
	}
	sort.Ints(ids)
	assert.Equal(t, []int{1, 3}, ids)

	entry, ok := restarted.Entry(3)
	require.True(t, ok)
	assert.True(t, entry.Price.Equal(decimal.RequireFromString("30.00")))
}

func TestPersistence_RoundTripKeepsEveryAcceptedID(t *testing.T) {
	store := storage.NewMemoryStore()

	e := NewEngine(context.Background(), store)
	e.AddEntry(testProduct(0, "1.00"))
	e.AddEntry(testProduct(1, "1.00"))
	e.Toggle(testProduct(2, "2.00"))
	want := entryIDs(e.Entries())
	closeEngine(t, e)

	restarted := NewEngine(context.Background(), store)
	defer closeEngine(t, restarted)

	assert.Equal(t, []int{1, 2}, want)
	assert.Equal(t, want, entryIDs(restarted.Entries()))
	assert.True(t, restarted.IsPresent(1))
	assert.False(t, restarted.IsPresent(0))
}

func TestPersistence_FileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewFileStore(dir)
	require.NoError(t, err)

	e := NewEngine(context.Background(), store)
	e.Toggle(testProduct(8, "5.00"))
	e.Toggle(testProduct(9, "6.00"))
	closeEngine(t, e)

	reopened, err := storage.NewFileStore(dir)
	require.NoError(t, err)
	restarted := NewEngine(context.Background(), reopened)
	defer closeEngine(t, restarted)

	assert.True(t, restarted.IsPresent(8))
	assert.True(t, restarted.IsPresent(9))
}

func TestPersistence_ClearIsPersisted(t *testing.T) {
	store := storage.NewMemoryStore()
	e := NewEngine(context.Background(), store)
	e.AddEntry(testProduct(1, "1.00"))
	e.Clear()
	closeEngine(t, e)

	assert.Empty(t, savedIDs(t, store))
}

func TestPersistence_CustomKey(t *testing.T) {
	store := storage.NewMemoryStore()
	e := NewEngine(context.Background(), store, WithKey("saved-items"))
	e.AddEntry(testProduct(1, "1.00"))
	closeEngine(t, e)

	_, err := store.Get(context.Background(), DefaultKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = store.Get(context.Background(), "saved-items")
	assert.NoError(t, err)
}

func TestLoad_MalformedStartsEmpty(t *testing.T) {
	for name, payload := range map[string]string{
		"not json":     `{{{`,
		"wrong shape":  `{"id":1}`,
		"wrong fields": `[{"id":"one"}]`,
	} {
		t.Run(name, func(t *testing.T) {
			store := storage.NewMemoryStore()
			require.NoError(t, store.Set(context.Background(), DefaultKey, []byte(payload)))

			e := NewEngine(context.Background(), store)
			defer closeEngine(t, e)

			assert.Zero(t, e.Count())
			e.AddEntry(testProduct(1, "1.00"))
			assert.Equal(t, 1, e.Count())
		})
	}
}

func TestLoad_DropsInvalidAndDuplicateEntries(t *testing.T) {
	store := storage.NewMemoryStore()
	payload := `[
		{"id": 2, "name": "first", "price": "3.50"},
		{"id": 0, "name": "zero"},
		{"id": -4, "name": "negative"},
		{"id": 2, "name": "duplicate"},
		{"id": 7, "name": "no timestamp", "price": 1}
	]`
	require.NoError(t, store.Set(context.Background(), DefaultKey, []byte(payload)))

	rec := &recorder{}
	e := NewEngine(context.Background(), store, WithListener(rec))
	defer closeEngine(t, e)

	entries := e.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "first", entries[0].Name)
	assert.Equal(t, 7, entries[1].ProductID)
	assert.True(t, entries[1].AddedAt.IsZero())

	require.Len(t, rec.events, 1)
	assert.Equal(t, EventLoaded, rec.events[0].Type)
	assert.Equal(t, 2, rec.events[0].Count)
}

func TestLoad_StoreErrorStartsEmpty(t *testing.T) {
	store := new(MockStore)
	store.On("Get", mock.Anything, DefaultKey).Return(nil, errors.New("connection refused"))
	store.On("Set", mock.Anything, DefaultKey, mock.Anything).Return(nil)

	e := NewEngine(context.Background(), store)
	assert.Zero(t, e.Count())

	e.AddEntry(testProduct(1, "1.00"))
	closeEngine(t, e)

	store.AssertCalled(t, "Set", mock.Anything, DefaultKey, mock.Anything)
}

func TestPersistence_WriteFailureKeepsMemoryState(t *testing.T) {
	store := new(MockStore)
	store.On("Get", mock.Anything, DefaultKey).Return(nil, storage.ErrNotFound)
	store.On("Set", mock.Anything, DefaultKey, mock.Anything).Return(errors.New("disk full"))

	var mu sync.Mutex
	var failures int
	e := NewEngine(context.Background(), store, WithWriteObserver(func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			failures++
		}
	}))

	_, added := e.AddEntry(testProduct(1, "1.00"))
	assert.True(t, added)
	assert.True(t, e.IsPresent(1))
	closeEngine(t, e)

	mu.Lock()
	defer mu.Unlock()
	assert.GreaterOrEqual(t, failures, 1)
}

func TestClose_MutationsAfterCloseStayInMemory(t *testing.T) {
	store := storage.NewMemoryStore()
	e := NewEngine(context.Background(), store)
	e.AddEntry(testProduct(1, "1.00"))
	closeEngine(t, e)

	e.AddEntry(testProduct(2, "1.00"))
	assert.True(t, e.IsPresent(2))
	assert.Equal(t, []int{1}, savedIDs(t, store))

	assert.NoError(t, e.Close(context.Background()), "close is idempotent")
}

func TestClose_LatestSnapshotWins(t *testing.T) {
	store := storage.NewMemoryStore()
	e := NewEngine(context.Background(), store)
	for i := 1; i <= 50; i++ {
		e.AddEntry(testProduct(i, "1.00"))
	}
	for i := 1; i <= 25; i++ {
		e.RemoveEntry(i)
	}
	closeEngine(t, e)

	ids := savedIDs(t, store)
	require.Len(t, ids, 25)
	assert.Equal(t, 26, ids[0])
	assert.Equal(t, 50, ids[24])
}

func TestClose_WithoutStore(t *testing.T) {
	e := NewEngine(context.Background(), nil)
	assert.NoError(t, e.Close(context.Background()))
}
