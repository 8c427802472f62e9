package history

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/sourcing-assistant/constants"
	"github.com/joseph-ayodele/sourcing-assistant/internal/common"
	"github.com/joseph-ayodele/sourcing-assistant/internal/entity"
	"github.com/joseph-ayodele/sourcing-assistant/internal/repository"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func entry(id string, at time.Time) entity.HistoryEntry {
	return entity.HistoryEntry{
		ID:          id,
		ProductName: "product " + id,
		Proposal:    entity.Proposal{ProductName: entity.Text("product " + id)},
		CreatedAt:   at,
		Priority:    constants.PriorityMedium,
	}
}

func ids(entries []entity.HistoryEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestAppend_NewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewStore(repository.NewMemoryStore(), nil)

	require.NoError(t, s.Append(ctx, entry("t1", t0)))
	require.NoError(t, s.Append(ctx, entry("t2", t0.Add(time.Minute))))
	assert.Equal(t, []string{"t2", "t1"}, ids(s.List()))

	// An older entry appended later still sorts by timestamp.
	require.NoError(t, s.Append(ctx, entry("t0", t0.Add(-time.Minute))))
	assert.Equal(t, []string{"t2", "t1", "t0"}, ids(s.List()))
}

func TestAppend_TiesPutLatestAppendFirst(t *testing.T) {
	ctx := context.Background()
	s := NewStore(repository.NewMemoryStore(), nil)

	require.NoError(t, s.Append(ctx, entry("a", t0)))
	require.NoError(t, s.Append(ctx, entry("b", t0)))
	assert.Equal(t, []string{"b", "a"}, ids(s.List()))
}

func TestDelete_ClearsActive(t *testing.T) {
	ctx := context.Background()
	s := NewStore(repository.NewMemoryStore(), nil)
	require.NoError(t, s.Append(ctx, entry("t1", t0)))
	require.NoError(t, s.Append(ctx, entry("t2", t0.Add(time.Minute))))

	p, err := s.Select("t2")
	require.NoError(t, err)
	assert.Equal(t, "product t2", p.ProductName.String())

	require.NoError(t, s.Delete(ctx, "t2"))
	assert.Equal(t, []string{"t1"}, ids(s.List()))
	_, ok := s.Active()
	assert.False(t, ok)
}

func TestDelete_KeepsOtherActive(t *testing.T) {
	ctx := context.Background()
	s := NewStore(repository.NewMemoryStore(), nil)
	require.NoError(t, s.Append(ctx, entry("t1", t0)))
	require.NoError(t, s.Append(ctx, entry("t2", t0.Add(time.Minute))))

	_, err := s.Select("t1")
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, "t2"))

	active, ok := s.Active()
	require.True(t, ok)
	assert.Equal(t, "t1", active.ID)
}

func TestDeselect_KeepsEntries(t *testing.T) {
	ctx := context.Background()
	s := NewStore(repository.NewMemoryStore(), nil)
	require.NoError(t, s.Append(ctx, entry("t1", t0)))
	_, err := s.Select("t1")
	require.NoError(t, err)

	s.Deselect()

	_, ok := s.Active()
	assert.False(t, ok)
	assert.Equal(t, []string{"t1"}, ids(s.List()))
}

func TestSelectAndDelete_UnknownID(t *testing.T) {
	s := NewStore(repository.NewMemoryStore(), nil)

	_, err := s.Select("nope")
	assert.True(t, errors.Is(err, common.ErrNotFound))
	assert.True(t, errors.Is(s.Delete(context.Background(), "nope"), common.ErrNotFound))
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	state := repository.NewMemoryStore()
	s := NewStore(state, nil)
	require.NoError(t, s.Append(ctx, entry("t1", t0)))
	_, err := s.Select("t1")
	require.NoError(t, err)

	require.NoError(t, s.Clear(ctx))
	assert.Empty(t, s.List())
	_, ok := s.Active()
	assert.False(t, ok)

	raw, _, err := state.Get(ctx, constants.HistoryKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestPersistAndReload(t *testing.T) {
	ctx := context.Background()
	state := repository.NewMemoryStore()
	s := NewStore(state, nil)
	require.NoError(t, s.Append(ctx, entry("t1", t0)))
	require.NoError(t, s.Append(ctx, entry("t2", t0.Add(time.Hour))))

	reloaded := NewStore(state, nil)
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, []string{"t2", "t1"}, ids(reloaded.List()))
	assert.True(t, reloaded.List()[0].CreatedAt.Equal(t0.Add(time.Hour)))
}

func TestLoad_ReadsBrowserShapedPayload(t *testing.T) {
	ctx := context.Background()
	state := repository.NewMemoryStore()
	payload := `[{"id":"item-1700000000000","productName":"Headband",
		"proposal":{"productName":"Headband","ddpPriceTiers":[{"quantity":1000,"pricePerUnit":0.98}]},
		"createdAt":"2023-11-14T22:13:20.000Z","priority":"High"}]`
	require.NoError(t, state.Put(ctx, constants.HistoryKey, []byte(payload)))

	s := NewStore(state, nil)
	require.NoError(t, s.Load(ctx))
	list := s.List()
	require.Len(t, list, 1)
	assert.Equal(t, constants.PriorityHigh, list[0].Priority)
	assert.Equal(t, 1000, list[0].Proposal.DDPPriceTiers[0].Qty())
}

func TestLoad_CorruptResetsToEmpty(t *testing.T) {
	ctx := context.Background()
	state := repository.NewMemoryStore()
	require.NoError(t, state.Put(ctx, constants.HistoryKey, []byte(`[{"id":"item-1","createdAt":`)))

	s := NewStore(state, nil)
	err := s.Load(ctx)
	assert.True(t, errors.Is(err, common.ErrPersistence))
	assert.Empty(t, s.List())

	_, ok, err := state.Get(ctx, constants.HistoryKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewEntry_IDsAreUnique(t *testing.T) {
	ctx := context.Background()
	s := NewStore(repository.NewMemoryStore(), nil, WithClock(func() time.Time { return t0 }))

	first := s.NewEntry(entity.Proposal{ProductName: "A"}, constants.PriorityLow)
	require.NoError(t, s.Append(ctx, first))
	second := s.NewEntry(entity.Proposal{ProductName: "B"}, constants.PriorityLow)

	assert.Equal(t, "item-1740830400000", first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, "A", first.ProductName)

	raw, err := json.Marshal(first)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"createdAt":"2025-03-01T12:00:00Z"`)
}
