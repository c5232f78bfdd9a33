// lootfilter/pkg/runtime/engine_test.go

package runtime

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rgehrsitz/lootfilter/pkg/item"
	"rgehrsitz/lootfilter/pkg/logging"
	"rgehrsitz/lootfilter/pkg/store"
)

const testFilter = `
# currency first
Show
    Class Currency
    SetFontSize 45
    PlayAlertSound ShExalted 200

Show
    Rarity = Unique
    SetBorderColor 175 96 37
    Continue

Hide
    ItemLevel < 60
    Rarity Normal Magic

Show
    AreaLevel >= 80
    MinimapIcon 0 Red Star
`

func newItem(id, class string, ilvl int, rarity item.Rarity) *item.Item {
	it := &item.Item{
		ID:        id,
		Name:      class + " drop",
		ItemLevel: ilvl,
		DropLevel: 1,
		Rarity:    rarity,
		ItemClass: class,
		BaseType:  class,
		Width:     1,
		Height:    1,
	}
	it.ResetPresentation()
	return it
}

func setupStore(t *testing.T) (*miniredis.Miniredis, *store.RedisStore) {
	s := miniredis.RunT(t)
	st, err := store.NewRedisStore(s.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return s, st
}

func TestLoadFingerprint(t *testing.T) {
	e := NewEngine(EngineOptions{})

	res, changed := e.Load(testFilter)
	assert.True(t, changed)
	assert.True(t, res.OK(), res.ErrorMessages())
	assert.Len(t, e.RuleSet(), 4)

	_, changed = e.Load(testFilter)
	assert.False(t, changed, "unchanged source is not recompiled")

	_, changed = e.Load(testFilter + "\nHide\n")
	assert.True(t, changed)
	assert.Len(t, e.RuleSet(), 5)

	stats := e.GetStats()
	assert.Equal(t, int64(2), stats.Reloads)
	assert.Equal(t, 5, stats.Rules)
	assert.Len(t, stats.RuleHits, 5)
}

func TestLoadKeepsRulesDespiteErrors(t *testing.T) {
	e := NewEngine(EngineOptions{})
	res, changed := e.Load("Show\n    Bogus 1\n    ItemLevel > 10")
	assert.True(t, changed)
	assert.Len(t, res.Errors, 1)
	require.Len(t, e.RuleSet(), 1)
	assert.Len(t, e.RuleSet()[0].Filters, 1)
}

func TestEvaluate(t *testing.T) {
	e := NewEngine(EngineOptions{})
	e.Load(testFilter)

	tests := []struct {
		name    string
		item    *item.Item
		applied []int
		visible bool
	}{
		{"Currency", newItem("chaos", "Currency", 10, item.Normal), []int{0}, true},
		{"Unique continues", newItem("unique", "Rings", 30, item.Unique), []int{1}, true},
		{"Low magic hidden", newItem("magic", "Rings", 30, item.Magic), []int{2}, false},
		{"High rare unmatched", newItem("rare", "Rings", 70, item.Rare), nil, true},
		{"Quest item never hidden", newItem("quest", "Quest Items", 10, item.Normal), []int{2}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := e.Evaluate(tt.item)
			assert.Equal(t, tt.applied, ev.Applied)
			assert.Equal(t, tt.visible, ev.Presentation.Visible)
			assert.Equal(t, tt.item.ID, ev.ItemID)
		})
	}

	stats := e.GetStats()
	assert.Equal(t, int64(5), stats.ItemsEvaluated)
	assert.Equal(t, int64(3), stats.ItemsShown)
	assert.Equal(t, int64(1), stats.ItemsHidden)
	assert.Equal(t, int64(1), stats.ItemsUnmatched)
	assert.Equal(t, []int64{1, 1, 2, 0}, stats.RuleHits)
	assert.False(t, stats.LastUpdateTime.IsZero())
}

func TestEvaluateResetsPresentation(t *testing.T) {
	e := NewEngine(EngineOptions{})
	e.Load(testFilter)

	it := newItem("chaos", "Currency", 10, item.Normal)
	e.Evaluate(it)
	require.Equal(t, 45, it.Presentation.FontSize)

	e.Load("Show\n    Class Rings")
	ev := e.Evaluate(it)
	assert.Nil(t, ev.Applied)
	assert.Zero(t, it.Presentation.FontSize)
}

func TestEvaluateUsesConfiguredAreaLevel(t *testing.T) {
	e := NewEngine(EngineOptions{AreaLevel: 83})
	e.Load(testFilter)

	it := newItem("rare", "Rings", 70, item.Rare)
	ev := e.Evaluate(it)
	assert.Equal(t, []int{3}, ev.Applied)
	require.NotNil(t, ev.Presentation.MapIcon)
	assert.Equal(t, "Star", ev.Presentation.MapIcon.Shape)
	assert.Zero(t, it.AreaLevel, "item attributes are left untouched")
	require.NotNil(t, it.Presentation.MapIcon)
	assert.Equal(t, ev.Presentation, it.Presentation)

	own := newItem("own", "Rings", 70, item.Rare)
	own.AreaLevel = 20
	assert.Nil(t, e.Evaluate(own).Applied, "an item's own area level wins")
}

func TestEvaluateAllKeepsOrder(t *testing.T) {
	e := NewEngine(EngineOptions{MaxWorkers: 4})
	e.Load(testFilter)

	var items []*item.Item
	for i := 0; i < 100; i++ {
		if i%2 == 0 {
			items = append(items, newItem("c", "Currency", 10, item.Normal))
		} else {
			items = append(items, newItem("m", "Rings", 30, item.Magic))
		}
	}

	evals := e.EvaluateAll(items)
	require.Len(t, evals, 100)
	for i, ev := range evals {
		if i%2 == 0 {
			assert.Equal(t, []int{0}, ev.Applied)
		} else {
			assert.Equal(t, []int{2}, ev.Applied)
		}
	}
	assert.Equal(t, int64(100), e.GetStats().ItemsEvaluated)
}

func TestGetStatsReturnsCopy(t *testing.T) {
	e := NewEngine(EngineOptions{})
	e.Load(testFilter)
	stats := e.GetStats()
	stats.RuleHits[0] = 99
	assert.Equal(t, int64(0), e.GetStats().RuleHits[0])
}

func TestNewEngineFromFile(t *testing.T) {
	_, st := setupStore(t)
	path := filepath.Join(t.TempDir(), "loot.filter")
	require.NoError(t, os.WriteFile(path, []byte(testFilter), 0o644))

	e, err := NewEngineFromFile(path, st, EngineOptions{})
	require.NoError(t, err)
	assert.Len(t, e.RuleSet(), 4)

	_, changed, err := e.LoadFile(path)
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = NewEngineFromFile(filepath.Join(t.TempDir(), "missing"), st, EngineOptions{})
	assert.Error(t, err)
}

func TestProcessItemUpdate(t *testing.T) {
	_, st := setupStore(t)
	ctx := context.Background()
	e := NewEngine(EngineOptions{Store: st})
	e.Load(testFilter)

	pubsub, err := st.Subscribe(ctx, st.ResultChannel())
	require.NoError(t, err)
	defer pubsub.Close()

	id, err := st.SaveItem(ctx, newItem("", "Currency", 10, item.Normal))
	require.NoError(t, err)

	ev, err := e.ProcessItemUpdate(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, ev.Applied)

	p, err := st.GetPresentation(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 45, p.FontSize)
	require.NotNil(t, p.AlertSound)
	assert.Equal(t, "ShExalted", p.AlertSound.ID)

	select {
	case msg := <-pubsub.Channel():
		assert.Equal(t, id, msg.Payload)
	case <-time.After(2 * time.Second):
		t.Fatal("no presentation notification")
	}
}

func TestProcessItemUpdateErrors(t *testing.T) {
	_, st := setupStore(t)
	ctx := context.Background()

	_, err := NewEngine(EngineOptions{}).ProcessItemUpdate(ctx, "x")
	assert.True(t, logging.IsType(err, logging.ErrorTypeRuntime))

	e := NewEngine(EngineOptions{Store: st})
	e.Load(testFilter)

	_, err = e.ProcessItemUpdate(ctx, "missing")
	assert.True(t, logging.IsType(err, logging.ErrorTypeStore))

	bad := newItem("bad", "Currency", 0, item.Normal)
	_, err = st.SaveItem(ctx, bad)
	require.NoError(t, err)
	_, err = e.ProcessItemUpdate(ctx, "bad")
	assert.True(t, logging.IsType(err, logging.ErrorTypeValidation))

	p, err := st.GetPresentation(ctx, "bad")
	assert.NoError(t, err)
	assert.Nil(t, p, "invalid items get no presentation")
}

func TestProcessAll(t *testing.T) {
	_, st := setupStore(t)
	ctx := context.Background()
	e := NewEngine(EngineOptions{Store: st, MaxWorkers: 2})
	e.Load(testFilter)

	for _, it := range []*item.Item{
		newItem("a", "Currency", 10, item.Normal),
		newItem("b", "Rings", 30, item.Magic),
		newItem("c", "Rings", 0, item.Magic),
	} {
		_, err := st.SaveItem(ctx, it)
		require.NoError(t, err)
	}

	n, err := e.ProcessAll(ctx, "*")
	require.NoError(t, err)
	assert.Equal(t, 2, n, "the invalid item is skipped")

	b, err := st.GetPresentation(ctx, "b")
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.False(t, b.Visible)

	n, err = e.ProcessAll(ctx, "zzz*")
	assert.NoError(t, err)
	assert.Zero(t, n)
}
