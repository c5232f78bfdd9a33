// lootfilter/pkg/runtime/engine.go

package runtime

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/sourcegraph/conc/iter"

	"rgehrsitz/lootfilter/pkg/compiler"
	"rgehrsitz/lootfilter/pkg/item"
	"rgehrsitz/lootfilter/pkg/logging"
	"rgehrsitz/lootfilter/pkg/rules"
	"rgehrsitz/lootfilter/pkg/store"
	"rgehrsitz/lootfilter/pkg/validator"
)

type EngineOptions struct {
	// MaxWorkers bounds the goroutines used by EvaluateAll. Zero means GOMAXPROCS.
	MaxWorkers int
	// AreaLevel is stamped on items that carry no area level of their own.
	AreaLevel int
	Store     store.Store
}

// Evaluation is the outcome of running the active rule set over one item.
type Evaluation struct {
	ItemID       string            `json:"itemId"`
	Applied      []int             `json:"applied"`
	Presentation item.Presentation `json:"presentation"`
}

func (ev Evaluation) Matched() bool { return len(ev.Applied) > 0 }

type Stats struct {
	Rules          int       `json:"rules"`
	ItemsEvaluated int64     `json:"itemsEvaluated"`
	ItemsShown     int64     `json:"itemsShown"`
	ItemsHidden    int64     `json:"itemsHidden"`
	ItemsUnmatched int64     `json:"itemsUnmatched"`
	RuleHits       []int64   `json:"ruleHits"`
	Reloads        int64     `json:"reloads"`
	LastUpdateTime time.Time `json:"lastUpdateTime"`
}

type Engine struct {
	opts EngineOptions

	mu          sync.RWMutex
	ruleSet     rules.RuleSet
	result      compiler.Result
	fingerprint uint64
	loaded      bool

	statsMu sync.Mutex
	stats   Stats
}

func NewEngine(opts EngineOptions) *Engine {
	return &Engine{opts: opts}
}

// NewEngineFromFile creates an engine backed by st and compiles the filter at path.
// Diagnostics in the filter do not fail the call; they are logged and kept in
// Result.
func NewEngineFromFile(path string, st store.Store, opts EngineOptions) (*Engine, error) {
	opts.Store = st
	e := NewEngine(opts)
	if _, _, err := e.LoadFile(path); err != nil {
		return nil, err
	}
	return e, nil
}

// Load compiles source and makes it the active rule set. Recompilation is
// skipped when the source is unchanged since the last load; the returned bool
// reports whether a new rule set was installed.
func (e *Engine) Load(source string) (compiler.Result, bool) {
	sum := xxhash.Sum64String(source)

	e.mu.RLock()
	if e.loaded && sum == e.fingerprint {
		res := e.result
		e.mu.RUnlock()
		return res, false
	}
	e.mu.RUnlock()

	res := compiler.ParseString(source)
	for _, d := range res.Errors {
		logging.LogError(logging.Logger, d.Err())
	}
	for _, d := range res.Warnings {
		logging.Logger.Warn().Int("line", d.Line+1).Msg(d.Message())
	}

	e.mu.Lock()
	e.ruleSet = res.RuleSet
	e.result = res
	e.fingerprint = sum
	e.loaded = true
	e.mu.Unlock()

	e.statsMu.Lock()
	e.stats.Reloads++
	e.stats.Rules = len(res.RuleSet)
	e.stats.RuleHits = make([]int64, len(res.RuleSet))
	e.statsMu.Unlock()

	logging.Logger.Info().
		Str("fingerprint", fmt.Sprintf("%016x", sum)).
		Int("rules", len(res.RuleSet)).
		Int("errors", len(res.Errors)).
		Msg("Loaded filter")
	return res, true
}

func (e *Engine) LoadFile(path string) (compiler.Result, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return compiler.Result{}, false, fmt.Errorf("reading filter file: %w", err)
	}
	res, changed := e.Load(string(data))
	return res, changed, nil
}

// RuleSet returns the active rule set.
func (e *Engine) RuleSet() rules.RuleSet {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.ruleSet
}

// Evaluate resets the item's presentation and applies the active rule set to it.
// Only the presentation is written; an item without an area level is matched
// against a copy carrying the configured one.
func (e *Engine) Evaluate(it *item.Item) Evaluation {
	rs := e.RuleSet()

	it.ResetPresentation()
	target := it
	if e.opts.AreaLevel > 0 && it.AreaLevel == 0 {
		stamped := *it
		stamped.AreaLevel = e.opts.AreaLevel
		target = &stamped
	}
	applied := rs.Apply(target)
	it.Presentation = target.Presentation

	e.record(len(rs), applied, it.Presentation.Visible)
	return Evaluation{ItemID: it.ID, Applied: applied, Presentation: it.Presentation}
}

// EvaluateAll evaluates items in parallel. Each item is handled by exactly one
// goroutine and results keep the input order.
func (e *Engine) EvaluateAll(items []*item.Item) []Evaluation {
	mapper := iter.Mapper[*item.Item, Evaluation]{MaxGoroutines: e.opts.MaxWorkers}
	evals := mapper.Map(items, func(it **item.Item) Evaluation {
		return e.Evaluate(*it)
	})
	logging.Logger.Debug().Int("items", len(items)).Msg("Evaluated batch")
	return evals
}

func (e *Engine) record(ruleCount int, applied []int, visible bool) {
	e.statsMu.Lock()
	defer e.statsMu.Unlock()

	e.stats.ItemsEvaluated++
	switch {
	case len(applied) == 0:
		e.stats.ItemsUnmatched++
	case visible:
		e.stats.ItemsShown++
	default:
		e.stats.ItemsHidden++
	}
	// A reload may have swapped the rule set after the snapshot was taken.
	if len(e.stats.RuleHits) == ruleCount {
		for _, idx := range applied {
			e.stats.RuleHits[idx]++
		}
	}
	e.stats.LastUpdateTime = time.Now()
}

// ProcessItemUpdate loads an item from the store, evaluates it, then writes the
// presentation back and announces it.
func (e *Engine) ProcessItemUpdate(ctx context.Context, id string) (Evaluation, error) {
	if e.opts.Store == nil {
		return Evaluation{}, logging.NewError(logging.ErrorTypeRuntime, "Engine has no store", nil, nil)
	}

	it, err := e.opts.Store.GetItem(ctx, id)
	if err != nil {
		return Evaluation{}, logging.NewError(logging.ErrorTypeStore, "Failed to load item", err,
			map[string]interface{}{"id": id})
	}
	if it == nil {
		return Evaluation{}, logging.NewError(logging.ErrorTypeStore, "Item not found", nil,
			map[string]interface{}{"id": id})
	}
	return e.processItem(ctx, it)
}

// ProcessAll re-evaluates every stored item whose ID matches pattern. Invalid
// items are logged and skipped.
func (e *Engine) ProcessAll(ctx context.Context, pattern string) (int, error) {
	if e.opts.Store == nil {
		return 0, logging.NewError(logging.ErrorTypeRuntime, "Engine has no store", nil, nil)
	}

	ids, err := e.opts.Store.ScanItems(ctx, pattern)
	if err != nil {
		return 0, logging.NewError(logging.ErrorTypeStore, "Failed to scan items", err, nil)
	}
	if len(ids) == 0 {
		return 0, nil
	}
	found, err := e.opts.Store.MGetItems(ctx, ids...)
	if err != nil {
		return 0, logging.NewError(logging.ErrorTypeStore, "Failed to load items", err, nil)
	}

	batch := make([]*item.Item, 0, len(found))
	for _, id := range ids {
		it := found[id]
		if it == nil {
			continue
		}
		if err := validator.ValidateItem(it); err != nil {
			logging.LogError(logging.Logger, err)
			continue
		}
		batch = append(batch, it)
	}

	for _, ev := range e.EvaluateAll(batch) {
		if err := e.publish(ctx, ev); err != nil {
			return 0, err
		}
	}
	logging.Logger.Info().Int("items", len(batch)).Int("skipped", len(ids)-len(batch)).Msg("Re-evaluated stored items")
	return len(batch), nil
}

func (e *Engine) processItem(ctx context.Context, it *item.Item) (Evaluation, error) {
	if err := validator.ValidateItem(it); err != nil {
		return Evaluation{}, err
	}
	ev := e.Evaluate(it)
	if err := e.publish(ctx, ev); err != nil {
		return Evaluation{}, err
	}
	logging.Logger.Debug().
		Str("id", it.ID).
		Str("item", it.DisplayName()).
		Ints("applied", ev.Applied).
		Bool("visible", ev.Presentation.Visible).
		Msg("Processed item")
	return ev, nil
}

func (e *Engine) publish(ctx context.Context, ev Evaluation) error {
	if err := e.opts.Store.SavePresentation(ctx, ev.ItemID, ev.Presentation); err != nil {
		return logging.NewError(logging.ErrorTypeStore, "Failed to save presentation", err,
			map[string]interface{}{"id": ev.ItemID})
	}
	if err := e.opts.Store.PublishPresentation(ctx, ev.ItemID); err != nil {
		return logging.NewError(logging.ErrorTypeStore, "Failed to publish presentation", err,
			map[string]interface{}{"id": ev.ItemID})
	}
	return nil
}

// GetStats returns a snapshot of the engine counters.
func (e *Engine) GetStats() Stats {
	e.statsMu.Lock()
	defer e.statsMu.Unlock()

	s := e.stats
	s.RuleHits = append([]int64(nil), e.stats.RuleHits...)
	return s
}
