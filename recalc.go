package costify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/xraph/costify/id"
)

// RecalculateRecipesForIngredient refreshes the cached total cost of every
// recipe that uses the ingredient. It returns how many recipes were
// recalculated; failures for individual recipes are collected into a
// MultiError and do not stop the others.
func (e *Engine) RecalculateRecipesForIngredient(ctx context.Context, ingredientID id.IngredientID) (int, error) {
	start := time.Now()

	recipes, err := e.store.ListRecipesByIngredient(ctx, ingredientID)
	if err != nil {
		return 0, err
	}

	var errs MultiError
	count := 0
	for _, r := range recipes {
		if _, err := e.CalculateRecipeCost(ctx, r.ID()); err != nil {
			errs.Add(fmt.Errorf("recipe %s: %w", r.ID(), err))
			continue
		}
		count++
	}

	elapsed := time.Since(start)
	e.plugins.EmitRecipesRecalculated(ctx, ingredientID, count, elapsed)
	e.logger.Debug("recipes recalculated",
		"ingredient_id", ingredientID,
		"recipes", count,
		"failed", len(errs.Errors),
		"elapsed", elapsed,
	)

	return count, errs.ErrOrNil()
}

// scheduleRecalculation queues the ingredient for the background worker, or
// recalculates inline when async mode is off, the engine is stopped or the
// buffer is full.
func (e *Engine) scheduleRecalculation(ctx context.Context, ingredientID id.IngredientID) {
	if e.async && e.enqueueRecalculation(ingredientID) {
		return
	}

	if _, err := e.RecalculateRecipesForIngredient(ctx, ingredientID); err != nil {
		e.logger.Error("failed to recalculate recipes",
			"ingredient_id", ingredientID,
			"error", err,
		)
	}
}

// enqueueRecalculation hands the ingredient to the worker. It reports false
// once Stop has begun or the buffer is full.
func (e *Engine) enqueueRecalculation(ingredientID id.IngredientID) bool {
	e.stopMu.RLock()
	defer e.stopMu.RUnlock()

	if e.stopped {
		return false
	}
	select {
	case e.recalcBuffer <- ingredientID:
		return true
	default:
		e.logger.Warn("recalculation buffer full, recalculating inline",
			"ingredient_id", ingredientID,
		)
		return false
	}
}

// recalculationWorker collects changed ingredients and flushes them
// periodically or once the batch is full.
func (e *Engine) recalculationWorker(ctx context.Context) {
	defer e.wg.Done()

	pending := make(map[id.IngredientID]struct{}, e.recalcBatchSize)
	ticker := time.NewTicker(e.recalcFlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(pending) == 0 {
			return
		}
		for ingredientID := range pending {
			if _, err := e.RecalculateRecipesForIngredient(ctx, ingredientID); err != nil {
				e.logger.Error("failed to recalculate recipes",
					"ingredient_id", ingredientID,
					"error", err,
				)
			}
		}
		pending = make(map[id.IngredientID]struct{}, e.recalcBatchSize)
	}

	for {
		select {
		case <-e.stopChan:
		drain:
			for {
				select {
				case ingredientID := <-e.recalcBuffer:
					pending[ingredientID] = struct{}{}
				default:
					break drain
				}
			}
			flush()
			return

		case ingredientID := <-e.recalcBuffer:
			pending[ingredientID] = struct{}{}
			if len(pending) >= e.recalcBatchSize {
				flush()
			}

		case <-ticker.C:
			flush()
		}
	}
}

// keyedMutex hands out one mutex per key, dropping entries once no caller
// holds or waits on them.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

// Lock acquires the mutex for key and returns its release function.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*refMutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()

	return func() {
		m.Unlock()

		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
