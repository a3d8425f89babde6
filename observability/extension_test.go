package observability_test

import (
	"context"
	"sync"
	"testing"

	"github.com/xraph/costify"
	"github.com/xraph/costify/observability"
	"github.com/xraph/costify/store/memory"
)

type fakeFactory struct {
	mu         sync.Mutex
	counters   map[string]float64
	histograms map[string][]float64
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{
		counters:   make(map[string]float64),
		histograms: make(map[string][]float64),
	}
}

func (f *fakeFactory) Counter(name string) observability.Counter {
	return &fakeCounter{f: f, name: name}
}

func (f *fakeFactory) Histogram(name string) observability.Histogram {
	return &fakeHistogram{f: f, name: name}
}

func (f *fakeFactory) count(name string) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counters[name]
}

func (f *fakeFactory) observed(name string) []float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]float64(nil), f.histograms[name]...)
}

type fakeCounter struct {
	f    *fakeFactory
	name string
}

func (c *fakeCounter) Inc() { c.Add(1) }

func (c *fakeCounter) Add(v float64) {
	c.f.mu.Lock()
	defer c.f.mu.Unlock()
	c.f.counters[c.name] += v
}

type fakeHistogram struct {
	f    *fakeFactory
	name string
}

func (h *fakeHistogram) Observe(v float64) {
	h.f.mu.Lock()
	defer h.f.mu.Unlock()
	h.f.histograms[h.name] = append(h.f.histograms[h.name], v)
}

func TestMetricsExtension(t *testing.T) {
	factory := newFakeFactory()
	eng := costify.New(memory.New(), costify.WithPlugin(observability.NewMetricsExtension(factory)))
	ctx := context.Background()
	if err := eng.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = eng.Stop() }()

	flour, err := eng.RegisterIngredient(ctx, costify.RegisterIngredientInput{
		Name: "Flour", PricePerUnit: "2.50", Unit: "KILOGRAM",
	})
	if err != nil {
		t.Fatal(err)
	}
	butter, err := eng.RegisterIngredient(ctx, costify.RegisterIngredientInput{
		Name: "Butter", PricePerUnit: "0.008", Unit: "GRAM",
	})
	if err != nil {
		t.Fatal(err)
	}
	bread, err := eng.RegisterRecipe(ctx, costify.RegisterRecipeInput{
		Name: "Bread",
		Lines: []costify.LineInput{
			{IngredientID: flour.ID().String(), Quantity: "500", Unit: "GRAM"},
			{IngredientID: butter.ID().String(), Quantity: "2", Unit: "TBSP_BUTTER"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	name := "Bread Flour"
	if _, err := eng.UpdateIngredient(ctx, costify.UpdateIngredientInput{ID: flour.ID().String(), Name: &name}); err != nil {
		t.Fatal(err)
	}
	price := "3"
	if _, err := eng.UpdateIngredient(ctx, costify.UpdateIngredientInput{ID: flour.ID().String(), PricePerUnit: &price}); err != nil {
		t.Fatal(err)
	}
	if err := eng.DeleteRecipe(ctx, bread.ID()); err != nil {
		t.Fatal(err)
	}

	counters := []struct {
		name string
		want float64
	}{
		{"costify.ingredient.registered", 2},
		{"costify.ingredient.updated", 2},
		{"costify.ingredient.repriced", 1},
		{"costify.recipe.registered", 1},
		{"costify.recipe.deleted", 1},
		{"costify.cost.calculated", 2},
		{"costify.cost.failed", 0},
		{"costify.recalculation.recipes", 1},
	}
	for _, c := range counters {
		if got := factory.count(c.name); got != c.want {
			t.Errorf("%s = %v, want %v", c.name, got, c.want)
		}
	}

	if lines := factory.observed("costify.recipe.lines"); len(lines) != 1 || lines[0] != 2 {
		t.Errorf("recipe lines histogram: %v", lines)
	}
	// 500 g at 2.50/kg plus 28 g at 0.008/g, then again at 3/kg.
	totals := factory.observed("costify.cost.recipe_total")
	if len(totals) != 2 || totals[0] != 1.47 || totals[1] != 1.72 {
		t.Errorf("recipe total histogram: %v", totals)
	}
	if latency := factory.observed("costify.recalculation.latency_ms"); len(latency) != 1 {
		t.Errorf("latency histogram: %v", latency)
	}
}
