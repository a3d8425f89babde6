package plugin_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/xraph/costify/id"
	"github.com/xraph/costify/ingredient"
	"github.com/xraph/costify/numeric"
	"github.com/xraph/costify/plugin"
	"github.com/xraph/costify/types"
	"github.com/xraph/costify/unit"
)

type recorder struct {
	name string

	mu     sync.Mutex
	events []string
}

func (r *recorder) Name() string { return r.name }

func (r *recorder) record(e string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func (r *recorder) OnInit(context.Context, any) error {
	r.record("init")
	return nil
}

func (r *recorder) OnIngredientRegistered(_ context.Context, ing *ingredient.Ingredient) error {
	r.record("registered:" + ing.Name())
	return nil
}

func (r *recorder) OnCostCalculationFailed(_ context.Context, recipeID id.RecipeID, err error) error {
	r.record("failed:" + recipeID.String())
	return errors.New("plugin error is logged, not returned")
}

type slowPlugin struct{}

func (slowPlugin) Name() string { return "slow" }

func (slowPlugin) OnShutdown(ctx context.Context) error {
	select {
	case <-time.After(time.Second):
	case <-ctx.Done():
	}
	return nil
}

func TestRegisterDuplicate(t *testing.T) {
	reg := plugin.NewRegistry()
	if err := reg.Register(&recorder{name: "a"}); err != nil {
		t.Fatal(err)
	}
	if err := reg.Register(&recorder{name: "a"}); err == nil {
		t.Error("expected duplicate registration error")
	}
	if reg.Count() != 1 {
		t.Errorf("Count: got %d", reg.Count())
	}
	if reg.Get("a") == nil || reg.Get("missing") != nil {
		t.Error("Get returned unexpected result")
	}
	if len(reg.List()) != 1 {
		t.Error("List should return registered plugins")
	}
}

func TestDispatchOnlyToImplementers(t *testing.T) {
	reg := plugin.NewRegistry()
	rec := &recorder{name: "rec"}
	if err := reg.Register(rec); err != nil {
		t.Fatal(err)
	}
	if err := reg.Register(slowPlugin{}); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	ing, err := ingredient.New(id.MustOf("flour"), "Flour", types.MustMoney(numeric.Default(), "1"), unit.Kilogram)
	if err != nil {
		t.Fatal(err)
	}

	reg.EmitInit(ctx, nil)
	reg.EmitIngredientRegistered(ctx, ing)
	reg.EmitCostCalculationFailed(ctx, id.MustOf("rcp-1"), errors.New("boom"))
	reg.EmitRecipeDeleted(ctx, id.MustOf("rcp-1"))

	want := []string{"init", "registered:Flour", "failed:rcp-1"}
	got := rec.Events()
	if len(got) != len(want) {
		t.Fatalf("events: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestHookTimeout(t *testing.T) {
	reg := plugin.NewRegistry().WithTimeout(20 * time.Millisecond)
	if err := reg.Register(slowPlugin{}); err != nil {
		t.Fatal(err)
	}

	start := time.Now()
	reg.EmitShutdown(context.Background())
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("EmitShutdown should give up after the timeout, took %s", elapsed)
	}
}
