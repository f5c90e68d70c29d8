package shunt_test

import (
	"context"
	"fmt"
	"log"

	"github.com/railyard/shunt"
	"github.com/railyard/shunt/examples/brewery"
	"github.com/railyard/shunt/pkg/adapters/memory"
	"github.com/railyard/shunt/pkg/recorder"
)

// Example demonstrates a full Railway-Oriented pipeline: each step's output
// feeds the next step through run memory, and the final value is resolved
// by type.
func Example() {
	wf := shunt.New("cider")

	run := wf.Activate(context.Background(), brewery.DefaultIngredients).
		Chain(brewery.Prepare).
		Chain(brewery.Ferment).
		Chain(brewery.Brew).
		Chain(brewery.BottleUp)

	bottles, err := shunt.Resolve[[]brewery.Bottle](run)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("bottled %d bottles\n", len(bottles))
	// Output: bottled 2 bottles
}

// ExampleRun_ShortCircuit shows the escape-hatch semantics: when the main
// pipeline has failed, a ShortCircuit step produces an alternate terminal
// value instead of the failure.
func ExampleRun_ShortCircuit() {
	wf := shunt.New("cider")

	run := wf.Activate(context.Background(), brewery.DefaultIngredients).
		Chain(brewery.Prepare).
		Chain(brewery.Brew). // fails: not fermented yet
		ShortCircuit(shunt.NamedStepFn("salvage", func(ctx context.Context, jug *brewery.Jug) (string, error) {
			return "sold as apple juice", nil
		}))

	msg, err := shunt.Resolve[string](run)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(msg)
	// Output: sold as apple juice
}

// Example_recorder shows wiring the effect-tracking collaborator: run
// metadata is assembled from lifecycle hooks and persisted to a store when
// the run resolves.
func Example_recorder() {
	store := memory.NewStore()
	rec := recorder.New(store)

	wf := shunt.New("cider", shunt.WithHooks(rec.Hooks()))
	run := wf.Activate(context.Background(), brewery.DefaultIngredients).
		Chain(brewery.Prepare).
		Chain(brewery.Ferment).
		Chain(brewery.Brew).
		Chain(brewery.BottleUp)

	if _, err := shunt.Resolve[[]brewery.Bottle](run); err != nil {
		log.Fatal(err)
	}

	record, err := store.Load(context.Background(), run.ID())
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("%s: %d steps, status %s\n", record.Workflow, len(record.Steps), record.Status)
	// Output: cider: 4 steps, status succeeded
}
