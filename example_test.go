package wayfinder_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/wayfinder"
	"github.com/aretw0/wayfinder/pkg/adapters/memory"
	"github.com/aretw0/wayfinder/pkg/domain"
)

// ExampleNew_memory shows the engine over an in-memory graph, without reading files.
func ExampleNew_memory() {
	g := domain.NewGraph("door", "start",
		[]domain.Node{
			{ID: "start", Kind: domain.KindQuestion, Text: "Ciao [Nome], la porta è aperta?"},
			{ID: "in", Kind: domain.KindResult, Title: "Entra pure"},
			{ID: "knock", Kind: domain.KindResult, Title: "Bussa"},
		},
		[]domain.Edge{
			{From: "start", To: "in", Label: "Sì", OptionKey: "yes"},
			{From: "start", To: "knock", Label: "No", OptionKey: "no"},
		},
	)

	ctx := context.Background()
	eng, err := wayfinder.New(ctx, "", wayfinder.WithGraphSource(memory.NewGraphs(g)))
	if err != nil {
		log.Fatal(err)
	}

	view, err := eng.Start(ctx, "s1", "door", "Luca")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(view.Prompt)

	view, err = eng.Select(ctx, "s1", "no")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(view.IsTerminal, view.Outcome.Title)

	view, err = eng.Back(ctx, "s1")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(view.CurrentNodeID, view.SelectedOption)

	// Output:
	// Ciao Luca, la porta è aperta?
	// true Bussa
	// start no
}
