/*
Package wayfinder is a guided decision engine for branching questionnaires.

It walks users through a static decision tree (one question per screen, each
answer following an edge) until a result node is reached, and it runs linear
surveys whose questions appear or hide depending on earlier answers.

# Concept

The graph is data: nodes, edges and a start node, authored as YAML/JSON or as a
tree of Markdown files. A session is a small persisted state (current node,
answers, back-stack) that the engine moves with three operations: select an
option, go back, reset. Changing an earlier answer discards the answers that are
no longer on the path.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/wayfinder"
	)

	func main() {
		ctx := context.Background()

		// Empty path: use the bundled content.
		eng, err := wayfinder.New(ctx, "")
		if err != nil {
			log.Fatal(err)
		}

		view, err := eng.Start(ctx, "session-123", "permesso", "Luca")
		if err != nil {
			log.Fatal(err)
		}

		for !view.IsTerminal {
			fmt.Println(view.Prompt)
			// In a real app the option comes from the user.
			view, err = eng.Select(ctx, "session-123", view.Options[0].OptionKey)
			if err != nil {
				log.Fatal(err)
			}
		}
		fmt.Println("Outcome:", view.Outcome.Title)
	}
*/
package wayfinder
