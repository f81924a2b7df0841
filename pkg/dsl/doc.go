/*
Package dsl provides a fluent builder for constructing decision graphs in Go.

It is an alternative to YAML artifacts for tests, fixtures and graphs generated
at runtime. Build validates the result with the same checks the loaders apply.

Example usage:

	g, err := dsl.New("door").
		Title("La porta").
		Add("start").
		Question("Ciao [Nome], la porta è aperta?").
		Option("yes", "Sì", "done").
		Option("no", "No", "knock").
		Add("knock").
		Info("Bussa prima di entrare.").
		Go("done").
		Add("done").
		Result("Fatto").
		Intro("Sei entrato.").
		Builder().
		Build()
*/
package dsl
